package api

import (
	"net/http"

	reqdto "timegrid/internal/handler/dto/request"
	"timegrid/internal/handler/middleware"
	"timegrid/internal/usecase/commands"
	"timegrid/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EventHandler struct {
	commands *commands.EventCommands
	queries  *queries.EventQueries
}

func NewEventHandler(cmds *commands.EventCommands, qrys *queries.EventQueries) *EventHandler {
	return &EventHandler{commands: cmds, queries: qrys}
}

// @Summary Create event type
// @Description Create a bookable event bound to a ruleset
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateEventRequest true "Event request"
// @Success 201 {object} queries.EventView
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /events [post]
func (h *EventHandler) Create(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	evt, err := h.commands.Create(c.Request.Context(), actor, req.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, queries.NewEventView(evt))
}

// @Summary List event types
// @Description List the caller's bookable events
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {array} queries.EventView
// @Failure 401 {object} map[string]string
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	views, err := h.queries.ListByOwner(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// @Summary Get event type
// @Description Get one bookable event by id
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} queries.EventView
// @Failure 404 {object} map[string]string
// @Router /events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID format"})
		return
	}

	view, err := h.queries.Get(c.Request.Context(), actor.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
