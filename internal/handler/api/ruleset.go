package api

import (
	"net/http"
	"strconv"
	"time"

	reqdto "timegrid/internal/handler/dto/request"
	"timegrid/internal/handler/middleware"
	"timegrid/internal/usecase/commands"
	"timegrid/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RulesetHandler struct {
	commands *commands.RulesetCommands
	queries  *queries.RulesetQueries
}

func NewRulesetHandler(cmds *commands.RulesetCommands, qrys *queries.RulesetQueries) *RulesetHandler {
	return &RulesetHandler{commands: cmds, queries: qrys}
}

// @Summary Create ruleset
// @Description Create a weekly availability template with all days disabled
// @Tags rulesets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateRulesetRequest true "Ruleset request"
// @Success 201 {object} queries.RulesetView
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /rulesets [post]
func (h *RulesetHandler) Create(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.CreateRulesetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	rs, err := h.commands.Create(c.Request.Context(), actor, req.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, queries.NewRulesetView(rs))
}

// @Summary List rulesets
// @Description List the caller's availability templates
// @Tags rulesets
// @Produce json
// @Security BearerAuth
// @Success 200 {array} queries.RulesetView
// @Failure 401 {object} map[string]string
// @Router /rulesets [get]
func (h *RulesetHandler) List(c *gin.Context) {
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

// @Summary Get ruleset
// @Description Get one availability template by id
// @Tags rulesets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ruleset ID"
// @Success 200 {object} queries.RulesetView
// @Failure 404 {object} map[string]string
// @Router /rulesets/{id} [get]
func (h *RulesetHandler) Get(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ruleset ID format"})
		return
	}

	view, err := h.queries.Get(c.Request.Context(), actor.UserID, actor.Role, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Save ruleset
// @Description Replace the full editable state of a ruleset
// @Tags rulesets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ruleset ID"
// @Param request body reqdto.SaveRulesetRequest true "Full day rules"
// @Success 200 {object} queries.RulesetView
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /rulesets/{id} [put]
func (h *RulesetHandler) Save(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ruleset ID format"})
		return
	}

	var req reqdto.SaveRulesetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	snap, err := req.ToSnapshot()
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid day rules: " + err.Error()})
		return
	}

	rs, err := h.commands.Save(c.Request.Context(), actor, id, snap)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, queries.NewRulesetView(rs))
}

// @Summary Toggle day
// @Description Flip one weekday's enabled flag; enabling an empty day seeds 09:00-17:00
// @Tags rulesets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ruleset ID"
// @Param weekday path int true "Weekday (0=Sunday)"
// @Success 200 {object} queries.RulesetView
// @Failure 404 {object} map[string]string
// @Router /rulesets/{id}/days/{weekday}/toggle [post]
func (h *RulesetHandler) ToggleDay(c *gin.Context) {
	h.dayOp(c, func(actor commands.Actor, id uuid.UUID, weekday time.Weekday) (any, error) {
		rs, err := h.commands.ToggleDay(c.Request.Context(), actor, id, weekday)
		if err != nil {
			return nil, err
		}
		return queries.NewRulesetView(rs), nil
	})
}

// @Summary Add window
// @Description Append the default window to one weekday
// @Tags rulesets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ruleset ID"
// @Param weekday path int true "Weekday (0=Sunday)"
// @Success 200 {object} queries.RulesetView
// @Failure 404 {object} map[string]string
// @Router /rulesets/{id}/days/{weekday}/windows [post]
func (h *RulesetHandler) AddWindow(c *gin.Context) {
	h.dayOp(c, func(actor commands.Actor, id uuid.UUID, weekday time.Weekday) (any, error) {
		rs, err := h.commands.AddWindow(c.Request.Context(), actor, id, weekday)
		if err != nil {
			return nil, err
		}
		return queries.NewRulesetView(rs), nil
	})
}

// @Summary Update window
// @Description Replace one window's bounds and buffer
// @Tags rulesets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ruleset ID"
// @Param weekday path int true "Weekday (0=Sunday)"
// @Param windowId path string true "Window ID"
// @Param request body reqdto.UpdateWindowRequest true "Window bounds"
// @Success 200 {object} queries.RulesetView
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /rulesets/{id}/days/{weekday}/windows/{windowId} [put]
func (h *RulesetHandler) UpdateWindow(c *gin.Context) {
	windowID, err := uuid.Parse(c.Param("windowId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid window ID format"})
		return
	}

	var req reqdto.UpdateWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	in, err := req.ToInput()
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid wall-clock time"})
		return
	}

	h.dayOp(c, func(actor commands.Actor, id uuid.UUID, weekday time.Weekday) (any, error) {
		rs, err := h.commands.UpdateWindow(c.Request.Context(), actor, id, weekday, windowID, in)
		if err != nil {
			return nil, err
		}
		return queries.NewRulesetView(rs), nil
	})
}

// @Summary Remove window
// @Description Delete one window from a weekday
// @Tags rulesets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ruleset ID"
// @Param weekday path int true "Weekday (0=Sunday)"
// @Param windowId path string true "Window ID"
// @Success 200 {object} queries.RulesetView
// @Failure 404 {object} map[string]string
// @Router /rulesets/{id}/days/{weekday}/windows/{windowId} [delete]
func (h *RulesetHandler) RemoveWindow(c *gin.Context) {
	windowID, err := uuid.Parse(c.Param("windowId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid window ID format"})
		return
	}

	h.dayOp(c, func(actor commands.Actor, id uuid.UUID, weekday time.Weekday) (any, error) {
		rs, err := h.commands.RemoveWindow(c.Request.Context(), actor, id, weekday, windowID)
		if err != nil {
			return nil, err
		}
		return queries.NewRulesetView(rs), nil
	})
}

// @Summary Set ruleset active
// @Description Activate or deactivate a ruleset
// @Tags rulesets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ruleset ID"
// @Param request body reqdto.SetActiveRequest true "Active flag"
// @Success 200 {object} queries.RulesetView
// @Failure 404 {object} map[string]string
// @Router /rulesets/{id}/active [put]
func (h *RulesetHandler) SetActive(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ruleset ID format"})
		return
	}

	var req reqdto.SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	rs, err := h.commands.SetActive(c.Request.Context(), actor, id, *req.Active)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, queries.NewRulesetView(rs))
}

func (h *RulesetHandler) dayOp(c *gin.Context, op func(actor commands.Actor, id uuid.UUID, weekday time.Weekday) (any, error)) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ruleset ID format"})
		return
	}
	weekday, err := strconv.Atoi(c.Param("weekday"))
	if err != nil || weekday < 0 || weekday > 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Weekday must be between 0 and 6"})
		return
	}

	view, err := op(actor, id, time.Weekday(weekday))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
