package api

import (
	"errors"
	"net/http"

	"timegrid/internal/domain/booking"
	reqdto "timegrid/internal/handler/dto/request"
	resdto "timegrid/internal/handler/dto/response"
	"timegrid/internal/pkg/timezone"
	"timegrid/internal/usecase/commands"
	"timegrid/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BookingHandler serves the public, unauthenticated visitor flow: event page,
// slot listing, and the session endpoints.
type BookingHandler struct {
	commands *commands.BookingCommands
	sessions *queries.SessionQueries
	events   *queries.EventQueries
	slots    *queries.SlotQueries
}

func NewBookingHandler(
	cmds *commands.BookingCommands,
	sessions *queries.SessionQueries,
	events *queries.EventQueries,
	slots *queries.SlotQueries,
) *BookingHandler {
	return &BookingHandler{
		commands: cmds,
		sessions: sessions,
		events:   events,
		slots:    slots,
	}
}

// @Summary Get public event
// @Description Get a bookable event's public descriptor by slug
// @Tags public
// @Produce json
// @Param slug path string true "Event slug"
// @Success 200 {object} queries.EventView
// @Failure 404 {object} map[string]string
// @Router /public/events/{slug} [get]
func (h *BookingHandler) GetEvent(c *gin.Context) {
	view, err := h.events.GetPublic(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary List slots
// @Description List bookable slots of an event for one date, in the viewer's timezone
// @Tags public
// @Produce json
// @Param slug path string true "Event slug"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param tz query string false "Viewer IANA timezone"
// @Success 200 {object} queries.SlotListView
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /public/events/{slug}/slots [get]
func (h *BookingHandler) ListSlots(c *gin.Context) {
	date, err := timezone.ParseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date must be in YYYY-MM-DD format"})
		return
	}

	view, err := h.slots.List(c.Request.Context(), c.Param("slug"), date, c.Query("tz"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Start session
// @Description Open a booking session for an event
// @Tags public
// @Produce json
// @Param slug path string true "Event slug"
// @Success 201 {object} resdto.SessionResponse
// @Failure 404 {object} map[string]string
// @Router /public/events/{slug}/sessions [post]
func (h *BookingHandler) StartSession(c *gin.Context) {
	s, err := h.commands.Start(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondSession(c, http.StatusCreated, s.ID(), nil)
}

// @Summary Get session
// @Description Resume a session: state, answers, and selection survive reloads
// @Tags public
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} queries.SessionView
// @Failure 404 {object} map[string]string
// @Router /public/sessions/{id} [get]
func (h *BookingHandler) GetSession(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	view, err := h.sessions.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Submit details
// @Description Record invitee fields and answers, advancing to slot selection when complete
// @Tags public
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body reqdto.SubmitDetailsRequest true "Invitee details"
// @Success 200 {object} resdto.SessionResponse
// @Failure 404 {object} map[string]string
// @Failure 422 {object} resdto.SessionResponse
// @Router /public/sessions/{id}/details [post]
func (h *BookingHandler) SubmitDetails(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req reqdto.SubmitDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	in, err := req.ToInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question ID format"})
		return
	}

	s, missing, err := h.commands.SubmitDetails(c.Request.Context(), id, in)
	if err != nil {
		if errors.Is(err, booking.ErrMissingRequiredAnswers) {
			h.respondSession(c, http.StatusUnprocessableEntity, s.ID(), missing)
			return
		}
		respondError(c, err)
		return
	}
	h.respondSession(c, http.StatusOK, s.ID(), nil)
}

// @Summary Select date
// @Description Pick the calendar date; a previously chosen time is cleared
// @Tags public
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body reqdto.SelectDateRequest true "Date"
// @Success 200 {object} resdto.SessionResponse
// @Failure 404 {object} map[string]string
// @Router /public/sessions/{id}/date [post]
func (h *BookingHandler) SelectDate(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req reqdto.SelectDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	date, err := timezone.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date must be in YYYY-MM-DD format"})
		return
	}

	s, err := h.commands.SelectDate(c.Request.Context(), id, date)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondSession(c, http.StatusOK, s.ID(), nil)
}

// @Summary Select slot
// @Description Pick a slot by start instant; re-validated against a fresh slot list
// @Tags public
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body reqdto.SelectSlotRequest true "Slot start"
// @Success 200 {object} resdto.SessionResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /public/sessions/{id}/slot [post]
func (h *BookingHandler) SelectSlot(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req reqdto.SelectSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	s, err := h.commands.SelectSlot(c.Request.Context(), id, req.Start)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondSession(c, http.StatusOK, s.ID(), nil)
}

// @Summary Step back
// @Description Return to the previous step without losing captured data
// @Tags public
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} resdto.SessionResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /public/sessions/{id}/back [post]
func (h *BookingHandler) Back(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	s, err := h.commands.Back(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondSession(c, http.StatusOK, s.ID(), nil)
}

// @Summary Confirm booking
// @Description Commit the selected slot; retries are idempotent
// @Tags public
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} resdto.ConfirmResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /public/sessions/{id}/confirm [post]
func (h *BookingHandler) Confirm(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	result, err := h.commands.Confirm(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.sessions.Get(c.Request.Context(), result.Session.ID())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.ConfirmResponse{
		BookingID: result.BookingID,
		Session:   *view,
	})
}

// @Summary Cancel session
// @Description Abandon the session from any non-terminal state
// @Tags public
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} resdto.SessionResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /public/sessions/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	s, err := h.commands.Cancel(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondSession(c, http.StatusOK, s.ID(), nil)
}

func (h *BookingHandler) sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID format"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *BookingHandler) respondSession(c *gin.Context, status int, id uuid.UUID, missing []uuid.UUID) {
	view, err := h.sessions.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, resdto.SessionResponse{
		SessionView:        *view,
		MissingQuestionIDs: missing,
	})
}
