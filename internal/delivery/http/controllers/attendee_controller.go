package controllers

import (
	"log/slog"
	"net/http"

	h "eventhorizon/internal/delivery/http/helpers"
	"eventhorizon/internal/delivery/http/middleware"
	"eventhorizon/internal/domain"
)

type AttendeeController struct {
	Logger    *slog.Logger
	Attendees domain.AttendeeService
}

func NewAttendeeController(logger *slog.Logger, attendees domain.AttendeeService) *AttendeeController {
	return &AttendeeController{Logger: logger, Attendees: attendees}
}

// Register godoc
// @Summary Register for an event
// @Tags attendees
// @Security BearerAuth
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 201 {object} helpers.APIResponse "data contains the registration"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /events/{eventID}/register [post]
func (c *AttendeeController) Register(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.UserEmailFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authentication")
		return
	}
	reg, err := c.Attendees.Register(r.Context(), r.PathValue("eventID"), email)
	if err != nil {
		c.logIfInternal(r, err)
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, reg)
}

// CancelRegistration godoc
// @Summary Cancel an event registration
// @Description Removes the registration; cancelling an absent registration also succeeds.
// @Tags attendees
// @Security BearerAuth
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains {\"cancelled\": true}"
// @Router /events/{eventID}/register [delete]
func (c *AttendeeController) CancelRegistration(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.UserEmailFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authentication")
		return
	}
	if err := c.Attendees.CancelRegistration(r.Context(), r.PathValue("eventID"), email); err != nil {
		c.logIfInternal(r, err)
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]bool{"cancelled": true})
}

// ListMyEvents godoc
// @Summary List events the caller registered for
// @Tags attendees
// @Security BearerAuth
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains registrations bundled with events"
// @Router /attendee/events [get]
func (c *AttendeeController) ListMyEvents(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.UserEmailFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authentication")
		return
	}
	list, err := c.Attendees.ListMyEvents(r.Context(), email)
	if err != nil {
		c.logIfInternal(r, err)
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, list)
}

func (c *AttendeeController) logIfInternal(r *http.Request, err error) {
	if isKnownServiceError(err) {
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
}
