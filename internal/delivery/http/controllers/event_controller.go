package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "eventhorizon/internal/delivery/http/helpers"
	"eventhorizon/internal/delivery/http/middleware"
	"eventhorizon/internal/domain"
)

// CreateEventRequest is the request body for POST /events
type CreateEventRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Date          string   `json:"date"`
	Time          string   `json:"time"`
	Category      string   `json:"category"`
	Interest      string   `json:"interest"`
	VenueName     string   `json:"venue_name"`
	VenueURL      string   `json:"venue_url"`
	VenueAddress  string   `json:"venue_address"`
	SpeakerEmails []string `json:"speaker_emails"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(c.Description) == "" {
		errs = append(errs, "description is required")
	}
	if strings.TrimSpace(c.Date) == "" {
		errs = append(errs, "date is required")
	}
	if strings.TrimSpace(c.Time) == "" {
		errs = append(errs, "time is required")
	}
	if strings.TrimSpace(c.Category) == "" {
		errs = append(errs, "category is required")
	}
	if strings.TrimSpace(c.Interest) == "" {
		errs = append(errs, "interest is required")
	}
	if strings.TrimSpace(c.VenueName) == "" {
		errs = append(errs, "venue_name is required")
	}
	return errs
}

// CreateEventResponse reports the committed event plus any speakers whose
// invitation could not be created or dispatched.
type CreateEventResponse struct {
	Event         *domain.Event `json:"event"`
	FailedInvites []string      `json:"failed_invites,omitempty"`
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}.
// Absent fields are left untouched.
type UpdateEventRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Date         *string `json:"date"`
	Time         *string `json:"time"`
	Category     *string `json:"category"`
	Interest     *string `json:"interest"`
	VenueName    *string `json:"venue_name"`
	VenueURL     *string `json:"venue_url"`
	VenueAddress *string `json:"venue_address"`
}

// InviteSpeakerRequest is the request body for POST /events/{eventID}/speakers
type InviteSpeakerRequest struct {
	SpeakerEmail string `json:"speaker_email"`
}

// Validate implements Validator.
func (i InviteSpeakerRequest) Validate() []string {
	if !emailRegexp.MatchString(strings.TrimSpace(strings.ToLower(i.SpeakerEmail))) {
		return []string{"speaker_email must be a valid email"}
	}
	return nil
}

type EventController struct {
	Logger      *slog.Logger
	Events      domain.EventService
	Invitations domain.InvitationService
	Attendees   domain.AttendeeService
}

func NewEventController(logger *slog.Logger, events domain.EventService, invitations domain.InvitationService, attendees domain.AttendeeService) *EventController {
	return &EventController{Logger: logger, Events: events, Invitations: invitations, Attendees: attendees}
}

// Create godoc
// @Summary Create an event
// @Description Creates an event in PENDING and invites the listed speakers. Speakers that could not be invited are reported in failed_invites without failing the request.
// @Tags events
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body CreateEventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains the event and failed_invites"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /events [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.UserEmailFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authentication")
		return
	}
	var req CreateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	event, failed, err := c.Events.CreateEvent(r.Context(), domain.CreateEventParams{
		Title:         req.Title,
		Description:   req.Description,
		Date:          req.Date,
		Time:          req.Time,
		Category:      req.Category,
		Interest:      req.Interest,
		CreatorEmail:  email,
		VenueName:     req.VenueName,
		VenueURL:      req.VenueURL,
		VenueAddress:  req.VenueAddress,
		SpeakerEmails: req.SpeakerEmails,
	})
	if err != nil {
		c.logIfInternal(r, err)
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, CreateEventResponse{Event: event, FailedInvites: failed})
}

// Get godoc
// @Summary Get an event
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the event"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [get]
func (c *EventController) Get(w http.ResponseWriter, r *http.Request) {
	event, err := c.Events.GetEvent(r.Context(), r.PathValue("eventID"))
	if err != nil {
		c.logIfInternal(r, err)
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// ListMine godoc
// @Summary List the caller's events
// @Tags events
// @Security BearerAuth
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the caller's events"
// @Router /events [get]
func (c *EventController) ListMine(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.UserEmailFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authentication")
		return
	}
	events, err := c.Events.ListEventsByCreator(r.Context(), email)
	if err != nil {
		c.logIfInternal(r, err)
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, events)
}

// Update godoc
// @Summary Update an event
// @Description Partial update: absent fields keep their stored values. Venue fields merge by venue_name. Creator only.
// @Tags events
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID"
// @Param body body UpdateEventRequest true "Fields to change"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [patch]
func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.UserEmailFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authentication")
		return
	}
	var req UpdateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	upd := domain.EventUpdate{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		Category:    req.Category,
		Interest:    req.Interest,
	}
	var venue *domain.VenueUpdate
	if req.VenueName != nil {
		venue = &domain.VenueUpdate{Name: *req.VenueName, URL: req.VenueURL, Address: req.VenueAddress}
	}
	event, err := c.Events.UpdateEvent(r.Context(), r.PathValue("eventID"), email, upd, venue)
	if err != nil {
		c.logIfInternal(r, err)
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// Cancel godoc
// @Summary Cancel an event
// @Description Moves the event to CANCELLED. Creator only; repeat cancels succeed.
// @Tags events
// @Security BearerAuth
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains {\"cancelled\": true}"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /events/{eventID}/cancel [post]
func (c *EventController) Cancel(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.UserEmailFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authentication")
		return
	}
	if err := c.Events.CancelEvent(r.Context(), r.PathValue("eventID"), email); err != nil {
		c.logIfInternal(r, err)
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]bool{"cancelled": true})
}

// InviteSpeaker godoc
// @Summary Invite a speaker to an event
// @Description Creates the invitation, then a notification and an email. notify_failed marks a best-effort side effect that did not go out.
// @Tags events
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID"
// @Param body body InviteSpeakerRequest true "Speaker email"
// @Success 201 {object} helpers.APIResponse "data contains the invitation and notify_failed"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /events/{eventID}/speakers [post]
func (c *EventController) InviteSpeaker(w http.ResponseWriter, r *http.Request) {
	var req InviteSpeakerRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	speakerEmail := strings.TrimSpace(strings.ToLower(req.SpeakerEmail))
	result, err := c.Invitations.InviteSpeaker(r.Context(), r.PathValue("eventID"), speakerEmail)
	if err != nil {
		c.logIfInternal(r, err)
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, result)
}

// RemoveSpeaker godoc
// @Summary Withdraw a speaker invitation
// @Description Removes the invitation edge. Creator only; removing an absent edge succeeds.
// @Tags events
// @Security BearerAuth
// @Produce json
// @Param eventID path string true "Event ID"
// @Param speakerEmail path string true "Speaker email"
// @Success 200 {object} helpers.APIResponse "data contains {\"removed\": true}"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /events/{eventID}/speakers/{speakerEmail} [delete]
func (c *EventController) RemoveSpeaker(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.UserEmailFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authentication")
		return
	}
	speakerEmail := strings.TrimSpace(strings.ToLower(r.PathValue("speakerEmail")))
	if err := c.Invitations.RemoveSpeaker(r.Context(), r.PathValue("eventID"), speakerEmail, email); err != nil {
		c.logIfInternal(r, err)
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]bool{"removed": true})
}

// ListAttendees godoc
// @Summary List attendees registered for an event
// @Tags events
// @Security BearerAuth
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the registered attendees"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/attendees [get]
func (c *EventController) ListAttendees(w http.ResponseWriter, r *http.Request) {
	attendees, err := c.Attendees.ListRegisteredAttendees(r.Context(), r.PathValue("eventID"))
	if err != nil {
		c.logIfInternal(r, err)
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, attendees)
}

func (c *EventController) logIfInternal(r *http.Request, err error) {
	if isKnownServiceError(err) {
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
}
