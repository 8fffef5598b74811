package controllers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	h "eventhorizon/internal/delivery/http/helpers"
	"eventhorizon/internal/delivery/http/middleware"
	"eventhorizon/internal/domain"
)

// EventFeedbackRequest is the request body for POST /feedback/event
type EventFeedbackRequest struct {
	EventID string `json:"event_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Validate implements Validator.
func (f EventFeedbackRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(f.EventID) == "" {
		errs = append(errs, "event_id is required")
	}
	if !domain.ValidRating(f.Rating) {
		errs = append(errs, fmt.Sprintf("rating must be between %d and %d", domain.MinRating, domain.MaxRating))
	}
	return errs
}

// VenueFeedbackRequest is the request body for POST /feedback/venue
type VenueFeedbackRequest struct {
	VenueName string `json:"venue_name"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// Validate implements Validator.
func (f VenueFeedbackRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(f.VenueName) == "" {
		errs = append(errs, "venue_name is required")
	}
	if !domain.ValidRating(f.Rating) {
		errs = append(errs, fmt.Sprintf("rating must be between %d and %d", domain.MinRating, domain.MaxRating))
	}
	return errs
}

// SpeakerFeedbackRequest is the request body for POST /feedback/speaker
type SpeakerFeedbackRequest struct {
	SpeakerEmail string `json:"speaker_email"`
	EventID      string `json:"event_id"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
}

// Validate implements Validator.
func (f SpeakerFeedbackRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(f.SpeakerEmail) == "" {
		errs = append(errs, "speaker_email is required")
	}
	if strings.TrimSpace(f.EventID) == "" {
		errs = append(errs, "event_id is required")
	}
	if !domain.ValidRating(f.Rating) {
		errs = append(errs, fmt.Sprintf("rating must be between %d and %d", domain.MinRating, domain.MaxRating))
	}
	return errs
}

type FeedbackController struct {
	Logger   *slog.Logger
	Feedback domain.FeedbackService
}

func NewFeedbackController(logger *slog.Logger, feedback domain.FeedbackService) *FeedbackController {
	return &FeedbackController{Logger: logger, Feedback: feedback}
}

// SubmitEvent godoc
// @Summary Submit feedback for an event
// @Tags feedback
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body EventFeedbackRequest true "Feedback"
// @Success 201 {object} helpers.APIResponse "data contains the stored feedback"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /feedback/event [post]
func (c *FeedbackController) SubmitEvent(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.UserEmailFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authentication")
		return
	}
	var req EventFeedbackRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	fb, err := c.Feedback.SubmitEventFeedback(r.Context(), req.EventID, email, req.Rating, req.Comment)
	if err != nil {
		c.logIfInternal(r, err)
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, fb)
}

// SubmitVenue godoc
// @Summary Submit feedback for a venue
// @Tags feedback
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body VenueFeedbackRequest true "Feedback"
// @Success 201 {object} helpers.APIResponse "data contains the stored feedback"
// @Router /feedback/venue [post]
func (c *FeedbackController) SubmitVenue(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.UserEmailFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authentication")
		return
	}
	var req VenueFeedbackRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	fb, err := c.Feedback.SubmitVenueFeedback(r.Context(), req.VenueName, email, req.Rating, req.Comment)
	if err != nil {
		c.logIfInternal(r, err)
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, fb)
}

// SubmitSpeaker godoc
// @Summary Submit feedback for a speaker at an event
// @Description Accepted only when the speaker holds an invitation for the event.
// @Tags feedback
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body SpeakerFeedbackRequest true "Feedback"
// @Success 201 {object} helpers.APIResponse "data contains the stored feedback"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /feedback/speaker [post]
func (c *FeedbackController) SubmitSpeaker(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.UserEmailFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authentication")
		return
	}
	var req SpeakerFeedbackRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	speakerEmail := strings.TrimSpace(strings.ToLower(req.SpeakerEmail))
	fb, err := c.Feedback.SubmitSpeakerFeedback(r.Context(), speakerEmail, req.EventID, email, req.Rating, req.Comment)
	if err != nil {
		c.logIfInternal(r, err)
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, fb)
}

// EventFeedback godoc
// @Summary List feedback for an event (organizer view)
// @Description Returns feedback with attendee names. Restricted to the event's creator.
// @Tags feedback
// @Security BearerAuth
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains feedback with attendee names"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /events/{eventID}/feedback [get]
func (c *FeedbackController) EventFeedback(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.UserEmailFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authentication")
		return
	}
	details, err := c.Feedback.EventFeedbackForOrganizer(r.Context(), r.PathValue("eventID"), email)
	if err != nil {
		c.logIfInternal(r, err)
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, details)
}

// Mine godoc
// @Summary List feedback the caller has submitted
// @Tags feedback
// @Security BearerAuth
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the caller's event feedback"
// @Router /feedback/mine [get]
func (c *FeedbackController) Mine(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.UserEmailFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authentication")
		return
	}
	list, err := c.Feedback.ListMyFeedback(r.Context(), email)
	if err != nil {
		c.logIfInternal(r, err)
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, list)
}

func (c *FeedbackController) logIfInternal(r *http.Request, err error) {
	if isKnownServiceError(err) {
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
}
