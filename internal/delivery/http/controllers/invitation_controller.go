package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "eventhorizon/internal/delivery/http/helpers"
	"eventhorizon/internal/delivery/http/middleware"
	"eventhorizon/internal/domain"
)

// RespondRequest is the request body for POST /invitations/{invitationID}/respond
type RespondRequest struct {
	Status string `json:"status"`
}

// Validate implements Validator.
func (r RespondRequest) Validate() []string {
	switch domain.InvitationStatus(strings.ToUpper(strings.TrimSpace(r.Status))) {
	case domain.InvitationAccepted, domain.InvitationRejected:
		return nil
	}
	return []string{`status must be "ACCEPTED" or "REJECTED"`}
}

type InvitationController struct {
	Logger      *slog.Logger
	Invitations domain.InvitationService
}

func NewInvitationController(logger *slog.Logger, invitations domain.InvitationService) *InvitationController {
	return &InvitationController{Logger: logger, Invitations: invitations}
}

// ListMine godoc
// @Summary List the caller's invitations with their events
// @Tags invitations
// @Security BearerAuth
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains invitations bundled with events"
// @Router /invitations [get]
func (c *InvitationController) ListMine(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.UserEmailFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authentication")
		return
	}
	list, err := c.Invitations.ListBySpeaker(r.Context(), email)
	if err != nil {
		c.logIfInternal(r, err)
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, list)
}

// Respond godoc
// @Summary Respond to an invitation
// @Description Accept or reject a pending invitation. Only the invited speaker may respond. Acceptance activates the event; rejection removes the invitation and cancels the event only when none remain.
// @Tags invitations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param invitationID path string true "Invitation ID"
// @Param body body RespondRequest true "ACCEPTED or REJECTED"
// @Success 200 {object} helpers.APIResponse "data contains the resolved invitation"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /invitations/{invitationID}/respond [post]
func (c *InvitationController) Respond(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.UserEmailFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authentication")
		return
	}
	var req RespondRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	status := domain.InvitationStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	inv, err := c.Invitations.Respond(r.Context(), r.PathValue("invitationID"), email, status)
	if err != nil {
		c.logIfInternal(r, err)
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, inv)
}

// Accept handles the GET deep link from the invitation email.
// @Summary Accept an invitation via email link
// @Tags invitations
// @Produce json
// @Param invitationID path string true "Invitation ID"
// @Success 200 {object} helpers.APIResponse "data contains the accepted invitation"
// @Router /invitations/{invitationID}/accept [get]
func (c *InvitationController) Accept(w http.ResponseWriter, r *http.Request) {
	inv, err := c.Invitations.Respond(r.Context(), r.PathValue("invitationID"), "", domain.InvitationAccepted)
	if err != nil {
		c.logIfInternal(r, err)
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, inv)
}

// Reject handles the GET deep link from the invitation email.
// @Summary Reject an invitation via email link
// @Tags invitations
// @Produce json
// @Param invitationID path string true "Invitation ID"
// @Success 200 {object} helpers.APIResponse "data contains the rejected invitation"
// @Router /invitations/{invitationID}/reject [get]
func (c *InvitationController) Reject(w http.ResponseWriter, r *http.Request) {
	inv, err := c.Invitations.Respond(r.Context(), r.PathValue("invitationID"), "", domain.InvitationRejected)
	if err != nil {
		c.logIfInternal(r, err)
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, inv)
}

// MarkRead godoc
// @Summary Mark an invitation as read
// @Tags invitations
// @Security BearerAuth
// @Produce json
// @Param invitationID path string true "Invitation ID"
// @Success 200 {object} helpers.APIResponse "data contains {\"read\": true}"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /invitations/{invitationID}/read [post]
func (c *InvitationController) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := c.Invitations.MarkRead(r.Context(), r.PathValue("invitationID")); err != nil {
		c.logIfInternal(r, err)
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]bool{"read": true})
}

func (c *InvitationController) logIfInternal(r *http.Request, err error) {
	if isKnownServiceError(err) {
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
}
