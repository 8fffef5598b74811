package controllers

import (
	"log/slog"
	"net/http"

	h "eventhorizon/internal/delivery/http/helpers"
	"eventhorizon/internal/delivery/http/middleware"
	"eventhorizon/internal/domain"
)

// NotificationListResponse is the paginated notification list.
type NotificationListResponse struct {
	Notifications []*domain.Notification `json:"notifications"`
	Pagination    h.PaginationMeta       `json:"pagination"`
}

type NotificationController struct {
	Logger        *slog.Logger
	Notifications domain.NotificationService
}

func NewNotificationController(logger *slog.Logger, notifications domain.NotificationService) *NotificationController {
	return &NotificationController{Logger: logger, Notifications: notifications}
}

// List godoc
// @Summary List the caller's notifications
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains notifications and pagination"
// @Router /notifications [get]
func (c *NotificationController) List(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.UserEmailFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authentication")
		return
	}
	params := h.ParsePagination(r)
	notifications, total, err := c.Notifications.ListByRecipient(r.Context(), email, params)
	if err != nil {
		c.logIfInternal(r, err)
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, NotificationListResponse{
		Notifications: notifications,
		Pagination:    h.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// UnreadCount godoc
// @Summary Count the caller's unread notifications
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains {\"unread\": n}"
// @Router /notifications/unread-count [get]
func (c *NotificationController) UnreadCount(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.UserEmailFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authentication")
		return
	}
	count, err := c.Notifications.UnreadCount(r.Context(), email)
	if err != nil {
		c.logIfInternal(r, err)
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]int{"unread": count})
}

// MarkRead godoc
// @Summary Mark a notification as read
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Param notificationID path string true "Notification ID"
// @Success 200 {object} helpers.APIResponse "data contains {\"read\": true}"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /notifications/{notificationID}/read [post]
func (c *NotificationController) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := c.Notifications.MarkRead(r.Context(), r.PathValue("notificationID")); err != nil {
		c.logIfInternal(r, err)
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]bool{"read": true})
}

func (c *NotificationController) logIfInternal(r *http.Request, err error) {
	if isKnownServiceError(err) {
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
}
