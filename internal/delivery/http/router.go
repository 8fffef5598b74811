package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventhorizon/internal/delivery/http/controllers"
	"eventhorizon/internal/delivery/http/middleware"
	"eventhorizon/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(
	verifier domain.TokenVerifier,
	logger *slog.Logger,
	auth *controllers.AuthController,
	events *controllers.EventController,
	invitations *controllers.InvitationController,
	attendees *controllers.AttendeeController,
	feedback *controllers.FeedbackController,
	notifications *controllers.NotificationController,
) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", auth.SignUp)
	mux.HandleFunc("POST /auth/login", auth.Login)
	mux.HandleFunc("POST /auth/password-reset/initiate", auth.InitiateReset)
	mux.HandleFunc("POST /auth/password-reset/verify", auth.VerifyResetCode)
	mux.HandleFunc("POST /auth/password-reset/update", auth.UpdatePassword)

	// Events
	mux.HandleFunc("POST /events", requireAuth(events.Create))
	mux.HandleFunc("GET /events", requireAuth(events.ListMine))
	mux.HandleFunc("GET /events/{eventID}", events.Get)
	mux.HandleFunc("PATCH /events/{eventID}", requireAuth(events.Update))
	mux.HandleFunc("POST /events/{eventID}/cancel", requireAuth(events.Cancel))
	mux.HandleFunc("POST /events/{eventID}/speakers", requireAuth(events.InviteSpeaker))
	mux.HandleFunc("DELETE /events/{eventID}/speakers/{speakerEmail}", requireAuth(events.RemoveSpeaker))
	mux.HandleFunc("GET /events/{eventID}/attendees", requireAuth(events.ListAttendees))

	// Registrations
	mux.HandleFunc("POST /events/{eventID}/register", requireAuth(attendees.Register))
	mux.HandleFunc("DELETE /events/{eventID}/register", requireAuth(attendees.CancelRegistration))
	mux.HandleFunc("GET /attendee/events", requireAuth(attendees.ListMyEvents))

	// Invitations. Accept/reject are reachable without a token because they
	// back the deep links in invitation emails; the invitation id is the
	// capability.
	mux.HandleFunc("GET /invitations", requireAuth(invitations.ListMine))
	mux.HandleFunc("POST /invitations/{invitationID}/respond", requireAuth(invitations.Respond))
	mux.HandleFunc("POST /invitations/{invitationID}/read", requireAuth(invitations.MarkRead))
	mux.HandleFunc("GET /invitations/{invitationID}/accept", invitations.Accept)
	mux.HandleFunc("GET /invitations/{invitationID}/reject", invitations.Reject)

	// Feedback
	mux.HandleFunc("POST /feedback/event", requireAuth(feedback.SubmitEvent))
	mux.HandleFunc("POST /feedback/venue", requireAuth(feedback.SubmitVenue))
	mux.HandleFunc("POST /feedback/speaker", requireAuth(feedback.SubmitSpeaker))
	mux.HandleFunc("GET /events/{eventID}/feedback", requireAuth(feedback.EventFeedback))
	mux.HandleFunc("GET /feedback/mine", requireAuth(feedback.Mine))

	// Notifications
	mux.HandleFunc("GET /notifications", requireAuth(notifications.List))
	mux.HandleFunc("GET /notifications/unread-count", requireAuth(notifications.UnreadCount))
	mux.HandleFunc("POST /notifications/{notificationID}/read", requireAuth(notifications.MarkRead))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
