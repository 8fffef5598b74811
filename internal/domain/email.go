package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// InvitationEmailData holds data for the speaker invitation email.
// AcceptURL and RejectURL carry the invitation's own identifier.
type InvitationEmailData struct {
	Email        string
	EventTitle   string
	EventDate    string
	EventTime    string
	VenueName    string
	VenueAddress string
	Description  string
	OrganizerName string
	AcceptURL    string
	RejectURL    string
}

// ResetCodeEmailData holds data for the password reset code email.
type ResetCodeEmailData struct {
	Email            string
	Code             string
	ExpiresInMinutes int
}

// WelcomeEmailData holds data for the signup welcome email.
type WelcomeEmailData struct {
	Email string
	Name  string
}

// EmailService defines the contract for sending domain-level emails.
// Every method is fire-and-forget from the caller's perspective: a
// failure is returned for logging but never rolls back committed state.
type EmailService interface {
	SendInvitation(ctx context.Context, data *InvitationEmailData) error
	SendResetCode(ctx context.Context, data *ResetCodeEmailData) error
	SendWelcome(ctx context.Context, data *WelcomeEmailData) error
}
