package services

import (
	"context"
	"fmt"
	"time"

	"eventhorizon/internal/domain"
)

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	byEmail    map[string]*domain.User
	challenges map[string]*domain.ResetChallenge
	createErr  error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail:    make(map[string]*domain.User),
		challenges: make(map[string]*domain.ResetChallenge),
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) ListSpeakers(ctx context.Context) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range f.byEmail {
		if u.Role == domain.RoleSpeaker {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) SetResetChallenge(ctx context.Context, email, codeHash string, expiresAt time.Time) error {
	if _, ok := f.byEmail[email]; !ok {
		return domain.ErrUserNotFound
	}
	f.challenges[email] = &domain.ResetChallenge{CodeHash: codeHash, ExpiresAt: expiresAt}
	return nil
}

func (f *fakeUserRepo) GetResetChallenge(ctx context.Context, email string) (*domain.ResetChallenge, error) {
	if _, ok := f.byEmail[email]; !ok {
		return nil, domain.ErrUserNotFound
	}
	return f.challenges[email], nil
}

func (f *fakeUserRepo) UpdatePasswordAndClearChallenge(ctx context.Context, email, passwordHash string) error {
	u, ok := f.byEmail[email]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	delete(f.challenges, email)
	return nil
}

// fakeInvitationRepo is an in-memory EventInvitationRepository for tests.
type fakeInvitationRepo struct {
	byID      map[string]*domain.EventInvitation
	createErr error
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{byID: make(map[string]*domain.EventInvitation)}
}

func (f *fakeInvitationRepo) Create(ctx context.Context, inv *domain.EventInvitation) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.byID {
		if existing.EventID == inv.EventID && existing.SpeakerEmail == inv.SpeakerEmail {
			return domain.ErrAlreadyInvited
		}
	}
	f.byID[inv.ID] = inv
	return nil
}

func (f *fakeInvitationRepo) GetByID(ctx context.Context, id string) (*domain.EventInvitation, error) {
	if inv, ok := f.byID[id]; ok {
		return inv, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeInvitationRepo) AcceptIfPending(ctx context.Context, id string) (*domain.EventInvitation, error) {
	inv, ok := f.byID[id]
	if !ok || inv.Status != domain.InvitationPending {
		return nil, domain.ErrNotFound
	}
	inv.Status = domain.InvitationAccepted
	inv.IsRead = true
	return inv, nil
}

func (f *fakeInvitationRepo) DeleteIfPending(ctx context.Context, id string) (*domain.EventInvitation, error) {
	inv, ok := f.byID[id]
	if !ok || inv.Status != domain.InvitationPending {
		return nil, domain.ErrNotFound
	}
	delete(f.byID, id)
	return inv, nil
}

func (f *fakeInvitationRepo) MarkRead(ctx context.Context, id string) error {
	inv, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.IsRead = true
	return nil
}

func (f *fakeInvitationRepo) DeleteByEventAndSpeaker(ctx context.Context, eventID, speakerEmail string) error {
	for id, inv := range f.byID {
		if inv.EventID == eventID && inv.SpeakerEmail == speakerEmail {
			delete(f.byID, id)
			return nil
		}
	}
	return nil
}

func (f *fakeInvitationRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.EventInvitation, error) {
	var out []*domain.EventInvitation
	for _, inv := range f.byID {
		if inv.EventID == eventID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeInvitationRepo) ListBySpeaker(ctx context.Context, speakerEmail string) ([]*domain.EventInvitation, error) {
	var out []*domain.EventInvitation
	for _, inv := range f.byID {
		if inv.SpeakerEmail == speakerEmail {
			out = append(out, inv)
		}
	}
	return out, nil
}

// fakeEventRepo is an in-memory EventRepository. When invRepo is set,
// CancelIfNoInvitations counts its rows the way the SQL statement would.
type fakeEventRepo struct {
	byID      map[string]*domain.Event
	invRepo   *fakeInvitationRepo
	nextID    int
	createErr error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: make(map[string]*domain.Event), nextID: 1}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.createErr != nil {
		return f.createErr
	}
	if e.ID == "" {
		e.ID = fmt.Sprintf("ev-%d", f.nextID)
		f.nextID++
	}
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) ListByCreator(ctx context.Context, creatorEmail string) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.byID {
		if e.CreatorEmail == creatorEmail {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, id string, upd domain.EventUpdate) (*domain.Event, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Title != nil {
		e.Title = *upd.Title
	}
	if upd.Description != nil {
		e.Description = *upd.Description
	}
	if upd.Date != nil {
		e.Date = *upd.Date
	}
	if upd.Time != nil {
		e.Time = *upd.Time
	}
	if upd.Category != nil {
		e.Category = *upd.Category
	}
	if upd.Interest != nil {
		e.Interest = *upd.Interest
	}
	return e, nil
}

func (f *fakeEventRepo) UpdateVenue(ctx context.Context, eventID string, upd domain.VenueUpdate) error {
	e, ok := f.byID[eventID]
	if !ok {
		return domain.ErrNotFound
	}
	e.Venue.Name = upd.Name
	if upd.URL != nil {
		e.Venue.URL = *upd.URL
	}
	if upd.Address != nil {
		e.Venue.Address = *upd.Address
	}
	return nil
}

func (f *fakeEventRepo) UpdateStatusIf(ctx context.Context, id string, from, to domain.EventStatus) (bool, error) {
	e, ok := f.byID[id]
	if !ok || e.Status != from {
		return false, nil
	}
	e.Status = to
	return true, nil
}

func (f *fakeEventRepo) SetStatus(ctx context.Context, id string, status domain.EventStatus) error {
	e, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.Status = status
	return nil
}

func (f *fakeEventRepo) CancelIfNoInvitations(ctx context.Context, eventID string) (bool, error) {
	e, ok := f.byID[eventID]
	if !ok || e.Status != domain.EventStatusPending {
		return false, nil
	}
	if f.invRepo != nil {
		invs, _ := f.invRepo.ListByEventID(ctx, eventID)
		if len(invs) > 0 {
			return false, nil
		}
	}
	e.Status = domain.EventStatusCancelled
	return true, nil
}

// fakeRegistrationRepo is an in-memory EventRegistrationRepository.
type fakeRegistrationRepo struct {
	regs  []*domain.EventRegistration
	users map[string]*domain.User
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{users: make(map[string]*domain.User)}
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, reg *domain.EventRegistration) error {
	for _, r := range f.regs {
		if r.EventID == reg.EventID && r.AttendeeEmail == reg.AttendeeEmail {
			return domain.ErrAlreadyRegistered
		}
	}
	f.regs = append(f.regs, reg)
	return nil
}

func (f *fakeRegistrationRepo) Delete(ctx context.Context, eventID, attendeeEmail string) error {
	for i, r := range f.regs {
		if r.EventID == eventID && r.AttendeeEmail == attendeeEmail {
			f.regs = append(f.regs[:i], f.regs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeRegistrationRepo) ListByAttendee(ctx context.Context, attendeeEmail string) ([]*domain.EventRegistration, error) {
	var out []*domain.EventRegistration
	for _, r := range f.regs {
		if r.AttendeeEmail == attendeeEmail {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRegistrationRepo) ListAttendeesByEventID(ctx context.Context, eventID string) ([]*domain.User, error) {
	var out []*domain.User
	for _, r := range f.regs {
		if r.EventID == eventID {
			if u, ok := f.users[r.AttendeeEmail]; ok {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

// fakeFeedbackRepo is an in-memory FeedbackRepository. Speaker feedback
// honors the association guard against invRepo when set.
type fakeFeedbackRepo struct {
	eventFeedback   []*domain.EventFeedback
	venueFeedback   []*domain.VenueFeedback
	speakerFeedback []*domain.SpeakerFeedback
	invRepo         *fakeInvitationRepo
	names           map[string]string
}

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{names: make(map[string]string)}
}

func (f *fakeFeedbackRepo) CreateEventFeedback(ctx context.Context, fb *domain.EventFeedback) error {
	f.eventFeedback = append(f.eventFeedback, fb)
	return nil
}

func (f *fakeFeedbackRepo) CreateVenueFeedback(ctx context.Context, fb *domain.VenueFeedback) error {
	f.venueFeedback = append(f.venueFeedback, fb)
	return nil
}

func (f *fakeFeedbackRepo) CreateSpeakerFeedback(ctx context.Context, fb *domain.SpeakerFeedback) (bool, error) {
	if f.invRepo != nil {
		associated := false
		for _, inv := range f.invRepo.byID {
			if inv.EventID == fb.EventID && inv.SpeakerEmail == fb.SpeakerEmail {
				associated = true
				break
			}
		}
		if !associated {
			return false, nil
		}
	}
	f.speakerFeedback = append(f.speakerFeedback, fb)
	return true, nil
}

func (f *fakeFeedbackRepo) ListEventFeedbackWithAttendee(ctx context.Context, eventID string) ([]*domain.EventFeedbackDetail, error) {
	var out []*domain.EventFeedbackDetail
	for _, fb := range f.eventFeedback {
		if fb.EventID == eventID {
			out = append(out, &domain.EventFeedbackDetail{Feedback: fb, AttendeeName: f.names[fb.AttendeeEmail]})
		}
	}
	return out, nil
}

func (f *fakeFeedbackRepo) ListByEvent(ctx context.Context, eventID string) ([]*domain.EventFeedback, error) {
	var out []*domain.EventFeedback
	for _, fb := range f.eventFeedback {
		if fb.EventID == eventID {
			out = append(out, fb)
		}
	}
	return out, nil
}

func (f *fakeFeedbackRepo) ListByVenue(ctx context.Context, venueName string) ([]*domain.VenueFeedback, error) {
	var out []*domain.VenueFeedback
	for _, fb := range f.venueFeedback {
		if fb.VenueName == venueName {
			out = append(out, fb)
		}
	}
	return out, nil
}

func (f *fakeFeedbackRepo) ListBySpeaker(ctx context.Context, speakerEmail string) ([]*domain.SpeakerFeedback, error) {
	var out []*domain.SpeakerFeedback
	for _, fb := range f.speakerFeedback {
		if fb.SpeakerEmail == speakerEmail {
			out = append(out, fb)
		}
	}
	return out, nil
}

func (f *fakeFeedbackRepo) ListByAttendee(ctx context.Context, attendeeEmail string) ([]*domain.EventFeedback, error) {
	var out []*domain.EventFeedback
	for _, fb := range f.eventFeedback {
		if fb.AttendeeEmail == attendeeEmail {
			out = append(out, fb)
		}
	}
	return out, nil
}

// fakeNotifier records notifications; err makes every Notify fail.
type fakeNotifier struct {
	sent []*domain.Notification
	err  error
}

func (f *fakeNotifier) Notify(ctx context.Context, recipientEmail string, typ domain.NotificationType, message, eventID string) (*domain.Notification, error) {
	if f.err != nil {
		return nil, f.err
	}
	n := &domain.Notification{
		ID:             fmt.Sprintf("n-%d", len(f.sent)+1),
		Type:           typ,
		Message:        message,
		EventID:        eventID,
		RecipientEmail: recipientEmail,
		CreatedAt:      time.Now(),
	}
	f.sent = append(f.sent, n)
	return n, nil
}

// fakeEmailService records sends; err makes every send fail.
type fakeEmailService struct {
	invitations []*domain.InvitationEmailData
	resetCodes  []*domain.ResetCodeEmailData
	welcomes    []*domain.WelcomeEmailData
	err         error
}

func (f *fakeEmailService) SendInvitation(ctx context.Context, data *domain.InvitationEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.invitations = append(f.invitations, data)
	return nil
}

func (f *fakeEmailService) SendResetCode(ctx context.Context, data *domain.ResetCodeEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.resetCodes = append(f.resetCodes, data)
	return nil
}

func (f *fakeEmailService) SendWelcome(ctx context.Context, data *domain.WelcomeEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.welcomes = append(f.welcomes, data)
	return nil
}

// fakeHasher prefixes instead of hashing so tests can assert on values.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return fmt.Errorf("mismatch")
	}
	return nil
}

// fakeTokenIssuer issues predictable tokens.
type fakeTokenIssuer struct{}

func (fakeTokenIssuer) Issue(email string, role domain.Role, expiry time.Duration) (string, error) {
	return "token-for-" + email, nil
}
