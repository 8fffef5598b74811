package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhorizon/internal/domain"
)

type eventFixture struct {
	svc    domain.EventService
	events *fakeEventRepo
	users  *fakeUserRepo
	inv    *invitationFixture
}

func newEventFixture() *eventFixture {
	inv := newInvitationFixture()
	svc := NewEventService(inv.events, inv.users, inv.svc, discardLogger(), 2*time.Second)
	return &eventFixture{svc: svc, events: inv.events, users: inv.users, inv: inv}
}

func (fx *eventFixture) seedOrganizer(email string) {
	fx.users.byEmail[email] = &domain.User{ID: "u-" + email, Email: email, Name: "Org", Role: domain.RoleOrganizer, Designation: "Lead"}
}

func validCreateParams(creator string) domain.CreateEventParams {
	return domain.CreateEventParams{
		Title:        "Go Conference",
		Description:  "A day of talks",
		Date:         "2026-10-01",
		Time:         "10:00",
		Category:     "tech",
		Interest:     "golang",
		CreatorEmail: creator,
		VenueName:    "Main Hall",
		VenueURL:     "https://mainhall.example.com",
		VenueAddress: "1 Main St",
	}
}

func TestCreateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending event with creator snapshot", func(t *testing.T) {
		fx := newEventFixture()
		fx.seedOrganizer("org@example.com")

		event, failed, err := fx.svc.CreateEvent(ctx, validCreateParams("org@example.com"))
		require.NoError(t, err)
		assert.Empty(t, failed)
		assert.NotEmpty(t, event.ID)
		assert.Equal(t, domain.EventStatusPending, event.Status)
		assert.Equal(t, "org@example.com", event.CreatorEmail)
		assert.Equal(t, "Org", event.CreatorName)
		assert.Equal(t, domain.RoleOrganizer, event.CreatorRole)
		assert.Equal(t, "Main Hall", event.Venue.Name)
	})

	t.Run("invites requested speakers", func(t *testing.T) {
		fx := newEventFixture()
		fx.seedOrganizer("org@example.com")
		fx.inv.seedSpeaker("spk@example.com")

		params := validCreateParams("org@example.com")
		params.SpeakerEmails = []string{"spk@example.com"}
		event, failed, err := fx.svc.CreateEvent(ctx, params)
		require.NoError(t, err)
		assert.Empty(t, failed)

		invs, _ := fx.inv.invRepo.ListByEventID(ctx, event.ID)
		require.Len(t, invs, 1)
		assert.Equal(t, "spk@example.com", invs[0].SpeakerEmail)
	})

	t.Run("unknown speakers come back as failed invites", func(t *testing.T) {
		fx := newEventFixture()
		fx.seedOrganizer("org@example.com")
		fx.inv.seedSpeaker("good@example.com")

		params := validCreateParams("org@example.com")
		params.SpeakerEmails = []string{"good@example.com", "ghost@example.com"}
		event, failed, err := fx.svc.CreateEvent(ctx, params)
		require.NoError(t, err)
		assert.Equal(t, []string{"ghost@example.com"}, failed)
		assert.NotNil(t, event)

		invs, _ := fx.inv.invRepo.ListByEventID(ctx, event.ID)
		assert.Len(t, invs, 1)
	})

	t.Run("missing required fields", func(t *testing.T) {
		fx := newEventFixture()
		fx.seedOrganizer("org@example.com")

		blank := []func(p *domain.CreateEventParams){
			func(p *domain.CreateEventParams) { p.Title = "" },
			func(p *domain.CreateEventParams) { p.Description = "" },
			func(p *domain.CreateEventParams) { p.Date = "" },
			func(p *domain.CreateEventParams) { p.Time = "" },
			func(p *domain.CreateEventParams) { p.Category = "" },
			func(p *domain.CreateEventParams) { p.Interest = "" },
			func(p *domain.CreateEventParams) { p.VenueName = "" },
		}
		for _, clear := range blank {
			params := validCreateParams("org@example.com")
			clear(&params)
			_, _, err := fx.svc.CreateEvent(ctx, params)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		}
	})

	t.Run("any role may create", func(t *testing.T) {
		fx := newEventFixture()
		fx.users.byEmail["att@example.com"] = &domain.User{Email: "att@example.com", Name: "Att", Role: domain.RoleAttendee}
		fx.users.byEmail["spk@example.com"] = &domain.User{Email: "spk@example.com", Name: "Spk", Role: domain.RoleSpeaker, Affiliation: "Uni", Expertise: "Go"}

		event, _, err := fx.svc.CreateEvent(ctx, validCreateParams("att@example.com"))
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAttendee, event.CreatorRole)

		event, _, err = fx.svc.CreateEvent(ctx, validCreateParams("spk@example.com"))
		require.NoError(t, err)
		assert.Equal(t, domain.RoleSpeaker, event.CreatorRole)
	})
}

func TestUpdateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update keeps untouched fields", func(t *testing.T) {
		fx := newEventFixture()
		fx.seedOrganizer("org@example.com")
		event, _, err := fx.svc.CreateEvent(ctx, validCreateParams("org@example.com"))
		require.NoError(t, err)

		newTitle := "GopherCon"
		updated, err := fx.svc.UpdateEvent(ctx, event.ID, "org@example.com", domain.EventUpdate{Title: &newTitle}, nil)
		require.NoError(t, err)
		assert.Equal(t, "GopherCon", updated.Title)
		assert.Equal(t, "A day of talks", updated.Description)
		assert.Equal(t, "2026-10-01", updated.Date)
	})

	t.Run("venue merge", func(t *testing.T) {
		fx := newEventFixture()
		fx.seedOrganizer("org@example.com")
		event, _, err := fx.svc.CreateEvent(ctx, validCreateParams("org@example.com"))
		require.NoError(t, err)

		addr := "2 Side St"
		updated, err := fx.svc.UpdateEvent(ctx, event.ID, "org@example.com", domain.EventUpdate{}, &domain.VenueUpdate{Name: "Annex", Address: &addr})
		require.NoError(t, err)
		assert.Equal(t, "Annex", updated.Venue.Name)
		assert.Equal(t, "2 Side St", updated.Venue.Address)
	})

	t.Run("non-creator forbidden", func(t *testing.T) {
		fx := newEventFixture()
		fx.seedOrganizer("org@example.com")
		event, _, err := fx.svc.CreateEvent(ctx, validCreateParams("org@example.com"))
		require.NoError(t, err)

		newTitle := "Hijacked"
		_, err = fx.svc.UpdateEvent(ctx, event.ID, "other@example.com", domain.EventUpdate{Title: &newTitle}, nil)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("unknown event", func(t *testing.T) {
		fx := newEventFixture()
		_, err := fx.svc.UpdateEvent(ctx, "missing", "org@example.com", domain.EventUpdate{}, nil)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCancelEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("creator cancels", func(t *testing.T) {
		fx := newEventFixture()
		fx.seedOrganizer("org@example.com")
		event, _, err := fx.svc.CreateEvent(ctx, validCreateParams("org@example.com"))
		require.NoError(t, err)

		require.NoError(t, fx.svc.CancelEvent(ctx, event.ID, "org@example.com"))
		got, _ := fx.events.GetByID(ctx, event.ID)
		assert.Equal(t, domain.EventStatusCancelled, got.Status)
	})

	t.Run("cancel is idempotent", func(t *testing.T) {
		fx := newEventFixture()
		fx.seedOrganizer("org@example.com")
		event, _, err := fx.svc.CreateEvent(ctx, validCreateParams("org@example.com"))
		require.NoError(t, err)

		require.NoError(t, fx.svc.CancelEvent(ctx, event.ID, "org@example.com"))
		require.NoError(t, fx.svc.CancelEvent(ctx, event.ID, "org@example.com"))
	})

	t.Run("non-creator forbidden", func(t *testing.T) {
		fx := newEventFixture()
		fx.seedOrganizer("org@example.com")
		event, _, err := fx.svc.CreateEvent(ctx, validCreateParams("org@example.com"))
		require.NoError(t, err)

		err = fx.svc.CancelEvent(ctx, event.ID, "other@example.com")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}
