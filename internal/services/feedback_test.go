package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhorizon/internal/domain"
)

type feedbackFixture struct {
	svc     domain.FeedbackService
	repo    *fakeFeedbackRepo
	events  *fakeEventRepo
	invRepo *fakeInvitationRepo
}

func newFeedbackFixture() *feedbackFixture {
	invRepo := newFakeInvitationRepo()
	events := newFakeEventRepo()
	repo := newFakeFeedbackRepo()
	repo.invRepo = invRepo
	svc := NewFeedbackService(repo, events, 2*time.Second)
	return &feedbackFixture{svc: svc, repo: repo, events: events, invRepo: invRepo}
}

func (fx *feedbackFixture) seedEvent(id, creator string) {
	fx.events.byID[id] = &domain.Event{ID: id, Title: "Go Conference", CreatorEmail: creator, Status: domain.EventStatusActive}
}

func TestSubmitEventFeedback(t *testing.T) {
	ctx := context.Background()

	t.Run("stores feedback", func(t *testing.T) {
		fx := newFeedbackFixture()
		fx.seedEvent("ev-1", "org@example.com")

		fb, err := fx.svc.SubmitEventFeedback(ctx, "ev-1", "att@example.com", 4, "great talks")
		require.NoError(t, err)
		assert.NotEmpty(t, fb.ID)
		assert.Len(t, fx.repo.eventFeedback, 1)
	})

	t.Run("duplicate submissions are all kept", func(t *testing.T) {
		fx := newFeedbackFixture()
		fx.seedEvent("ev-1", "org@example.com")

		_, err := fx.svc.SubmitEventFeedback(ctx, "ev-1", "att@example.com", 4, "first")
		require.NoError(t, err)
		_, err = fx.svc.SubmitEventFeedback(ctx, "ev-1", "att@example.com", 2, "changed my mind")
		require.NoError(t, err)
		assert.Len(t, fx.repo.eventFeedback, 2)
	})

	t.Run("rating bounds", func(t *testing.T) {
		fx := newFeedbackFixture()
		fx.seedEvent("ev-1", "org@example.com")

		for _, rating := range []int{0, 6, -1} {
			_, err := fx.svc.SubmitEventFeedback(ctx, "ev-1", "att@example.com", rating, "")
			assert.ErrorIs(t, err, domain.ErrInvalidInput, "rating %d", rating)
		}
		for rating := domain.MinRating; rating <= domain.MaxRating; rating++ {
			_, err := fx.svc.SubmitEventFeedback(ctx, "ev-1", "att@example.com", rating, "")
			assert.NoError(t, err, "rating %d", rating)
		}
	})

	t.Run("unknown event", func(t *testing.T) {
		fx := newFeedbackFixture()
		_, err := fx.svc.SubmitEventFeedback(ctx, "missing", "att@example.com", 3, "")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestSubmitSpeakerFeedback(t *testing.T) {
	ctx := context.Background()

	t.Run("accepted for an associated speaker", func(t *testing.T) {
		fx := newFeedbackFixture()
		fx.seedEvent("ev-1", "org@example.com")
		fx.invRepo.byID["inv-1"] = &domain.EventInvitation{
			ID: "inv-1", EventID: "ev-1", SpeakerEmail: "spk@example.com", Status: domain.InvitationAccepted,
		}

		fb, err := fx.svc.SubmitSpeakerFeedback(ctx, "spk@example.com", "ev-1", "att@example.com", 5, "brilliant")
		require.NoError(t, err)
		assert.Equal(t, "spk@example.com", fb.SpeakerEmail)
	})

	t.Run("rejected when the speaker is not associated", func(t *testing.T) {
		fx := newFeedbackFixture()
		fx.seedEvent("ev-1", "org@example.com")

		_, err := fx.svc.SubmitSpeakerFeedback(ctx, "spk@example.com", "ev-1", "att@example.com", 5, "")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Empty(t, fx.repo.speakerFeedback)
	})

	t.Run("rating bounds", func(t *testing.T) {
		fx := newFeedbackFixture()
		_, err := fx.svc.SubmitSpeakerFeedback(ctx, "spk@example.com", "ev-1", "att@example.com", 0, "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestSubmitVenueFeedback(t *testing.T) {
	ctx := context.Background()
	fx := newFeedbackFixture()

	fb, err := fx.svc.SubmitVenueFeedback(ctx, "Main Hall", "att@example.com", 3, "decent acoustics")
	require.NoError(t, err)
	assert.Equal(t, "Main Hall", fb.VenueName)

	_, err = fx.svc.SubmitVenueFeedback(ctx, "", "att@example.com", 3, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEventFeedbackForOrganizer(t *testing.T) {
	ctx := context.Background()

	t.Run("creator sees feedback with attendee names", func(t *testing.T) {
		fx := newFeedbackFixture()
		fx.seedEvent("ev-1", "org@example.com")
		fx.repo.names["att@example.com"] = "Att"
		_, err := fx.svc.SubmitEventFeedback(ctx, "ev-1", "att@example.com", 4, "nice")
		require.NoError(t, err)

		details, err := fx.svc.EventFeedbackForOrganizer(ctx, "ev-1", "org@example.com")
		require.NoError(t, err)
		require.Len(t, details, 1)
		assert.Equal(t, "Att", details[0].AttendeeName)
	})

	t.Run("non-creator is forbidden even with no feedback", func(t *testing.T) {
		fx := newFeedbackFixture()
		fx.seedEvent("ev-1", "org@example.com")
		_, err := fx.svc.EventFeedbackForOrganizer(ctx, "ev-1", "other@example.com")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("unknown event", func(t *testing.T) {
		fx := newFeedbackFixture()
		_, err := fx.svc.EventFeedbackForOrganizer(ctx, "missing", "org@example.com")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
