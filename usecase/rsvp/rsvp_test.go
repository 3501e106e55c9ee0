package rsvp

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhub/backend/domain"
	"github.com/eventhub/backend/repository"
)

type fakeRsvpRepo struct {
	rsvps map[string]*domain.Rsvp
	next  int
}

func newFakeRsvpRepo() *fakeRsvpRepo {
	return &fakeRsvpRepo{rsvps: make(map[string]*domain.Rsvp)}
}

func (r *fakeRsvpRepo) GetByEventAndUser(_ context.Context, eventID, userID string) (*domain.Rsvp, error) {
	for _, rv := range r.rsvps {
		if rv.EventID == eventID && rv.UserID == userID {
			cp := *rv
			return &cp, nil
		}
	}
	return nil, domain.ErrRsvpNotFound
}

func (r *fakeRsvpRepo) ListByEvent(_ context.Context, eventID string) ([]domain.Rsvp, error) {
	var out []domain.Rsvp
	for _, rv := range r.rsvps {
		if rv.EventID == eventID {
			out = append(out, *rv)
		}
	}
	return out, nil
}

func (r *fakeRsvpRepo) ListByUser(_ context.Context, userID string) ([]domain.Rsvp, error) {
	var out []domain.Rsvp
	for _, rv := range r.rsvps {
		if rv.UserID == userID {
			out = append(out, *rv)
		}
	}
	return out, nil
}

func (r *fakeRsvpRepo) Create(_ context.Context, rsvp *domain.Rsvp) (*domain.Rsvp, error) {
	if rsvp.ID == "" {
		r.next++
		rsvp.ID = fmt.Sprintf("rsvp-%d", r.next)
	}
	cp := *rsvp
	r.rsvps[rsvp.ID] = &cp
	return rsvp, nil
}

func (r *fakeRsvpRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.rsvps[id]; !ok {
		return domain.ErrRsvpNotFound
	}
	delete(r.rsvps, id)
	return nil
}

func (r *fakeRsvpRepo) SetRating(_ context.Context, id string, rating int) error {
	rv, ok := r.rsvps[id]
	if !ok {
		return domain.ErrRsvpNotFound
	}
	rv.Rating = &rating
	return nil
}

func (r *fakeRsvpRepo) OwnerRating(_ context.Context, _ string) (float64, int64, error) {
	return 0, 0, nil
}

type fakeEventRepo struct {
	events map[string]*domain.Event
}

func (r *fakeEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	ev, ok := r.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	cp := *ev
	return &cp, nil
}

func (r *fakeEventRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Event, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeEventRepo) List(_ context.Context, _ repository.EventFilter) ([]domain.Event, error) {
	return nil, nil
}

func (r *fakeEventRepo) ListByOwner(_ context.Context, _ string) ([]domain.Event, error) {
	return nil, nil
}

func (r *fakeEventRepo) Create(_ context.Context, ev *domain.Event) (*domain.Event, error) {
	return ev, nil
}

func (r *fakeEventRepo) Update(_ context.Context, _ *domain.Event) error { return nil }
func (r *fakeEventRepo) Delete(_ context.Context, _ string) error { return nil }

type fakeUserRepo struct {
	users map[string]*domain.User
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Upsert(_ context.Context, _ *domain.User) error { return nil }

type dispatched struct {
	recipientID, subject, body string
}

type fakeDispatcher struct {
	sent []dispatched
}

func (d *fakeDispatcher) Dispatch(_ context.Context, recipientID, subject, body string) {
	d.sent = append(d.sent, dispatched{recipientID, subject, body})
}

func strPtr(s string) *string { return &s }

type fixture struct {
	uc         *UseCase
	rsvps      *fakeRsvpRepo
	events     *fakeEventRepo
	users      *fakeUserRepo
	dispatcher *fakeDispatcher
}

func newFixture() *fixture {
	f := &fixture{
		rsvps:      newFakeRsvpRepo(),
		events:     &fakeEventRepo{events: make(map[string]*domain.Event)},
		users:      &fakeUserRepo{users: make(map[string]*domain.User)},
		dispatcher: &fakeDispatcher{},
	}
	f.uc = New(f.rsvps, f.events, f.users, f.dispatcher, nil)

	f.users.users["user-1"] = &domain.User{ID: "user-1", Email: "user@example.com", FullName: "Pat Doe"}
	f.events.events["ev-1"] = &domain.Event{
		ID:       "ev-1",
		Title:    "Go Meetup",
		Date:     time.Date(2026, 9, 10, 18, 30, 0, 0, time.UTC),
		Category: "tech",
		Format:   domain.FormatOffline,
		Address:  strPtr("1 Main St"),
		OwnerID:  "owner-1",
	}
	return f
}

func TestToggleCreatesRsvpAndSendsTicket(t *testing.T) {
	f := newFixture()

	result, err := f.uc.Toggle(context.Background(), "ev-1", "user-1")
	require.NoError(t, err)
	assert.True(t, result.Attending)
	assert.Len(t, f.rsvps.rsvps, 1)

	require.Len(t, f.dispatcher.sent, 1)
	n := f.dispatcher.sent[0]
	assert.Equal(t, "user-1", n.recipientID)
	assert.Equal(t, `Your ticket for "Go Meetup"`, n.subject)
	assert.Contains(t, n.body, "Pat Doe")
	assert.Contains(t, n.body, "1 Main St")
	assert.Contains(t, n.body, "Your ticket code:")
}

func TestToggleOnlineSendsConferenceLink(t *testing.T) {
	f := newFixture()
	ev := f.events.events["ev-1"]
	ev.Format = domain.FormatOnline
	ev.Address = nil
	ev.ConferenceLink = strPtr("https://meet.example.com/go")

	result, err := f.uc.Toggle(context.Background(), "ev-1", "user-1")
	require.NoError(t, err)
	assert.True(t, result.Attending)

	require.Len(t, f.dispatcher.sent, 1)
	n := f.dispatcher.sent[0]
	assert.Equal(t, `Link for the online event "Go Meetup"`, n.subject)
	assert.Contains(t, n.body, "https://meet.example.com/go")
}

func TestTogglePersistsTicketCode(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Toggle(context.Background(), "ev-1", "user-1")
	require.NoError(t, err)

	rv, err := f.rsvps.GetByEventAndUser(context.Background(), "ev-1", "user-1")
	require.NoError(t, err)
	require.NotNil(t, rv.TicketCode)
	assert.Len(t, *rv.TicketCode, 8)
	assert.Equal(t, strings.ToUpper(*rv.TicketCode), *rv.TicketCode)

	// The stored code is the one that was mailed.
	require.Len(t, f.dispatcher.sent, 1)
	assert.Contains(t, f.dispatcher.sent[0].body, *rv.TicketCode)
}

func TestToggleOnlineHasNoTicketCode(t *testing.T) {
	f := newFixture()
	ev := f.events.events["ev-1"]
	ev.Format = domain.FormatOnline
	ev.ConferenceLink = strPtr("https://meet.example.com/go")

	_, err := f.uc.Toggle(context.Background(), "ev-1", "user-1")
	require.NoError(t, err)

	rv, err := f.rsvps.GetByEventAndUser(context.Background(), "ev-1", "user-1")
	require.NoError(t, err)
	assert.Nil(t, rv.TicketCode)
}

func TestToggleTwiceRemovesRsvp(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Toggle(context.Background(), "ev-1", "user-1")
	require.NoError(t, err)

	result, err := f.uc.Toggle(context.Background(), "ev-1", "user-1")
	require.NoError(t, err)
	assert.False(t, result.Attending)
	assert.Empty(t, f.rsvps.rsvps)
	// Only the initial registration mails; cancellation is silent.
	assert.Len(t, f.dispatcher.sent, 1)
}

func TestToggleRequiresEmail(t *testing.T) {
	f := newFixture()
	f.users.users["user-1"].Email = " "

	_, err := f.uc.Toggle(context.Background(), "ev-1", "user-1")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	assert.Empty(t, f.rsvps.rsvps)
}

func TestToggleMissingEvent(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Toggle(context.Background(), "nope", "user-1")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestGetStatusAttending(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Toggle(context.Background(), "ev-1", "user-1")
	require.NoError(t, err)
	require.NoError(t, f.uc.Rate(context.Background(), "ev-1", "user-1", 5))

	status, err := f.uc.GetStatus(context.Background(), "ev-1", "user-1")
	require.NoError(t, err)
	assert.True(t, status.Attending)
	require.NotNil(t, status.Rating)
	assert.Equal(t, 5, *status.Rating)
	require.NotNil(t, status.TicketCode)
	assert.Len(t, *status.TicketCode, 8)
}

func TestGetStatusNotAttending(t *testing.T) {
	f := newFixture()

	status, err := f.uc.GetStatus(context.Background(), "ev-1", "user-1")
	require.NoError(t, err)
	assert.False(t, status.Attending)
	assert.Nil(t, status.Rating)
	assert.Nil(t, status.TicketCode)
}

func TestGetStatusMissingEvent(t *testing.T) {
	f := newFixture()
	_, err := f.uc.GetStatus(context.Background(), "nope", "user-1")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestMyEvents(t *testing.T) {
	f := newFixture()
	f.events.events["ev-2"] = &domain.Event{
		ID:      "ev-2",
		Title:   "Go Workshop",
		Date:    time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC),
		Format:  domain.FormatOnline,
		OwnerID: "owner-1",
	}

	_, err := f.uc.Toggle(context.Background(), "ev-1", "user-1")
	require.NoError(t, err)
	_, err = f.uc.Toggle(context.Background(), "ev-2", "user-1")
	require.NoError(t, err)

	events, err := f.uc.MyEvents(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, events, 2)

	// An event deleted after registration is skipped, not an error.
	delete(f.events.events, "ev-2")
	events, err = f.uc.MyEvents(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "ev-1", events[0].ID)
}

func TestRate(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Toggle(context.Background(), "ev-1", "user-1")
	require.NoError(t, err)

	require.NoError(t, f.uc.Rate(context.Background(), "ev-1", "user-1", 4))

	rv, err := f.rsvps.GetByEventAndUser(context.Background(), "ev-1", "user-1")
	require.NoError(t, err)
	require.NotNil(t, rv.Rating)
	assert.Equal(t, 4, *rv.Rating)
}

func TestRateValidatesRange(t *testing.T) {
	f := newFixture()
	for _, rating := range []int{0, -1, 6} {
		err := f.uc.Rate(context.Background(), "ev-1", "user-1", rating)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	}
}

func TestRateWithoutRsvp(t *testing.T) {
	f := newFixture()
	err := f.uc.Rate(context.Background(), "ev-1", "user-1", 5)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}
