package rsvp

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventhub/backend/domain"
	"github.com/eventhub/backend/repository"
	"github.com/eventhub/backend/usecase"
)

// UseCase handles attendance toggling and post-event rating.
type UseCase struct {
	rsvps      repository.RsvpRepository
	events     repository.EventRepository
	users      repository.UserRepository
	dispatcher usecase.Dispatcher
	logger     *zap.Logger
}

func New(
	rsvps repository.RsvpRepository,
	events repository.EventRepository,
	users repository.UserRepository,
	dispatcher usecase.Dispatcher,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		rsvps:      rsvps,
		events:     events,
		users:      users,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// ToggleResult reports the attendance state after a toggle.
type ToggleResult struct {
	EventID   string `json:"event_id"`
	Attending bool   `json:"attending"`
}

// Status reports the caller's current attendance on an event, with the ticket
// code when one was issued.
type Status struct {
	EventID    string  `json:"event_id"`
	Attending  bool    `json:"attending"`
	Rating     *int    `json:"rating,omitempty"`
	TicketCode *string `json:"ticket_code,omitempty"`
}

// Toggle flips the caller's attendance on an event. A new RSVP triggers a
// confirmation mail: the conference link for online events, a ticket code
// for offline ones.
func (uc *UseCase) Toggle(ctx context.Context, eventID, userID string) (*ToggleResult, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(user.Email) == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "profile has no email, confirmation cannot be sent")
	}

	ev, err := uc.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	existing, err := uc.rsvps.GetByEventAndUser(ctx, eventID, userID)
	switch {
	case err == nil:
		if err := uc.rsvps.Delete(ctx, existing.ID); err != nil {
			return nil, err
		}
		return &ToggleResult{EventID: eventID, Attending: false}, nil
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		// fall through to create
	default:
		return nil, err
	}

	rsvp := &domain.Rsvp{EventID: eventID, UserID: userID}
	if !ev.IsOnline() {
		// Offline entry code, kept on the rsvp row so it can be looked up
		// again; it is dropped together with the row on cancellation.
		code := strings.ToUpper(uuid.NewString()[:8])
		rsvp.TicketCode = &code
	}
	if _, err := uc.rsvps.Create(ctx, rsvp); err != nil {
		return nil, err
	}

	if ev.IsOnline() {
		uc.dispatcher.Dispatch(ctx, userID,
			fmt.Sprintf("Link for the online event %q", ev.Title),
			conferenceLinkBody(user, ev))
	} else {
		uc.dispatcher.Dispatch(ctx, userID,
			fmt.Sprintf("Your ticket for %q", ev.Title),
			ticketBody(user, ev, *rsvp.TicketCode))
	}

	return &ToggleResult{EventID: eventID, Attending: true}, nil
}

// GetStatus reports whether the caller attends an event, including rating and
// ticket code when present. A missing rsvp is a valid "not attending" answer.
func (uc *UseCase) GetStatus(ctx context.Context, eventID, userID string) (*Status, error) {
	if _, err := uc.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	rsvp, err := uc.rsvps.GetByEventAndUser(ctx, eventID, userID)
	switch {
	case err == nil:
		return &Status{
			EventID:    eventID,
			Attending:  true,
			Rating:     rsvp.Rating,
			TicketCode: rsvp.TicketCode,
		}, nil
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return &Status{EventID: eventID}, nil
	default:
		return nil, err
	}
}

// MyEvents lists the events the user has rsvp'd to, newest registration
// first. Events deleted since registration are skipped.
func (uc *UseCase) MyEvents(ctx context.Context, userID string) ([]domain.Event, error) {
	rsvps, err := uc.rsvps.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	events := make([]domain.Event, 0, len(rsvps))
	for _, rsvp := range rsvps {
		ev, err := uc.events.GetByID(ctx, rsvp.EventID)
		if err != nil {
			if domain.IsDomainError(err, domain.ErrCodeNotFound) {
				continue
			}
			return nil, err
		}
		events = append(events, *ev)
	}
	return events, nil
}

// Rate records a 1-5 score on the caller's existing RSVP.
func (uc *UseCase) Rate(ctx context.Context, eventID, userID string, rating int) error {
	if rating < 1 || rating > 5 {
		return domain.NewError(domain.ErrCodeInvalid, "rating must be between 1 and 5")
	}
	rsvp, err := uc.rsvps.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return err
	}
	return uc.rsvps.SetRating(ctx, rsvp.ID, rating)
}

func conferenceLinkBody(user *domain.User, ev *domain.Event) string {
	link := ""
	if ev.ConferenceLink != nil {
		link = *ev.ConferenceLink
	}
	return fmt.Sprintf(
		`<p>Hello, %s!</p>
<p>Thank you for registering for the online event:</p>
<ul>
 <li><b>Title:</b> %s</li>
 <li><b>Date:</b> %s</li>
 <li><b>Category:</b> %s</li>
</ul>
<p><b>Link:</b> <a href="%s" target="_blank">%s</a></p>`,
		user.FullName, ev.Title, ev.Date.Format("2006-01-02 15:04"), ev.Category, link, link)
}

func ticketBody(user *domain.User, ev *domain.Event, code string) string {
	address := ""
	if ev.Address != nil {
		address = *ev.Address
	}
	return fmt.Sprintf(
		`<p>Hello, %s!</p>
<p>Thank you for registering for the event:</p>
<ul>
  <li><b>Title:</b> %s</li>
  <li><b>Date:</b> %s</li>
  <li><b>Address:</b> %s</li>
  <li><b>Category:</b> %s</li>
</ul>
<p><b>Your ticket code: %s</b></p>`,
		user.FullName, ev.Title, ev.Date.Format("2006-01-02 15:04"), address, ev.Category, code)
}
