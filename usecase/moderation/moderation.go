package moderation

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/eventhub/backend/domain"
	"github.com/eventhub/backend/repository"
	"github.com/eventhub/backend/usecase"
)

// UseCase drives the change-request state machine: submission, pending
// listing, approval (with field merge, media reconciliation and notification
// fan-out) and rejection.
type UseCase struct {
	requests    repository.RequestRepository
	events      repository.EventRepository
	rsvps       repository.RsvpRepository
	reqImages   repository.RequestImageRepository
	eventImages repository.EventImageRepository
	tx          repository.Transactor
	geo         usecase.Geocoder
	media       usecase.MediaStore
	dispatcher  usecase.Dispatcher
	logger      *zap.Logger
}

func New(
	requests repository.RequestRepository,
	events repository.EventRepository,
	rsvps repository.RsvpRepository,
	reqImages repository.RequestImageRepository,
	eventImages repository.EventImageRepository,
	tx repository.Transactor,
	geo usecase.Geocoder,
	media usecase.MediaStore,
	dispatcher usecase.Dispatcher,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		requests:    requests,
		events:      events,
		rsvps:       rsvps,
		reqImages:   reqImages,
		eventImages: eventImages,
		tx:          tx,
		geo:         geo,
		media:       media,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// Submit validates and persists a new change request in PENDING state.
// An EDIT request must reference an existing event.
func (uc *UseCase) Submit(ctx context.Context, req *domain.ChangeRequest) (*domain.ChangeRequest, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	switch req.Type {
	case domain.RequestTypeCreate:
		req.TargetEventID = nil
	case domain.RequestTypeEdit:
		if req.TargetEventID == nil || *req.TargetEventID == "" {
			return nil, domain.NewError(domain.ErrCodeInvalid, "edit request requires a target event")
		}
		if _, err := uc.events.GetByID(ctx, *req.TargetEventID); err != nil {
			return nil, err
		}
	}

	req.Status = domain.RequestStatusPending
	return uc.requests.Create(ctx, req)
}

// ListPending returns every request awaiting moderation, decorated with its
// resolved image URLs.
func (uc *UseCase) ListPending(ctx context.Context) ([]domain.RequestDetails, error) {
	pending, err := uc.requests.ListByStatus(ctx, domain.RequestStatusPending)
	if err != nil {
		return nil, err
	}
	return uc.decorate(ctx, pending)
}

// ListMine returns the author's requests, newest first.
func (uc *UseCase) ListMine(ctx context.Context, authorID string) ([]domain.RequestDetails, error) {
	mine, err := uc.requests.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return uc.decorate(ctx, mine)
}

type notification struct {
	recipientID string
	subject     string
	body        string
}

// Approve runs the full approval transaction: field merge with geocoding
// enrichment, event persistence, media reconciliation and the status flip.
// Update notifications are dispatched only after the transaction commits, so
// a delivery failure can never roll back an approval.
func (uc *UseCase) Approve(ctx context.Context, id string) error {
	var pending []notification

	err := uc.tx.InTx(ctx, func(ctx context.Context) error {
		req, err := uc.requests.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !req.IsPending() {
			return domain.ErrRequestNotPending
		}

		switch req.Type {
		case domain.RequestTypeCreate:
			if err := uc.approveCreate(ctx, req); err != nil {
				return err
			}
		case domain.RequestTypeEdit:
			notifications, err := uc.approveEdit(ctx, req)
			if err != nil {
				return err
			}
			pending = notifications
		default:
			return domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf("unknown request type %q", req.Type))
		}

		return uc.requests.UpdateStatus(ctx, req.ID, domain.RequestStatusPending, domain.RequestStatusApproved)
	})
	if err != nil {
		return err
	}

	for _, n := range pending {
		uc.dispatcher.Dispatch(ctx, n.recipientID, n.subject, n.body)
	}
	return nil
}

// approveCreate materializes a new event from the request and adopts every
// attached image into the event's scope.
func (uc *UseCase) approveCreate(ctx context.Context, req *domain.ChangeRequest) error {
	ev := &domain.Event{OwnerID: req.AuthorID}
	uc.merge(ctx, req, ev)

	if _, err := uc.events.Create(ctx, ev); err != nil {
		return err
	}

	files, err := uc.reqImages.List(ctx, req.ID)
	if err != nil {
		return err
	}
	for _, fn := range files {
		if err := uc.media.MoveRequestToEvent(req.ID, ev.ID, fn); err != nil {
			return domain.WrapError(domain.ErrCodeInternal, "image move failed", err)
		}
		if err := uc.eventImages.Add(ctx, ev.ID, fn); err != nil {
			return err
		}
	}
	return nil
}

// approveEdit merges the request into its target event, reconciles the image
// sets and prepares one notification per interested user when anything
// actually changed.
func (uc *UseCase) approveEdit(ctx context.Context, req *domain.ChangeRequest) ([]notification, error) {
	ev, err := uc.events.GetByIDForUpdate(ctx, *req.TargetEventID)
	if err != nil {
		return nil, err
	}

	before := *ev
	uc.merge(ctx, req, ev)

	if err := uc.events.Update(ctx, ev); err != nil {
		return nil, err
	}
	if err := uc.reconcileMedia(ctx, req.ID, ev.ID); err != nil {
		return nil, err
	}

	changes := domain.DiffEvents(&before, ev)
	if len(changes) == 0 {
		return nil, nil
	}

	rsvps, err := uc.rsvps.ListByEvent(ctx, ev.ID)
	if err != nil {
		return nil, err
	}

	subject := fmt.Sprintf("Event %q was updated", ev.Title)
	body := fmt.Sprintf("<p>The event «%s» has changed:</p>%s", ev.Title, domain.RenderChanges(changes))

	notifications := make([]notification, 0, len(rsvps))
	for _, r := range rsvps {
		notifications = append(notifications, notification{
			recipientID: r.UserID,
			subject:     subject,
			body:        body,
		})
	}
	return notifications, nil
}

// Reject moves a pending request to the terminal REJECTED state. No field
// merge, media or notification side effects.
func (uc *UseCase) Reject(ctx context.Context, id string) error {
	req, err := uc.requests.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !req.IsPending() {
		return domain.ErrRequestNotPending
	}
	return uc.requests.UpdateStatus(ctx, req.ID, domain.RequestStatusPending, domain.RequestStatusRejected)
}

// UploadImages attaches images to a pending request. Only the author may do
// this.
func (uc *UseCase) UploadImages(ctx context.Context, requestID, actorID string, files []usecase.ImageUpload) ([]string, error) {
	req, err := uc.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.AuthorID != actorID {
		return nil, domain.ErrNotAuthor
	}

	urls := make([]string, 0, len(files))
	for _, f := range files {
		stored, err := uc.media.SaveRequestImage(req.ID, f.Filename, f.Content)
		if err != nil {
			return nil, domain.WrapError(domain.ErrCodeInternal, "image save failed", err)
		}
		if err := uc.reqImages.Add(ctx, req.ID, stored); err != nil {
			return nil, err
		}
		urls = append(urls, requestImageURL(req.ID, stored))
	}
	return urls, nil
}

// DeleteImage removes one image from a request before moderation.
func (uc *UseCase) DeleteImage(ctx context.Context, requestID, filename, actorID string) error {
	req, err := uc.requests.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.AuthorID != actorID {
		return domain.ErrNotAuthor
	}
	if err := uc.reqImages.Delete(ctx, req.ID, filename); err != nil {
		return err
	}
	return uc.media.DeleteRequestImage(req.ID, filename)
}

// ImagePath resolves the on-disk location of a request image for serving.
func (uc *UseCase) ImagePath(ctx context.Context, requestID, filename string) (string, error) {
	ok, err := uc.reqImages.Exists(ctx, requestID, filename)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrImageNotFound
	}
	return uc.media.RequestImagePath(requestID, filename)
}

func (uc *UseCase) decorate(ctx context.Context, requests []domain.ChangeRequest) ([]domain.RequestDetails, error) {
	details := make([]domain.RequestDetails, 0, len(requests))
	for _, req := range requests {
		files, err := uc.reqImages.List(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		urls := make([]string, 0, len(files))
		for _, fn := range files {
			urls = append(urls, requestImageURL(req.ID, fn))
		}
		details = append(details, domain.RequestDetails{ChangeRequest: req, ImageURLs: urls})
	}
	return details, nil
}

func requestImageURL(requestID, filename string) string {
	return fmt.Sprintf("/api/v1/requests/%s/images/%s", requestID, filename)
}

// validate checks that the payload is internally coherent. Cross-field
// completeness (coordinates, derived city) is left to approval-time
// enrichment.
func validate(req *domain.ChangeRequest) error {
	if req == nil {
		return domain.ErrInvalidPayload
	}
	if req.AuthorID == "" {
		return domain.NewError(domain.ErrCodeInvalid, "missing author")
	}
	if strings.TrimSpace(req.Title) == "" {
		return domain.NewError(domain.ErrCodeInvalid, "missing title")
	}
	if req.Date.IsZero() {
		return domain.NewError(domain.ErrCodeInvalid, "missing date")
	}
	if strings.TrimSpace(req.Category) == "" {
		return domain.NewError(domain.ErrCodeInvalid, "missing category")
	}
	if strings.TrimSpace(req.Level) == "" {
		return domain.NewError(domain.ErrCodeInvalid, "missing level")
	}
	if req.Type != domain.RequestTypeCreate && req.Type != domain.RequestTypeEdit {
		return domain.NewError(domain.ErrCodeInvalid, "request type must be CREATE or EDIT")
	}
	switch req.Format {
	case domain.FormatOffline:
		if req.Address == nil || strings.TrimSpace(*req.Address) == "" {
			return domain.NewError(domain.ErrCodeInvalid, "offline event requires an address")
		}
	case domain.FormatOnline:
		if req.ConferenceLink == nil || strings.TrimSpace(*req.ConferenceLink) == "" {
			return domain.NewError(domain.ErrCodeInvalid, "online event requires a conference link")
		}
	default:
		return domain.NewError(domain.ErrCodeInvalid, "format must be online or offline")
	}
	return nil
}
