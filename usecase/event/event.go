package event

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/eventhub/backend/domain"
	"github.com/eventhub/backend/repository"
	"github.com/eventhub/backend/usecase"
)

// UseCase covers the published-event read surface plus owner-only deletion
// and image management.
type UseCase struct {
	events      repository.EventRepository
	rsvps       repository.RsvpRepository
	eventImages repository.EventImageRepository
	media       usecase.MediaStore
	logger      *zap.Logger
}

func New(
	events repository.EventRepository,
	rsvps repository.RsvpRepository,
	eventImages repository.EventImageRepository,
	media usecase.MediaStore,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		events:      events,
		rsvps:       rsvps,
		eventImages: eventImages,
		media:       media,
		logger:      logger,
	}
}

func (uc *UseCase) List(ctx context.Context, filter repository.EventFilter) ([]domain.EventDetails, error) {
	events, err := uc.events.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return uc.decorate(ctx, events)
}

func (uc *UseCase) Get(ctx context.Context, id string) (*domain.EventDetails, error) {
	ev, err := uc.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	details, err := uc.decorate(ctx, []domain.Event{*ev})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (uc *UseCase) Mine(ctx context.Context, ownerID string) ([]domain.EventDetails, error) {
	events, err := uc.events.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return uc.decorate(ctx, events)
}

// Delete removes an event and everything it owns: image and rsvp rows go via
// database cascade, image bytes via the media store.
func (uc *UseCase) Delete(ctx context.Context, id, actorID string) error {
	ev, err := uc.events.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if ev.OwnerID != actorID {
		return domain.ErrNotOwner
	}
	if err := uc.events.Delete(ctx, id); err != nil {
		return err
	}
	if err := uc.media.RemoveEventDir(id); err != nil {
		uc.logger.Warn("failed to remove event image directory",
			zap.String("event_id", id), zap.Error(err))
	}
	return nil
}

func (uc *UseCase) UploadImages(ctx context.Context, eventID, actorID string, files []usecase.ImageUpload) ([]string, error) {
	ev, err := uc.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ev.OwnerID != actorID {
		return nil, domain.ErrNotOwner
	}

	urls := make([]string, 0, len(files))
	for _, f := range files {
		stored, err := uc.media.SaveEventImage(ev.ID, f.Filename, f.Content)
		if err != nil {
			return nil, domain.WrapError(domain.ErrCodeInternal, "image save failed", err)
		}
		if err := uc.eventImages.Add(ctx, ev.ID, stored); err != nil {
			return nil, err
		}
		urls = append(urls, eventImageURL(ev.ID, stored))
	}
	return urls, nil
}

func (uc *UseCase) DeleteImage(ctx context.Context, eventID, filename, actorID string) error {
	ev, err := uc.events.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if ev.OwnerID != actorID {
		return domain.ErrNotOwner
	}
	if err := uc.eventImages.Delete(ctx, ev.ID, filename); err != nil {
		return err
	}
	return uc.media.DeleteEventImage(ev.ID, filename)
}

// ImagePath resolves the on-disk location of an event image for serving.
func (uc *UseCase) ImagePath(ctx context.Context, eventID, filename string) (string, error) {
	ok, err := uc.eventImages.Exists(ctx, eventID, filename)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrImageNotFound
	}
	return uc.media.EventImagePath(eventID, filename)
}

func (uc *UseCase) decorate(ctx context.Context, events []domain.Event) ([]domain.EventDetails, error) {
	type ownerRating struct {
		avg   float64
		count int64
	}
	ratings := make(map[string]ownerRating)

	details := make([]domain.EventDetails, 0, len(events))
	for _, ev := range events {
		files, err := uc.eventImages.List(ctx, ev.ID)
		if err != nil {
			return nil, err
		}
		urls := make([]string, 0, len(files))
		for _, fn := range files {
			urls = append(urls, eventImageURL(ev.ID, fn))
		}

		rating, ok := ratings[ev.OwnerID]
		if !ok {
			avg, count, err := uc.rsvps.OwnerRating(ctx, ev.OwnerID)
			if err != nil {
				return nil, err
			}
			rating = ownerRating{avg: avg, count: count}
			ratings[ev.OwnerID] = rating
		}

		details = append(details, domain.EventDetails{
			Event:            ev,
			ImageURLs:        urls,
			OwnerRating:      rating.avg,
			OwnerRatingCount: rating.count,
		})
	}
	return details, nil
}

func eventImageURL(eventID, filename string) string {
	return fmt.Sprintf("/api/v1/events/%s/images/%s", eventID, filename)
}
