package moderation

import (
	"context"
	"sort"

	"github.com/eventhub/backend/domain"
)

// reconcileMedia aligns the event's image set with the request's: files only
// in the request are moved into the event's scope, files only in the event
// are deleted (row and bytes). Filenames compare as exact strings. Any I/O
// failure aborts the surrounding approval transaction; because moves are
// idempotent, a retried approval picks up where the failed one stopped.
func (uc *UseCase) reconcileMedia(ctx context.Context, requestID, eventID string) error {
	current, err := uc.eventImages.List(ctx, eventID)
	if err != nil {
		return err
	}
	desired, err := uc.reqImages.List(ctx, requestID)
	if err != nil {
		return err
	}

	toAdd, toRemove := diffFileSets(current, desired)

	for _, fn := range toAdd {
		if err := uc.media.MoveRequestToEvent(requestID, eventID, fn); err != nil {
			return domain.WrapError(domain.ErrCodeInternal, "image move failed", err)
		}
		if err := uc.eventImages.Add(ctx, eventID, fn); err != nil {
			return err
		}
	}
	for _, fn := range toRemove {
		if err := uc.eventImages.Delete(ctx, eventID, fn); err != nil {
			return err
		}
		if err := uc.media.DeleteEventImage(eventID, fn); err != nil {
			return domain.WrapError(domain.ErrCodeInternal, "image delete failed", err)
		}
	}
	return nil
}

// diffFileSets computes the symmetric difference between two filename sets:
// toAdd = desired - current, toRemove = current - desired. Results are
// sorted so reconciliation order is deterministic.
func diffFileSets(current, desired []string) (toAdd, toRemove []string) {
	currentSet := make(map[string]struct{}, len(current))
	for _, fn := range current {
		currentSet[fn] = struct{}{}
	}
	desiredSet := make(map[string]struct{}, len(desired))
	for _, fn := range desired {
		desiredSet[fn] = struct{}{}
	}

	for fn := range desiredSet {
		if _, ok := currentSet[fn]; !ok {
			toAdd = append(toAdd, fn)
		}
	}
	for fn := range currentSet {
		if _, ok := desiredSet[fn]; !ok {
			toRemove = append(toRemove, fn)
		}
	}

	sort.Strings(toAdd)
	sort.Strings(toRemove)
	return toAdd, toRemove
}
