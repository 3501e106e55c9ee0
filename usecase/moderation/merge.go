package moderation

import (
	"context"
	"strings"

	"github.com/eventhub/backend/domain"
)

// merge copies the request payload onto the event and applies the
// format-exclusivity rule: an offline event never keeps a conference link,
// an online event never keeps location fields, no matter what the request
// carried. Missing coordinates and a blank city are enriched through the
// geocoder; a failed lookup is a silent no-op.
func (uc *UseCase) merge(ctx context.Context, req *domain.ChangeRequest, ev *domain.Event) {
	ev.Title = req.Title
	ev.Description = req.Description
	ev.Date = req.Date
	ev.Category = req.Category
	ev.Format = req.Format
	ev.Capacity = req.Capacity
	ev.Level = req.Level

	if req.Format == domain.FormatOffline {
		ev.Address = req.Address
		ev.City = req.City
		ev.Latitude = req.Latitude
		ev.Longitude = req.Longitude
		ev.ConferenceLink = nil

		address := ""
		if req.Address != nil {
			address = strings.TrimSpace(*req.Address)
		}
		if address == "" {
			return
		}

		if ev.Latitude == nil || ev.Longitude == nil {
			if coords, ok := uc.geo.Geocode(ctx, address); ok {
				lat, lon := coords.Latitude, coords.Longitude
				ev.Latitude = &lat
				ev.Longitude = &lon
			}
		}
		if ev.City == nil || strings.TrimSpace(*ev.City) == "" {
			if city, ok := uc.geo.Locality(ctx, address); ok {
				ev.City = &city
			}
		}
		return
	}

	// Online: clear every location field so stale offline data cannot leak
	// through an online edit.
	ev.ConferenceLink = req.ConferenceLink
	ev.Address = nil
	ev.City = nil
	ev.Latitude = nil
	ev.Longitude = nil
}
