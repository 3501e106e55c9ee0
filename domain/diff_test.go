package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func baseEvent() Event {
	return Event{
		Title:    "Go Meetup",
		Date:     time.Date(2026, 9, 10, 18, 30, 0, 0, time.UTC),
		Category: "tech",
		Format:   FormatOffline,
		Address:  strPtr("1 Main St"),
		Capacity: 100,
		Level:    "beginner",
	}
}

func TestDiffEventsNoChanges(t *testing.T) {
	before := baseEvent()
	after := before
	assert.Empty(t, DiffEvents(&before, &after))
}

func TestDiffEventsSingleField(t *testing.T) {
	before := baseEvent()
	after := before
	after.Title = "Go Conference"

	changes := DiffEvents(&before, &after)
	require.Len(t, changes, 1)
	assert.Equal(t, FieldChange{Field: "title", Old: "Go Meetup", New: "Go Conference"}, changes[0])
}

func TestDiffEventsFixedOrder(t *testing.T) {
	before := baseEvent()
	after := before
	after.Level = "advanced"
	after.Title = "Go Conference"
	after.Capacity = 250
	after.Date = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	after.Address = strPtr("2 Side St")

	changes := DiffEvents(&before, &after)
	require.Len(t, changes, 5)

	fields := make([]string, 0, len(changes))
	for _, c := range changes {
		fields = append(fields, c.Field)
	}
	assert.Equal(t, []string{"title", "date", "address", "capacity", "level"}, fields)
}

func TestDiffEventsDateFormat(t *testing.T) {
	before := baseEvent()
	after := before
	after.Date = time.Date(2026, 12, 24, 9, 5, 0, 0, time.UTC)

	changes := DiffEvents(&before, &after)
	require.Len(t, changes, 1)
	assert.Equal(t, "2026-09-10 18:30", changes[0].Old)
	assert.Equal(t, "2026-12-24 09:05", changes[0].New)
}

func TestDiffEventsNilAddress(t *testing.T) {
	before := baseEvent()
	before.Address = nil
	after := before

	assert.Empty(t, DiffEvents(&before, &after))

	after.Address = strPtr("1 Main St")
	changes := DiffEvents(&before, &after)
	require.Len(t, changes, 1)
	assert.Equal(t, "address", changes[0].Field)
	assert.Equal(t, "", changes[0].Old)
	assert.Equal(t, "1 Main St", changes[0].New)
}

func TestDiffEventsIgnoresCoordinatesAndLink(t *testing.T) {
	before := baseEvent()
	after := before
	lat, lon := 59.93, 30.33
	after.Latitude = &lat
	after.Longitude = &lon
	after.ConferenceLink = strPtr("https://meet.example.com/x")

	assert.Empty(t, DiffEvents(&before, &after))
}

func TestRenderChanges(t *testing.T) {
	html := RenderChanges([]FieldChange{
		{Field: "title", Old: "A", New: "B"},
		{Field: "capacity", Old: "10", New: "20"},
	})
	assert.Equal(t, "<ul><li><b>title:</b> «A» -> «B»</li><li><b>capacity:</b> «10» -> «20»</li></ul>", html)
}

func TestRenderChangesEmpty(t *testing.T) {
	assert.Equal(t, "<p>No differences.</p>", RenderChanges(nil))
}
