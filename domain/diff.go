package domain

import (
	"fmt"
	"strconv"
)

// FieldChange names a single field whose value differs between two event
// snapshots, with both values already rendered for humans.
type FieldChange struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

const diffTimeLayout = "2006-01-02 15:04"

// DiffEvents compares two event snapshots field by field and returns the list
// of changes in a fixed order: title, description, date, category, format,
// address, capacity, level. Coordinates and the conference link are derived
// or secondary and are left out of the rendered diff. Equal values, including
// both-nil optional fields, produce no entry.
func DiffEvents(before, after *Event) []FieldChange {
	var changes []FieldChange

	add := func(field, oldVal, newVal string) {
		changes = append(changes, FieldChange{Field: field, Old: oldVal, New: newVal})
	}

	if before.Title != after.Title {
		add("title", before.Title, after.Title)
	}
	if before.Description != after.Description {
		add("description", before.Description, after.Description)
	}
	if !before.Date.Equal(after.Date) {
		add("date", before.Date.Format(diffTimeLayout), after.Date.Format(diffTimeLayout))
	}
	if before.Category != after.Category {
		add("category", before.Category, after.Category)
	}
	if before.Format != after.Format {
		add("format", before.Format, after.Format)
	}
	if !strPtrEqual(before.Address, after.Address) {
		add("address", strPtrValue(before.Address), strPtrValue(after.Address))
	}
	if before.Capacity != after.Capacity {
		add("capacity", strconv.Itoa(before.Capacity), strconv.Itoa(after.Capacity))
	}
	if before.Level != after.Level {
		add("level", before.Level, after.Level)
	}

	return changes
}

// RenderChanges turns a change list into the HTML fragment embedded in update
// notifications. An empty list renders an explicit "no differences" line so
// recipients never get a blank message body.
func RenderChanges(changes []FieldChange) string {
	if len(changes) == 0 {
		return "<p>No differences.</p>"
	}
	out := "<ul>"
	for _, c := range changes {
		out += fmt.Sprintf("<li><b>%s:</b> «%s» -> «%s»</li>", c.Field, c.Old, c.New)
	}
	return out + "</ul>"
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func strPtrValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
