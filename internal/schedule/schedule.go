// Package schedule holds the normalized event model for a conference
// schedule export, the extractor that produces it from the raw JSON
// document, and the grouping views derived from it.
package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Title, Room and Track are distinct string types so that call sites
// cannot accidentally pass a room name where a track is expected.
type (
	Title string
	Room  string
	Track string
)

// DayCutoffHour is the boundary for attributing a start time to a
// schedule day: a start strictly before this hour belongs to the previous
// calendar day, so that 01:00 late-night programming stays on the day it
// is listed under.
const DayCutoffHour = 6

// Event is one scheduled activity (talk, workshop, ...). It is a plain
// value and is never mutated after extraction.
type Event struct {
	Title Title
	Room  Room
	Track Track

	// Day is the schedule day the event is listed under in the export.
	// It is not derived from Start by date truncation; see AttributedDate.
	Day int

	// Start preserves the UTC offset of the source document.
	Start    time.Time
	Duration time.Duration

	// Brief is the abstract; Description the long form. Either may be
	// empty and may contain newlines.
	Brief       string
	Description string

	// People holds display names in source order. Duplicates allowed.
	People []string

	EventType string
	URL       string

	// UniqueID is stable across runs against the same source and is used
	// to build cross-document anchors.
	UniqueID string
}

// TemplateData returns the generic key-value form consumed by the
// renderer's templates. Start is serialized as RFC 3339 with its offset
// and Duration as whole seconds, matching what the formatting helpers
// parse back out.
func (e Event) TemplateData() map[string]any {
	return map[string]any{
		"title":       string(e.Title),
		"room":        string(e.Room),
		"track":       string(e.Track),
		"day":         e.Day,
		"start":       e.Start.Format(time.RFC3339),
		"duration":    int64(e.Duration / time.Second),
		"brief":       e.Brief,
		"description": e.Description,
		"people":      append([]string(nil), e.People...),
		"event_type":  e.EventType,
		"url":         e.URL,
		"unique_id":   e.UniqueID,
	}
}

// AttributedDate returns the calendar date (midnight, same offset) a
// start time belongs to under the late-night rule: anything strictly
// before cutoffHour counts as the previous day.
func AttributedDate(t time.Time, cutoffHour int) time.Time {
	if t.Hour() < cutoffHour {
		t = t.AddDate(0, 0, -1)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// idNamespace seeds SynthesizeID so that synthesized ids are stable
// across runs and cannot collide with ids from other UUID namespaces.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/barometz/mch-schedule-reflow"))

// SynthesizeID derives a deterministic identifier for an event whose
// source record carries no usable id. Repeated runs over the same source
// produce the same id.
func SynthesizeID(title Title, room Room, start time.Time) string {
	seed := fmt.Sprintf("%s|%s|%s", title, room, start.Format(time.RFC3339))
	return uuid.NewSHA1(idNamespace, []byte(seed)).String()
}
