package schedule

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedSchedule marks a document whose structure or required
// temporal fields do not match the expected export shape. Extraction
// aborts entirely on it; a partial event list is never returned.
var ErrMalformedSchedule = errors.New("malformed schedule")

// Raw document shape: {schedule:{conference:{days:[{index, rooms:{...}}]}}}.
// Pointers distinguish "absent" from "empty" so structural mismatches can
// be reported by name instead of silently coerced away.
type rawDocument struct {
	Schedule *rawSchedule `json:"schedule"`
}

type rawSchedule struct {
	Conference *rawConference `json:"conference"`
}

type rawConference struct {
	Days []rawDay `json:"days"`
}

type rawDay struct {
	Index int          `json:"index"`
	Date  string       `json:"date"`
	Rooms orderedRooms `json:"rooms"`
}

type rawEvent struct {
	GUID        string      `json:"guid"`
	Date        string      `json:"date"`
	Duration    string      `json:"duration"`
	Title       string      `json:"title"`
	Room        string      `json:"room"`
	Track       string      `json:"track"`
	Abstract    string      `json:"abstract"`
	Description string      `json:"description"`
	Type        string      `json:"type"`
	URL         string      `json:"url"`
	Persons     []rawPerson `json:"persons"`
}

type rawPerson struct {
	PublicName string `json:"public_name"`
}

// orderedRooms decodes a rooms object while keeping the key order of the
// document, which encoding/json's map type discards. Traversal order of
// the output depends on it.
type orderedRooms struct {
	names  []string
	events map[string][]rawEvent
}

func (o *orderedRooms) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("rooms is not an object")
	}

	o.events = make(map[string][]rawEvent)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return errors.New("room name is not a string")
		}

		var events []rawEvent
		if err := dec.Decode(&events); err != nil {
			return fmt.Errorf("room %q: %w", name, err)
		}

		o.names = append(o.names, name)
		o.events[name] = events
	}

	// Consume the closing brace.
	_, err = dec.Token()
	return err
}

// Extract walks the raw schedule export and returns the flat event
// sequence in traversal order: days in array order, rooms in document
// order, events in array order. Any structural mismatch or unparsable
// date/duration fails the whole extraction with ErrMalformedSchedule.
func Extract(r io.Reader) ([]Event, error) {
	var doc rawDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSchedule, err)
	}
	if doc.Schedule == nil {
		return nil, fmt.Errorf("%w: missing %q", ErrMalformedSchedule, "schedule")
	}
	if doc.Schedule.Conference == nil {
		return nil, fmt.Errorf("%w: missing %q", ErrMalformedSchedule, "schedule.conference")
	}
	conf := doc.Schedule.Conference
	if conf.Days == nil {
		return nil, fmt.Errorf("%w: missing %q", ErrMalformedSchedule, "schedule.conference.days")
	}

	events := make([]Event, 0)
	ids := make(map[string]bool)

	for i, day := range conf.Days {
		// Source day numbering takes priority; the 1-based position in
		// the days array is the fallback.
		dayNum := day.Index
		if dayNum <= 0 {
			dayNum = i + 1
		}

		for _, name := range day.Rooms.names {
			for _, raw := range day.Rooms.events[name] {
				ev, err := parseEvent(raw, name, dayNum)
				if err != nil {
					return nil, err
				}
				ev.UniqueID = claimID(ids, ev.UniqueID)
				events = append(events, ev)
			}
		}
	}

	return events, nil
}

func parseEvent(raw rawEvent, roomName string, day int) (Event, error) {
	start, err := time.Parse(time.RFC3339, raw.Date)
	if err != nil {
		return Event{}, fmt.Errorf("%w: event %q: date %q: %v",
			ErrMalformedSchedule, raw.Title, raw.Date, err)
	}

	dur, err := parseDurationHHMM(raw.Duration)
	if err != nil {
		return Event{}, fmt.Errorf("%w: event %q: duration %q: %v",
			ErrMalformedSchedule, raw.Title, raw.Duration, err)
	}

	// Events usually repeat the room name; fall back to the rooms key.
	room := raw.Room
	if room == "" {
		room = roomName
	}

	people := make([]string, 0, len(raw.Persons))
	for _, p := range raw.Persons {
		people = append(people, p.PublicName)
	}

	ev := Event{
		Title:       Title(raw.Title),
		Room:        Room(room),
		Track:       Track(raw.Track),
		Day:         day,
		Start:       start,
		Duration:    dur,
		Brief:       raw.Abstract,
		Description: raw.Description,
		People:      people,
		EventType:   raw.Type,
		URL:         raw.URL,
		UniqueID:    raw.GUID,
	}
	if ev.UniqueID == "" {
		ev.UniqueID = SynthesizeID(ev.Title, ev.Room, ev.Start)
	}
	return ev, nil
}

// parseDurationHHMM parses the export's "HH:MM" duration format into a
// non-negative time span.
func parseDurationHHMM(s string) (time.Duration, error) {
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return 0, errors.New("expected HH:MM")
	}
	hours, err := strconv.Atoi(h)
	if err != nil {
		return 0, err
	}
	minutes, err := strconv.Atoi(m)
	if err != nil {
		return 0, err
	}
	if hours < 0 || minutes < 0 || minutes > 59 {
		return 0, errors.New("expected HH:MM")
	}
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, nil
}

// claimID registers id, appending a numeric suffix when it is already
// taken. Duplicate source ids are a data-quality defect, not a reason to
// abort the conversion.
func claimID(ids map[string]bool, id string) string {
	out := id
	for n := 2; ids[out]; n++ {
		out = fmt.Sprintf("%s-%d", id, n)
	}
	ids[out] = true
	return out
}
