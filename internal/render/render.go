// Package render turns the flat event sequence and its grouping indices
// into a markdown document with pandoc-style header attributes, so the
// room and day sections can link back to each event's anchor.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/barometz/mch-schedule-reflow/internal/schedule"
)

// Mode selects the document layout.
type Mode string

const (
	// ModeFull emits the three cross-linked sections: chronological,
	// by-room and by-day.
	ModeFull Mode = "full"
	// ModeInline emits only the chronological section, without anchors,
	// for plain-text reading.
	ModeInline Mode = "inline"
)

// Options configures a Renderer.
type Options struct {
	// Mode defaults to ModeFull.
	Mode Mode
	// PeopleSeparator joins the people list; defaults to ", ".
	PeopleSeparator string
}

// Renderer writes schedule documents. Each Renderer owns its template set
// and helper functions; nothing is registered process-wide, so concurrent
// conversions cannot observe each other.
type Renderer struct {
	mode Mode
	tmpl *template.Template
}

// New builds a Renderer with a fresh helper set.
func New(opts Options) (*Renderer, error) {
	mode := opts.Mode
	switch mode {
	case "":
		mode = ModeFull
	case ModeFull, ModeInline:
	default:
		return nil, fmt.Errorf("render: unknown mode %q", mode)
	}

	sep := opts.PeopleSeparator
	if sep == "" {
		sep = ", "
	}

	funcs := template.FuncMap{
		"friendlyDate":       friendlyDate,
		"friendlyTime":       friendlyTime,
		"friendlyTimeOffset": friendlyTimeOffset,
		"friendlyDuration":   friendlyDuration,
		"anchor":             AnchorID,
		"join":               strings.Join,
		"people":             func(names []string) string { return strings.Join(names, sep) },
	}

	tmpl, err := template.New("schedule").Funcs(funcs).Parse(fullTemplate)
	if err != nil {
		return nil, fmt.Errorf("render: parse templates: %w", err)
	}
	if _, err := tmpl.New("inline").Parse(inlineTemplate); err != nil {
		return nil, fmt.Errorf("render: parse templates: %w", err)
	}

	return &Renderer{mode: mode, tmpl: tmpl}, nil
}

// Render writes one document for events and its grouping indices. It only
// writes to w and does not mutate its inputs. Byte-identical inputs
// produce byte-identical output.
func (r *Renderer) Render(w io.Writer, events []schedule.Event,
	byRoom map[schedule.Room]map[int][]schedule.Event,
	byDay map[int]map[schedule.Room][]schedule.Event) error {

	name := "schedule"
	if r.mode == ModeInline {
		name = "inline"
	}
	if err := r.tmpl.ExecuteTemplate(w, name, buildContext(events, byRoom, byDay)); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

type renderContext struct {
	Events []map[string]any
	Rooms  []roomSection
	Days   []daySection
}

type roomSection struct {
	Name string
	Days []roomDaySection
}

type roomDaySection struct {
	Number int
	Date   string
	Events []map[string]any
}

type daySection struct {
	Number int
	Date   string
	Rooms  []dayRoomSection
}

type dayRoomSection struct {
	Name   string
	Events []map[string]any
}

func buildContext(events []schedule.Event,
	byRoom map[schedule.Room]map[int][]schedule.Event,
	byDay map[int]map[schedule.Room][]schedule.Event) renderContext {

	ctx := renderContext{Events: make([]map[string]any, 0, len(events))}
	for _, ev := range events {
		ctx.Events = append(ctx.Events, ev.TemplateData())
	}

	// Section order follows first appearance in the flat sequence; the
	// grouping maps themselves have no iteration order to rely on.
	for _, room := range schedule.Rooms(events) {
		sec := roomSection{Name: string(room)}
		roomEvents := filterRoom(events, room)
		for _, day := range schedule.Days(roomEvents) {
			group := byRoom[room][day]
			sec.Days = append(sec.Days, roomDaySection{
				Number: day,
				Date:   groupDate(group),
				Events: templateData(group),
			})
		}
		ctx.Rooms = append(ctx.Rooms, sec)
	}

	for _, day := range schedule.Days(events) {
		dayEvents := filterDay(events, day)
		sec := daySection{Number: day, Date: groupDate(dayEvents)}
		for _, room := range schedule.Rooms(dayEvents) {
			sec.Rooms = append(sec.Rooms, dayRoomSection{
				Name:   string(room),
				Events: templateData(byDay[day][room]),
			})
		}
		ctx.Days = append(ctx.Days, sec)
	}

	return ctx
}

func filterRoom(events []schedule.Event, room schedule.Room) []schedule.Event {
	out := make([]schedule.Event, 0)
	for _, ev := range events {
		if ev.Room == room {
			out = append(out, ev)
		}
	}
	return out
}

func filterDay(events []schedule.Event, day int) []schedule.Event {
	out := make([]schedule.Event, 0)
	for _, ev := range events {
		if ev.Day == day {
			out = append(out, ev)
		}
	}
	return out
}

func templateData(events []schedule.Event) []map[string]any {
	out := make([]map[string]any, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.TemplateData())
	}
	return out
}

// groupDate derives the calendar date shown in a day heading from the
// group's first event, applying the late-night attribution rule.
func groupDate(group []schedule.Event) string {
	if len(group) == 0 {
		return ""
	}
	return schedule.AttributedDate(group[0].Start, schedule.DayCutoffHour).Format(time.RFC3339)
}
