// Package export emits the extracted events in machine-readable formats.
// Currently that is iCalendar, so the converted schedule can be loaded
// into a regular calendar client alongside the readable document.
package export

import (
	"io"

	ics "github.com/arran4/golang-ical"

	"github.com/barometz/mch-schedule-reflow/internal/schedule"
)

// WriteICS serializes events as an iCalendar document. Event order and
// timestamps (including the source UTC offset) are preserved.
func WriteICS(w io.Writer, events []schedule.Event) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//mch-schedule-reflow//EN")

	for _, ev := range events {
		ve := cal.AddEvent(ev.UniqueID)
		ve.SetSummary(string(ev.Title))
		ve.SetStartAt(ev.Start)
		ve.SetEndAt(ev.Start.Add(ev.Duration))
		if ev.Room != "" {
			ve.SetLocation(string(ev.Room))
		}
		if ev.Description != "" {
			ve.SetDescription(ev.Description)
		} else if ev.Brief != "" {
			ve.SetDescription(ev.Brief)
		}
		if ev.URL != "" {
			ve.SetURL(ev.URL)
		}
		if ev.Track != "" {
			ve.SetProperty(ics.ComponentPropertyCategories, string(ev.Track))
		}
	}

	_, err := io.WriteString(w, cal.Serialize())
	return err
}
