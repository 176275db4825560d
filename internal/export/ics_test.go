package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barometz/mch-schedule-reflow/internal/schedule"
)

func TestWriteICS(t *testing.T) {
	events := []schedule.Event{
		{
			Title:       "Opening",
			Room:        "Abacus",
			Track:       "Curated content",
			Day:         1,
			Start:       time.Date(2022, 7, 22, 17, 0, 0, 0, time.FixedZone("CEST", 2*60*60)),
			Duration:    50 * time.Minute,
			Description: "How the camp works.",
			URL:         "https://example.org/talk/opening",
			UniqueID:    "id-1",
		},
		{
			Title:    "Closing",
			Room:     "Abacus",
			Day:      3,
			Start:    time.Date(2022, 7, 26, 16, 0, 0, 0, time.FixedZone("CEST", 2*60*60)),
			Duration: time.Hour,
			UniqueID: "id-2",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteICS(&buf, events))
	out := buf.String()

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "END:VCALENDAR")
	assert.Contains(t, out, "UID:id-1")
	assert.Contains(t, out, "UID:id-2")
	assert.Contains(t, out, "SUMMARY:Opening")
	assert.Contains(t, out, "LOCATION:Abacus")
	// 17:00 +0200 is 15:00 UTC; the 50 minute duration sets DTEND.
	assert.Contains(t, out, "DTSTART:20220722T150000Z")
	assert.Contains(t, out, "DTEND:20220722T155000Z")
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("BEGIN:VEVENT")))
}
