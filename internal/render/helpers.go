package render

import (
	"fmt"
	"strings"
	"time"
)

// The helpers parse the serialized template values (RFC 3339 start,
// whole-second duration) rather than model types, so the templates stay
// decoupled from the Go structs. Parse failures here mean extraction let
// something through it should not have; they surface as template
// execution errors.

func friendlyDate(iso string) (string, error) {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return "", fmt.Errorf("friendlyDate: %w", err)
	}
	// Long weekday, full month, no leading zero: "Friday, July 22".
	return t.Format("Monday, January 2"), nil
}

func friendlyTime(iso string) (string, error) {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return "", fmt.Errorf("friendlyTime: %w", err)
	}
	return t.Format("15:04"), nil
}

// friendlyTimeOffset is friendlyTime with the preserved UTC offset
// appended, e.g. "17:00 (+0200)".
func friendlyTimeOffset(iso string) (string, error) {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return "", fmt.Errorf("friendlyTimeOffset: %w", err)
	}
	return t.Format("15:04 (-0700)"), nil
}

func friendlyDuration(seconds int64) (string, error) {
	if seconds < 0 {
		return "", fmt.Errorf("friendlyDuration: negative duration %d", seconds)
	}
	minutes := seconds / 60
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60), nil
}

// AnchorID derives a markup-safe anchor token from an arbitrary label by
// stripping every character that is not an ASCII letter or digit. Two
// labels may strip to the same token; the renderer does not disambiguate.
func AnchorID(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}
