package schedule

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvents(t *testing.T) []Event {
	t.Helper()
	events, err := Extract(strings.NewReader(sampleDoc))
	require.NoError(t, err)
	return events
}

func TestByRoomThenDayCountRoundTrip(t *testing.T) {
	events := testEvents(t)
	byRoom := ByRoomThenDay(events)

	total := 0
	for _, days := range byRoom {
		for _, group := range days {
			total += len(group)
		}
	}
	assert.Equal(t, len(events), total)
}

func TestByDayThenRoomCountRoundTrip(t *testing.T) {
	events := testEvents(t)
	byDay := ByDayThenRoom(events)

	total := 0
	for _, rooms := range byDay {
		for _, group := range rooms {
			total += len(group)
		}
	}
	assert.Equal(t, len(events), total)
}

// Every leaf group must be a subsequence of the input in original
// relative order.
func TestGroupingPreservesOrder(t *testing.T) {
	events := testEvents(t)

	position := make(map[string]int, len(events))
	for i, ev := range events {
		position[ev.UniqueID] = i
	}

	assertOrdered := func(group []Event) {
		for i := 1; i < len(group); i++ {
			assert.Less(t, position[group[i-1].UniqueID], position[group[i].UniqueID])
		}
	}

	for _, days := range ByRoomThenDay(events) {
		for _, group := range days {
			assertOrdered(group)
		}
	}
	for _, rooms := range ByDayThenRoom(events) {
		for _, group := range rooms {
			assertOrdered(group)
		}
	}
}

func TestGroupingKeys(t *testing.T) {
	events := testEvents(t)

	byRoom := ByRoomThenDay(events)
	require.Len(t, byRoom, 2)
	require.Contains(t, byRoom, Room("Abacus  🧮"))
	require.Contains(t, byRoom, Room("Clacker"))

	// Clacker hosts events on both days.
	assert.Len(t, byRoom[Room("Clacker")], 2)
	// Both Abacus events sit on day 1, including the 01:00 one.
	assert.Len(t, byRoom[Room("Abacus  🧮")][1], 2)

	byDay := ByDayThenRoom(events)
	require.Len(t, byDay, 2)
	assert.Len(t, byDay[1][Room("Abacus  🧮")], 2)
	assert.Len(t, byDay[2][Room("Clacker")], 1)
}

func TestRoomsAndDaysFirstAppearanceOrder(t *testing.T) {
	events := testEvents(t)

	assert.Equal(t, []Room{"Abacus  🧮", "Clacker"}, Rooms(events))
	assert.Equal(t, []int{1, 2}, Days(events))

	assert.Empty(t, Rooms(nil))
	assert.Empty(t, Days(nil))
}
