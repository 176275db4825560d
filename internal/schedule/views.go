package schedule

// Grouping views are derived, read-only indices over the flat event
// sequence. They hold copies of the Event values (Event is a small value
// type) and never reorder events within a group: the inner sequences keep
// the relative order of the input exactly.

// ByRoomThenDay groups events first by room, then by schedule day.
func ByRoomThenDay(events []Event) map[Room]map[int][]Event {
	out := make(map[Room]map[int][]Event)
	for _, ev := range events {
		days, ok := out[ev.Room]
		if !ok {
			days = make(map[int][]Event)
			out[ev.Room] = days
		}
		days[ev.Day] = append(days[ev.Day], ev)
	}
	return out
}

// ByDayThenRoom groups events first by schedule day, then by room.
func ByDayThenRoom(events []Event) map[int]map[Room][]Event {
	out := make(map[int]map[Room][]Event)
	for _, ev := range events {
		rooms, ok := out[ev.Day]
		if !ok {
			rooms = make(map[Room][]Event)
			out[ev.Day] = rooms
		}
		rooms[ev.Room] = append(rooms[ev.Room], ev)
	}
	return out
}

// Rooms returns the distinct rooms of events in first-appearance order,
// so that iteration over a grouping index is deterministic.
func Rooms(events []Event) []Room {
	seen := make(map[Room]bool)
	out := make([]Room, 0)
	for _, ev := range events {
		if !seen[ev.Room] {
			seen[ev.Room] = true
			out = append(out, ev.Room)
		}
	}
	return out
}

// Days returns the distinct schedule days of events in first-appearance
// order.
func Days(events []Event) []int {
	seen := make(map[int]bool)
	out := make([]int, 0)
	for _, ev := range events {
		if !seen[ev.Day] {
			seen[ev.Day] = true
			out = append(out, ev.Day)
		}
	}
	return out
}
