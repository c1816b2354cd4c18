package models

// TimeSlot is immutable reference data describing a weekly meeting window.
// Day is 0-6 (Monday-Sunday); times are minutes from midnight with
// EndMinute > StartMinute.
type TimeSlot struct {
	ID          string `db:"id" json:"id"`
	Day         int    `db:"day" json:"day"`
	StartMinute int    `db:"start_minute" json:"start_minute"`
	EndMinute   int    `db:"end_minute" json:"end_minute"`
	Room        string `db:"room" json:"room"`
}

// Overlaps applies the half-open interval rule on a shared day. A slot that
// ends exactly when another starts does not overlap it.
func (t TimeSlot) Overlaps(o TimeSlot) bool {
	if t.Day != o.Day {
		return false
	}
	start := t.StartMinute
	if o.StartMinute > start {
		start = o.StartMinute
	}
	end := t.EndMinute
	if o.EndMinute < end {
		end = o.EndMinute
	}
	return start < end
}

// SlotKey is the coarse (day, start) key the greedy scheduler uses as a fast
// conflict pre-check. Correctness of hard guarantees still rests on Overlaps.
type SlotKey struct {
	Day   int
	Start int
}

// Key returns the slot's coarse (day, start) key.
func (t TimeSlot) Key() SlotKey {
	return SlotKey{Day: t.Day, Start: t.StartMinute}
}
