package schedule

import (
	"errors"
	"slices"
)

// ErrNoEntries is returned by Merge when the input holds no entries at all.
// An empty timetable upstream means the fetch went wrong; silently emitting
// an empty calendar would hide that.
var ErrNoEntries = errors.New("schedule: no entries to merge")

// Merge returns the entries sorted by Compare with every run of back-to-back
// slots of the same class collapsed into a single entry whose Duration is the
// run length. The anchor of a collapsed run is its earliest slot. The input
// slice is left untouched.
//
// Merge is idempotent: feeding its output back in returns the same list.
func Merge(entries []Entry) ([]Entry, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	sorted := slices.Clone(entries)
	slices.SortFunc(sorted, Compare)

	// Single forward pass: either the next entry continues the block we are
	// building, or it starts a new one.
	merged := make([]Entry, 0, len(sorted))
	merged = append(merged, sorted[0])
	for _, e := range sorted[1:] {
		last := &merged[len(merged)-1]
		if continues(*last, e) {
			last.Duration += e.Duration
			continue
		}
		merged = append(merged, e)
	}
	return merged, nil
}

// continues reports whether e starts exactly where the block anchored at prev
// ends. For two fresh entries (Duration 1) this is the Aligned predicate with
// prev in the earlier slot; tracking prev.Duration lets a run of three or
// more slots collapse in one pass.
func continues(prev, e Entry) bool {
	return e.ClassName == prev.ClassName &&
		e.WeekCode == prev.WeekCode &&
		e.WeekDay == prev.WeekDay &&
		e.RoomNumber == prev.RoomNumber &&
		e.SlotNumber == prev.SlotNumber+prev.Duration
}
