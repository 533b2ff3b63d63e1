// Package schedule holds the timetable domain: the weekly slot entry type,
// the merge pass that joins back-to-back lessons, and the projection of
// abstract slots onto concrete calendar dates.
package schedule

import (
	"cmp"
	"fmt"
	"strings"
)

// Entry is one logical weekly slot of the timetable. Raw service records are
// translated into zero-based fields before an Entry is built. Duration starts
// at 1 and only grows when consecutive slots are merged.
type Entry struct {
	ClassName  string
	WeekCode   int    // phase of the four-week alternation; the service emits 0 and 3
	RoomNumber string
	WeekDay    int // 0 = Monday .. 6 = Sunday
	SlotNumber int // zero-based period within the day
	Duration   int // periods spanned, >= 1
}

// Compare orders entries by the tuple (WeekCode, WeekDay, SlotNumber,
// RoomNumber, ClassName). Duration is deliberately excluded: a merged and an
// unmerged entry anchored at the same slot sort identically.
func Compare(a, b Entry) int {
	if c := cmp.Compare(a.WeekCode, b.WeekCode); c != 0 {
		return c
	}
	if c := cmp.Compare(a.WeekDay, b.WeekDay); c != 0 {
		return c
	}
	if c := cmp.Compare(a.SlotNumber, b.SlotNumber); c != 0 {
		return c
	}
	if c := strings.Compare(a.RoomNumber, b.RoomNumber); c != 0 {
		return c
	}
	return strings.Compare(a.ClassName, b.ClassName)
}

// Equal reports whether two entries occupy the same logical slot. Like
// Compare, it ignores Duration.
func Equal(a, b Entry) bool {
	return Compare(a, b) == 0
}

// Aligned reports whether two entries are the same class held in adjacent
// slots of the same day, week phase and room, i.e. halves of one longer
// lesson that the merge pass should join.
func Aligned(a, b Entry) bool {
	if a.ClassName != b.ClassName ||
		a.WeekCode != b.WeekCode ||
		a.WeekDay != b.WeekDay ||
		a.RoomNumber != b.RoomNumber {
		return false
	}
	d := a.SlotNumber - b.SlotNumber
	return d == 1 || d == -1
}

func (e Entry) String() string {
	return fmt.Sprintf("%s week_code=%d week_day=%d slot=%d room=%s duration=%d",
		e.ClassName, e.WeekCode, e.WeekDay, e.SlotNumber, e.RoomNumber, e.Duration)
}
