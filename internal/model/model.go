package model

import "time"

// Occurrence is a single concrete calendar event derived from one merged
// schedule entry: the absolute start/end of its first instance plus the
// recurrence that carries it through the rest of the semester.
type Occurrence struct {
	// UID is a freshly generated identifier, unique per occurrence.
	UID string

	Summary  string
	Location string

	// Start / End are in the institution's local time.
	Start time.Time
	End   time.Time

	Recurrence Recurrence
}

// Recurrence describes the weekly repetition of an occurrence. The
// institution alternates week patterns on a four-week cycle, so the same
// slot repeats every Interval weeks rather than every week.
type Recurrence struct {
	Interval int
	Count    int
}
