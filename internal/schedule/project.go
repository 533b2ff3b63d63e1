package schedule

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"mietcal/internal/model"
)

const (
	// dayStartHour is the local wall-clock hour the first period of any day
	// begins at.
	dayStartHour = 9

	// slotGapMinutes is the short break baked into the slot cadence. The
	// grid positions of periods are fixed by the institution, so this stays
	// 10 minutes even when the configured short recreation differs.
	slotGapMinutes = 10

	// cycleWeeks is the length of the institution's week alternation.
	cycleWeeks = 4

	// longBreakAfterSlot: one long recreation is inserted after this period
	// of the day; later slots start correspondingly later.
	longBreakAfterSlot = 2
)

// Timing is the semester-wide timing configuration the projector needs.
// All durations are minutes.
type Timing struct {
	SemesterStart   time.Time // first teaching day, local midnight
	AcademicHour    int
	ShortRecreation int
	LongRecreation  int
	RepeatCount     int
}

// Validate checks the projector preconditions. Projection itself assumes a
// valid Timing, so callers must run this first.
func (t Timing) Validate() error {
	if t.SemesterStart.IsZero() {
		return errors.New("schedule: semester start date is not set")
	}
	if t.AcademicHour <= 0 {
		return errors.New("schedule: academic hour duration must be positive")
	}
	if t.ShortRecreation <= 0 {
		return errors.New("schedule: short recreation duration must be positive")
	}
	if t.LongRecreation <= 0 {
		return errors.New("schedule: long recreation duration must be positive")
	}
	if t.RepeatCount < 1 {
		return errors.New("schedule: repeat count must be at least 1")
	}
	return nil
}

// Project maps one merged entry onto its first concrete occurrence plus the
// recurrence repeating it every cycle. Apart from the generated UID the
// result is fully determined by the entry and the timing.
func Project(e Entry, t Timing) model.Occurrence {
	date := firstOccurrenceDate(e, t.SemesterStart)

	pair := 2 * t.AcademicHour
	offset := e.SlotNumber * (pair + slotGapMinutes)
	if e.SlotNumber > longBreakAfterSlot {
		offset += t.LongRecreation - t.ShortRecreation
	}

	start := time.Date(date.Year(), date.Month(), date.Day(),
		dayStartHour, 0, 0, 0, date.Location()).
		Add(time.Duration(offset) * time.Minute)

	// Merged periods are adjacent by construction, so only short breaks sit
	// between them.
	length := e.Duration*pair + (e.Duration-1)*t.ShortRecreation
	end := start.Add(time.Duration(length) * time.Minute)

	return model.Occurrence{
		UID:      uuid.NewString(),
		Summary:  e.ClassName,
		Location: e.RoomNumber,
		Start:    start,
		End:      end,
		Recurrence: model.Recurrence{
			Interval: cycleWeeks,
			Count:    t.RepeatCount,
		},
	}
}

// ProjectAll projects every entry in order. The input is expected to already
// be in merged (sorted) order, so the output events are deterministic too.
func ProjectAll(entries []Entry, t Timing) []model.Occurrence {
	out := make([]model.Occurrence, 0, len(entries))
	for _, e := range entries {
		out = append(out, Project(e, t))
	}
	return out
}

// firstOccurrenceDate resolves the calendar date of the entry's first
// occurrence. When the target weekday of a first-phase slot falls before the
// semester's opening weekday, the occurrence moves to the next iteration of
// that phase instead of landing before the semester starts.
func firstOccurrenceDate(e Entry, semesterStart time.Time) time.Time {
	firstWeekday := mondayIndex(semesterStart.Weekday())

	weekOffset := e.WeekCode * 7
	dayOffset := e.WeekDay - firstWeekday
	if e.WeekDay < firstWeekday && e.WeekCode == 0 {
		weekOffset = (e.WeekCode + cycleWeeks) * 7
		dayOffset = e.WeekDay - firstWeekday - 1
	}
	return semesterStart.AddDate(0, 0, weekOffset+dayOffset)
}

// mondayIndex converts Go's Sunday-based weekday to the Monday=0 numbering
// the timetable uses.
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
