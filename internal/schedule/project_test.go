package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 05-02-2024 is a Monday, matching a typical spring semester start.
var mondayStart = time.Date(2024, time.February, 5, 0, 0, 0, 0, time.Local)

func testTiming(start time.Time) Timing {
	return Timing{
		SemesterStart:   start,
		AcademicHour:    40,
		ShortRecreation: 10,
		LongRecreation:  40,
		RepeatCount:     5,
	}
}

func TestProjectFirstSlot(t *testing.T) {
	e := entry("МПСиС [Лек]", 0, 0, 0, "3102")

	occ := Project(e, testTiming(mondayStart))

	assert.Equal(t, time.Date(2024, time.February, 5, 9, 0, 0, 0, time.Local), occ.Start)
	assert.Equal(t, time.Date(2024, time.February, 5, 10, 20, 0, 0, time.Local), occ.End)
	assert.Equal(t, "МПСиС [Лек]", occ.Summary)
	assert.Equal(t, "3102", occ.Location)
	assert.Equal(t, 4, occ.Recurrence.Interval)
	assert.Equal(t, 5, occ.Recurrence.Count)
	assert.NotEmpty(t, occ.UID)
}

func TestProjectLongBreakAfterSecondSlot(t *testing.T) {
	e := entry("МПСиС [Лек]", 0, 0, 3, "3102")

	occ := Project(e, testTiming(mondayStart))

	// 3*(80+10) minutes of cadence plus the 30-minute long-break surplus.
	assert.Equal(t, time.Date(2024, time.February, 5, 14, 0, 0, 0, time.Local), occ.Start)
	assert.Equal(t, time.Date(2024, time.February, 5, 15, 20, 0, 0, time.Local), occ.End)
}

func TestProjectMergedEntryDuration(t *testing.T) {
	e := entry("МПСиС [Лаб]", 0, 0, 0, "3102")
	e.Duration = 2

	occ := Project(e, testTiming(mondayStart))

	// Two periods joined by one short break: 80 + 10 + 80 minutes.
	assert.Equal(t, 170*time.Minute, occ.End.Sub(occ.Start))
}

func TestProjectSecondPhaseWeekOffset(t *testing.T) {
	e := entry("МПСиС [Лек]", 3, 0, 0, "3102")

	occ := Project(e, testTiming(mondayStart))

	assert.Equal(t, time.Date(2024, time.February, 26, 9, 0, 0, 0, time.Local), occ.Start)
}

func TestProjectCycleWrap(t *testing.T) {
	// Semester starting on a Wednesday; a Monday slot of the first phase
	// cannot land before the semester, so it moves to the next cycle
	// iteration: (0+4)*7 + (0-2-1) = 25 days after the start.
	wednesdayStart := time.Date(2024, time.February, 7, 0, 0, 0, 0, time.Local)
	e := entry("МПСиС [Лек]", 0, 0, 0, "3102")

	occ := Project(e, testTiming(wednesdayStart))

	assert.Equal(t, time.Date(2024, time.March, 3, 9, 0, 0, 0, time.Local), occ.Start)
}

func TestProjectNoWrapForLaterWeekday(t *testing.T) {
	// Same Wednesday start, but a Friday slot fits into the first week.
	wednesdayStart := time.Date(2024, time.February, 7, 0, 0, 0, 0, time.Local)
	e := entry("МПСиС [Лек]", 0, 4, 0, "3102")

	occ := Project(e, testTiming(wednesdayStart))

	assert.Equal(t, time.Date(2024, time.February, 9, 9, 0, 0, 0, time.Local), occ.Start)
}

func TestProjectAllKeepsOrderAndUniqueUIDs(t *testing.T) {
	entries := []Entry{
		entry("АиСД [Сем]", 0, 0, 0, "2203"),
		entry("Физика [Лек]", 0, 0, 1, "2203"),
	}

	occs := ProjectAll(entries, testTiming(mondayStart))

	require.Len(t, occs, 2)
	assert.Equal(t, "АиСД [Сем]", occs[0].Summary)
	assert.Equal(t, "Физика [Лек]", occs[1].Summary)
	assert.NotEqual(t, occs[0].UID, occs[1].UID)
}

func TestTimingValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Timing)
	}{
		{"zero semester start", func(tm *Timing) { tm.SemesterStart = time.Time{} }},
		{"non-positive academic hour", func(tm *Timing) { tm.AcademicHour = 0 }},
		{"non-positive short recreation", func(tm *Timing) { tm.ShortRecreation = -5 }},
		{"non-positive long recreation", func(tm *Timing) { tm.LongRecreation = 0 }},
		{"zero repeat count", func(tm *Timing) { tm.RepeatCount = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := testTiming(mondayStart)
			tt.mutate(&tm)
			assert.Error(t, tm.Validate())
		})
	}

	assert.NoError(t, testTiming(mondayStart).Validate())
}
