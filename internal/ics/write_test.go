package ics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mietcal/internal/model"
)

func testOccurrence(uid, summary string) model.Occurrence {
	start := time.Date(2024, time.February, 5, 9, 0, 0, 0, time.UTC)
	return model.Occurrence{
		UID:      uid,
		Summary:  summary,
		Location: "3102",
		Start:    start,
		End:      start.Add(80 * time.Minute),
		Recurrence: model.Recurrence{
			Interval: 4,
			Count:    5,
		},
	}
}

func TestBuildCalendar(t *testing.T) {
	occs := []model.Occurrence{
		testOccurrence("uid-1", "МПСиС [Лаб]"),
		testOccurrence("uid-2", "Физика [Лек]"),
	}

	data, err := BuildCalendar(occs)
	require.NoError(t, err)

	assert.Contains(t, data, "BEGIN:VCALENDAR")
	assert.Contains(t, data, "FREQ=WEEKLY")
	assert.Contains(t, data, "INTERVAL=4")
	assert.Contains(t, data, "COUNT=5")
	assert.Contains(t, data, "LOCATION:3102")

	// The output must parse back with both events intact.
	cal, err := ical.ParseCalendar(strings.NewReader(data))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 2)

	uids := make([]string, 0, len(events))
	for _, ev := range events {
		uids = append(uids, ev.GetProperty(ical.ComponentPropertyUniqueId).Value)
	}
	assert.ElementsMatch(t, []string{"uid-1", "uid-2"}, uids)
}

func TestBuildCalendarEmpty(t *testing.T) {
	data, err := BuildCalendar(nil)
	require.NoError(t, err)

	assert.Contains(t, data, "BEGIN:VCALENDAR")
	assert.NotContains(t, data, "BEGIN:VEVENT")
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schedule.ics")

	require.NoError(t, WriteFile(path, "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n", string(got))

	// No temp leftovers.
	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestWriteFileEmptyPath(t *testing.T) {
	assert.Error(t, WriteFile("", "data"))
}
