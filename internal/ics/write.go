// Package ics turns projected occurrences into an iCalendar file. The
// byte-level encoding is delegated to arran4/golang-ical; this package only
// maps occurrence fields onto VEVENT properties and writes the result out.
package ics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"mietcal/internal/model"
)

// BuildCalendar serializes the occurrences into a single iCalendar document.
func BuildCalendar(occurrences []model.Occurrence) (string, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//mietcal//schedule//RU")

	now := time.Now()
	for _, occ := range occurrences {
		rule, err := rrule.NewRRule(rrule.ROption{
			Freq:     rrule.WEEKLY,
			Interval: occ.Recurrence.Interval,
			Count:    occ.Recurrence.Count,
		})
		if err != nil {
			return "", fmt.Errorf("ics: recurrence for %q: %w", occ.Summary, err)
		}

		ev := cal.AddEvent(occ.UID)
		ev.SetSummary(occ.Summary)
		ev.SetLocation(occ.Location)
		ev.SetStartAt(occ.Start)
		ev.SetEndAt(occ.End)
		ev.SetDtStampTime(now)
		ev.AddRrule(rule.String())
	}

	return cal.Serialize(), nil
}

// WriteFile writes the serialized calendar via a temp file plus rename, so a
// failed run never leaves a truncated .ics behind.
func WriteFile(path, data string) error {
	if path == "" {
		return fmt.Errorf("ics: output path is empty")
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".mietcal-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
