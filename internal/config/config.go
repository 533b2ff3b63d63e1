package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Operating modes.
const (
	// ModeGroup exports the full timetable of a single group.
	ModeGroup = "group"
	// ModeEducator exports the lessons one instructor teaches across a list
	// of groups.
	ModeEducator = "educator"
)

// dateLayout is the semester start date format, e.g. "05-02-2024".
const dateLayout = "02-01-2006"

// Config is the top-level application configuration.
type Config struct {
	// Mode selects whose schedule ends up in the calendar: "group" or
	// "educator".
	Mode string `yaml:"mode"`

	// Group is the target group in group mode.
	Group string `yaml:"group"`

	// Groups is the list of groups scanned in educator mode.
	Groups []string `yaml:"groups"`

	// Educator is the instructor's full name, matched exactly.
	Educator string `yaml:"educator"`

	// AcademicHourMinutes is the length of one academic hour; a period is
	// two of them.
	AcademicHourMinutes int `yaml:"academic_hour_minutes"`

	// ShortRecreationMinutes is the break between halves of a merged lesson.
	ShortRecreationMinutes int `yaml:"short_recreation_minutes"`

	// LongRecreationMinutes is the one long break after the second period.
	LongRecreationMinutes int `yaml:"long_recreation_minutes"`

	// SemesterStart is the first teaching day in DD-MM-YYYY form.
	SemesterStart string `yaml:"semester_start"`

	// RepeatCount is how many cycle iterations each event repeats for.
	RepeatCount int `yaml:"repeat_count"`

	// ClassNameAliases maps long class titles to short display aliases.
	ClassNameAliases map[string]string `yaml:"class_name_aliases"`

	// OutputFile is the .ics destination path.
	OutputFile string `yaml:"output_file"`

	// ScheduleURL overrides the timetable endpoint; empty selects the
	// built-in default.
	ScheduleURL string `yaml:"schedule_url"`

	// Cookie is an optional pre-acquired "wl" anti-bot cookie. When empty
	// the client scrapes one itself.
	Cookie string `yaml:"cookie"`

	// Refresh is an optional cron expression. When set, the exporter keeps
	// running and regenerates the calendar on that schedule instead of
	// exiting after one run.
	Refresh string `yaml:"refresh"`
}

// DefaultConfig returns an in-memory default configuration. Group and
// educator fields are left empty on purpose: a first run writes this out as
// a template for the user to fill in.
func DefaultConfig() *Config {
	return &Config{
		Mode:                   ModeGroup,
		AcademicHourMinutes:    40,
		ShortRecreationMinutes: 10,
		LongRecreationMinutes:  40,
		RepeatCount:            5,
		ClassNameAliases:       map[string]string{},
		OutputFile:             "schedule.ics",
	}
}

// Normalize fills in missing/zero values so that partially filled configs
// still behave.
func (c *Config) Normalize() {
	if c.Mode == "" {
		c.Mode = ModeGroup
	}
	if c.AcademicHourMinutes == 0 {
		c.AcademicHourMinutes = 40
	}
	if c.ShortRecreationMinutes == 0 {
		c.ShortRecreationMinutes = 10
	}
	if c.LongRecreationMinutes == 0 {
		c.LongRecreationMinutes = 40
	}
	if c.RepeatCount == 0 {
		c.RepeatCount = 5
	}
	if c.ClassNameAliases == nil {
		c.ClassNameAliases = map[string]string{}
	}
	if c.OutputFile == "" {
		c.OutputFile = "schedule.ics"
	}
}

// Validate checks that the configuration can drive a full run. Everything
// reported here is a precondition violation: the run must not start, and no
// calendar file may be produced.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeGroup:
		if c.Group == "" {
			return errors.New("config: group mode requires a group")
		}
	case ModeEducator:
		if len(c.Groups) == 0 {
			return errors.New("config: educator mode requires a non-empty group list")
		}
		if c.Educator == "" {
			return errors.New("config: educator mode requires an educator name")
		}
	default:
		return fmt.Errorf("config: unknown mode %q", c.Mode)
	}

	if c.AcademicHourMinutes <= 0 {
		return errors.New("config: academic_hour_minutes must be positive")
	}
	if c.ShortRecreationMinutes <= 0 {
		return errors.New("config: short_recreation_minutes must be positive")
	}
	if c.LongRecreationMinutes <= 0 {
		return errors.New("config: long_recreation_minutes must be positive")
	}
	if c.RepeatCount < 1 {
		return errors.New("config: repeat_count must be at least 1")
	}
	if _, err := c.SemesterStartDate(); err != nil {
		return err
	}
	return nil
}

// SemesterStartDate parses SemesterStart into a local-midnight date.
func (c *Config) SemesterStartDate() (time.Time, error) {
	if c.SemesterStart == "" {
		return time.Time{}, errors.New("config: semester_start is not set")
	}
	t, err := time.ParseInLocation(dateLayout, c.SemesterStart, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("config: semester_start %q is not DD-MM-YYYY: %w", c.SemesterStart, err)
	}
	return t, nil
}

// Load loads configuration from the given YAML path.
//
// If the file does not exist, a default template is written there (0600) and
// returned; the caller's Validate will then tell the user what to fill in.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the configuration atomically (temp file + rename) with 0600
// permissions; the file may hold a session cookie.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".mietcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
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

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
