package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"mietcal/internal/config"
	"mietcal/internal/ics"
	appLog "mietcal/internal/log"
	"mietcal/internal/miet"
	"mietcal/internal/schedule"
)

type flagConfig struct {
	configPath string
	output     string
	group      string
	once       bool
	verbose    bool
}

func main() {
	flags := parseFlags()
	if flags.verbose {
		appLog.SetLevel(appLog.LevelDebug)
	}

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI overrides.
	if flags.output != "" {
		conf.OutputFile = flags.output
	}
	if flags.group != "" {
		conf.Mode = config.ModeGroup
		conf.Group = flags.group
	}

	if err := conf.Validate(); err != nil {
		appLog.Error("invalid config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	appLog.Info("effective config",
		"mode", conf.Mode,
		"group", conf.Group,
		"groups", len(conf.Groups),
		"educator", conf.Educator,
		"semester_start", conf.SemesterStart,
		"output_file", conf.OutputFile,
		"refresh", conf.Refresh,
		"once", flags.once,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	client := miet.NewClient(conf.ScheduleURL, conf.Cookie)
	renamer := schedule.NewRenamer(conf.ClassNameAliases)

	if err := run(ctx, conf, client, renamer); err != nil {
		appLog.Error("export failed", err)
		os.Exit(1)
	}

	if conf.Refresh == "" || flags.once {
		return
	}

	// Keep running and regenerate on the configured schedule. Each run is an
	// independent fetch-merge-project-write pass.
	sched := cron.New()
	if _, err := sched.AddFunc(conf.Refresh, func() {
		if err := run(ctx, conf, client, renamer); err != nil {
			appLog.Error("scheduled export failed", err)
		}
	}); err != nil {
		appLog.Error("invalid refresh schedule", err, "refresh", conf.Refresh)
		os.Exit(1)
	}
	sched.Start()

	<-ctx.Done()
	sched.Stop()
	appLog.Info("mietcal exiting")
}

// run executes one full export: fetch the raw timetable, merge back-to-back
// lessons, project merged entries onto dates, and write the calendar file.
// Any failure aborts before the output file is touched.
func run(ctx context.Context, conf *config.Config, client *miet.Client, renamer schedule.Renamer) error {
	semesterStart, err := conf.SemesterStartDate()
	if err != nil {
		return err
	}
	timing := schedule.Timing{
		SemesterStart:   semesterStart,
		AcademicHour:    conf.AcademicHourMinutes,
		ShortRecreation: conf.ShortRecreationMinutes,
		LongRecreation:  conf.LongRecreationMinutes,
		RepeatCount:     conf.RepeatCount,
	}
	if err := timing.Validate(); err != nil {
		return err
	}

	var entries []schedule.Entry
	switch conf.Mode {
	case config.ModeEducator:
		entries, err = client.ByEducator(ctx, conf.Groups, conf.Educator, renamer)
	default:
		entries, err = client.ByGroup(ctx, conf.Group, renamer)
	}
	if err != nil {
		return err
	}

	merged, err := schedule.Merge(entries)
	if err != nil {
		return err
	}

	occurrences := schedule.ProjectAll(merged, timing)

	data, err := ics.BuildCalendar(occurrences)
	if err != nil {
		return err
	}
	if err := ics.WriteFile(conf.OutputFile, data); err != nil {
		return err
	}

	appLog.Info("calendar written",
		"path", conf.OutputFile,
		"entries", len(entries),
		"events", len(occurrences),
	)
	return nil
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "mietcal.yaml", "Path to config file")
	flag.StringVar(&cfg.output, "out", "", "Output .ics path (overrides config if set)")
	flag.StringVar(&cfg.group, "group", "", "Export a single group's schedule (overrides config mode)")
	flag.BoolVar(&cfg.once, "once", false, "Run one export and exit even if a refresh schedule is configured")
	flag.BoolVar(&cfg.verbose, "v", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
