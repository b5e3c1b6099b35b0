package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	appcmd "github.com/lenhattri/dqreplay/cmd"
	"github.com/lenhattri/dqreplay/internal/backend"
	"github.com/lenhattri/dqreplay/internal/config"
	"github.com/lenhattri/dqreplay/internal/confirm"
	"github.com/lenhattri/dqreplay/internal/export"
	"github.com/lenhattri/dqreplay/internal/notifier"
	"github.com/lenhattri/dqreplay/internal/pipeline"
	"github.com/lenhattri/dqreplay/pkg/logger"
)

type runFlags struct {
	db          string
	driver      string
	runDate     string
	runAll      bool
	resetReplay bool
	export      bool
	outDir      string
	demoSpike   bool
	spikeDate   string
	spikeRate   float64
}

func newRunCmd(cfgPath, userFlag *string) *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay one date or every source date through ingest, DQ checks and anomaly detection",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (f.runDate == "") == !f.runAll {
				return usageError{"provide exactly one of --run-date YYYY-MM-DD or --run-all"}
			}
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, cfg, f)
			if err := cfg.Validate(); err != nil {
				return err
			}
			user := *userFlag
			if user == "" {
				user = cfg.User
			}

			log = logger.New(logger.Options{
				Level:       cfg.Logging.Level,
				Env:         cfg.Env,
				Driver:      cfg.Logging.Driver,
				Brokers:     cfg.Logging.Kafka.Brokers,
				Topic:       cfg.Logging.Kafka.Topic,
				RabbitURL:   cfg.Logging.RabbitMQ.URL,
				RabbitQueue: cfg.Logging.RabbitMQ.Queue,
				File:        cfg.Logging.File,
			})
			return run(cmd, cfg, f, user)
		},
	}
	cmd.Flags().StringVar(&f.db, "db", "", "database file path or DSN")
	cmd.Flags().StringVar(&f.driver, "driver", "", "database driver: "+fmt.Sprint(backend.Names()))
	cmd.Flags().StringVar(&f.runDate, "run-date", "", "run a single date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&f.runAll, "run-all", false, "run every distinct date in the source table")
	cmd.Flags().BoolVar(&f.resetReplay, "reset-replay", false, "clear the working table before the first date")
	cmd.Flags().BoolVar(&f.export, "export", false, "export result relations to CSV after the run")
	cmd.Flags().StringVar(&f.outDir, "out-dir", "", "export directory")
	cmd.Flags().BoolVar(&f.demoSpike, "demo-spike", false, "null out a share of one column on the spike date")
	cmd.Flags().StringVar(&f.spikeDate, "spike-date", "", "fault injection date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&f.spikeRate, "spike-rate", 0, "fault injection probability per row")
	return cmd
}

func applyFlags(cmd *cobra.Command, cfg *config.Config, f runFlags) {
	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.Database.Path = f.db
	}
	if flags.Changed("driver") {
		cfg.Database.Driver = f.driver
	}
	if flags.Changed("out-dir") {
		cfg.Export.Dir = f.outDir
	}
	if f.demoSpike {
		cfg.Fault.Enabled = true
	}
	if flags.Changed("spike-date") {
		cfg.Fault.Date = f.spikeDate
	}
	if flags.Changed("spike-rate") {
		cfg.Fault.Rate = f.spikeRate
	}
}

func run(cmd *cobra.Command, cfg *config.Config, f runFlags, user string) error {
	b, err := backend.Get(cfg.Database.Driver)
	if err != nil {
		return err
	}

	var sel pipeline.Selection
	if f.runAll {
		sel = pipeline.AllDates()
	} else {
		d, err := pipeline.ParseDate(f.runDate)
		if err != nil {
			return usageError{err.Error()}
		}
		sel = pipeline.SingleDate(d)
	}

	scripts, err := pipeline.LoadScripts(pipeline.ScriptFiles{
		Dir:       cfg.Resolve(cfg.Scripts.Dir),
		Load:      cfg.Scripts.Load,
		DQTables:  cfg.Scripts.DQTables,
		DQChecks:  cfg.Scripts.DQChecks,
		Anomalies: cfg.Scripts.Anomalies,
	})
	if err != nil {
		return err
	}

	tables := pipeline.Tables{
		Source:          cfg.Tables.Source,
		Working:         cfg.Tables.Working,
		TimestampColumn: cfg.Tables.TimestampColumn,
		ParamsView:      cfg.Tables.ParamsView,
	}

	var fault pipeline.FaultInjector = pipeline.NoFault{}
	if cfg.Fault.Enabled {
		d, err := pipeline.ParseDate(cfg.Fault.Date)
		if err != nil {
			return err
		}
		fault = pipeline.NullSpike{Date: d, Rate: cfg.Fault.Rate, Column: cfg.Fault.Column}
		log.WithFields(logrus.Fields{
			"fault.date":   cfg.Fault.Date,
			"fault.rate":   cfg.Fault.Rate,
			"fault.column": cfg.Fault.Column,
		}).Warn("fault injection enabled")
	}

	if f.resetReplay && cfg.Env == "production" {
		if err := confirm.Require(appcmd.AskConfirmation,
			fmt.Sprintf("Clear every row of %s before replay?", tables.Working),
			"env=production"); err != nil {
			return err
		}
	}

	opts := pipeline.Options{
		Reset: f.resetReplay,
		Progress: func(p pipeline.Progress) {
			fmt.Fprintf(cmd.OutOrStdout(), "[OK] %d/%d ran: %s\n", p.Index, p.Total, p.Date.Format(backend.DateLayout))
		},
	}
	if f.export {
		opts.Exporter = export.New(b, nil, log.WithField("component", "export"))
		opts.ExportDir = cfg.Resolve(cfg.Export.Dir)
	}

	dsn := cfg.DSN()
	if err := ensureDBDir(cfg.Database.Driver, dsn); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	sum := &pipeline.Summary{}
	err = pipeline.WithConn(ctx, b, dsn, func(conn *sql.Conn) error {
		if err := pipeline.Bootstrap(ctx, conn, b, tables, scripts, log.WithField("component", "bootstrap")); err != nil {
			return err
		}
		driver := pipeline.NewDriver(b, tables, scripts, fault, log.WithField("component", "day"))
		orch := pipeline.NewOrchestrator(driver, log.WithField("component", "orchestrator"))
		var runErr error
		sum, runErr = orch.Run(ctx, conn, sel, opts)
		return runErr
	})

	notify(cmd.Context(), cfg, user, sum, time.Since(start), err)
	writeMetrics(cfg.Resolve(cfg.Metrics.Textfile))

	if err != nil {
		log.WithError(err).Error("run failed")
		return err
	}
	if f.export {
		fmt.Fprintf(cmd.OutOrStdout(), "[EXPORT] results written to %s\n", opts.ExportDir)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "[DONE] Ran %d day(s). %s rows = %d\n", sum.DatesRun, tables.Working, sum.WorkingRows)
	return nil
}

// ensureDBDir creates the parent directory of an embedded database file.
func ensureDBDir(driver, dsn string) error {
	if driver != "duckdb" && driver != "sqlite" {
		return nil
	}
	if dsn == "" || dsn == ":memory:" {
		return nil
	}
	return os.MkdirAll(filepath.Dir(dsn), 0o755)
}

func notify(ctx context.Context, cfg *config.Config, user string, sum *pipeline.Summary, elapsed time.Duration, runErr error) {
	if sum == nil {
		sum = &pipeline.Summary{}
	}
	event := notifier.RunEvent{
		Status:      "success",
		User:        user,
		DB:          cfg.Database.Driver,
		Dates:       len(sum.Dates),
		DatesRun:    sum.DatesRun,
		WorkingRows: sum.WorkingRows,
		Duration:    elapsed,
		Error:       runErr,
		Time:        time.Now(),
	}
	if runErr != nil {
		event.Status = "fail"
	}
	if err := notifier.NewNotifier(cfg.Notifier).Notify(ctx, event); err != nil {
		log.WithError(err).Warn("notification failed")
	}
}

func writeMetrics(path string) {
	if path == "" {
		return
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		log.WithError(err).WithField("path", path).Warn("write metrics textfile")
	}
}
