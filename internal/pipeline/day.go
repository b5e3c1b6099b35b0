package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lenhattri/dqreplay/internal/backend"
	"github.com/lenhattri/dqreplay/pkg/sqlscript"
)

// Driver runs the per-day steps: ingest, fault injection, parameter view,
// DQ checks and anomaly detection.
type Driver struct {
	backend   backend.Backend
	tables    Tables
	dqChecks  *sqlscript.Script
	anomalies *sqlscript.Script
	fault     FaultInjector
	runner    *sqlscript.Runner
	logger    *logrus.Entry
}

// NewDriver creates a Driver. A nil fault injector disables injection.
func NewDriver(b backend.Backend, tables Tables, scripts *Scripts, fault FaultInjector, logger *logrus.Entry) *Driver {
	if fault == nil {
		fault = NoFault{}
	}
	return &Driver{
		backend:   b,
		tables:    tables,
		dqChecks:  scripts.DQChecks,
		anomalies: scripts.Anomalies,
		fault:     fault,
		runner:    sqlscript.NewRunner(logger),
		logger:    logger,
	}
}

// RunDay processes date. Steps run strictly in order and the first failure
// aborts the day with a *DayError.
func (d *Driver) RunDay(ctx context.Context, conn Conn, date time.Time) error {
	log := d.logger.WithField("run_date", date.Format(backend.DateLayout))

	rows, err := d.ingest(ctx, conn, date)
	if err != nil {
		return &DayError{Date: date, Step: StepIngest, Err: err}
	}
	log.WithField("rows", rows).Debug("ingested day")

	n, err := d.fault.Inject(ctx, conn, Partition{
		Backend:         d.backend,
		Table:           d.tables.Working,
		TimestampColumn: d.tables.TimestampColumn,
		Date:            date,
	})
	if err != nil {
		return &DayError{Date: date, Step: StepFault, Err: err}
	}
	if n > 0 {
		faultsInjected.Add(float64(n))
		log.WithField("rows", n).Warn("fault injected")
	}

	if err := d.installParams(ctx, conn, date); err != nil {
		return &DayError{Date: date, Step: StepParams, Err: err}
	}
	if err := d.runner.RunScript(ctx, conn, d.dqChecks); err != nil {
		return &DayError{Date: date, Step: StepDQChecks, Err: err}
	}
	if err := d.runner.RunScript(ctx, conn, d.anomalies); err != nil {
		return &DayError{Date: date, Step: StepAnomalies, Err: err}
	}
	return nil
}

// ingest replaces the working rows of date with the source rows of date in
// one transaction. It returns the number of rows inserted when the driver
// reports it.
func (d *Driver) ingest(ctx context.Context, conn Conn, date time.Time) (int64, error) {
	where := datePredicate(d.backend, d.tables.TimestampColumn, date)

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s", d.tables.Working, where)); err != nil {
		return 0, fmt.Errorf("delete: %w", err)
	}
	res, err := tx.ExecContext(ctx, fmt.Sprintf("INSERT INTO %s SELECT * FROM %s WHERE %s", d.tables.Working, d.tables.Source, where))
	if err != nil {
		return 0, fmt.Errorf("insert: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (d *Driver) installParams(ctx context.Context, conn Conn, date time.Time) error {
	for _, stmt := range d.backend.ParamsView(d.tables.ParamsView, date, date.AddDate(0, 0, -1)) {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
