package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lenhattri/dqreplay/internal/backend"
)

// Selection chooses the dates of a run: one explicit date, or every distinct
// date present in the source table.
type Selection struct {
	All  bool
	Date time.Time
}

// SingleDate selects one date.
func SingleDate(d time.Time) Selection { return Selection{Date: d} }

// AllDates selects every date in the source table.
func AllDates() Selection { return Selection{All: true} }

// Exporter writes result relations to dir after the date loop.
type Exporter interface {
	Export(ctx context.Context, conn Conn, dir string) error
}

// Progress is reported after each successful day.
type Progress struct {
	Index    int
	Total    int
	Date     time.Time
	Duration time.Duration
}

// Options control a run.
type Options struct {
	// Reset clears the working table before the first date.
	Reset     bool
	Exporter  Exporter
	ExportDir string
	Progress  func(Progress)
}

// Summary describes a finished (or aborted) run.
type Summary struct {
	Dates       []time.Time
	DatesRun    int
	WorkingRows int64
}

// Orchestrator iterates the Driver over a date selection.
type Orchestrator struct {
	driver *Driver
	logger *logrus.Entry
}

func NewOrchestrator(driver *Driver, logger *logrus.Entry) *Orchestrator {
	return &Orchestrator{driver: driver, logger: logger}
}

// Dates resolves sel to an ascending list of dates. The list is computed
// once; later changes to the source table do not affect it.
func (o *Orchestrator) Dates(ctx context.Context, conn Conn, sel Selection) ([]time.Time, error) {
	if !sel.All {
		return []time.Time{sel.Date}, nil
	}
	b, t := o.driver.backend, o.driver.tables
	query := fmt.Sprintf("SELECT DISTINCT %s AS d FROM %s WHERE %s IS NOT NULL ORDER BY d",
		b.DateKeyExpr(t.TimestampColumn), t.Source, t.TimestampColumn)
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list source dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan source date: %w", err)
		}
		d, err := ParseDate(key)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list source dates: %w", err)
	}
	return dates, nil
}

// Run processes the selected dates in ascending order and stops at the first
// failing day. The returned Summary is non-nil even on error and reflects the
// days completed so far.
func (o *Orchestrator) Run(ctx context.Context, conn Conn, sel Selection, opts Options) (*Summary, error) {
	dates, err := o.Dates(ctx, conn, sel)
	if err != nil {
		return &Summary{}, err
	}
	sum := &Summary{Dates: dates}

	if opts.Reset {
		if _, err := conn.ExecContext(ctx, o.driver.backend.ClearTable(o.driver.tables.Working)); err != nil {
			return sum, fmt.Errorf("reset %s: %w", o.driver.tables.Working, err)
		}
		o.logger.WithField("table", o.driver.tables.Working).Info("working table cleared")
	}

	for i, d := range dates {
		start := time.Now()
		if err := o.driver.RunDay(ctx, conn, d); err != nil {
			return sum, err
		}
		elapsed := time.Since(start)
		dayDuration.Observe(elapsed.Seconds())
		daysProcessed.Inc()
		sum.DatesRun++

		p := Progress{Index: i + 1, Total: len(dates), Date: d, Duration: elapsed}
		o.logger.WithFields(logrus.Fields{
			"run_date": d.Format(backend.DateLayout),
			"index":    p.Index,
			"total":    p.Total,
			"duration": elapsed.String(),
		}).Info("day complete")
		if opts.Progress != nil {
			opts.Progress(p)
		}
	}

	if opts.Exporter != nil {
		if err := opts.Exporter.Export(ctx, conn, opts.ExportDir); err != nil {
			return sum, fmt.Errorf("export: %w", err)
		}
	}

	if err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+o.driver.tables.Working).Scan(&sum.WorkingRows); err != nil {
		return sum, fmt.Errorf("count %s: %w", o.driver.tables.Working, err)
	}
	return sum, nil
}
