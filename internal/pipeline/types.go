// Package pipeline replays source events into the working table one day at a
// time and runs the data-quality and anomaly scripts for each day.
package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lenhattri/dqreplay/internal/backend"
)

// Conn is the single database handle a run operates on. *sql.Conn is the
// production implementation; *sql.DB satisfies it for tests.
type Conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Tables names the relations the pipeline reads and writes.
type Tables struct {
	Source          string
	Working         string
	TimestampColumn string
	ParamsView      string
}

// Steps of a day run, reported in DayError.
const (
	StepIngest    = "ingest"
	StepFault     = "fault"
	StepParams    = "params"
	StepDQChecks  = "dq_checks"
	StepAnomalies = "anomalies"
)

var (
	// ErrMissingScripts is returned when required SQL scripts are absent.
	ErrMissingScripts = errors.New("missing SQL script(s)")
	// ErrMissingTables is returned when base relations are absent and cannot be created.
	ErrMissingTables = errors.New("missing base table(s)")
)

// DayError wraps a failure of one step of a day run.
type DayError struct {
	Date time.Time
	Step string
	Err  error
}

func (e *DayError) Error() string {
	return fmt.Sprintf("run %s: %s: %v", e.Date.Format(backend.DateLayout), e.Step, e.Err)
}

func (e *DayError) Unwrap() error { return e.Err }

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(backend.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return d, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// datePredicate matches rows of column whose calendar date is d.
func datePredicate(b backend.Backend, column string, d time.Time) string {
	return b.DateExpr(column) + " = " + b.DateLiteral(d)
}
