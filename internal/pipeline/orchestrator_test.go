package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lenhattri/dqreplay/internal/backend"
	"github.com/lenhattri/dqreplay/internal/pipeline"
	"github.com/lenhattri/dqreplay/pkg/sqlscript"
)

type recordingExporter struct {
	dir   string
	calls int
}

func (e *recordingExporter) Export(_ context.Context, _ pipeline.Conn, dir string) error {
	e.dir = dir
	e.calls++
	return nil
}

func TestOrchestratorResetAndTwoDates(t *testing.T) {
	conn := openSQLite(t)
	ctx := context.Background()
	_, err := conn.ExecContext(ctx, "INSERT INTO events VALUES (99, '2019-10-01 10:00:00', 'stale', 0)")
	require.NoError(t, err)

	var progress []pipeline.Progress
	exp := &recordingExporter{}
	orch := pipeline.NewOrchestrator(newSQLiteDriver(nil), quietLogger())
	sum, err := orch.Run(ctx, conn, pipeline.AllDates(), pipeline.Options{
		Reset:     true,
		Exporter:  exp,
		ExportDir: "out",
		Progress:  func(p pipeline.Progress) { progress = append(progress, p) },
	})
	require.NoError(t, err)

	assert.Equal(t, 2, sum.DatesRun)
	assert.Equal(t, int64(7), sum.WorkingRows)
	require.Len(t, progress, 2)
	assert.Equal(t, "2019-11-17", progress[0].Date.Format(backend.DateLayout))
	assert.Equal(t, "2019-11-18", progress[1].Date.Format(backend.DateLayout))
	assert.Equal(t, 2, progress[1].Index)
	assert.Equal(t, 2, progress[1].Total)
	assert.Equal(t, 1, exp.calls)
	assert.Equal(t, "out", exp.dir)

	assert.Equal(t,
		queryEvents(t, conn, "SELECT * FROM events_all ORDER BY event_id"),
		queryEvents(t, conn, "SELECT * FROM events ORDER BY event_id"))

	var run, prev string
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT run_date, prev_date FROM params").Scan(&run, &prev))
	assert.Equal(t, "2019-11-18", run)
	assert.Equal(t, "2019-11-17", prev)
}

func TestOrchestratorWithoutResetKeepsOtherDates(t *testing.T) {
	conn := openSQLite(t)
	ctx := context.Background()
	_, err := conn.ExecContext(ctx, "INSERT INTO events VALUES (99, '2019-10-01 10:00:00', 'stale', 0)")
	require.NoError(t, err)

	orch := pipeline.NewOrchestrator(newSQLiteDriver(nil), quietLogger())
	sel := pipeline.SingleDate(mustDate(t, "2019-11-17"))
	sum, err := orch.Run(ctx, conn, sel, pipeline.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.DatesRun)
	assert.Equal(t, int64(4), sum.WorkingRows)

	sum, err = orch.Run(ctx, conn, sel, pipeline.Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), sum.WorkingRows)
}

func TestOrchestratorStopsAtFirstFailure(t *testing.T) {
	conn := openSQLite(t)
	ctx := context.Background()

	scripts := &pipeline.Scripts{
		DQChecks: sqliteScripts.DQChecks,
		Anomalies: &sqlscript.Script{Name: "anomalies.sql", Text: `
SELECT run_date FROM params;
INSERT INTO no_such_table SELECT 1;`},
	}
	driver := pipeline.NewDriver(backend.SQLite{}, sqliteTables, scripts, nil, quietLogger())
	var progress int
	sum, err := pipeline.NewOrchestrator(driver, quietLogger()).Run(ctx, conn, pipeline.AllDates(), pipeline.Options{
		Progress: func(pipeline.Progress) { progress++ },
	})

	var dayErr *pipeline.DayError
	require.ErrorAs(t, err, &dayErr)
	assert.Equal(t, pipeline.StepAnomalies, dayErr.Step)
	assert.Equal(t, "2019-11-17", dayErr.Date.Format(backend.DateLayout))
	var execErr *sqlscript.ExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, 2, execErr.Index)
	assert.Equal(t, 0, sum.DatesRun)
	assert.Equal(t, 0, progress)
	assert.Len(t, sum.Dates, 2)
}

func TestDatesAscending(t *testing.T) {
	conn := openSQLite(t)
	ctx := context.Background()
	_, err := conn.ExecContext(ctx, "INSERT INTO events_all VALUES (8, '2019-11-02 01:00:00', 's8', 1), (9, NULL, 's9', 1)")
	require.NoError(t, err)

	dates, err := pipeline.NewOrchestrator(newSQLiteDriver(nil), quietLogger()).Dates(ctx, conn, pipeline.AllDates())
	require.NoError(t, err)
	var keys []string
	for _, d := range dates {
		keys = append(keys, d.Format(backend.DateLayout))
	}
	assert.Equal(t, []string{"2019-11-02", "2019-11-17", "2019-11-18"}, keys)
}
