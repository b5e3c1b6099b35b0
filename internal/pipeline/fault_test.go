package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lenhattri/dqreplay/internal/pipeline"
)

func nullSessions(t *testing.T, rows []eventRow) int {
	t.Helper()
	n := 0
	for _, r := range rows {
		if !r.Session.Valid {
			n++
		}
	}
	return n
}

func TestNullSpikeRateOneNullsEveryRowOfFaultDate(t *testing.T) {
	conn := openSQLite(t)
	ctx := context.Background()
	spike := mustDate(t, "2019-11-18")
	orch := pipeline.NewOrchestrator(newSQLiteDriver(pipeline.NullSpike{Date: spike, Rate: 1, Column: "session_id"}), quietLogger())

	_, err := orch.Run(ctx, conn, pipeline.AllDates(), pipeline.Options{})
	require.NoError(t, err)

	faulty := queryEvents(t, conn, "SELECT * FROM events WHERE date(event_ts) = '2019-11-18'")
	require.Len(t, faulty, 4)
	assert.Equal(t, 4, nullSessions(t, faulty))

	clean := queryEvents(t, conn, "SELECT * FROM events WHERE date(event_ts) = '2019-11-17'")
	require.Len(t, clean, 3)
	assert.Equal(t, 0, nullSessions(t, clean))

	var flagged int
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT null_sessions FROM dq_results WHERE run_date = '2019-11-18'").Scan(&flagged))
	assert.Equal(t, 4, flagged)
}

func TestNullSpikeRateZeroNeverNulls(t *testing.T) {
	conn := openSQLite(t)
	ctx := context.Background()
	spike := mustDate(t, "2019-11-18")
	orch := pipeline.NewOrchestrator(newSQLiteDriver(pipeline.NullSpike{Date: spike, Rate: 0, Column: "session_id"}), quietLogger())

	_, err := orch.Run(ctx, conn, pipeline.AllDates(), pipeline.Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, nullSessions(t, queryEvents(t, conn, "SELECT * FROM events")))
}

func TestNullSpikePartialRateOnlyTouchesFaultDate(t *testing.T) {
	conn := openSQLite(t)
	ctx := context.Background()
	spike := mustDate(t, "2019-11-18")
	orch := pipeline.NewOrchestrator(newSQLiteDriver(pipeline.NullSpike{Date: spike, Rate: 0.5, Column: "session_id"}), quietLogger())

	_, err := orch.Run(ctx, conn, pipeline.AllDates(), pipeline.Options{})
	require.NoError(t, err)

	assert.Equal(t, 0, nullSessions(t, queryEvents(t, conn, "SELECT * FROM events WHERE date(event_ts) = '2019-11-17'")))
	assert.LessOrEqual(t, nullSessions(t, queryEvents(t, conn, "SELECT * FROM events WHERE date(event_ts) = '2019-11-18'")), 4)
}
