package pipeline_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/lenhattri/dqreplay/internal/backend"
	"github.com/lenhattri/dqreplay/internal/pipeline"
	"github.com/lenhattri/dqreplay/pkg/sqlscript"
)

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := pipeline.ParseDate(s)
	require.NoError(t, err)
	return d
}

var sqliteTables = pipeline.Tables{
	Source:          "events_all",
	Working:         "events",
	TimestampColumn: "event_ts",
	ParamsView:      "params",
}

const sqliteSchema = `
CREATE TABLE events_all (event_id INTEGER, event_ts TEXT, session_id TEXT, amount REAL);
CREATE TABLE events (event_id INTEGER, event_ts TEXT, session_id TEXT, amount REAL);
INSERT INTO events_all VALUES
  (1, '2019-11-17 08:00:00', 's1', 10.0),
  (2, '2019-11-17 09:30:00', 's2', 12.5),
  (3, '2019-11-17 23:59:59', 's3', 1.0),
  (4, '2019-11-18 00:00:00', 's4', 7.0),
  (5, '2019-11-18 12:00:00', 's5', 3.5),
  (6, '2019-11-18 18:45:00', 's6', 9.0),
  (7, '2019-11-18 21:10:00', 's7', 2.0);
`

var sqliteScripts = &pipeline.Scripts{
	DQChecks: &sqlscript.Script{Name: "dq_checks.sql", Text: `
-- one row per run date; re-runs replace it
CREATE TABLE IF NOT EXISTS dq_results (run_date TEXT, prev_date TEXT, row_count INTEGER, null_sessions INTEGER);
DELETE FROM dq_results WHERE run_date = (SELECT run_date FROM params);
INSERT INTO dq_results
SELECT p.run_date, p.prev_date, COUNT(e.event_id),
       COALESCE(SUM(CASE WHEN e.event_id IS NOT NULL AND e.session_id IS NULL THEN 1 ELSE 0 END), 0)
FROM params p
LEFT JOIN events e ON date(e.event_ts) = p.run_date
GROUP BY p.run_date, p.prev_date;
`},
	Anomalies: &sqlscript.Script{Name: "anomalies.sql", Text: `
CREATE TABLE IF NOT EXISTS anomaly_log (run_date TEXT, note TEXT);
INSERT INTO anomaly_log SELECT run_date, 'checked; ok' FROM params;
`},
}

// openSQLite returns a single pinned connection to a file database seeded
// with two days of events.
func openSQLite(t *testing.T) *sql.Conn {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "pipeline.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	conn, err := db.Conn(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, sqlscript.NewRunner(nil).Run(ctx, conn, sqliteSchema))
	return conn
}

type eventRow struct {
	ID      int64
	TS      string
	Session sql.NullString
	Amount  float64
}

func queryEvents(t *testing.T, conn *sql.Conn, query string) []eventRow {
	t.Helper()
	rows, err := conn.QueryContext(context.Background(), query)
	require.NoError(t, err)
	defer rows.Close()
	var out []eventRow
	for rows.Next() {
		var r eventRow
		require.NoError(t, rows.Scan(&r.ID, &r.TS, &r.Session, &r.Amount))
		out = append(out, r)
	}
	require.NoError(t, rows.Err())
	return out
}

func newSQLiteDriver(fault pipeline.FaultInjector) *pipeline.Driver {
	return pipeline.NewDriver(backend.SQLite{}, sqliteTables, sqliteScripts, fault, quietLogger())
}
