package backend_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lenhattri/dqreplay/internal/backend"
)

func day(s string) time.Time {
	d, err := time.Parse(backend.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"duckdb", "mysql", "postgres", "sqlite"}, backend.Names())

	b, err := backend.Get("DuckDB")
	require.NoError(t, err)
	assert.Equal(t, "duckdb", b.DriverName())

	_, err = backend.Get("oracle")
	assert.True(t, errors.Is(err, backend.ErrUnknownBackend))
}

func TestParamsView(t *testing.T) {
	run, prev := day("2019-11-18"), day("2019-11-17")

	assert.Equal(t, []string{
		"CREATE OR REPLACE TEMP VIEW params AS SELECT DATE '2019-11-18' AS run_date, DATE '2019-11-17' AS prev_date",
	}, backend.DuckDB{}.ParamsView("params", run, prev))

	assert.Equal(t, []string{
		"DROP VIEW IF EXISTS temp.params",
		"CREATE TEMP VIEW params AS SELECT '2019-11-18' AS run_date, '2019-11-17' AS prev_date",
	}, backend.SQLite{}.ParamsView("params", run, prev))

	assert.Len(t, backend.MySQL{}.ParamsView("params", run, prev), 2)
	assert.Len(t, backend.Postgres{}.ParamsView("params", run, prev), 1)
}

func TestDuckDBRendering(t *testing.T) {
	b := backend.DuckDB{}
	assert.Equal(t, "CAST(event_ts AS DATE)", b.DateExpr("event_ts"))
	assert.Equal(t, "strftime(CAST(event_ts AS DATE), '%Y-%m-%d')", b.DateKeyExpr("event_ts"))
	assert.Equal(t, "TRUNCATE TABLE core.fact_events", b.ClearTable("core.fact_events"))
	assert.Equal(t,
		"COPY (SELECT * FROM dq.dq_incidents) TO '/tmp/it''s/incidents.csv' (HEADER, DELIMITER ',')",
		b.CopyToCSV("SELECT * FROM dq.dq_incidents", "/tmp/it's/incidents.csv"))

	var _ backend.CSVCopier = b
}

func TestSplitTable(t *testing.T) {
	schema, name := backend.SplitTable("core.fact_events")
	assert.Equal(t, "core", schema)
	assert.Equal(t, "fact_events", name)

	schema, name = backend.SplitTable("events")
	assert.Empty(t, schema)
	assert.Equal(t, "events", name)
}

func TestSQLiteTableExists(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "exists.db"))
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	_, err = db.ExecContext(ctx, "CREATE TABLE events (event_ts TEXT)")
	require.NoError(t, err)

	b := backend.SQLite{}
	ok, err := b.TableExists(ctx, db, "events")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.TableExists(ctx, db, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = b.TableExists(ctx, db, "main.events")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSQLiteRandomExprRange(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "rand.db"))
	require.NoError(t, err)
	defer db.Close()

	var lo, hi float64
	err = db.QueryRow(
		"WITH RECURSIVE n(i) AS (SELECT 1 UNION ALL SELECT i + 1 FROM n WHERE i < 2000) " +
			"SELECT min(r), max(r) FROM (SELECT " + backend.SQLite{}.RandomExpr() + " AS r FROM n)").Scan(&lo, &hi)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, lo, 0.0)
	assert.Less(t, hi, 1.0)
}
