package backend

import (
	"context"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLite implements Backend for SQLite. Dates are compared as YYYY-MM-DD text.
type SQLite struct{}

func (SQLite) Name() string       { return "sqlite" }
func (SQLite) DriverName() string { return "sqlite" }

func (SQLite) DateExpr(column string) string { return fmt.Sprintf("date(%s)", column) }

func (SQLite) DateLiteral(d time.Time) string { return quote(d.Format(DateLayout)) }

func (SQLite) DateKeyExpr(column string) string { return fmt.Sprintf("date(%s)", column) }

// RandomExpr maps random()'s 64-bit integer onto [0, 1) with microsecond granularity.
func (SQLite) RandomExpr() string { return "((abs(random()) % 1000000) / 1000000.0)" }

// ParamsView drops and recreates the view; SQLite has no CREATE OR REPLACE VIEW.
func (b SQLite) ParamsView(name string, runDate, prevDate time.Time) []string {
	return []string{
		fmt.Sprintf("DROP VIEW IF EXISTS temp.%s", name),
		fmt.Sprintf("CREATE TEMP VIEW %s AS SELECT %s AS run_date, %s AS prev_date",
			name, b.DateLiteral(runDate), b.DateLiteral(prevDate)),
	}
}

func (SQLite) ClearTable(table string) string { return "DELETE FROM " + table }

func (SQLite) TableExists(ctx context.Context, q Querier, table string) (bool, error) {
	schema, name := SplitTable(table)
	master := "sqlite_master"
	if schema != "" {
		master = schema + ".sqlite_master"
	}
	return scanExists(ctx, q,
		"SELECT 1 FROM "+master+" WHERE type IN ('table', 'view') AND name = ? LIMIT 1", name)
}

func init() {
	Register("sqlite", SQLite{})
}
