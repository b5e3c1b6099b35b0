package backend

import (
	"context"
	"fmt"
	"time"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// DuckDB implements Backend for the embedded DuckDB engine.
type DuckDB struct{}

func (DuckDB) Name() string       { return "duckdb" }
func (DuckDB) DriverName() string { return "duckdb" }

func (DuckDB) DateExpr(column string) string { return fmt.Sprintf("CAST(%s AS DATE)", column) }

func (DuckDB) DateLiteral(d time.Time) string { return "DATE " + quote(d.Format(DateLayout)) }

func (DuckDB) DateKeyExpr(column string) string {
	return fmt.Sprintf("strftime(CAST(%s AS DATE), '%%Y-%%m-%%d')", column)
}

func (DuckDB) RandomExpr() string { return "random()" }

func (b DuckDB) ParamsView(name string, runDate, prevDate time.Time) []string {
	return []string{fmt.Sprintf(
		"CREATE OR REPLACE TEMP VIEW %s AS SELECT %s AS run_date, %s AS prev_date",
		name, b.DateLiteral(runDate), b.DateLiteral(prevDate),
	)}
}

func (DuckDB) ClearTable(table string) string { return "TRUNCATE TABLE " + table }

func (DuckDB) TableExists(ctx context.Context, q Querier, table string) (bool, error) {
	schema, name := SplitTable(table)
	if schema == "" {
		schema = "main"
	}
	return scanExists(ctx, q, `
		SELECT 1
		FROM information_schema.tables
		WHERE table_schema = ? AND table_name = ?
		LIMIT 1`, schema, name)
}

func (DuckDB) CopyToCSV(query, path string) string {
	return fmt.Sprintf("COPY (%s) TO %s (HEADER, DELIMITER ',')", query, quote(path))
}

func init() {
	Register("duckdb", DuckDB{})
}
