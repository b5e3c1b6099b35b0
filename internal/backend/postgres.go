package backend

import (
	"context"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Postgres implements Backend for PostgreSQL.
type Postgres struct{}

func (Postgres) Name() string       { return "postgres" }
func (Postgres) DriverName() string { return "postgres" }

func (Postgres) DateExpr(column string) string { return fmt.Sprintf("CAST(%s AS DATE)", column) }

func (Postgres) DateLiteral(d time.Time) string { return "DATE " + quote(d.Format(DateLayout)) }

func (Postgres) DateKeyExpr(column string) string {
	return fmt.Sprintf("to_char(CAST(%s AS DATE), 'YYYY-MM-DD')", column)
}

func (Postgres) RandomExpr() string { return "random()" }

func (b Postgres) ParamsView(name string, runDate, prevDate time.Time) []string {
	return []string{fmt.Sprintf(
		"CREATE OR REPLACE TEMP VIEW %s AS SELECT %s AS run_date, %s AS prev_date",
		name, b.DateLiteral(runDate), b.DateLiteral(prevDate),
	)}
}

func (Postgres) ClearTable(table string) string { return "TRUNCATE TABLE " + table }

func (Postgres) TableExists(ctx context.Context, q Querier, table string) (bool, error) {
	schema, name := SplitTable(table)
	if schema == "" {
		return scanExists(ctx, q, `
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = current_schema() AND table_name = $1
			LIMIT 1`, name)
	}
	return scanExists(ctx, q, `
		SELECT 1 FROM information_schema.tables
		WHERE table_schema = $1 AND table_name = $2
		LIMIT 1`, schema, name)
}

func init() {
	Register("postgres", Postgres{})
}
