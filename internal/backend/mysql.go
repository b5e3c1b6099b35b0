package backend

import (
	"context"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQL implements Backend for MySQL. MySQL has no temporary views, so the
// parameter relation is a session temporary table.
type MySQL struct{}

func (MySQL) Name() string       { return "mysql" }
func (MySQL) DriverName() string { return "mysql" }

func (MySQL) DateExpr(column string) string { return fmt.Sprintf("DATE(%s)", column) }

func (MySQL) DateLiteral(d time.Time) string { return "DATE " + quote(d.Format(DateLayout)) }

func (MySQL) DateKeyExpr(column string) string {
	return fmt.Sprintf("DATE_FORMAT(DATE(%s), '%%Y-%%m-%%d')", column)
}

func (MySQL) RandomExpr() string { return "RAND()" }

func (b MySQL) ParamsView(name string, runDate, prevDate time.Time) []string {
	return []string{
		fmt.Sprintf("DROP TEMPORARY TABLE IF EXISTS %s", name),
		fmt.Sprintf("CREATE TEMPORARY TABLE %s AS SELECT %s AS run_date, %s AS prev_date",
			name, b.DateLiteral(runDate), b.DateLiteral(prevDate)),
	}
}

func (MySQL) ClearTable(table string) string { return "TRUNCATE TABLE " + table }

func (MySQL) TableExists(ctx context.Context, q Querier, table string) (bool, error) {
	schema, name := SplitTable(table)
	if schema == "" {
		return scanExists(ctx, q, `
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = DATABASE() AND table_name = ?
			LIMIT 1`, name)
	}
	return scanExists(ctx, q, `
		SELECT 1 FROM information_schema.tables
		WHERE table_schema = ? AND table_name = ?
		LIMIT 1`, schema, name)
}

func init() {
	Register("mysql", MySQL{})
}
