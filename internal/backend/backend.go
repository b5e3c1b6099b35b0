// Package backend holds the engine specific SQL the day pipeline needs.
package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrUnknownBackend is returned by Get for an unregistered name.
var ErrUnknownBackend = errors.New("unknown database backend")

// DateLayout is the calendar date format used in literals and date keys.
const DateLayout = "2006-01-02"

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Backend abstracts the SQL differences between supported engines.
type Backend interface {
	Name() string
	DriverName() string
	// DateExpr converts a timestamp column to a value comparable with DateLiteral.
	DateExpr(column string) string
	DateLiteral(d time.Time) string
	// DateKeyExpr renders a timestamp column as YYYY-MM-DD text.
	DateKeyExpr(column string) string
	// RandomExpr yields a uniform value in [0, 1) per evaluation.
	RandomExpr() string
	// ParamsView returns the statements replacing the per-day parameter relation.
	ParamsView(name string, runDate, prevDate time.Time) []string
	ClearTable(table string) string
	TableExists(ctx context.Context, q Querier, table string) (bool, error)
}

// CSVCopier is implemented by backends that can write query results to CSV
// files natively.
type CSVCopier interface {
	CopyToCSV(query, path string) string
}

var backends = map[string]Backend{}

// Register registers a backend implementation by name.
func Register(name string, b Backend) {
	backends[name] = b
}

// Get returns the backend registered for name.
func Get(name string) (Backend, error) {
	b, ok := backends[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownBackend, name, strings.Join(Names(), ", "))
	}
	return b, nil
}

// Names lists registered backends in sorted order.
func Names() []string {
	names := make([]string, 0, len(backends))
	for n := range backends {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SplitTable splits "schema.table" into its parts. schema is empty when
// the name is unqualified.
func SplitTable(table string) (schema, name string) {
	if i := strings.LastIndexByte(table, '.'); i >= 0 {
		return table[:i], table[i+1:]
	}
	return "", table
}

// quote renders s as a single-quoted SQL string literal.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// scanExists runs an existence query and reports whether it returned a row.
func scanExists(ctx context.Context, q Querier, query string, args ...any) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
