package sqlscript

import (
	"context"
	"database/sql"
	"fmt"
)

// Execer is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ExecutionError reports a statement the database rejected.
type ExecutionError struct {
	Script    string // script name, empty for inline text
	Index     int    // 1-based position of the statement in the script
	Statement string
	Kind      string
	Err       error
}

func (e *ExecutionError) Error() string {
	where := fmt.Sprintf("statement %d", e.Index)
	if e.Script != "" {
		where = e.Script + ": " + where
	}
	return fmt.Sprintf("%s (%s) failed: %v\n%s", where, e.Kind, e.Err, e.Statement)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
