package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lenhattri/dqreplay/internal/backend"
)

// WithConn opens the database, pins a single connection and calls fn with
// it. The connection and pool are closed when fn returns, on every path.
// Temporary views live on one connection, so the whole run must share it.
func WithConn(ctx context.Context, b backend.Backend, dsn string, fn func(conn *sql.Conn) error) (err error) {
	db, err := sql.Open(b.DriverName(), dsn)
	if err != nil {
		return fmt.Errorf("open %s database: %w", b.Name(), err)
	}
	defer func() { err = errors.Join(err, db.Close()) }()
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping %s database: %w", b.Name(), err)
	}
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer func() { err = errors.Join(err, conn.Close()) }()

	return fn(conn)
}
