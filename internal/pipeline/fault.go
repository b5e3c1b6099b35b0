package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/lenhattri/dqreplay/internal/backend"
	"github.com/lenhattri/dqreplay/pkg/sqlscript"
)

// Partition identifies one day of rows in a table.
type Partition struct {
	Backend         backend.Backend
	Table           string
	TimestampColumn string
	Date            time.Time
}

// FaultInjector corrupts a freshly ingested partition. It returns the number
// of rows it changed.
type FaultInjector interface {
	Inject(ctx context.Context, ex sqlscript.Execer, p Partition) (int64, error)
}

// NoFault leaves data untouched.
type NoFault struct{}

func (NoFault) Inject(context.Context, sqlscript.Execer, Partition) (int64, error) { return 0, nil }

// NullSpike sets Column to NULL on rows of Date, each row independently with
// probability Rate. It simulates an upstream tracking failure.
type NullSpike struct {
	Date   time.Time
	Rate   float64
	Column string
}

func (s NullSpike) Inject(ctx context.Context, ex sqlscript.Execer, p Partition) (int64, error) {
	if !sameDay(s.Date, p.Date) || s.Rate <= 0 {
		return 0, nil
	}
	query := fmt.Sprintf("UPDATE %s SET %s = NULL WHERE %s",
		p.Table, s.Column, datePredicate(p.Backend, p.TimestampColumn, p.Date))
	if s.Rate < 1 {
		query += fmt.Sprintf(" AND %s < %s", p.Backend.RandomExpr(), strconv.FormatFloat(s.Rate, 'f', -1, 64))
	}
	res, err := ex.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}
	// not every driver reports affected rows
	n, _ := res.RowsAffected()
	return n, nil
}
