// Package export writes result relations to CSV files.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lenhattri/dqreplay/internal/backend"
	"github.com/lenhattri/dqreplay/internal/pipeline"
)

// Relation is one exported table or view.
type Relation struct {
	Name    string
	OrderBy string
	File    string
}

func (r Relation) query() string {
	q := "SELECT * FROM " + r.Name
	if r.OrderBy != "" {
		q += " ORDER BY " + r.OrderBy
	}
	return q
}

// DefaultRelations are the health, check result and incident relations
// produced by the starter DQ scripts.
var DefaultRelations = []Relation{
	{Name: "dq.v_health_daily", OrderBy: "check_date", File: "health_daily.csv"},
	{Name: "dq.v_check_results_with_incidents", OrderBy: "check_date, severity, status, check_name", File: "check_results_with_incidents.csv"},
	{Name: "dq.dq_incidents", OrderBy: "opened_at DESC", File: "incidents.csv"},
}

// Exporter implements pipeline.Exporter.
type Exporter struct {
	backend   backend.Backend
	relations []Relation
	logger    *logrus.Entry
}

// New returns an Exporter for relations. A nil slice exports DefaultRelations.
func New(b backend.Backend, relations []Relation, logger *logrus.Entry) *Exporter {
	if relations == nil {
		relations = DefaultRelations
	}
	return &Exporter{backend: b, relations: relations, logger: logger}
}

// Export writes every relation to dir, creating it if needed.
func (e *Exporter) Export(ctx context.Context, conn pipeline.Conn, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	for _, r := range e.relations {
		path := filepath.Join(abs, r.File)
		if copier, ok := e.backend.(backend.CSVCopier); ok {
			if _, err := conn.ExecContext(ctx, copier.CopyToCSV(r.query(), filepath.ToSlash(path))); err != nil {
				return fmt.Errorf("copy %s: %w", r.Name, err)
			}
		} else if err := writeCSV(ctx, conn, r.query(), path); err != nil {
			return fmt.Errorf("export %s: %w", r.Name, err)
		}
		e.logger.WithFields(logrus.Fields{"relation": r.Name, "file": path}).Info("exported")
	}
	return nil
}

func writeCSV(ctx context.Context, conn pipeline.Conn, query, path string) (err error) {
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(cols); err != nil {
		return err
	}
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	record := make([]string, len(cols))
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return err
		}
		for i, v := range vals {
			record[i] = format(v)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format(backend.DateLayout)
		}
		return x.Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
