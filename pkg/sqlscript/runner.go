package sqlscript

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

// Runner executes scripts statement by statement.
type Runner struct {
	logger *logrus.Entry
}

// NewRunner returns a Runner logging to logger. A nil logger discards output.
func NewRunner(logger *logrus.Entry) *Runner {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = logrus.NewEntry(l)
	}
	return &Runner{logger: logger}
}

// Run splits script and executes each statement in order against ex. It stops
// at the first failing statement and returns an *ExecutionError. Statements
// already executed stay applied.
func (r *Runner) Run(ctx context.Context, ex Execer, script string) error {
	return r.run(ctx, ex, "", script)
}

// RunScript executes a loaded script file.
func (r *Runner) RunScript(ctx context.Context, ex Execer, s *Script) error {
	r.logger.WithFields(logrus.Fields{
		"script": s.Name,
		"sha256": s.Hash,
	}).Debug("running script")
	return r.run(ctx, ex, s.Name, s.Text)
}

func (r *Runner) run(ctx context.Context, ex Execer, name, script string) error {
	for i, stmt := range Split(script) {
		if err := ctx.Err(); err != nil {
			return err
		}
		kind := Kind(stmt)
		r.logger.WithFields(logrus.Fields{
			"script":          name,
			"statement.index": i + 1,
			"statement.kind":  kind,
		}).Debug("executing statement")
		if _, err := ex.ExecContext(ctx, stmt); err != nil {
			statementFailures.WithLabelValues(kind).Inc()
			return &ExecutionError{Script: name, Index: i + 1, Statement: stmt, Kind: kind, Err: err}
		}
		statementsExecuted.WithLabelValues(kind).Inc()
	}
	return nil
}
