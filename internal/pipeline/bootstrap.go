package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/lenhattri/dqreplay/internal/backend"
	"github.com/lenhattri/dqreplay/pkg/sqlscript"
)

// Bootstrap makes sure the base tables exist, running the load script once
// when they do not, and then applies the DQ tables script.
func Bootstrap(ctx context.Context, conn Conn, b backend.Backend, tables Tables, scripts *Scripts, logger *logrus.Entry) error {
	runner := sqlscript.NewRunner(logger)

	missing, err := missingTables(ctx, conn, b, tables)
	if err != nil {
		return fmt.Errorf("check base tables: %w", err)
	}
	if len(missing) > 0 {
		if scripts.Load == nil {
			return fmt.Errorf("%w: %s and %s not found; restore the load script or point to the correct database",
				ErrMissingTables, strings.Join(missing, ", "), scripts.LoadPath)
		}
		logger.WithFields(logrus.Fields{
			"missing": missing,
			"script":  scripts.Load.Name,
		}).Info("base tables missing, running load script")
		if err := runner.RunScript(ctx, conn, scripts.Load); err != nil {
			return fmt.Errorf("load script: %w", err)
		}
		if missing, err = missingTables(ctx, conn, b, tables); err != nil {
			return fmt.Errorf("check base tables: %w", err)
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: %s still missing after %s", ErrMissingTables, strings.Join(missing, ", "), scripts.Load.Name)
		}
	}

	if err := runner.RunScript(ctx, conn, scripts.DQTables); err != nil {
		return fmt.Errorf("dq tables script: %w", err)
	}
	return nil
}

func missingTables(ctx context.Context, conn Conn, b backend.Backend, tables Tables) ([]string, error) {
	var missing []string
	for _, t := range []string{tables.Source, tables.Working} {
		ok, err := b.TableExists(ctx, conn, t)
		if err != nil {
			return nil, err
		}
		if !ok {
			missing = append(missing, t)
		}
	}
	return missing, nil
}
