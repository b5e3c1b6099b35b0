package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lenhattri/dqreplay/pkg/sqlscript"
)

// ScriptFiles locates the SQL scripts of a project.
type ScriptFiles struct {
	Dir       string
	Load      string
	DQTables  string
	DQChecks  string
	Anomalies string
}

func (f ScriptFiles) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(f.Dir, name)
}

// Scripts holds the loaded SQL scripts. Load is nil when the load script does
// not exist; it is only needed when base tables are missing.
type Scripts struct {
	Load      *sqlscript.Script
	LoadPath  string
	DQTables  *sqlscript.Script
	DQChecks  *sqlscript.Script
	Anomalies *sqlscript.Script
}

// LoadScripts reads every script up front. All missing required scripts are
// reported together in an error wrapping ErrMissingScripts.
func LoadScripts(files ScriptFiles) (*Scripts, error) {
	var missing []string
	load := func(name string) *sqlscript.Script {
		p := files.path(name)
		s, err := sqlscript.Load(p)
		if err != nil {
			missing = append(missing, p)
			return nil
		}
		return s
	}

	s := &Scripts{
		LoadPath:  files.path(files.Load),
		DQTables:  load(files.DQTables),
		DQChecks:  load(files.DQChecks),
		Anomalies: load(files.Anomalies),
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w:\n%s", ErrMissingScripts, strings.Join(missing, "\n"))
	}

	ls, err := sqlscript.Load(s.LoadPath)
	switch {
	case err == nil:
		s.Load = ls
	case !errors.Is(err, os.ErrNotExist):
		return nil, err
	}
	return s, nil
}
