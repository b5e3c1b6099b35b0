package cmd

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lenhattri/dqreplay/internal/templates"
)

// NewInitCmd returns a command that creates the config file and starter SQL
// scripts. Existing files are left untouched.
func NewInitCmd() *cobra.Command {
	var cfgPath string
	var sqlDir string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate config file and starter SQL scripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgPath == "" {
				cfgPath = "configs/config.yml"
			}
			if sqlDir == "" {
				sqlDir = "sql"
			}
			created, err := writeIfMissing(cfgPath, []byte(templates.DefaultConfig))
			if err != nil {
				return err
			}
			if created {
				cmd.Printf("created config at %s\n", cfgPath)
			} else {
				cmd.Printf("config already exists at %s\n", cfgPath)
			}

			entries, err := fs.ReadDir(templates.SQL, "sql")
			if err != nil {
				return err
			}
			for _, e := range entries {
				data, err := fs.ReadFile(templates.SQL, path.Join("sql", e.Name()))
				if err != nil {
					return err
				}
				dst := filepath.Join(sqlDir, e.Name())
				created, err := writeIfMissing(dst, data)
				if err != nil {
					return err
				}
				if created {
					cmd.Printf("created %s\n", dst)
				}
			}
			cmd.Printf("initialized SQL scripts at %s\n", sqlDir)
			return nil
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config_path", "configs/config.yml", "path to config file")
	cmd.Flags().StringVar(&sqlDir, "sql", "sql", "SQL scripts directory")
	return cmd
}

func writeIfMissing(p string, data []byte) (bool, error) {
	if _, err := os.Stat(p); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
