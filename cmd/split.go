package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lenhattri/dqreplay/pkg/sqlscript"
)

// NewSplitCmd returns a command that prints the statements of a SQL file the
// way the runner will execute them.
func NewSplitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "split [file]",
		Short: "Print the statements of a SQL script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := sqlscript.Load(args[0])
			if err != nil {
				return err
			}
			stmts := s.Statements()
			for i, stmt := range stmts {
				cmd.Printf("-- [%d/%d] %s\n%s;\n\n", i+1, len(stmts), sqlscript.Kind(stmt), stmt)
			}
			return nil
		},
	}
}
