package cmd

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var (
	yesFlag bool
	rootCmd *cobra.Command
)

// NewRootCmd builds the top-level command with global flags.
func NewRootCmd() *cobra.Command {
	rootCmd = &cobra.Command{
		Use:           "dqreplay",
		Short:         "Day-by-day event replay with data-quality checks and anomaly detection",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&yesFlag, "yes", "y", false, "automatic yes to prompts")
	rootCmd.AddCommand(NewInitCmd(), NewSplitCmd())
	return rootCmd
}

// AskConfirmation prompts with msg unless --yes was given. Only y or yes
// confirms; closed input counts as no.
func AskConfirmation(msg string) (bool, error) {
	if yesFlag {
		return true, nil
	}
	rootCmd.Print(msg + " [y/N]: ")
	line, err := bufio.NewReader(rootCmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
