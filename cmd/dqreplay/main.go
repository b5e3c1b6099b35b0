package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/sirupsen/logrus"

	appcmd "github.com/lenhattri/dqreplay/cmd"
)

// set once the run command has built its logger
var log *logrus.Logger

func main() {
	// panic handler: stack goes to the log when there is one, stderr otherwise
	defer func() {
		if r := recover(); r != nil {
			if log != nil {
				log.WithFields(logrus.Fields{
					"component":   "panic",
					"error.stack": string(debug.Stack()),
				}).Errorf("panic: %v", r)
			} else {
				fmt.Fprintf(os.Stderr, "panic: %v\n%s", r, debug.Stack())
			}
			os.Exit(101)
		}
	}()

	rootCmd := appcmd.NewRootCmd()

	var cfgPath, userFlag string
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default configs/config.yml)")
	rootCmd.PersistentFlags().StringVar(&userFlag, "user", "", "name executing the command")

	rootCmd.AddCommand(newRunCmd(&cfgPath, &userFlag))

	if err := rootCmd.Execute(); err != nil {
		var uerr usageError
		if errors.As(err, &uerr) ||
			strings.Contains(err.Error(), "unknown command") ||
			strings.Contains(err.Error(), "unknown flag") {
			fmt.Fprintln(os.Stderr, "[CLI] "+err.Error())
			os.Exit(3)
		}
		fmt.Fprintln(os.Stderr, "[FATAL]", err.Error())
		os.Exit(2)
	}
}

// usageError marks invalid flag combinations.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }
