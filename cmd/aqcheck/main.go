// Command aqcheck validates air-quality CSV files offline with the same
// pipeline the upload server runs.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/aqingest/internal/logging"
)

// Exit codes.
const (
	exitOK       = 0
	exitRejected = 1 // at least one file was rejected or unreadable
	exitUsage    = 2
)

type codedError struct {
	code int
	err  error
}

func (e *codedError) Error() string { return e.err.Error() }
func (e *codedError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	return &codedError{code: code, err: err}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *codedError
	if errors.As(err, &ce) {
		return ce.code
	}
	return exitUsage
}

type globalOptions struct {
	logLevel string
	maxSize  int64
}

func newRootCmd() *cobra.Command {
	var opts globalOptions

	cmd := &cobra.Command{
		Use:           "aqcheck",
		Short:         "Validate air-quality sensor CSV files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), opts.logLevel, "text"))
		},
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().Int64Var(&opts.maxSize, "max-size", 10<<20, "Maximum file size in bytes")

	cmd.AddCommand(newValidateCmd(&opts))
	cmd.AddCommand(newReadingsCmd(&opts))
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "aqcheck:", err)
	}
	os.Exit(exitCode(err))
}
