package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/aqingest/internal/core"
	"github.com/JonMunkholm/aqingest/internal/ingest"
)

type validateOptions struct {
	*globalOptions
	json    bool
	workers int
}

// fileReport is the result of checking one file. Err is set when the file
// could not be read; Outcome is meaningless then.
type fileReport struct {
	File    string         `json:"file"`
	Outcome ingest.Outcome `json:"outcome"`
	Err     error          `json:"-"`
	Error   string         `json:"error,omitempty"`
}

func newValidateCmd(global *globalOptions) *cobra.Command {
	opts := validateOptions{globalOptions: global}

	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Run the ingestion pipeline over each file and print a report",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), cmd.OutOrStdout(), args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "Print one JSON report per line")
	cmd.Flags().IntVar(&opts.workers, "workers", runtime.NumCPU(), "Files checked in parallel")

	return cmd
}

// runValidate checks files in parallel and prints reports in argument order.
func runValidate(ctx context.Context, out io.Writer, files []string, opts validateOptions) error {
	reports := make([]fileReport, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.workers, 1))

	for i, name := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = checkFile(name, opts.maxSize)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, r := range reports {
		if r.Err != nil || !r.Outcome.Accepted {
			failed++
		}
		if err := writeReport(out, r, opts.json); err != nil {
			return err
		}
	}

	if failed > 0 {
		return withCode(exitRejected, fmt.Errorf("%d of %d files rejected", failed, len(files)))
	}
	return nil
}

// checkFile reads and ingests one file the way the upload service does.
func checkFile(name string, maxSize int64) fileReport {
	report := fileReport{File: name}

	text, n, err := readFile(name, maxSize)
	if err != nil {
		report.Err = err
		report.Error = err.Error()
		slog.Warn("read failed", "file", name, "error", err)
		return report
	}

	if n == 0 {
		report.Outcome = ingest.Rejected(ingest.EmptyFile)
	} else {
		report.Outcome = ingest.Ingest(text)
	}

	slog.Debug("file checked",
		"file", name,
		"bytes", n,
		"accepted", report.Outcome.Accepted,
		"records", report.Outcome.RecordsProcessed,
	)
	return report
}

func readFile(name string, maxSize int64) (string, int64, error) {
	f, err := os.Open(name)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	text, n, err := core.ReadText(f, maxSize)
	if err != nil {
		return "", n, fmt.Errorf("read %s: %w", name, err)
	}
	return text, n, nil
}

func writeReport(w io.Writer, r fileReport, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(r)
	}

	var err error
	switch {
	case r.Err != nil:
		_, err = fmt.Fprintf(w, "%s: error: %s\n", r.File, r.Error)
	case r.Outcome.Accepted:
		o := r.Outcome
		_, err = fmt.Fprintf(w, "%s: accepted %d of %d rows (%d rejected, %d readings defaulted)\n",
			r.File, o.RecordsProcessed, o.TotalRows, o.ErrorCount, o.DefaultedReadings)
	default:
		_, err = fmt.Fprintf(w, "%s: rejected (%s): %s\n", r.File, r.Outcome.Reason, core.FormatUserError(r.Outcome.Err()))
	}
	if err != nil {
		return err
	}

	for _, line := range r.Outcome.ErrorStrings() {
		if _, err := fmt.Fprintf(w, "  %s\n", line); err != nil {
			return err
		}
	}
	return nil
}
