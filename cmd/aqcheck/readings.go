package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/aqingest/internal/ingest"
)

type readingsOptions struct {
	*globalOptions
	onlyDefaulted bool
}

func newReadingsCmd(global *globalOptions) *cobra.Command {
	opts := readingsOptions{globalOptions: global}

	cmd := &cobra.Command{
		Use:   "readings FILE",
		Short: "Write the accepted readings of a file as JSON lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReadings(cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.onlyDefaulted, "only-defaulted", false, "Only write readings with defaulted numeric fields")

	return cmd
}

func runReadings(out io.Writer, name string, opts readingsOptions) error {
	text, n, err := readFile(name, opts.maxSize)
	if err != nil {
		return withCode(exitRejected, err)
	}
	if n == 0 {
		return withCode(exitRejected, fmt.Errorf("%s: %w", name, ingest.ErrEmptyFile))
	}

	res, err := ingest.Validate(text)
	if err != nil {
		var rej *ingest.RejectionError
		if errors.As(err, &rej) {
			return withCode(exitRejected, fmt.Errorf("%s: %w", name, err))
		}
		return err
	}

	enc := json.NewEncoder(out)
	for _, r := range res.Readings {
		if opts.onlyDefaulted && !r.HasDefaults() {
			continue
		}
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}
