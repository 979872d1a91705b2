package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dhamidi/mf2"
	"github.com/dhamidi/mf2/parser"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Check .mf2 messages for grammar errors",
		Long: `Parse each file and report the first error, if any.

Positions are printed 1-based as file:line:offset. The exit status is
non-zero when any file fails to parse.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			failures := 0
			for _, filename := range args {
				data, err := os.ReadFile(filename)
				if err != nil {
					fmt.Fprintf(os.Stderr, "%s: %s\n", filename, err)
					failures++
					continue
				}

				if _, err := mf2.Parse(string(data)); err != nil {
					fmt.Fprintln(os.Stderr, describeFailure(filename, err))
					failures++
				}
			}
			if failures > 0 {
				return fmt.Errorf("%d of %d files failed", failures, len(args))
			}
			return nil
		},
	}
}

func describeFailure(filename string, err error) string {
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Sprintf("%s:%d:%d: %s", filename, parseErr.Line+1, parseErr.Offset+1, err)
	}
	return fmt.Sprintf("%s: %s", filename, err)
}
