package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhamidi/mf2"
	"github.com/dhamidi/mf2/format"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

const historyFile = ".mf2_history"

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactively parse messages",
		Long: `Read messages one line at a time and print the parsed data model,
or the positioned diagnostic when the message is malformed.

Ctrl+C cancels input, Ctrl+D exits. Type :quit to exit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runRepl()
			return nil
		},
	}
}

func runRepl() {
	fmt.Printf("mf2 %s\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.\n", mf2.Version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		source, err := ln.Prompt("mf2> ")
		if err == liner.ErrPromptAborted {
			fmt.Println()
			continue
		}
		if err != nil {
			fmt.Println()
			return
		}

		trimmed := strings.TrimSpace(source)
		if trimmed == "" {
			continue
		}
		if trimmed == ":quit" {
			return
		}

		result, err := mf2.ParseDetailed(source)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}

		enc := format.NewJSONEncoder(os.Stdout)
		if err := enc.Encode(result.Message); err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		fmt.Printf("\nnormalized: %s\n", result.Normalized)
		ln.AppendHistory(source)
	}
}
