// Package main provides the entry point for the latch CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mrz1836/latch/internal/cli"
	"github.com/mrz1836/latch/internal/signal"
)

// Build information set via ldflags.
//
//nolint:gochecknoglobals // Set at build time
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	handler := signal.NewHandler(context.Background())
	defer handler.Stop()

	err := cli.Execute(handler.Context(), cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
	cli.CloseLogFile()

	select {
	case <-handler.Interrupted():
		fmt.Fprintln(os.Stderr, "interrupted")
		os.Exit(cli.ExitError)
	default:
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCodeForError(err))
	}
}
