// Package cli implements newsctl, the operator and viewer command line.
package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

type RootOptions struct {
	Debug bool
}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "newsctl",
		Short:         "Newsfeed command line",
		Long:          "Operator helpers and a terminal viewer for a newsfeed server.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "log connection details to stderr")

	cmd.AddCommand(NewHashPasswordCommand())
	cmd.AddCommand(NewWatchCommand(opts))

	return cmd
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
