// Package cli implements bdcctl, the operator tool for nightly numbers.
package cli

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// commandTimeout bounds the store round trips of one command.
const commandTimeout = 30 * time.Second

type rootOptions struct {
	verbose bool
	open    Opener
	logger  *slog.Logger
}

// NewRootCommand creates the bdcctl command tree. open is called lazily by
// the commands that need the store.
func NewRootCommand(open Opener, versionInfo VersionInfo) *cobra.Command {
	opts := &rootOptions{open: open}

	root := &cobra.Command{
		Use:           "bdcctl",
		Short:         "BDC nightly numbers operator tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(newReportCommand(opts))
	root.AddCommand(newReopenCommand(opts))
	root.AddCommand(NewVersionCommand(versionInfo))
	return root
}

func (o *rootOptions) log() *slog.Logger {
	if o.logger == nil {
		return slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return o.logger
}
