package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/colorman"
)

type rootOptions struct {
	verbose bool
	workers int
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "cmview",
		Short:         "Render images through color-managed display transforms",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if opts.verbose {
				colorman.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}
		},
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log cache and processor activity to stderr")
	cmd.PersistentFlags().IntVar(&opts.workers, "workers", 0, "pixel workers (0 = one per CPU)")

	cmd.AddCommand(newRenderCmd(opts), newListCmd(opts))
	return cmd
}

func (o *rootOptions) manager() *colorman.Manager {
	return colorman.NewManager(colorman.WithWorkers(o.workers))
}
