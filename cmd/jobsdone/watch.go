package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobsdone/internal/watch"
)

func (a *app) watchCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Regenerate jobs whenever the jobs_done document changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			if output == "" {
				output = a.cfg.OutputDir
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			regenerate := func(ctx context.Context) error {
				return a.generate(ctx, dir, output, cmd.OutOrStdout())
			}

			if err := regenerate(ctx); err != nil {
				a.logger.Error("initial generation failed", zap.Error(err))
			}

			w := watch.New(dir, []string{a.cfg.Filename}, regenerate, watch.DefaultConfig(), a.logger)

			return w.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default from configuration)")

	return cmd
}
