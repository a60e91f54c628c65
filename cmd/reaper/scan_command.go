package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"reaper/internal/config"
	"reaper/internal/preflight"
	"reaper/internal/scanner"
	"reaper/internal/services"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var flags scanFlags

	cmd := &cobra.Command{
		Use:   "scan PATH",
		Short: "Scan a folder and print the reconstructed hierarchy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			source, err := config.ExpandPath(args[0])
			if err != nil {
				return services.Wrap(services.ErrValidation, "preflight", "source", "", err)
			}
			results := preflight.RunAll(cmd.Context(), preflight.Request{
				Source:   source,
				Timezone: flags.timezoneFor(cfg),
			})
			if err := preflight.FirstFailure(results); err != nil {
				return err
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			run, err := flags.resolve(cfg, logger)
			if err != nil {
				return err
			}

			h, stats, err := scanner.Scan(cmd.Context(), source, run.scan)
			if err != nil {
				return err
			}
			_, err = printScanReport(cmd.OutOrStdout(), h, stats, filepath.Base(source), "")
			return err
		},
	}

	flags.register(cmd)
	return cmd
}
