package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"reaper/internal/services"
	"reaper/internal/staging"
)

func newStagingCommand(ctx *commandContext) *cobra.Command {
	stagingCmd := &cobra.Command{
		Use:   "staging",
		Short: "Manage staging work directories",
	}

	stagingCmd.AddCommand(newStagingListCommand(ctx))
	stagingCmd.AddCommand(newStagingCleanCommand(ctx))

	return stagingCmd
}

func newStagingListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List leftover work directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			stagingDir := strings.TrimSpace(cfg.Paths.StagingDir)
			out := cmd.OutOrStdout()
			if stagingDir == "" {
				fmt.Fprintln(out, "Staging directory not configured")
				return nil
			}

			dirs, err := staging.ListDirectories(stagingDir)
			if err != nil {
				return fmt.Errorf("list staging directories: %w", err)
			}
			if len(dirs) == 0 {
				fmt.Fprintln(out, "No staging directories found")
				return nil
			}

			fmt.Fprintf(out, "Staging directory: %s\n\n", stagingDir)

			staleAfter := time.Duration(cfg.Upload.StaleWorkDirHours) * time.Hour
			fmt.Fprintln(out, renderStagingTable(dirs, time.Now(), staleAfter))
			return nil
		},
	}
}

func newStagingCleanCommand(ctx *commandContext) *cobra.Command {
	var maxAgeHours int

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove stale work directories",
		Long: `Remove work directories left behind by interrupted uploads.

Only directories older than --max-age hours are removed (default: the
upload.stale_work_dir_hours setting). Pass --max-age 0 to remove every work
directory. The command refuses to run while an upload holds the staging root.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			hours := cfg.Upload.StaleWorkDirHours
			if cmd.Flags().Changed("max-age") {
				hours = maxAgeHours
			}
			if hours < 0 {
				return services.Wrap(services.ErrValidation, "staging", "clean", "--max-age must not be negative", nil)
			}

			lock, err := staging.Acquire(cfg.Paths.StagingDir, true)
			if err != nil {
				return services.Wrap(services.ErrStaging, "staging", "lock", "", err)
			}
			defer lock.Release()

			result := staging.CleanStale(cmd.Context(), lock.Root(), time.Duration(hours)*time.Hour, logger)
			printStagingCleanResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxAgeHours, "max-age", 0, "Remove work directories older than this many hours")
	return cmd
}

func printStagingCleanResult(cmd *cobra.Command, result staging.CleanStaleResult) {
	out := cmd.OutOrStdout()
	if len(result.Removed) == 0 && len(result.Errors) == 0 {
		fmt.Fprintln(out, "No stale directories to clean")
		return
	}
	if len(result.Errors) > 0 {
		fmt.Fprintf(out, "Removed %d stale directories, %d errors\n", len(result.Removed), len(result.Errors))
		for _, e := range result.Errors {
			fmt.Fprintf(out, "  Error: %s: %v\n", e.Path, e.Error)
		}
		return
	}
	fmt.Fprintf(out, "Removed %d stale directories\n", len(result.Removed))
}
