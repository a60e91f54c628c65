package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"reaper/internal/config"
	"reaper/internal/hierarchy"
	"reaper/internal/logging"
	"reaper/internal/preflight"
	"reaper/internal/scanner"
	"reaper/internal/services"
	"reaper/internal/staging"
	"reaper/internal/summary"
	"reaper/internal/upload"
)

func newUploadCommand(ctx *commandContext) *cobra.Command {
	var flags scanFlags
	var insecure bool
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "upload PATH TARGET GROUP PROJECT",
		Short: "Scan a folder and upload every dataset",
		Long: `Scan PATH for DICOM files, reconstruct the session hierarchy, and upload
one archive per dataset to TARGET under GROUP/PROJECT.

TARGET may be an http(s) URL of an upload API, an s3://bucket/prefix URL, or
a local directory (bare path or file:// URL).`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			target := strings.TrimSpace(args[1])
			group := strings.TrimSpace(args[2])
			project := strings.TrimSpace(args[3])
			if group == "" || project == "" {
				return services.Wrap(services.ErrValidation, "preflight", "arguments", "group and project must not be empty", nil)
			}
			source, err := config.ExpandPath(args[0])
			if err != nil {
				return services.Wrap(services.ErrValidation, "preflight", "source", "", err)
			}

			results := preflight.RunAll(cmd.Context(), preflight.Request{
				Source:     source,
				StagingDir: cfg.Paths.StagingDir,
				Timezone:   flags.timezoneFor(cfg),
				Target:     target,
				APIKey:     cfg.Transfer.APIKey,
				Insecure:   insecure || cfg.Transfer.Insecure,
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
			dest, err := resolveTransfer(cfg, target, insecure, logger)
			if err != nil {
				return err
			}

			lock, err := staging.Acquire(cfg.Paths.StagingDir, false)
			if err != nil {
				return services.Wrap(services.ErrStaging, "staging", "lock", "", err)
			}
			defer lock.Release()

			h, stats, err := scanner.Scan(cmd.Context(), source, run.scan)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			sum, err := printScanReport(out, h, stats, group, project)
			if err != nil {
				return err
			}
			if sum.Empty() {
				fmt.Fprintln(out, "Nothing to upload")
				return nil
			}

			if !assumeYes {
				question := fmt.Sprintf("Upload %d datasets to %s (%s)?", sum.Datasets, dest.location, dest.kind)
				if err := confirmOrAbort(cmd.InOrStdin(), out, question); err != nil {
					return err
				}
			}

			pipeline := &upload.Pipeline{
				Group:      group,
				Project:    project,
				Deidentify: run.scan.Deidentify,
				Location:   run.location,
				StagingDir: lock.Root(),
				Transfer:   dest.send,
				Logger:     logger,
			}
			result, err := pipeline.Run(cmd.Context(), h)
			if err != nil {
				fmt.Fprintf(out, "Uploaded %d of %d datasets before failure\n", result.Datasets, sum.Datasets)
				return err
			}
			fmt.Fprintf(out, "Uploaded %d datasets (%d images, %s) to %s\n",
				result.Datasets, result.Images, logging.FormatBytes(result.Bytes), dest.location)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&insecure, "insecure", "k", false, "Skip TLS certificate verification for https targets")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Upload without asking for confirmation")
	return cmd
}

// printScanReport writes the hierarchy tree, the totals table, and a skip
// note when files were ignored.
func printScanReport(out io.Writer, h *hierarchy.Hierarchy, stats scanner.Stats, group, project string) (summary.Summary, error) {
	sum := summary.Summarize(h)
	if !sum.Empty() {
		if err := summary.RenderTree(out, h, group, project); err != nil {
			return sum, err
		}
	}
	fmt.Fprintln(out, summary.RenderTable(sum))
	if skipped := stats.Skipped(); skipped > 0 {
		fmt.Fprintf(out, "Skipped %d of %d files (run with --log-level debug for details)\n", skipped, stats.FilesSeen)
	}
	return sum, nil
}
