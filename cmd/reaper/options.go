package main

import (
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"reaper/internal/config"
	"reaper/internal/scanner"
	"reaper/internal/services"
)

// scanFlags are shared by the scan and upload commands. Boolean flags can
// only switch a configured default on.
type scanFlags struct {
	relatedAcq bool
	deidentify bool
	symlinks   bool
	timezone   string
	tags       []string
}

func (f *scanFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.relatedAcq, "related-acq", false, "Group related series into the acquisition of their primary series")
	cmd.Flags().BoolVar(&f.deidentify, "de-identify", false, "Strip patient name and birth date before upload")
	cmd.Flags().BoolVar(&f.symlinks, "symlinks", false, "Follow symbolic links while scanning")
	cmd.Flags().StringVarP(&f.timezone, "timezone", "z", "", "IANA timezone used to interpret study dates")
	cmd.Flags().StringArrayVar(&f.tags, "tag", nil, "Override a label field as role=Keyword (repeatable; Keyword \"null\" uses the default value)")
}

// resolved is the effective run configuration after layering flags over
// the config file.
type resolved struct {
	timezone string
	location *time.Location
	scan     scanner.Options
}

func (f *scanFlags) timezoneFor(cfg *config.Config) string {
	if tz := strings.TrimSpace(f.timezone); tz != "" {
		return tz
	}
	return cfg.Upload.Timezone
}

func (f *scanFlags) resolve(cfg *config.Config, logger *slog.Logger) (resolved, error) {
	timezone := f.timezoneFor(cfg)
	loc, err := config.LoadLocation(timezone)
	if err != nil {
		return resolved{}, services.Wrap(services.ErrValidation, "preflight", "timezone", "", err)
	}

	overrides, err := config.ParseTagOverrides(f.tags)
	if err != nil {
		return resolved{}, services.Wrap(services.ErrValidation, "preflight", "tags", "", err)
	}
	fields, err := cfg.Tags.FieldNames(overrides)
	if err != nil {
		return resolved{}, services.Wrap(services.ErrValidation, "preflight", "tags", "", err)
	}

	return resolved{
		timezone: timezone,
		location: loc,
		scan: scanner.Options{
			RelatedSeries:  cfg.Upload.RelatedSeries || f.relatedAcq,
			Deidentify:     cfg.Upload.Deidentify || f.deidentify,
			FollowSymlinks: cfg.Upload.FollowSymlinks || f.symlinks,
			Fields:         fields,
			Opener:         scanner.DICOMOpener,
			Logger:         logger,
		},
	}, nil
}
