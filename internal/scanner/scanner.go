package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"reaper/internal/config"
	"reaper/internal/hierarchy"
	"reaper/internal/logging"
	"reaper/internal/services"
)

// Options controls a scan.
type Options struct {
	RelatedSeries  bool
	Deidentify     bool
	FollowSymlinks bool
	Fields         config.FieldNames
	Opener         Opener
	Logger         *slog.Logger
}

// Stats counts what a scan saw.
type Stats struct {
	FilesSeen         int
	RecordsAdded      int
	ImagesReplaced    int
	SkippedUnparsed   int
	SkippedMissingIDs int
	HiddenPruned      int
	SymlinksSkipped   int
	WalkErrors        int
}

// Skipped returns the number of files that contributed nothing.
func (s Stats) Skipped() int {
	return s.SkippedUnparsed + s.SkippedMissingIDs
}

type scan struct {
	opts    Options
	labels  labeler
	logger  *slog.Logger
	tree    *hierarchy.Hierarchy
	stats   Stats
	visited map[string]struct{}
}

// Scan walks root depth-first in lexical order and builds the hierarchy.
func Scan(ctx context.Context, root string, opts Options) (*hierarchy.Hierarchy, Stats, error) {
	if opts.Opener == nil {
		opts.Opener = DICOMOpener
	}
	s := &scan{
		opts: opts,
		labels: labeler{
			fields:        opts.Fields,
			relatedSeries: opts.RelatedSeries,
			deidentify:    opts.Deidentify,
		},
		logger:  logging.NewComponentLogger(opts.Logger, "scanner"),
		tree:    hierarchy.New(),
		visited: make(map[string]struct{}),
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, Stats{}, services.Wrap(services.ErrNotFound, "scan", "stat root", root, err)
	}
	if !info.IsDir() {
		return nil, Stats{}, services.Wrap(services.ErrValidation, "scan", "stat root", root+" is not a directory", nil)
	}

	s.markVisited(root)
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, Stats{}, services.Wrap(services.ErrNotFound, "scan", "read root", root, err)
	}
	if err := s.walkEntries(ctx, root, entries); err != nil {
		return nil, s.stats, err
	}

	s.logger.Info("scan complete",
		logging.String(logging.FieldPath, root),
		logging.Int("files_seen", s.stats.FilesSeen),
		logging.Int("records_added", s.stats.RecordsAdded),
		logging.Int("skipped", s.stats.Skipped()),
		logging.Int("sessions", s.tree.Len()),
		logging.String(logging.FieldEventType, "scan_complete"),
	)
	return s.tree, s.stats, nil
}

func (s *scan) walkDir(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		s.stats.WalkErrors++
		logging.WarnWithContext(s.logger, "directory unreadable", "scan_walk_error",
			logging.String(logging.FieldPath, dir),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check directory permissions"),
			logging.String(logging.FieldImpact, "files below this directory were not scanned"),
		)
		return nil
	}
	return s.walkEntries(ctx, dir, entries)
}

// walkEntries visits entries in the lexical order os.ReadDir returns them.
func (s *scan) walkEntries(ctx context.Context, dir string, entries []fs.DirEntry) error {
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return services.Wrap(services.ErrAborted, "scan", "walk", dir, err)
		}
		name := entry.Name()
		path := filepath.Join(dir, name)
		if strings.HasPrefix(name, ".") {
			s.stats.HiddenPruned++
			continue
		}

		mode := entry.Type()
		if mode&fs.ModeSymlink != 0 {
			if !s.opts.FollowSymlinks {
				s.stats.SymlinksSkipped++
				s.logger.Debug("symlink skipped", logging.String(logging.FieldPath, path))
				continue
			}
			target, err := os.Stat(path)
			if err != nil {
				s.stats.WalkErrors++
				s.logger.Debug("dangling symlink", logging.String(logging.FieldPath, path), logging.Error(err))
				continue
			}
			mode = target.Mode().Type()
		}

		switch {
		case mode.IsDir():
			if !s.markVisited(path) {
				s.logger.Debug("directory already visited", logging.String(logging.FieldPath, path))
				continue
			}
			if err := s.walkDir(ctx, path); err != nil {
				return err
			}
		case mode.IsRegular():
			s.visitFile(path)
		}
	}
	return nil
}

// markVisited records the resolved directory and reports whether it was new.
func (s *scan) markVisited(dir string) bool {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		resolved = dir
	}
	if abs, err := filepath.Abs(resolved); err == nil {
		resolved = abs
	}
	if _, seen := s.visited[resolved]; seen {
		return false
	}
	s.visited[resolved] = struct{}{}
	return true
}

func (s *scan) visitFile(path string) {
	s.stats.FilesSeen++
	outcome := s.classify(path)
	switch outcome.Skip {
	case SkipUnclassified:
		s.stats.SkippedUnparsed++
		s.logger.Debug("file skipped",
			logging.String(logging.FieldPath, path),
			logging.String("reason", outcome.Skip.String()),
			logging.Error(outcome.Err),
		)
		return
	case SkipMissingIdentifier:
		s.stats.SkippedMissingIDs++
		logging.WarnWithContext(s.logger, "file skipped", "scan_missing_identifier",
			logging.String(logging.FieldPath, path),
			logging.String("reason", outcome.Skip.String()),
			logging.Error(outcome.Err),
			logging.String(logging.FieldErrorHint, "file lacks study, series, or instance UID"),
			logging.String(logging.FieldImpact, "file will not be uploaded"),
		)
		return
	}
	s.add(outcome.Record)
}

func (s *scan) classify(path string) Outcome {
	md, err := s.opts.Opener.Open(path)
	if err != nil {
		return Outcome{Skip: SkipUnclassified, Err: err}
	}
	if md == nil {
		return Outcome{Skip: SkipUnclassified, Err: errors.New("no metadata")}
	}
	return s.labels.record(path, md)
}

// add folds one record into the tree.
func (s *scan) add(rec *Record) {
	session, _ := s.tree.UpsertSession(rec.StudyUID, rec.SubjectCode, rec.SessionLabel)
	acq, _ := session.UpsertAcquisition(rec.AcquisitionKey, rec.AcquisitionLabel)
	dataset, _ := acq.UpsertDataset(rec.SeriesUID, hierarchy.DatasetTypeDICOM, rec.DatasetLabel)
	if dataset.PutImage(rec.ImageID, rec.Path) {
		s.stats.ImagesReplaced++
		s.logger.Debug("duplicate image identifier, keeping latest path",
			logging.String("image_uid", rec.ImageID),
			logging.String(logging.FieldPath, rec.Path),
		)
	}
	// The primary series' own label is authoritative for its acquisition.
	if s.opts.RelatedSeries && rec.PrimarySeriesUID == "" {
		acq.SetLabel(rec.AcquisitionLabel)
	}
	s.stats.RecordsAdded++
}

func missingIdentifierError(study, series, image string) error {
	var missing []string
	if study == "" {
		missing = append(missing, "StudyInstanceUID")
	}
	if series == "" {
		missing = append(missing, "SeriesInstanceUID")
	}
	if image == "" {
		missing = append(missing, "SOPInstanceUID")
	}
	return fmt.Errorf("missing %s", strings.Join(missing, ", "))
}
