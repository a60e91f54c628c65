package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"reaper/internal/archive"
	"reaper/internal/dicomfile"
	"reaper/internal/fileutil"
	"reaper/internal/hierarchy"
	"reaper/internal/logging"
	"reaper/internal/services"
	"reaper/internal/staging"
	"reaper/internal/textutil"
)

// TransferFunc delivers one archive and its envelope to the destination.
type TransferFunc func(ctx context.Context, archivePath string, env Envelope) error

// ArchiveFunc builds an archive named name in outDir from paths.
type ArchiveFunc func(paths []string, name, outDir string, meta archive.Metadata) (string, error)

// DeidentifyFunc scrubs the file at path in place.
type DeidentifyFunc func(path string, loc *time.Location) error

// Pipeline uploads every dataset of a hierarchy.
type Pipeline struct {
	Group      string
	Project    string
	Deidentify bool
	Location   *time.Location
	StagingDir string
	Transfer   TransferFunc
	// Archiver defaults to archive.Build.
	Archiver ArchiveFunc
	// Deidentifier defaults to dicomfile.Deidentify.
	Deidentifier DeidentifyFunc
	Logger       *slog.Logger
}

// Result reports what a run transferred.
type Result struct {
	Datasets int
	Images   int
	Bytes    int64
}

// Run walks sessions, acquisitions, and datasets in first-seen order and
// transfers each dataset. The first failure stops the run.
func (p *Pipeline) Run(ctx context.Context, h *hierarchy.Hierarchy) (Result, error) {
	var result Result
	if p.Transfer == nil {
		return result, services.Wrap(services.ErrConfiguration, "upload", "run", "no transfer function", nil)
	}
	if strings.TrimSpace(p.StagingDir) == "" {
		return result, services.Wrap(services.ErrConfiguration, "upload", "run", "staging directory not set", nil)
	}
	if h == nil {
		return result, nil
	}

	logger := logging.NewComponentLogger(p.Logger, "upload")
	total := countDatasets(h)
	sampler := logging.NewProgressSampler(10)

	for _, session := range h.Sessions() {
		sessionCtx := services.WithSession(ctx, session.UID)
		for _, acq := range session.Acquisitions() {
			acqCtx := services.WithAcquisition(sessionCtx, acq.Key)
			for _, ds := range acq.Datasets() {
				if err := ctx.Err(); err != nil {
					return result, services.Wrap(services.ErrAborted, "upload", "run", "interrupted", err)
				}
				dsCtx := services.WithDataset(acqCtx, ds.SeriesUID)
				size, err := p.uploadDataset(dsCtx, logging.WithContext(dsCtx, logger), session, acq, ds)
				if err != nil {
					logging.ErrorWithContext(logging.WithContext(dsCtx, logger), "dataset upload failed", "upload_failed",
						logging.String("label", ds.Label),
						logging.Error(err),
						logging.Int("transferred", result.Datasets),
						logging.Int("remaining", total-result.Datasets),
						logging.String(logging.FieldErrorHint, "fix the cause and re-run; already transferred datasets will be sent again"),
					)
					return result, err
				}
				result.Datasets++
				result.Images += ds.ImageCount()
				result.Bytes += size

				if sampler.ShouldLog(session.UID, result.Datasets, total) {
					logger.Info("upload progress",
						logging.Int("done", result.Datasets),
						logging.Int("total", total),
						logging.Float64("percent", logging.Percent(result.Datasets, total)),
						logging.String(logging.FieldEventType, "upload_progress"),
					)
				}
			}
		}
	}
	return result, nil
}

// uploadDataset stages, archives, and transfers one dataset. The work
// directory never outlives the call.
func (p *Pipeline) uploadDataset(ctx context.Context, logger *slog.Logger, session *hierarchy.Session, acq *hierarchy.Acquisition, ds *hierarchy.Dataset) (size int64, err error) {
	workDir, err := staging.NewWorkDir(p.StagingDir)
	if err != nil {
		return 0, services.Wrap(services.ErrStaging, "staging", "create work dir", p.StagingDir, err)
	}
	defer func() {
		if rmErr := os.RemoveAll(workDir); rmErr != nil {
			logging.WarnWithContext(logger, "work directory not removed", "staging_cleanup_failed",
				logging.String(logging.FieldPath, workDir),
				logging.Error(rmErr),
				logging.String(logging.FieldErrorHint, "run reaper staging clean"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
		}
	}()

	paths := ds.ImagePaths()
	if p.Deidentify {
		paths, err = p.stageDeidentified(workDir, paths)
		if err != nil {
			return 0, err
		}
	}

	name := ArchiveName(ds.Label, ds.SeriesUID)
	build := p.Archiver
	if build == nil {
		build = archive.Build
	}
	archivePath, err := build(paths, name, workDir, archive.Metadata{
		FileType:    ds.Type,
		Group:       p.Group,
		Project:     p.Project,
		Session:     session.UID,
		Subject:     session.SubjectCode,
		Acquisition: acq.Key,
		Label:       ds.Label,
	})
	if err != nil {
		return 0, services.Wrap(services.ErrArchive, "archive", "build", name, err)
	}
	if info, statErr := os.Stat(archivePath); statErr == nil {
		size = info.Size()
	}

	env := NewEnvelope(p.Group, p.Project, session, acq, ds.Type, filepath.Base(archivePath))
	start := time.Now()
	if err := p.Transfer(services.WithStage(ctx, "transfer"), archivePath, env); err != nil {
		if errors.Is(err, services.ErrTransfer) {
			return 0, err
		}
		return 0, services.Wrap(services.ErrTransfer, "transfer", "send", env.File().Name, err)
	}

	logger.Info("dataset transferred",
		logging.String("label", ds.Label),
		logging.String("archive", env.File().Name),
		logging.Int("images", ds.ImageCount()),
		logging.Bytes("bytes", size),
		logging.Duration("elapsed", time.Since(start)),
		logging.String(logging.FieldEventType, "dataset_transferred"),
	)
	return size, nil
}

// ArchiveName names a dataset archive. Labels repeat within an acquisition
// (related series, missing SeriesNumber), so the series UID is always part
// of the name.
func ArchiveName(label, seriesUID string) string {
	uid := textutil.SanitizeFileName(seriesUID, "unknown")
	return textutil.SanitizeFileName(label, "dataset") + "_" + uid + archive.Extension
}

// stageDeidentified copies sources into workDir and scrubs the copies.
func (p *Pipeline) stageDeidentified(workDir string, sources []string) ([]string, error) {
	imageDir := filepath.Join(workDir, "images")
	if err := os.MkdirAll(imageDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrStaging, "staging", "create image dir", imageDir, err)
	}
	scrub := p.Deidentifier
	if scrub == nil {
		scrub = dicomfile.Deidentify
	}

	taken := make(map[string]struct{}, len(sources))
	staged := make([]string, 0, len(sources))
	for _, src := range sources {
		dst := fileutil.UniqueName(imageDir, src, taken)
		if err := fileutil.CopyFileVerified(src, dst); err != nil {
			return nil, services.Wrap(services.ErrStaging, "staging", "copy", src, err)
		}
		if err := scrub(dst, p.Location); err != nil {
			return nil, services.Wrap(services.ErrStaging, "staging", "de-identify", src, err)
		}
		staged = append(staged, dst)
	}
	return staged, nil
}

func countDatasets(h *hierarchy.Hierarchy) int {
	n := 0
	for _, s := range h.Sessions() {
		for _, a := range s.Acquisitions() {
			n += len(a.Datasets())
		}
	}
	return n
}

// String renders a short human summary of the result.
func (r Result) String() string {
	return fmt.Sprintf("%d datasets, %d images, %d bytes", r.Datasets, r.Images, r.Bytes)
}
