package staging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"reaper/internal/logging"
)

// CleanStaleResult contains the outcome of a stale directory cleanup operation.
type CleanStaleResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a directory path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// CleanStale removes work directories under stagingDir that were last
// modified before maxAge ago. Work directories are normally removed by the
// upload that created them; leftovers come from interrupted runs. The caller
// should hold the exclusive staging lock.
func CleanStale(ctx context.Context, stagingDir string, maxAge time.Duration, logger *slog.Logger) CleanStaleResult {
	result := CleanStaleResult{}

	stagingDir = strings.TrimSpace(stagingDir)
	if stagingDir == "" {
		return result
	}

	entries, err := os.ReadDir(stagingDir)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, CleanupError{Path: stagingDir, Error: err})
		}
		return result
	}

	cutoff := time.Now().Add(-maxAge)

	for _, entry := range entries {
		if ctx.Err() != nil {
			result.Errors = append(result.Errors, CleanupError{Path: stagingDir, Error: ctx.Err()})
			return result
		}
		if !entry.IsDir() {
			continue
		}

		dirPath := filepath.Join(stagingDir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: dirPath, Error: err})
			continue
		}

		if info.ModTime().Before(cutoff) {
			if err := os.RemoveAll(dirPath); err != nil {
				result.Errors = append(result.Errors, CleanupError{Path: dirPath, Error: err})
				if logger != nil {
					logger.Warn("failed to remove stale staging directory",
						logging.String("path", dirPath),
						logging.Error(err),
						logging.String(logging.FieldEventType, "staging_cleanup_failed"),
						logging.String(logging.FieldErrorHint, "check paths.staging_dir permissions"),
						logging.String(logging.FieldImpact, "disk space not reclaimed"),
					)
				}
			} else {
				result.Removed = append(result.Removed, dirPath)
				if logger != nil {
					logger.Info("removed stale staging directory",
						logging.String("path", dirPath),
						logging.Duration("age", time.Since(info.ModTime())),
						logging.String(logging.FieldEventType, "staging_cleanup"),
					)
				}
			}
		}
	}

	return result
}

// ListDirectories returns the work directories left in the staging root.
func ListDirectories(stagingDir string) ([]DirInfo, error) {
	stagingDir = strings.TrimSpace(stagingDir)
	if stagingDir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(stagingDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var dirs []DirInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		dirPath := filepath.Join(stagingDir, entry.Name())
		size, _ := dirSize(dirPath)

		dirs = append(dirs, DirInfo{
			Name:    entry.Name(),
			Path:    dirPath,
			ModTime: info.ModTime(),
			Size:    size,
		})
	}

	return dirs, nil
}

// DirInfo describes one leftover work directory.
type DirInfo struct {
	Name    string
	Path    string
	ModTime time.Time
	Size    int64
}

// dirSize calculates the total size of a directory recursively.
func dirSize(path string) (int64, error) {
	var size int64
	err := filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size, err
}
