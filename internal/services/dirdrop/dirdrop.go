// Package dirdrop delivers dataset archives into a local or mounted
// directory tree, laid out as group/project/session/acquisition with the
// JSON envelope written next to each archive.
package dirdrop

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"reaper/internal/fileutil"
	"reaper/internal/logging"
	"reaper/internal/services"
	"reaper/internal/upload"
)

// Drop copies archives below a root directory.
type Drop struct {
	root   string
	logger *slog.Logger
}

// ParseTarget resolves a file:// URL or bare path to a directory.
func ParseTarget(target string) (string, error) {
	target = strings.TrimSpace(target)
	if strings.HasPrefix(target, "file://") {
		u, err := url.Parse(target)
		if err != nil {
			return "", fmt.Errorf("parse file target: %w", err)
		}
		if u.Host != "" && u.Host != "localhost" {
			return "", fmt.Errorf("file target %q names a remote host", target)
		}
		target = u.Path
	}
	if target == "" {
		return "", fmt.Errorf("drop directory is empty")
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("resolve drop directory: %w", err)
	}
	return abs, nil
}

// New returns a Drop rooted at target, creating the directory if needed.
func New(target string, logger *slog.Logger) (*Drop, error) {
	root, err := ParseTarget(target)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "transfer", "dirdrop", "", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "transfer", "dirdrop", "create "+root, err)
	}
	return &Drop{root: root, logger: logging.NewComponentLogger(logger, "dirdrop")}, nil
}

// Root returns the drop directory.
func (d *Drop) Root() string {
	return d.root
}

// Send copies the archive and writes its envelope sidecar. It matches
// upload.TransferFunc.
func (d *Drop) Send(ctx context.Context, archivePath string, env upload.Envelope) error {
	if err := ctx.Err(); err != nil {
		return services.Wrap(services.ErrTransfer, "transfer", "dirdrop", "", err)
	}
	dir := filepath.Join(append([]string{d.root}, env.Segments()...)...)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return services.Wrap(services.ErrTransfer, "transfer", "dirdrop", "create "+dir, err)
	}

	dst := filepath.Join(dir, filepath.Base(archivePath))
	if err := fileutil.CopyFileVerified(archivePath, dst); err != nil {
		return services.Wrap(services.ErrTransfer, "transfer", "dirdrop", "copy "+dst, err)
	}

	sidecar, err := env.MarshalSidecar()
	if err != nil {
		return services.Wrap(services.ErrTransfer, "transfer", "dirdrop", "", err)
	}
	if err := os.WriteFile(dst+upload.SidecarSuffix, sidecar, 0o644); err != nil {
		return services.Wrap(services.ErrTransfer, "transfer", "dirdrop", "write metadata", err)
	}

	d.logger.Debug("archive dropped", logging.String(logging.FieldPath, dst))
	return nil
}
