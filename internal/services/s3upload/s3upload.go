// Package s3upload stores dataset archives in an S3-compatible bucket.
//
// A target of the form s3://bucket/prefix places every archive at
// prefix/group/project/session/acquisition/<archive>, with the JSON
// envelope stored next to it under the same key plus ".metadata.json".
package s3upload

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"reaper/internal/logging"
	"reaper/internal/services"
	"reaper/internal/upload"
)

const defaultEndpoint = "s3.amazonaws.com"

// Config carries endpoint and credentials.
type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// Uploader puts archives into one bucket under one prefix.
type Uploader struct {
	client   *minio.Client
	bucket   string
	prefix   string
	region   string
	logger   *slog.Logger
	initOnce sync.Once
	initErr  error
}

// ParseTarget splits an s3://bucket/prefix URL.
func ParseTarget(target string) (bucket, prefix string, err error) {
	u, err := url.Parse(strings.TrimSpace(target))
	if err != nil {
		return "", "", fmt.Errorf("parse s3 target: %w", err)
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("s3 target must use the s3:// scheme, got %q", target)
	}
	bucket = strings.TrimSpace(u.Host)
	if bucket == "" {
		return "", "", fmt.Errorf("s3 target %q has no bucket", target)
	}
	return bucket, strings.Trim(u.Path, "/"), nil
}

// New builds an uploader for target.
func New(cfg Config, target string, logger *slog.Logger) (*Uploader, error) {
	bucket, prefix, err := ParseTarget(target)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "transfer", "s3", "", err)
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, services.Wrap(services.ErrConfiguration, "transfer", "s3", "s3 access key and secret key are required", nil)
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "transfer", "s3", "init client", err)
	}
	return &Uploader{
		client: client,
		bucket: bucket,
		prefix: prefix,
		region: region,
		logger: logging.NewComponentLogger(logger, "s3upload"),
	}, nil
}

// ObjectKey returns the key an archive is stored under.
func ObjectKey(prefix string, env upload.Envelope, archiveName string) string {
	parts := make([]string, 0, 6)
	if prefix = strings.Trim(prefix, "/"); prefix != "" {
		parts = append(parts, prefix)
	}
	parts = append(parts, env.Segments()...)
	parts = append(parts, archiveName)
	return path.Join(parts...)
}

func (u *Uploader) ensureBucket(ctx context.Context) error {
	u.initOnce.Do(func() {
		exists, err := u.client.BucketExists(ctx, u.bucket)
		if err != nil {
			u.initErr = err
			return
		}
		if exists {
			return
		}
		u.initErr = u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{Region: u.region})
	})
	return u.initErr
}

// Send uploads the archive and its envelope sidecar. It matches
// upload.TransferFunc.
func (u *Uploader) Send(ctx context.Context, archivePath string, env upload.Envelope) error {
	if err := u.ensureBucket(ctx); err != nil {
		return services.Wrap(services.ErrTransfer, "transfer", "s3", "ensure bucket "+u.bucket, err)
	}
	sidecar, err := env.MarshalSidecar()
	if err != nil {
		return services.Wrap(services.ErrTransfer, "transfer", "s3", "", err)
	}

	key := ObjectKey(u.prefix, env, filepath.Base(archivePath))
	info, err := u.client.FPutObject(ctx, u.bucket, key, archivePath, minio.PutObjectOptions{
		ContentType: "application/zip",
		UserMetadata: map[string]string{
			"session-uid":     env.Session.UID,
			"acquisition-uid": env.Acquisition.UID,
		},
	})
	if err != nil {
		return services.Wrap(services.ErrTransfer, "transfer", "s3", "put "+key, err)
	}

	metaKey := key + upload.SidecarSuffix
	if _, err := u.client.PutObject(ctx, u.bucket, metaKey, bytes.NewReader(sidecar), int64(len(sidecar)), minio.PutObjectOptions{
		ContentType: "application/json",
	}); err != nil {
		return services.Wrap(services.ErrTransfer, "transfer", "s3", "put "+metaKey, err)
	}

	u.logger.Debug("archive stored",
		logging.String("bucket", u.bucket),
		logging.String("key", key),
		logging.Bytes("bytes", info.Size),
	)
	return nil
}
