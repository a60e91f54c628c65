package main

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"reaper/internal/config"
	"reaper/internal/services"
	"reaper/internal/services/dirdrop"
	"reaper/internal/services/httpupload"
	"reaper/internal/services/s3upload"
	"reaper/internal/upload"
)

// transferTarget is a resolved upload destination.
type transferTarget struct {
	kind     string
	location string
	send     upload.TransferFunc
}

// resolveTransfer picks a backend from the target's scheme: http(s) posts
// to the upload endpoint, s3 stores objects, and file:// or a bare path
// copies into a directory.
func resolveTransfer(cfg *config.Config, target string, insecure bool, logger *slog.Logger) (transferTarget, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return transferTarget{}, services.Wrap(services.ErrValidation, "preflight", "target", "upload target is empty", nil)
	}

	scheme := ""
	if u, err := url.Parse(target); err == nil {
		scheme = strings.ToLower(u.Scheme)
	}

	switch scheme {
	case "http", "https":
		client := httpupload.New(target, httpupload.Options{
			APIKey:   cfg.Transfer.APIKey,
			Insecure: insecure || cfg.Transfer.Insecure,
			Timeout:  time.Duration(cfg.Transfer.TimeoutSeconds) * time.Second,
			Logger:   logger,
		})
		return transferTarget{kind: "http", location: client.Endpoint(), send: client.Send}, nil
	case "s3":
		uploader, err := s3upload.New(s3upload.Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			UseSSL:    cfg.S3.UseSSL,
		}, target, logger)
		if err != nil {
			return transferTarget{}, err
		}
		return transferTarget{kind: "s3", location: target, send: uploader.Send}, nil
	case "", "file":
		drop, err := dirdrop.New(target, logger)
		if err != nil {
			return transferTarget{}, err
		}
		return transferTarget{kind: "directory", location: drop.Root(), send: drop.Send}, nil
	default:
		return transferTarget{}, services.Wrap(services.ErrValidation, "preflight", "target",
			fmt.Sprintf("unsupported target scheme %q (use http, https, s3, or file)", scheme), nil)
	}
}
