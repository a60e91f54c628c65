// Package archive bundles the images of one dataset into a zip file whose
// comment carries the dataset's metadata as JSON.
package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"

	"reaper/internal/fileutil"
)

// Extension is appended to every dataset archive name.
const Extension = ".dicom.zip"

// Metadata is serialized into the zip comment.
type Metadata struct {
	FileType    string `json:"filetype"`
	Group       string `json:"group"`
	Project     string `json:"project"`
	Session     string `json:"session"`
	Subject     string `json:"subject,omitempty"`
	Acquisition string `json:"acquisition"`
	Label       string `json:"label,omitempty"`
}

// Build writes a zip at outDir/name containing every path under its base
// name, and returns the archive path. Colliding base names get a numeric
// suffix. A partially written archive is removed on failure.
func Build(paths []string, name, outDir string, meta Metadata) (archivePath string, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("archive name is empty")
	}
	if len(paths) == 0 {
		return "", errors.New("no files to archive")
	}

	comment, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("encode archive metadata: %w", err)
	}

	dst := filepath.Join(outDir, name)
	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}
	defer func() {
		if err != nil {
			_ = out.Close()
			_ = os.Remove(dst)
		}
	}()

	zw := zip.NewWriter(out)
	if err := zw.SetComment(string(comment)); err != nil {
		return "", fmt.Errorf("set archive comment: %w", err)
	}
	seen := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		if err := addFile(zw, path, seen); err != nil {
			return "", err
		}
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("finalize archive: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close archive: %w", err)
	}
	return dst, nil
}

func addFile(zw *zip.Writer, path string, seen map[string]struct{}) error {
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	entry := fileutil.UniqueName("", path, seen)

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("zip header %s: %w", path, err)
	}
	header.Name = entry
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("add %s: %w", entry, err)
	}
	if _, err := io.Copy(w, in); err != nil {
		return fmt.Errorf("compress %s: %w", entry, err)
	}
	return nil
}

// ReadMetadata returns the metadata stored in an archive's comment.
func ReadMetadata(archivePath string) (Metadata, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return Metadata{}, fmt.Errorf("open archive: %w", err)
	}
	defer r.Close()

	var meta Metadata
	if err := json.Unmarshal([]byte(r.Comment), &meta); err != nil {
		return Metadata{}, fmt.Errorf("decode archive metadata: %w", err)
	}
	return meta, nil
}
