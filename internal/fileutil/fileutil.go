package fileutil

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// CopyFileVerified copies src to dst and confirms the copy is byte-identical
// by comparing size and SHA256. dst is removed on any failure.
func CopyFileVerified(src, dst string) (err error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	written, err := io.Copy(io.MultiWriter(out, dstHasher), io.TeeReader(in, srcHasher))
	if err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if written != srcInfo.Size() {
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcInfo.Size(), written)
	}
	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		return fmt.Errorf("copy hash mismatch: %s", dst)
	}
	return nil
}

// UniqueName returns a path inside dir for base that does not collide with
// any name already handed out through taken. Collisions get a numeric
// suffix before the extension ("a.dcm", "a_1.dcm", ...).
func UniqueName(dir, base string, taken map[string]struct{}) string {
	base = filepath.Base(strings.TrimSpace(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "file"
	}
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	candidate := base
	for i := 1; ; i++ {
		if _, used := taken[candidate]; !used {
			break
		}
		candidate = stem + "_" + strconv.Itoa(i) + ext
	}
	if taken != nil {
		taken[candidate] = struct{}{}
	}
	return filepath.Join(dir, candidate)
}
