package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFileVerified(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.dcm")
	dst := filepath.Join(dir, "dst.dcm")
	if err := os.WriteFile(src, []byte("verified"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CopyFileVerified(src, dst); err != nil {
		t.Fatalf("CopyFileVerified: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "verified" {
		t.Fatalf("content = %q", got)
	}
}

func TestCopyFileVerifiedMissingSourceLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "dst.dcm")
	if err := CopyFileVerified(filepath.Join(dir, "missing"), dst); err == nil {
		t.Fatal("expected error for missing source")
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Fatalf("expected no destination file, stat err = %v", err)
	}
}

func TestCopyFileVerifiedUnwritableDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.dcm")
	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CopyFileVerified(src, filepath.Join(dir, "absent", "dst.dcm")); err == nil {
		t.Fatal("expected error for missing destination directory")
	}
}

func TestUniqueName(t *testing.T) {
	taken := map[string]struct{}{}
	dir := "/work"

	tests := []struct {
		base string
		want string
	}{
		{"IM0001.dcm", "/work/IM0001.dcm"},
		{"IM0001.dcm", "/work/IM0001_1.dcm"},
		{"IM0001.dcm", "/work/IM0001_2.dcm"},
		{"nested/IM0002", "/work/IM0002"},
		{"", "/work/file"},
	}
	for _, tt := range tests {
		if got := UniqueName(dir, tt.base, taken); got != tt.want {
			t.Errorf("UniqueName(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}
