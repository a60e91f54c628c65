package staging

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAcquireSharedLocksCoexist(t *testing.T) {
	root := filepath.Join(t.TempDir(), "staging")

	first, err := Acquire(root, false)
	if err != nil {
		t.Fatalf("first shared lock: %v", err)
	}
	defer first.Release()

	second, err := Acquire(root, false)
	if err != nil {
		t.Fatalf("second shared lock: %v", err)
	}
	defer second.Release()

	if first.Root() != root {
		t.Fatalf("Root() = %q, want %q", first.Root(), root)
	}
	if _, err := os.Stat(filepath.Join(root, LockFileName)); err != nil {
		t.Fatalf("lock file missing: %v", err)
	}
}

func TestAcquireExclusiveConflicts(t *testing.T) {
	root := t.TempDir()

	held, err := Acquire(root, true)
	if err != nil {
		t.Fatalf("exclusive lock: %v", err)
	}

	if _, err := Acquire(root, false); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy for shared lock, got %v", err)
	}
	if err := held.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}

	again, err := Acquire(root, false)
	if err != nil {
		t.Fatalf("shared lock after release: %v", err)
	}
	_ = again.Release()
}

func TestAcquireRequiresRoot(t *testing.T) {
	if _, err := Acquire("  ", false); err == nil {
		t.Fatal("expected error for blank root")
	}
}

func TestReleaseNilLock(t *testing.T) {
	var l *Lock
	if err := l.Release(); err != nil {
		t.Fatalf("Release on nil lock: %v", err)
	}
}

func TestNewWorkDirIsUnique(t *testing.T) {
	root := t.TempDir()
	a, err := NewWorkDir(root)
	if err != nil {
		t.Fatalf("NewWorkDir: %v", err)
	}
	b, err := NewWorkDir(root)
	if err != nil {
		t.Fatalf("NewWorkDir: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct work dirs, got %q twice", a)
	}
	for _, dir := range []string{a, b} {
		if filepath.Dir(dir) != root || !strings.HasPrefix(filepath.Base(dir), "dataset-") {
			t.Fatalf("unexpected work dir %q", dir)
		}
	}
}
