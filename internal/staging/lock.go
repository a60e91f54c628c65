package staging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// LockFileName is created inside the staging root.
const LockFileName = ".reaper.lock"

// ErrBusy reports that another process holds a conflicting lock.
var ErrBusy = errors.New("staging root is in use by another reaper process")

// Lock is a held lock on a staging root.
type Lock struct {
	root string
	lock *flock.Flock
}

// Acquire creates the staging root if needed and takes its lock without
// blocking. Shared locks coexist; an exclusive lock excludes everything.
func Acquire(root string, exclusive bool) (*Lock, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("staging root is not configured")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create staging root %q: %w", root, err)
	}

	fl := flock.New(filepath.Join(root, LockFileName))
	var (
		ok  bool
		err error
	)
	if exclusive {
		ok, err = fl.TryLock()
	} else {
		ok, err = fl.TryRLock()
	}
	if err != nil {
		return nil, fmt.Errorf("acquire staging lock: %w", err)
	}
	if !ok {
		return nil, ErrBusy
	}
	return &Lock{root: root, lock: fl}, nil
}

// Root returns the locked staging root.
func (l *Lock) Root() string {
	return l.root
}

// Release drops the lock. It is safe to call on a nil Lock.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}

// NewWorkDir creates a fresh, uniquely named directory under root. The
// caller owns the directory and must remove it.
func NewWorkDir(root string) (string, error) {
	dir, err := os.MkdirTemp(root, "dataset-")
	if err != nil {
		return "", fmt.Errorf("create work directory: %w", err)
	}
	return dir, nil
}
