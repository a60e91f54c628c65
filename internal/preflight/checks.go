package preflight

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"reaper/internal/config"
)

// CheckTimezone verifies that the timezone name resolves. Empty means local.
func CheckTimezone(name string) Result {
	const check = "Timezone"
	loc, err := config.LoadLocation(name)
	if err != nil {
		return Result{Name: check, Detail: err.Error()}
	}
	return Result{Name: check, Passed: true, Detail: loc.String()}
}

// CheckSourcePath verifies that the scan root is a readable directory.
func CheckSourcePath(path string) Result {
	const name = "Source path"
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: describe(path, "does not exist", nil)}
		}
		return Result{Name: name, Detail: describe(path, "stat", err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: describe(path, "is not a directory", nil)}
	}
	if err := unix.Access(path, unix.R_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: describe(path, "not readable", err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read ok)", path)}
}

// CheckStagingRoot creates the staging root if needed and verifies access.
func CheckStagingRoot(path string) Result {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return Result{Name: "Staging directory", Detail: describe(path, "create", err)}
	}
	return CheckDirectoryAccess("Staging directory", path)
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: describe(path, "does not exist", nil)}
		}
		return Result{Name: name, Detail: describe(path, "stat", err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: describe(path, "is not a directory", nil)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: describe(path, "insufficient permissions", err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckUploadTarget verifies that an HTTP upload target is reachable and
// does not reject the API key. Any status other than 401/403 or a server
// error counts as reachable.
func CheckUploadTarget(ctx context.Context, baseURL, apiKey string, insecure bool) Result {
	const name = "Upload target"

	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return Result{Name: name, Detail: "missing url"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client := &http.Client{Timeout: 5 * time.Second}
	if insecure {
		client.Transport = &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}} //nolint:gosec
	}
	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, base, nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("reachability check failed (%v)", err)}
	}
	if key := strings.TrimSpace(apiKey); key != "" {
		req.Header.Set("Authorization", "scitran-user "+key)
	}

	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("reachability check failed (%v)", err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return Result{Name: name, Detail: "auth failed (invalid api key)"}
	case resp.StatusCode >= 500:
		return Result{Name: name, Detail: fmt.Sprintf("reachability check failed (%d)", resp.StatusCode)}
	default:
		return Result{Name: name, Passed: true, Detail: "Reachable"}
	}
}
