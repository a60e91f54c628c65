package preflight

import (
	"context"
	"fmt"
	"strings"

	"reaper/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Request names what a run is about to touch. Empty fields skip the
// matching check.
type Request struct {
	Source     string
	StagingDir string
	Timezone   string
	Target     string
	APIKey     string
	Insecure   bool
}

// RunAll executes every applicable check in a fixed order.
func RunAll(ctx context.Context, req Request) []Result {
	results := []Result{CheckTimezone(req.Timezone)}
	if strings.TrimSpace(req.Source) != "" {
		results = append(results, CheckSourcePath(req.Source))
	}
	if strings.TrimSpace(req.StagingDir) != "" {
		results = append(results, CheckStagingRoot(req.StagingDir))
	}
	if isHTTPTarget(req.Target) {
		results = append(results, CheckUploadTarget(ctx, req.Target, req.APIKey, req.Insecure))
	}
	return results
}

// FirstFailure converts the first failed result into a validation error.
func FirstFailure(results []Result) error {
	for _, r := range results {
		if !r.Passed {
			return services.Wrap(services.ErrValidation, "preflight", strings.ToLower(r.Name), r.Detail, nil)
		}
	}
	return nil
}

func isHTTPTarget(target string) bool {
	target = strings.ToLower(strings.TrimSpace(target))
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}

func describe(path, problem string, err error) string {
	if err == nil {
		return fmt.Sprintf("%s (error: %s)", path, problem)
	}
	return fmt.Sprintf("%s (error: %s: %v)", path, problem, err)
}
