package services

import (
	"context"
	"testing"
)

func TestContextHelpersRoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = WithStage(ctx, "archive")
	ctx = WithSession(ctx, "1.2")
	ctx = WithAcquisition(ctx, "1.2.3")
	ctx = WithDataset(ctx, "1.2.4")

	checks := []struct {
		name string
		get  func(context.Context) (string, bool)
		want string
	}{
		{"stage", StageFromContext, "archive"},
		{"session", SessionFromContext, "1.2"},
		{"acquisition", AcquisitionFromContext, "1.2.3"},
		{"dataset", DatasetFromContext, "1.2.4"},
	}
	for _, c := range checks {
		got, ok := c.get(ctx)
		if !ok || got != c.want {
			t.Errorf("%s = %q (ok=%v), want %q", c.name, got, ok, c.want)
		}
	}
}

func TestContextHelpersIgnoreEmpty(t *testing.T) {
	base := context.Background()
	if ctx := WithStage(base, ""); ctx != base {
		t.Fatal("expected empty stage to return the same context")
	}
	if _, ok := SessionFromContext(base); ok {
		t.Fatal("expected no session in empty context")
	}
}
