package services

import "context"

type contextKey string

const (
	stageKey       contextKey = "stage"
	sessionKey     contextKey = "session_uid"
	acquisitionKey contextKey = "acquisition"
	datasetKey     contextKey = "series_uid"
)

func withString(ctx context.Context, key contextKey, value string) context.Context {
	if value == "" {
		return ctx
	}
	return context.WithValue(ctx, key, value)
}

func stringFrom(ctx context.Context, key contextKey) (string, bool) {
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	return withString(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, stageKey)
}

// WithSession annotates context with the study instance UID being processed.
func WithSession(ctx context.Context, uid string) context.Context {
	return withString(ctx, sessionKey, uid)
}

// SessionFromContext returns the study instance UID if present.
func SessionFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, sessionKey)
}

// WithAcquisition annotates context with the acquisition key being processed.
func WithAcquisition(ctx context.Context, key string) context.Context {
	return withString(ctx, acquisitionKey, key)
}

// AcquisitionFromContext returns the acquisition key if present.
func AcquisitionFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, acquisitionKey)
}

// WithDataset annotates context with the series instance UID being processed.
func WithDataset(ctx context.Context, seriesUID string) context.Context {
	return withString(ctx, datasetKey, seriesUID)
}

// DatasetFromContext returns the series instance UID if present.
func DatasetFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, datasetKey)
}
