package logging

import (
	"context"
	"log/slog"

	"reaper/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for the per-invocation run identifier.
	FieldRunID = "run_id"
	// FieldStage is the standardized structured logging key for pipeline stage names.
	FieldStage = "stage"
	// FieldSessionUID is the standardized structured logging key for study instance UIDs.
	FieldSessionUID = "session_uid"
	// FieldAcquisition is the standardized structured logging key for acquisition keys.
	FieldAcquisition = "acquisition"
	// FieldSeriesUID is the standardized structured logging key for dataset series UIDs.
	FieldSeriesUID = "series_uid"
	// FieldPath is the standardized structured logging key for file system paths.
	FieldPath = "path"
	// FieldEventType classifies a log line for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step to an operator.
	FieldErrorHint = "error_hint"
	// FieldImpact describes the user-facing consequence of a warning.
	FieldImpact = "impact"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 4)
	if stage, ok := services.StageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStage, stage))
	}
	if uid, ok := services.SessionFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldSessionUID, uid))
	}
	if key, ok := services.AcquisitionFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldAcquisition, key))
	}
	if uid, ok := services.DatasetFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldSeriesUID, uid))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return slog.New(logger.Handler().WithAttrs(fields))
}
