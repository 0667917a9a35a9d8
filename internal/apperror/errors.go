// Package apperror defines the engine's error taxonomy. Handlers map these
// onto HTTP status codes; everything else passes them through unchanged.
package apperror

import (
	"fmt"

	"github.com/admitra/admission-engine/internal/model"
)

// ValidationError rejects malformed input before any expensive work.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// DataQualityError blocks a training run at the quality gate. It always
// carries the structured report: the condition is expected and recoverable,
// so the caller gets issues and recommendations, not a bare failure.
type DataQualityError struct {
	Report *model.DataQualityReport
}

func (e *DataQualityError) Error() string {
	return fmt.Sprintf("training blocked by data quality gate (%d issues)", len(e.Report.Issues))
}

// InsufficientDataError means fewer usable records than the configured
// minimum. Distinct from DataQualityError: it can occur even on fully
// verified data.
type InsufficientDataError struct {
	Available int
	Required  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient training data: %d usable records, need %d", e.Available, e.Required)
}

// ArtifactMissingError means a registry row references an artifact that
// cannot be loaded. The prediction path treats this as "no active model" and
// falls back to the heuristic scorer.
type ArtifactMissingError struct {
	ModelID string
	Path    string
	Err     error
}

func (e *ArtifactMissingError) Error() string {
	return fmt.Sprintf("model %s: artifact %s cannot be loaded: %v", e.ModelID, e.Path, e.Err)
}

func (e *ArtifactMissingError) Unwrap() error { return e.Err }

// RegistryConsistencyError reports a violated single-active-model invariant.
// Prevented by construction; any detection is fatal, never silently
// resolved.
type RegistryConsistencyError struct {
	ActiveCount int
}

func (e *RegistryConsistencyError) Error() string {
	return fmt.Sprintf("registry invariant violated: %d active model versions", e.ActiveCount)
}
