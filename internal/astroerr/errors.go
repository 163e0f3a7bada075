// Package astroerr defines the external-visible error kinds of the
// knowledge pipeline. Each kind is a sentinel wrapped with context via
// fmt.Errorf("...: %w", ...) at the call site, matching the teacher's
// plain-wrapped-error style rather than a custom error framework.
package astroerr

import "errors"

var (
	ErrIngest             = errors.New("ingest error")
	ErrUnknownSource      = errors.New("unknown source")
	ErrSourceConflict     = errors.New("source conflict")
	ErrValidation         = errors.New("validation error")
	ErrDuplicateRule      = errors.New("duplicate rule")
	ErrModelUnavailable   = errors.New("model unavailable")
	ErrCorrectionRejected = errors.New("correction rejected")
	ErrNotFound           = errors.New("not found")
)

// Is reports whether err wraps target, a thin convenience wrapper kept so
// call sites read errors.Is semantics without importing errors directly.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
