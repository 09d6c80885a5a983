package tilemap

import "fmt"

// MapLoadError reports a malformed map document: missing required sections,
// out-of-range tile indices, or layers whose dimensions disagree. It is fatal
// to startup; there is no partial-map fallback.
type MapLoadError struct {
	Reason string
	Err    error
}

func (e *MapLoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("map load failed: %s: %v", e.Reason, e.Err)
	}
	return "map load failed: " + e.Reason
}

func (e *MapLoadError) Unwrap() error {
	return e.Err
}

func loadErrorf(format string, args ...any) *MapLoadError {
	return &MapLoadError{Reason: fmt.Sprintf(format, args...)}
}
