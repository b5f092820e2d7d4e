// Package generator provides the synthetic-data providers: a registry of
// named generators, the shared column-heuristic value engine, and the
// table-driven metrics synthesizer.
package generator

import "fmt"

// ValidationError represents an invalid request field detected before any
// generation work begins.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// GenerationError represents a named provider failing to produce a result.
// The dispatcher converts it into a fallback-generator run rather than
// surfacing it to callers.
type GenerationError struct {
	Provider string
	Cause    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("provider %s failed: %v", e.Provider, e.Cause)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// UnknownProviderError represents an explicit provider selection that does
// not resolve to a registered generator.
type UnknownProviderError struct {
	Name string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown provider: %s", e.Name)
}
