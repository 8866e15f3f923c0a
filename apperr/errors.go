package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an AppError.
type Kind string

const (
	// KindDataLoad means the dataset could not be loaded. Fatal at startup.
	KindDataLoad Kind = "DATA_LOAD"

	// KindConfiguration means a required setting is missing. Fatal only for the
	// code paths that need that setting.
	KindConfiguration Kind = "CONFIGURATION"

	// KindResolutionUnavailable means device location or reverse geocoding
	// produced nothing. Callers fall back to manual selection.
	KindResolutionUnavailable Kind = "RESOLUTION_UNAVAILABLE"

	// KindNoResults means the filters matched no listing.
	KindNoResults Kind = "NO_RESULTS"
)

var (
	// ErrResolutionUnavailable is matched with errors.Is against any
	// RESOLUTION_UNAVAILABLE error.
	ErrResolutionUnavailable = &AppError{Kind: KindResolutionUnavailable, Message: "location could not be resolved"}

	// ErrNoResults is matched with errors.Is against any NO_RESULTS error.
	ErrNoResults = &AppError{Kind: KindNoResults, Message: "no listings match the selected filters"}
)

// AppError is the error type shared by every package of the recommender.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError of the same kind.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewDataLoadError creates a DATA_LOAD error.
func NewDataLoadError(message string, err error) *AppError {
	return &AppError{
		Kind:    KindDataLoad,
		Message: message,
		Err:     err,
	}
}

// NewConfigurationError creates a CONFIGURATION error.
func NewConfigurationError(message string) *AppError {
	return &AppError{
		Kind:    KindConfiguration,
		Message: message,
	}
}

// IsKind reports whether err is, or wraps, an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	return errors.Is(err, &AppError{Kind: kind})
}
