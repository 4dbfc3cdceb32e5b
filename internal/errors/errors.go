package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies failures of the regression pipeline.
type Kind string

const (
	KindShape          Kind = "shape"
	KindType           Kind = "type"
	KindPlotConstraint Kind = "plot_constraint"
	KindRender         Kind = "render"
	KindInternal       Kind = "internal"
)

// AppError is a classified pipeline error carrying the HTTP status it maps to.
type AppError struct {
	Kind       Kind   `json:"kind"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
	Cause      error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsCallerError reports whether the request itself was at fault.
func (e *AppError) IsCallerError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// NewShapeError reports ragged or mismatched-length input.
func NewShapeError(format string, args ...any) *AppError {
	return &AppError{
		Kind:       KindShape,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: http.StatusBadRequest,
	}
}

// NewTypeError reports non-numeric or wrongly typed fields.
func NewTypeError(format string, args ...any) *AppError {
	return &AppError{
		Kind:       KindType,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: http.StatusBadRequest,
	}
}

// NewPlotConstraintError reports an unknown plot kind or a feature count
// the requested plot cannot show.
func NewPlotConstraintError(format string, args ...any) *AppError {
	return &AppError{
		Kind:       KindPlotConstraint,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: http.StatusBadRequest,
	}
}

// NewRenderError wraps a figure construction or encoding failure.
func NewRenderError(message string, cause error) *AppError {
	return &AppError{
		Kind:       KindRender,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewInternalError wraps any other unexpected failure.
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Kind:       KindInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// IsKind checks if err or anything it wraps is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// GetStatusCode extracts the HTTP status code from an error.
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
