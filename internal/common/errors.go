package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrDatabase     = errors.New("database error")
	ErrValidation   = errors.New("validation failed")
)

// Page-scoped extraction failures. None of these abort a run.
var (
	ErrHeaderMatch      = errors.New("header does not match any known format")
	ErrTableStructure   = errors.New("unexpected table structure")
	ErrSemesterUnknown  = errors.New("unknown semester label")
	ErrDateParse        = errors.New("declared date not parsable")
	ErrStudentIdentity  = errors.New("student identity block not found")
	ErrExtractorFailure = errors.New("page extraction failed")
)

// Error kinds used as the "kind" attribute of page failure log lines.
const (
	KindHeaderMatch     = "HEADER_MATCH"
	KindTableStructure  = "TABLE_STRUCTURE"
	KindSemesterUnknown = "SEMESTER_UNKNOWN"
	KindStudentIdentity = "STUDENT_IDENTITY"
	KindExtractor       = "EXTRACTOR"
	KindOther           = "OTHER"
)

// Kind classifies err against the page failure sentinels.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrSemesterUnknown):
		return KindSemesterUnknown
	case errors.Is(err, ErrHeaderMatch):
		return KindHeaderMatch
	case errors.Is(err, ErrTableStructure):
		return KindTableStructure
	case errors.Is(err, ErrStudentIdentity):
		return KindStudentIdentity
	case errors.Is(err, ErrExtractorFailure):
		return KindExtractor
	default:
		return KindOther
	}
}

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
