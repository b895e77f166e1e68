package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Pipeline specific errors
	ErrQuizNotFound        ErrorCode = "QUIZ_NOT_FOUND"
	ErrFetchBlocked        ErrorCode = "FETCH_BLOCKED"
	ErrFetchFailed         ErrorCode = "FETCH_FAILED"
	ErrInsufficientContent ErrorCode = "INSUFFICIENT_CONTENT"
	ErrSynthesisFailed     ErrorCode = "SYNTHESIS_FAILED"
	ErrDuplicateKey        ErrorCode = "DUPLICATE_KEY"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewQuizNotFoundError(quizID int64) *DomainError {
	return NewError(ErrQuizNotFound, fmt.Sprintf("Quiz not found with ID: %d", quizID), nil)
}

// NewFetchBlockedError marks a fetch that was refused with 403/429 after the
// mobile fallback also failed. Clients may retry later.
func NewFetchBlockedError(statusCode int) *DomainError {
	return NewError(ErrFetchBlocked, fmt.Sprintf("Article source blocked the request with status %d", statusCode), nil)
}

// NewFetchFailedError covers non-blocked fetch failures. statusCode is 0 for
// transport errors that never produced a response.
func NewFetchFailedError(statusCode int, err error) *DomainError {
	if statusCode == 0 {
		return NewError(ErrFetchFailed, "Failed to fetch article", err)
	}
	return NewError(ErrFetchFailed, fmt.Sprintf("Failed to fetch article (status %d)", statusCode), err)
}

func NewInsufficientContentError(length int) *DomainError {
	return NewError(ErrInsufficientContent, fmt.Sprintf("Extracted article text too short (%d characters)", length), nil)
}

func NewSynthesisFailedError(message string, err error) *DomainError {
	return NewError(ErrSynthesisFailed, message, err)
}

// NewDuplicateKeyError marks a unique-constraint violation on insert. Callers
// recover by re-reading the row that won the race.
func NewDuplicateKeyError(url string) *DomainError {
	return NewError(ErrDuplicateKey, fmt.Sprintf("A quiz record already exists for URL: %s", url), nil)
}

// IsDomainErrorWithCode reports whether err is a DomainError carrying code.
func IsDomainErrorWithCode(err error, code ErrorCode) bool {
	var dErr *DomainError
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// ValidationError represents a single request validation failure
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates request validation failures
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return e[0].Error()
}

func NewInvalidFormatError(field, value string) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf("has invalid format: %s", value)}
}
