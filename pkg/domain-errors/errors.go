// Package domainerrors provides code-tagged errors for the insurance core.
//
// Services return these so transports can map codes to wire responses without
// string matching. Stores return pkg/platform/sentinel errors; services are the
// translation point from infrastructure facts to domain codes.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies an error class. Codes are stable API surface: transports,
// clients, and tests branch on them.
type Code string

const (
	CodeUnauthorized           Code = "unauthorized"
	CodePaused                 Code = "paused"
	CodeInvalidInput           Code = "invalid_input"
	CodeInvalidAmount          Code = "invalid_amount"
	CodeInvalidPremium         Code = "invalid_premium"
	CodeInsufficientFunds      Code = "insufficient_funds"
	CodeNotFound               Code = "not_found"
	CodeAlreadyExists          Code = "already_exists"
	CodeInvalidState           Code = "invalid_state"
	CodeInvalidStateTransition Code = "invalid_state_transition"
	CodeOverflow               Code = "overflow"
	CodeNotInitialized         Code = "not_initialized"
	CodeAlreadyInitialized     Code = "already_initialized"

	CodeOracleValidationFailed        Code = "oracle_validation_failed"
	CodeInsufficientOracleSubmissions Code = "insufficient_oracle_submissions"
	CodeOracleDataStale               Code = "oracle_data_stale"
	CodeOracleOutlierDetected         Code = "oracle_outlier_detected"

	CodeTimeout  Code = "timeout"
	CodeInternal Code = "internal"
)

// Error carries a code, a human-readable message, and an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches two domain errors by code so errors.Is works on wrapped chains.
func (e *Error) Is(target error) bool {
	var de *Error
	if !errors.As(target, &de) {
		return false
	}
	return e.Code == de.Code
}

// New builds a domain error with no underlying cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf builds a domain error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, keeping the chain
// intact for errors.Is / errors.As.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf returns the code of the outermost domain error, or CodeInternal when
// the error is not code-tagged.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
