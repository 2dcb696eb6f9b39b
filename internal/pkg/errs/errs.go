/*
Package errs provides custom error types and application-level error code constants.

This file defines the CustomError struct, which implements the standard Go error interface
and includes a business code, a user-friendly message, and an error kind used by the view
layer to decide how a failure is surfaced.
*/
package errs

import (
	"errors"
	"fmt"
	"strings"

	"gchat/internal/pkg/logx"
)

// Kind classifies a client error by how it is recovered and surfaced.
type Kind int

const (
	// KindUnknown covers unclassified failures.
	KindUnknown Kind = iota

	// KindAuth covers bad credentials and unverifiable sessions; recovered by
	// forcing the Anonymous state and surfaced as a message to the user.
	KindAuth

	// KindValidation covers input rejected before any network call; surfaced inline.
	KindValidation

	// KindSync covers feed fetch failures; recovered by retry on the next cycle
	// and surfaced as a non-blocking banner over stale data.
	KindSync

	// KindSend covers message creation failures; surfaced inline with the draft preserved.
	KindSend

	// KindStorage covers unavailable credential persistence; degraded to
	// unauthenticated operation and logged, never surfaced as a blocking error.
	KindStorage
)

// CustomError is the custom error structure used throughout the application.
// It wraps the Go error interface, adding a business code and an error kind.
type CustomError struct {
	// Code is the business error code (see constants definition).
	Code int

	// Kind is the recovery/surfacing classification of this error.
	Kind Kind

	// Message is the user-friendly error description.
	Message string
}

// Error implements the standard Go error interface. It returns a formatted
// error string containing the error code and message.
func (e CustomError) Error() string {
	return fmt.Sprintf("Error Code %d: %s", e.Code, e.Message)
}

// NewError constructs and returns a new *CustomError instance based on a predefined error code.
// The optional details parameter allows for formatting arguments (printf-style) to be supplied
// for the error message. If an unknown code is provided, it defaults to returning ErrUnknown.
func NewError(code int, details ...any) *CustomError {
	templateErr, ok := errorMap[code]

	if !ok {
		logx.Error(
			fmt.Errorf("attempted to create an error with an unknown code in errorMap"),
			"Unknown error code requested",
			"requested_code", code,
		)

		unknownErr := errorMap[ErrUnknown]
		return &CustomError{
			Code:    unknownErr.Code,
			Kind:    unknownErr.Kind,
			Message: unknownErr.Message,
		}
	}

	customErr := templateErr

	if code == ErrUnknown && len(details) > 0 {
		if originalErr, ok := details[0].(error); ok {
			logx.Error(
				originalErr,
				"Handling ErrUnknown with underlying error",
			)
		}
	} else if len(details) > 0 {
		if strings.Contains(customErr.Message, "%") {
			customErr.Message = fmt.Sprintf(customErr.Message, details...)
		} else {
			logx.Warn(
				"Details provided for error, but message template has no formatting placeholders. Details ignored.",
			)
		}
	}

	return &customErr
}

// NewErrorWithDetail constructs a *CustomError for code with its message replaced
// by detail when detail is non-empty. It is used to surface server-provided
// error messages verbatim while keeping the local code and kind.
func NewErrorWithDetail(code int, detail string) *CustomError {
	customErr := NewError(code)
	if strings.TrimSpace(detail) != "" {
		customErr.Message = detail
	}
	return customErr
}

// KindOf reports the Kind of err. Errors that are not a *CustomError,
// including nil, classify as KindUnknown.
func KindOf(err error) Kind {
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr.Kind
	}
	return KindUnknown
}
