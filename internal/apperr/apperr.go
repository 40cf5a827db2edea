// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the domain error taxonomy shared by stores and
// handlers. Stores return these typed errors; handlers map them to HTTP
// status codes with their machine-readable code in the response body.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error category.
type Code string

const (
	CodeValidation       Code = "VALIDATION"
	CodeNotFound         Code = "NOT_FOUND"
	CodeInvalidOperation Code = "INVALID_OPERATION"
	CodeTransaction      Code = "TRANSACTION"
)

// HTTPStatus returns the HTTP status code for an error category.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidOperation:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error carrying a code, a user-presentable message,
// and an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As chains.
func (e *Error) Unwrap() error { return e.cause }

// Is matches two domain errors by code, so errors.Is(err, apperr.NotFound(""))
// style comparisons work regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Validation reports malformed input (missing required field for the node
// kind, bad payload shape). Never retried automatically.
func Validation(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing node, series, post, or track.
func NotFound(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// InvalidOperation reports a structurally forbidden mutation, such as a
// self-parent or cycle-creating move. Always surfaced, never corrected.
func InvalidOperation(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidOperation, Message: fmt.Sprintf(format, args...)}
}

// Transaction wraps a storage-level failure during a batch or recursive
// operation.
func Transaction(cause error, format string, args ...any) *Error {
	return &Error{Code: CodeTransaction, Message: fmt.Sprintf(format, args...), cause: cause}
}

// IsNotFound reports whether err is (or wraps) a NOT_FOUND domain error.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == CodeNotFound
}

// IsValidation reports whether err is (or wraps) a VALIDATION domain error.
func IsValidation(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == CodeValidation
}

// IsInvalidOperation reports whether err is (or wraps) an INVALID_OPERATION
// domain error.
func IsInvalidOperation(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == CodeInvalidOperation
}
