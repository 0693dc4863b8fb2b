// Package apierror provides the error taxonomy shared by services and handlers
// and the JSON envelope every endpoint answers with.
// All errors returned to clients go through this package so internal details
// (stack traces, SQL errors) never leak into a response body.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure. Handlers map it to an HTTP status.
type Kind string

const (
	KindValidation        Kind = "validation_error"
	KindNotFound          Kind = "not_found"
	KindInsufficientStock Kind = "insufficient_stock"
	KindAlreadyDelivered  Kind = "already_delivered"
	KindStore             Kind = "store_error"
)

// Error is a business or persistence failure with a human readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the kind-only sentinels below, so callers can write
// errors.Is(err, apierror.ErrInsufficientStock).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrValidation        = &Error{Kind: KindValidation}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrInsufficientStock = &Error{Kind: KindInsufficientStock}
	ErrAlreadyDelivered  = &Error{Kind: KindAlreadyDelivered}
	ErrStore             = &Error{Kind: KindStore}
)

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// InsufficientStock names the item so the cashier knows which line failed.
func InsufficientStock(itemName string, available, requested int) *Error {
	return &Error{
		Kind:    KindInsufficientStock,
		Message: fmt.Sprintf("not enough stock for item: %s (available %d, requested %d)", itemName, available, requested),
	}
}

func AlreadyDelivered(format string, args ...any) *Error {
	return &Error{Kind: KindAlreadyDelivered, Message: fmt.Sprintf(format, args...)}
}

// Store wraps a persistence failure. Store errors are fatal to the operation
// and are never retried automatically.
func Store(err error, msg string) *Error {
	return &Error{Kind: KindStore, Message: msg, Err: err}
}

// KindOf reports the Kind of err; anything unclassified is a store error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStore
}

// HTTPStatus maps a Kind to the response status code.
func HTTPStatus(k Kind) int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindInsufficientStock, KindAlreadyDelivered:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
