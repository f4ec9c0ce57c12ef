// Package errs defines the error taxonomy returned by the settlement and
// top-up services. Store adapters return sentinel errors from pkg/storage;
// services translate them into an *Error carrying one of the kinds below.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so transports can map it to a response.
type Kind string

const (
	KindValidation        Kind = "ValidationError"
	KindProductNotFound   Kind = "ProductNotFound"
	KindCustomerNotFound  Kind = "CustomerNotFound"
	KindInsufficientStock Kind = "InsufficientStock"
	KindInsufficientFunds Kind = "InsufficientFunds"
	KindStoreUnavailable  Kind = "StoreUnavailableError"
	// KindPartialFailure means the inventory side committed but the ledger
	// side could not be confirmed applied or rolled back.
	KindPartialFailure   Kind = "PartialFailureError"
	KindDuplicateRequest Kind = "DuplicateRequest"
	KindInternal         Kind = "InternalError"
)

// Error is a classified failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error. err may be nil.
func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Newf creates a classified error with a formatted message and no cause.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the outermost *Error in err's chain,
// KindInternal for unclassified errors and "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOf returns the human readable message of a classified error, or the
// error text otherwise.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
