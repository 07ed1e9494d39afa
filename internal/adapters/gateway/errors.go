package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed backend call. Validation never appears here:
// validation errors are raised client-side before any call is issued.
type Kind int

const (
	// KindNetwork covers transport failures, timeouts and 5xx responses.
	// Surfaced as a generic retryable notification; never retried automatically.
	KindNetwork Kind = iota
	// KindUnauthorized is an expired or invalid token. Forces session teardown.
	KindUnauthorized
	// KindForbidden is a role/permission rejection.
	KindForbidden
	// KindNotFound is a missing resource.
	KindNotFound
	// KindBusiness is a backend business-rule rejection, surfaced verbatim.
	KindBusiness
	// KindAccountDeleted is fatal for the session and wins over any
	// concurrently successful result.
	KindAccountDeleted
)

// APIError is the uniform error surfaced for every failed backend call
type APIError struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("backend error (status %d)", e.Status)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// classify maps an HTTP status + response envelope to the error taxonomy
func classify(status int, env envelope) *APIError {
	msg := env.Error
	if msg == "" {
		msg = env.Message
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	kind := KindBusiness
	switch {
	case status == http.StatusUnauthorized:
		kind = KindUnauthorized
	case status == http.StatusForbidden:
		kind = KindForbidden
	case status == http.StatusNotFound:
		kind = KindNotFound
	case status == http.StatusGone:
		kind = KindAccountDeleted
	case status >= http.StatusInternalServerError:
		kind = KindNetwork
	}

	return &APIError{Kind: kind, Status: status, Message: msg}
}

// kindOf extracts the Kind of an error, or -1 if it is not an APIError
func kindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return Kind(-1)
}

// IsUnauthorized reports whether err is an authorization failure
func IsUnauthorized(err error) bool { return kindOf(err) == KindUnauthorized }

// IsNetwork reports whether err is a transient transport/server failure
func IsNetwork(err error) bool { return kindOf(err) == KindNetwork }

// IsAccountDeleted reports whether err marks the account as deleted
func IsAccountDeleted(err error) bool { return kindOf(err) == KindAccountDeleted }

// IsBusiness reports whether err is a backend business-rule rejection
func IsBusiness(err error) bool { return kindOf(err) == KindBusiness }

// IsNotFound reports whether err is a missing-resource failure
func IsNotFound(err error) bool { return kindOf(err) == KindNotFound }
