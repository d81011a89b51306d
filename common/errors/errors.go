package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind classifies every failure surfaced at the API boundary.
type Kind int

const (
	// KindNetwork is a transport failure: DNS, refused connection, timeout.
	KindNetwork Kind = iota + 1
	// KindBackend is a non-2xx response carrying a business error.
	KindBackend
	// KindUnauthorized is a 401/403 from the backend (stale or rejected token).
	KindUnauthorized
	// KindUnauthenticated is raised client-side when no token is held.
	KindUnauthenticated
	// KindValidation is a client-side precondition failure on a form field.
	KindValidation
	// KindDecode means the backend answered 2xx with a body we could not parse.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindBackend:
		return "backend"
	case KindUnauthorized:
		return "unauthorized"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindValidation:
		return "validation"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error represents an application error
type Error struct {
	Kind    Kind   `json:"-"`
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches two *Error values of the same kind, so errors.Is works against
// the sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Code == 0 || t.Code == e.Code)
}

// JSON returns the error as a JSON string
func (e *Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// New creates a new Error
func New(kind Kind, code int, message string, err error) *Error {
	return &Error{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// FromStatus builds the error for a non-2xx response. The caller picks the
// message: backend payload first, fallback otherwise.
func FromStatus(status int, message string) *Error {
	kind := KindBackend
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		kind = KindUnauthorized
	}
	return New(kind, status, message, nil)
}

// Network wraps a transport failure.
func Network(message string, err error) *Error {
	return New(KindNetwork, 0, message, err)
}

// Validation reports a missing or malformed field before any request is sent.
func Validation(message string) *Error {
	return New(KindValidation, 0, message, nil)
}

// Unauthenticated reports that the caller holds no token.
func Unauthenticated(message string) *Error {
	return New(KindUnauthenticated, 0, message, nil)
}

// Decode wraps a response body that did not match the expected shape.
func Decode(message string, err error) *Error {
	return New(KindDecode, 0, message, err)
}

// Sentinels for errors.Is.
var (
	ErrNotAuthenticated = New(KindUnauthenticated, 0, "You need to log in first", nil)
	ErrUnauthorized     = New(KindUnauthorized, 0, "Session expired, please log in again", nil)
	ErrValidation       = New(KindValidation, 0, "Invalid input", nil)
	ErrNetwork          = New(KindNetwork, 0, "Could not reach the server", nil)
)

// KindOf returns the Kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return 0
}

// IsUnauthorized reports whether err means the session must be re-established:
// either the backend rejected the token or no token was held at all.
func IsUnauthorized(err error) bool {
	k := KindOf(err)
	return k == KindUnauthorized || k == KindUnauthenticated
}

// MessageOf returns the human-readable message for display.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
