package api

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

var (
	// ErrServerUnreachable wraps transport failures that never produced a
	// status code. Callers present it as "server not reachable" and must
	// not retry automatically.
	ErrServerUnreachable = stderrors.New("server not reachable")

	// ErrSessionEvicted is returned for a 401 on a protected endpoint,
	// after the session has already been cleared by the transport.
	ErrSessionEvicted = stderrors.New("session evicted")
)

// StatusError is a non-2xx backend response. The body is kept verbatim:
// the backend answers validation and conflict errors with a plain-text
// message meant for inline display.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend returned %d", e.Code)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Code, e.Body)
}

// Message returns the server-supplied text, or fallback when the response
// had no usable body.
func (e *StatusError) Message(fallback string) string {
	if e.Body != "" {
		return e.Body
	}
	return fallback
}

// IsUnauthorized reports a 401 response. On a public endpoint this means a
// credential error (wrong password, bad reset token), never session expiry.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsConflict reports a 409 response, used by registration for duplicates.
func IsConflict(err error) bool {
	return hasStatus(err, http.StatusConflict)
}

// IsServerFault reports a 5xx response.
func IsServerFault(err error) bool {
	var se *StatusError
	return stderrors.As(err, &se) && se.Code >= http.StatusInternalServerError
}

// IsSessionEvicted reports a 401 on a protected endpoint. By the time the
// caller sees it, the session has already been cleared.
func IsSessionEvicted(err error) bool {
	return stderrors.Is(err, ErrSessionEvicted)
}

// IsNotReachable reports that the backend never answered.
func IsNotReachable(err error) bool {
	return stderrors.Is(err, ErrServerUnreachable)
}

func hasStatus(err error, code int) bool {
	var se *StatusError
	return stderrors.As(err, &se) && se.Code == code
}
