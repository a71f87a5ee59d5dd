package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

// The engine's error taxonomy maps onto status codes so handlers can write
// responses without translation. Every error is a deterministic function of
// current state and input; nothing is retried internally.

func Unauthorized(format string, args ...any) error {
	return &ErrorWithStatusCode{Message: fmt.Sprintf(format, args...), StatusCode: http.StatusForbidden}
}

func NotFound(format string, args ...any) error {
	return &ErrorWithStatusCode{Message: fmt.Sprintf(format, args...), StatusCode: http.StatusNotFound}
}

func AlreadyExists(format string, args ...any) error {
	return &ErrorWithStatusCode{Message: fmt.Sprintf(format, args...), StatusCode: http.StatusConflict}
}

// AlreadyFlagged marks a duplicate flag by the same user on the same item.
func AlreadyFlagged(format string, args ...any) error {
	return &ErrorWithStatusCode{Message: fmt.Sprintf(format, args...), StatusCode: http.StatusConflict}
}

// InvitePending marks a duplicate invite request while one is outstanding.
func InvitePending(format string, args ...any) error {
	return &ErrorWithStatusCode{Message: fmt.Sprintf(format, args...), StatusCode: http.StatusConflict}
}

// InvalidState covers read-only boards, locked threads, exceeded reply depth
// and elapsed edit windows.
func InvalidState(format string, args ...any) error {
	return &ErrorWithStatusCode{Message: fmt.Sprintf(format, args...), StatusCode: http.StatusUnprocessableEntity}
}

func InvalidArgument(format string, args ...any) error {
	return &ErrorWithStatusCode{Message: fmt.Sprintf(format, args...), StatusCode: http.StatusBadRequest}
}

func statusOf(err error) int {
	var e *ErrorWithStatusCode
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

func IsUnauthorized(err error) bool    { return statusOf(err) == http.StatusForbidden }
func IsNotFound(err error) bool        { return statusOf(err) == http.StatusNotFound }
func IsConflict(err error) bool        { return statusOf(err) == http.StatusConflict }
func IsInvalidState(err error) bool    { return statusOf(err) == http.StatusUnprocessableEntity }
func IsInvalidArgument(err error) bool { return statusOf(err) == http.StatusBadRequest }
