package perrors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrCode struct {
	Code   string `json:"code"`
	Status int    `json:"status"`
}

var (
	ErrCodeInvalidRequest  = ErrCode{"invalid_request", http.StatusBadRequest}
	ErrCodeUnauthorized    = ErrCode{"unauthorized", http.StatusUnauthorized}
	ErrCodeNotFound        = ErrCode{"not_found", http.StatusNotFound}
	ErrCodeConflict        = ErrCode{"conflict", http.StatusConflict}
	ErrCodeTooManyRequests = ErrCode{"too_many_requests", http.StatusTooManyRequests}
	ErrCodeInternalServer  = ErrCode{"internal_server_error", http.StatusInternalServerError}
)

// Err is an error with a client-facing message. Cause is never shown to
// clients.
type Err struct {
	Code    ErrCode
	Message string
	Cause   error
}

func (e Err) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e Err) Unwrap() error {
	return e.Cause
}

func (e Err) HttpStatus() int {
	return e.Code.Status
}

func New(code ErrCode, msg string, cause error) error {
	return Err{Code: code, Message: msg, Cause: cause}
}

func Validation(msg string) error {
	return New(ErrCodeInvalidRequest, msg, nil)
}

func Validationf(format string, args ...any) error {
	return New(ErrCodeInvalidRequest, fmt.Sprintf(format, args...), nil)
}

func Unauthorized(msg string) error {
	return New(ErrCodeUnauthorized, msg, nil)
}

func NotFound(msg string) error {
	return New(ErrCodeNotFound, msg, nil)
}

func Conflict(msg string) error {
	return New(ErrCodeConflict, msg, nil)
}

func Internal(msg string, cause error) error {
	return New(ErrCodeInternalServer, msg, cause)
}

// As extracts an Err from err's chain.
func As(err error) (Err, bool) {
	var perr Err
	if errors.As(err, &perr) {
		return perr, true
	}
	return Err{}, false
}

// Is reports whether err carries the given code.
func Is(err error, code ErrCode) bool {
	perr, ok := As(err)
	return ok && perr.Code == code
}
