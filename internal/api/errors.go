package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/npezzotti/go-roomcal/internal/service"
)

type ApiError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	// Detail carries validation feedback for 400s only.
	Detail string `json:"detail,omitempty"`
	Err    error  `json:"-"`
}

func (e *ApiError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
	}

	return e.Message
}

func (e *ApiError) Unwrap() error {
	return e.Err
}

func lower(s string) string {
	return strings.ToLower(s)
}

func newStatusError(code int) *ApiError {
	return &ApiError{
		StatusCode: code,
		Message:    lower(http.StatusText(code)),
	}
}

func NewBadRequestError() *ApiError {
	return newStatusError(http.StatusBadRequest)
}

func NewNotFoundError() *ApiError {
	return newStatusError(http.StatusNotFound)
}

func NewInternalServerError(err error) *ApiError {
	e := newStatusError(http.StatusInternalServerError)
	e.Err = err
	return e
}

func NewUnauthorizedError() *ApiError {
	return newStatusError(http.StatusUnauthorized)
}

func NewForbiddenError() *ApiError {
	return newStatusError(http.StatusForbidden)
}

func NewTooManyRequestsError() *ApiError {
	return newStatusError(http.StatusTooManyRequests)
}

func NewServiceUnavailableError(err error) *ApiError {
	e := newStatusError(http.StatusServiceUnavailable)
	e.Err = err
	return e
}

const (
	msgInvalidInput       = "the request contains invalid values"
	msgInvalidCredentials = "invalid email or password"
	msgEmailTaken         = "email address is already registered"
	msgSelfRemoval        = "owners cannot remove themselves from their room"
	msgRoomCodeExhausted  = "could not allocate a room code, please try again"
)

// errorFromService maps a service error to the response the caller sees.
// Anything unrecognized is a 500 whose cause only reaches the log.
func errorFromService(err error) *ApiError {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return NewUnauthorizedError()
	case errors.Is(err, service.ErrInvalidCredentials):
		return &ApiError{StatusCode: http.StatusUnauthorized, Message: msgInvalidCredentials}
	case errors.Is(err, service.ErrNotFound):
		return NewNotFoundError()
	case errors.Is(err, service.ErrForbidden):
		return NewForbiddenError()
	case errors.Is(err, service.ErrSelfRemoval):
		return &ApiError{StatusCode: http.StatusForbidden, Message: msgSelfRemoval}
	case errors.Is(err, service.ErrInvalidInput):
		return &ApiError{
			StatusCode: http.StatusBadRequest,
			Message:    msgInvalidInput,
			Detail:     strings.TrimPrefix(err.Error(), service.ErrInvalidInput.Error()+": "),
		}
	case errors.Is(err, service.ErrEmailTaken):
		return &ApiError{StatusCode: http.StatusConflict, Message: msgEmailTaken}
	case errors.Is(err, service.ErrRoomCreationExhausted):
		e := NewServiceUnavailableError(err)
		e.Message = msgRoomCodeExhausted
		return e
	default:
		return NewInternalServerError(err)
	}
}
