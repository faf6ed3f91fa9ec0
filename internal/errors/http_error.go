package errors

import (
	stderrors "errors"
	"net/http"
)

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// Helper for common errors
var (
	ErrUnauthorized = func(msg string) *HTTPError { return NewHTTPError(http.StatusUnauthorized, msg) }
	ErrBadRequest   = func(msg string) *HTTPError { return NewHTTPError(http.StatusBadRequest, msg) }
)

// Domain errors shared by the repository and service layers.
var (
	ErrNotFound           = stderrors.New("not found")
	ErrInvalidInput       = stderrors.New("invalid input")
	ErrSlotUnavailable    = stderrors.New("requested time is not available")
	ErrSlotTaken          = stderrors.New("time slot was taken by another booking")
	ErrCancellationWindow = stderrors.New("booking can no longer be cancelled")
	ErrInvalidCredentials = stderrors.New("invalid credentials")
	ErrEmailTaken         = stderrors.New("email already registered")
	ErrPayment            = stderrors.New("payment provider error")
)

// FromError maps an error returned by the service layer to the status and
// message sent to the client. Unknown errors become a generic 500.
func FromError(err error) *HTTPError {
	var httpErr *HTTPError
	switch {
	case err == nil:
		return nil
	case stderrors.As(err, &httpErr):
		return httpErr
	case stderrors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, "not found")
	case stderrors.Is(err, ErrInvalidInput):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	case stderrors.Is(err, ErrSlotUnavailable), stderrors.Is(err, ErrSlotTaken):
		return NewHTTPError(http.StatusConflict, err.Error())
	case stderrors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, ErrEmailTaken.Error())
	case stderrors.Is(err, ErrCancellationWindow):
		return NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case stderrors.Is(err, ErrInvalidCredentials):
		return ErrUnauthorized(ErrInvalidCredentials.Error())
	case stderrors.Is(err, ErrPayment):
		return NewHTTPError(http.StatusBadGateway, "payment provider unavailable")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
