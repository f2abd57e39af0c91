package apperror

import (
	"errors"
	"net/http"
)

// HTTPError is the transport-level shape handlers write into the response
// envelope.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details interface{}
}

// ToHTTP maps any error to an HTTPError. Unknown errors collapse to a
// generic 500 so internals never leak to clients.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
		}
	}

	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: ErrInternal.Message,
	}
}
