package apperror

import "net/http"

// ApiError carries the HTTP status a failure maps to. Services return it,
// the HTTP error handler translates it once at the edge.
type ApiError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func (e *ApiError) Error() string { return e.Message }

func New(code int, message string) *ApiError {
	return &ApiError{StatusCode: code, Message: message}
}

func BadRequest(message string) *ApiError {
	return New(http.StatusBadRequest, message)
}

func Unauthorized(message string) *ApiError {
	return New(http.StatusUnauthorized, message)
}

func Forbidden(message string) *ApiError {
	return New(http.StatusForbidden, message)
}

func NotFound(message string) *ApiError {
	return New(http.StatusNotFound, message)
}
