package model

import "net/http"

// APIError is a transport-safe error carrying the HTTP status and a
// message that may be shown to the client. Cause, when set, is kept for
// logs and errors.Is checks but never serialized.
type APIError struct {
	Status  int
	Message string
	Cause   error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// NewErrInvalidCredentials covers both an unknown email and a wrong
// password, so callers cannot probe for account existence.
func NewErrInvalidCredentials() *APIError {
	return &APIError{Status: http.StatusUnauthorized, Message: "invalid credentials"}
}

func NewErrUnauthorized(message string) *APIError {
	if message == "" {
		message = "unauthorized"
	}
	return &APIError{Status: http.StatusUnauthorized, Message: message}
}

func NewErrDuplicateAccount() *APIError {
	return &APIError{Status: http.StatusConflict, Message: "account already exists", Cause: ErrDuplicate}
}

func NewErrAlreadyVerified() *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: "account is already verified"}
}

func NewErrResourceNotFound(message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Message: message, Cause: ErrNotFound}
}

func NewErrBadRequest(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: message}
}

func NewErrInternal(cause error) *APIError {
	return &APIError{Status: http.StatusInternalServerError, Message: "internal server error", Cause: cause}
}
