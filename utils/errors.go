package utils

import "net/http"

// ClientError marks a failure the caller caused: a business rule violation or
// a malformed value that slipped past request binding. Controllers map it to
// the carried HTTP status.
type ClientError struct {
	Message string
	Status  int
}

func (e *ClientError) Error() string {
	return e.Message
}

func NewClientError(message string) *ClientError {
	return &ClientError{Message: message, Status: http.StatusBadRequest}
}

// NewConflictError is a ClientError for writes rejected by a storage
// uniqueness constraint after the in-process check had passed.
func NewConflictError(message string) *ClientError {
	return &ClientError{Message: message, Status: http.StatusConflict}
}

// NotFoundError marks a referenced entity that does not exist or is
// soft-deleted.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}
