package errors

import (
	"fmt"
	"net/http"
)

// ErrorKind represents different types of API errors
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindNotFound          ErrorKind = "not_found"
	KindNotConfigured     ErrorKind = "not_configured"
	KindInvalidCredential ErrorKind = "invalid_credential"
	KindUpstream          ErrorKind = "upstream"
	KindStorage           ErrorKind = "storage"
	KindConflict          ErrorKind = "conflict"
	KindInternal          ErrorKind = "internal"
	KindBadRequest        ErrorKind = "bad_request"
)

// APIError represents a structured API error response
type APIError struct {
	Kind      ErrorKind         `json:"kind"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	// UpstreamStatus carries the original provider status code for
	// upstream and credential errors.
	UpstreamStatus int `json:"upstream_status,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error kind
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidCredential:
		if e.UpstreamStatus == http.StatusForbidden {
			return http.StatusForbidden
		}
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	case KindUpstream:
		if e.UpstreamStatus >= 400 {
			return e.UpstreamStatus
		}
		return http.StatusBadGateway
	default:
		// not_configured, storage and internal all surface as a
		// generic server failure.
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a validation error with field details
func NewValidationError(message string, fields map[string]string) *APIError {
	return &APIError{
		Kind:    KindValidation,
		Message: message,
		Details: fields,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewNotConfiguredError reports a missing provider credential
func NewNotConfiguredError(message string) *APIError {
	return &APIError{
		Kind:    KindNotConfigured,
		Message: message,
	}
}

// NewInvalidCredentialError reports a rejected provider credential
func NewInvalidCredentialError(status int) *APIError {
	return &APIError{
		Kind:           KindInvalidCredential,
		Message:        "provider API key is invalid or expired",
		UpstreamStatus: status,
	}
}

// NewUpstreamError reports any other non-2xx provider response
func NewUpstreamError(status int) *APIError {
	return &APIError{
		Kind:           KindUpstream,
		Message:        fmt.Sprintf("provider returned status %d", status),
		UpstreamStatus: status,
	}
}

// NewStorageError reports a disk or database failure
func NewStorageError(message string) *APIError {
	return &APIError{
		Kind:    KindStorage,
		Message: message,
	}
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *APIError {
	return &APIError{
		Kind:    KindConflict,
		Message: message,
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *APIError {
	return &APIError{
		Kind:    KindInternal,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *APIError {
	return &APIError{
		Kind:    KindBadRequest,
		Message: message,
	}
}
