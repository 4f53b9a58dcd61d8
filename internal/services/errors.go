package services

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized is wrapped by every upstream 401 response.
var ErrUnauthorized = errors.New("not authorized")

// APIError is a non-2xx (or success=false) answer from the product API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("product api responded %d", e.StatusCode)
	}
	return fmt.Sprintf("product api responded %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// ServerMessage returns the upstream-provided message carried by err, if any.
func ServerMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
