package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tablekeep/tablekeep/internal/model"
)

var (
	// ErrUnauthorized is returned for 401 answers.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRateLimited is returned for 429 answers.
	ErrRateLimited = errors.New("rate limited")
)

// APIError is a non-2xx answer from the service.
type APIError struct {
	StatusCode int    `json:"code"`
	Status     string `json:"error"`
	Message    string `json:"message"`
	Op         string `json:"-"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Status
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, msg)
}

// Unwrap maps the status onto the shared sentinel errors so callers can use
// errors.Is(err, model.ErrNotFound).
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return model.ErrValidation
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return model.ErrForbidden
	case http.StatusNotFound:
		return model.ErrNotFound
	case http.StatusConflict:
		return model.ErrConflict
	case http.StatusTooManyRequests:
		return ErrRateLimited
	}
	return nil
}
