package auth

import "errors"

var (
	// ErrMissingToken is returned when the request carries no bearer credential.
	ErrMissingToken = errors.New("missing Authorization header")

	// ErrMalformedHeader is returned when Authorization is not "Bearer <token>".
	ErrMalformedHeader = errors.New("invalid Authorization header format, expected 'Bearer <token>'")

	// ErrInvalidToken is returned when no authenticator accepts the credential.
	ErrInvalidToken = errors.New("invalid or expired token")
)
