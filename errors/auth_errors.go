// errors/auth_errors.go
package errors

import "errors"

var (
	ErrInvalidToken          = errors.New("invalid token")
	ErrTokenRevoked          = errors.New("token revoked")
	ErrKeyNotFound           = errors.New("signing key not found")
	ErrInsufficientAssurance = errors.New("insufficient authentication assurance")
	ErrMissingAuthHeader     = errors.New("missing authorization header")
	ErrMalformedAuthHeader   = errors.New("malformed authorization header")
)
