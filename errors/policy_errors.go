// errors/policy_errors.go
package errors

import "errors"

var (
	ErrPolicyDenied       = errors.New("access denied by policy")
	ErrInvalidPDPResponse = errors.New("invalid PDP response")
	ErrPDPUnavailable     = errors.New("PDP unavailable")
	ErrDatabaseOperation  = errors.New("database operation failed")
	ErrInternalServer     = errors.New("internal server error")
	ErrUnauthorized       = errors.New("unauthorized")
)
