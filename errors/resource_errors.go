// errors/resource_errors.go
package errors

import "errors"

var (
	ErrResourceNotFound       = errors.New("resource not found")
	ErrInvalidResourceData    = errors.New("invalid resource data")
	ErrInvalidSecurityLabel   = errors.New("invalid resource security label")
	ErrInvalidPagination      = errors.New("invalid pagination parameters")
	ErrInvalidSearchCriteria  = errors.New("invalid search criteria")
	ErrInvalidAuditQueryRange = errors.New("invalid audit query time range")
)
