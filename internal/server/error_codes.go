package server

const (
	// Validation (1xxx)
	ErrCodeInvalidArgument   = 1000
	ErrCodeInvalidJSON       = 1001
	ErrCodeRequestTooLarge   = 1002
	ErrCodeMissingRequired   = 1003
	ErrCodeInvalidEncoding   = 1004
	ErrCodeResetCodeMismatch = 1005
	ErrCodePasswordPolicy    = 1006

	// Domain state (2xxx)
	ErrCodeTaskNotFound  = 2001
	ErrCodeFileNotFound  = 2002
	ErrCodeRouteNotFound = 2003
	ErrCodeUserExists    = 2101
	ErrCodeConflict      = 2102

	// Auth (3xxx)
	ErrCodeUnauthorized       = 3001
	ErrCodeAccountUnconfirmed = 3002

	// Upstream/system (4xxx)
	ErrCodeUpstreamFailure = 4001
	ErrCodeStoreFailure    = 4002
	ErrCodeInternal        = 4003
)

func defaultErrorCodeByStatus(status int) int {
	switch status {
	case 400:
		return ErrCodeInvalidArgument
	case 401:
		return ErrCodeUnauthorized
	case 404:
		return ErrCodeTaskNotFound
	case 409:
		return ErrCodeConflict
	case 500:
		return ErrCodeUpstreamFailure
	default:
		return 0
	}
}
