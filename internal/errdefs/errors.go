package errdefs

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation error")
	ErrConflict           = errors.New("conflict")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrFileTooLarge       = errors.New("file too large")
	ErrRetryLimitExceeded = errors.New("retry limit exceeded")
)
