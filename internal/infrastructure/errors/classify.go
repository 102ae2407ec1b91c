package errors

import (
	"errors"
	"os"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// ClassifyError maps OS and process-table errors onto platform error codes
func ClassifyError(err error) ErrorCode {
	if err == nil {
		return ErrCodeUnknown
	}

	var platformErr *PlatformError
	if errors.As(err, &platformErr) {
		return platformErr.Code
	}

	switch {
	case errors.Is(err, process.ErrorProcessNotRunning):
		return ErrCodeNotFound
	case errors.Is(err, os.ErrNotExist):
		return ErrCodeNotFound
	case errors.Is(err, os.ErrPermission):
		return ErrCodePermission
	case errors.Is(err, errors.ErrUnsupported):
		return ErrCodeUnsupported
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "access is denied"),
		strings.Contains(errStr, "access denied"),
		strings.Contains(errStr, "permission denied"):
		return ErrCodePermission
	case strings.Contains(errStr, "process does not exist"),
		strings.Contains(errStr, "no such process"),
		strings.Contains(errStr, "not found"):
		return ErrCodeNotFound
	case strings.Contains(errStr, "not implemented"),
		strings.Contains(errStr, "not supported"):
		return ErrCodeUnsupported
	default:
		return ErrCodeUnknown
	}
}

// WrapPlatformError wraps an OS error with the operation that produced it
func WrapPlatformError(op string, err error) error {
	if err == nil {
		return nil
	}
	return NewPlatformError(op, err, ClassifyError(err))
}

// WrapPlatformErrorWithContext wraps an OS error with operation and context
func WrapPlatformErrorWithContext(op string, err error, contextMap map[string]string) error {
	if err == nil {
		return nil
	}
	return NewPlatformErrorWithContext(op, err, ClassifyError(err), contextMap)
}

// HandleNotFound creates a standardized not found error
func HandleNotFound(op string, resource string, identifier string) error {
	contextMap := map[string]string{
		"resource":   resource,
		"identifier": identifier,
	}
	return NewPlatformErrorWithContext(op, errors.New("not found"), ErrCodeNotFound, contextMap)
}

// HandleUnsupported creates a standardized error for capabilities missing on
// the running platform
func HandleUnsupported(op string, feature string) error {
	contextMap := map[string]string{
		"feature": feature,
	}
	return NewPlatformErrorWithContext(op, errors.ErrUnsupported, ErrCodeUnsupported, contextMap)
}

// HandleUnavailable creates a standardized error for an OS resource that
// could not be obtained
func HandleUnavailable(op string, resource string, details string) error {
	contextMap := map[string]string{
		"resource": resource,
		"details":  details,
	}
	return NewPlatformErrorWithContext(op, errors.New("resource unavailable"), ErrCodeUnavailable, contextMap)
}

// HandleValidationError creates a standardized validation error
func HandleValidationError(op string, field string, value string, reason string) error {
	contextMap := map[string]string{
		"field":  field,
		"value":  value,
		"reason": reason,
	}
	return NewPlatformErrorWithContext(op, errors.New("validation failed"), ErrCodeInvalidInput, contextMap)
}
