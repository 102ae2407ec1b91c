package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrorCode represents different classes of platform failures
type ErrorCode int

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeNotFound
	ErrCodePermission
	ErrCodeUnsupported
	ErrCodeUnavailable
	ErrCodeInvalidInput
	ErrCodeInternal
)

// String returns a string representation of the error code
func (e ErrorCode) String() string {
	switch e {
	case ErrCodeNotFound:
		return "NOT_FOUND"
	case ErrCodePermission:
		return "PERMISSION"
	case ErrCodeUnsupported:
		return "UNSUPPORTED"
	case ErrCodeUnavailable:
		return "UNAVAILABLE"
	case ErrCodeInvalidInput:
		return "INVALID_INPUT"
	case ErrCodeInternal:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}

// PlatformError wraps a failed OS interaction with the operation that
// attempted it and a classification code.
type PlatformError struct {
	Op        string            // operation name
	Err       error             // underlying error
	Code      ErrorCode         // error classification
	Context   map[string]string // additional context information
	Timestamp time.Time         // when the error occurred
}

func (e *PlatformError) Error() string {
	if e == nil {
		return "platform error"
	}

	var parts []string

	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}

	if e.Code != ErrCodeUnknown {
		parts = append(parts, fmt.Sprintf("code=%s", e.Code.String()))
	}

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", k, e.Context[k]))
		}
	}

	contextStr := ""
	if len(parts) > 0 {
		contextStr = fmt.Sprintf(" [%s]", strings.Join(parts, " "))
	}

	if e.Err != nil {
		return e.Err.Error() + contextStr
	}
	return "platform error" + contextStr
}

func (e *PlatformError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is implements error matching for errors.Is. Two platform errors match when
// their codes are equal; otherwise the wrapped error is consulted.
func (e *PlatformError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*PlatformError); ok {
		return e.Code == t.Code
	}
	if e.Err != nil {
		return errors.Is(e.Err, target)
	}
	return false
}

// GetCode returns the error code as a string (for logging interface compatibility)
func (e *PlatformError) GetCode() string {
	if e == nil {
		return ErrCodeUnknown.String()
	}
	return e.Code.String()
}

// GetContext returns the error context (for logging interface compatibility)
func (e *PlatformError) GetContext() map[string]string {
	if e == nil || e.Context == nil {
		return make(map[string]string)
	}
	return e.Context
}

// GetTimestamp returns the error timestamp (for logging interface compatibility)
func (e *PlatformError) GetTimestamp() time.Time {
	if e == nil {
		return time.Time{}
	}
	return e.Timestamp
}

// WithContext adds context information to the error by mutating the receiver.
// Not safe once the error has been shared between goroutines.
func (e *PlatformError) WithContext(key, value string) *PlatformError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// NewPlatformError creates a new platform error with the given parameters
func NewPlatformError(op string, err error, code ErrorCode) *PlatformError {
	return &PlatformError{
		Op:        op,
		Err:       err,
		Code:      code,
		Context:   make(map[string]string),
		Timestamp: time.Now(),
	}
}

// NewPlatformErrorWithContext creates a new platform error with additional context
func NewPlatformErrorWithContext(op string, err error, code ErrorCode, context map[string]string) *PlatformError {
	platformErr := NewPlatformError(op, err, code)
	if context != nil {
		platformErr.Context = make(map[string]string, len(context))
		for k, v := range context {
			platformErr.Context[k] = v
		}
	}
	return platformErr
}

func hasCode(err error, code ErrorCode) bool {
	var platformErr *PlatformError
	if errors.As(err, &platformErr) {
		return platformErr.Code == code
	}
	return false
}

// IsNotFound checks if the error is a "not found" error
func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

// IsPermission checks if the error is a permission error
func IsPermission(err error) bool {
	return hasCode(err, ErrCodePermission)
}

// IsUnsupported checks if the error reports a capability missing on this platform
func IsUnsupported(err error) bool {
	return hasCode(err, ErrCodeUnsupported)
}

// IsUnavailable checks if the error reports a resource that could not be obtained
func IsUnavailable(err error) bool {
	return hasCode(err, ErrCodeUnavailable)
}

// IsInvalidInput checks if the error is an input validation error
func IsInvalidInput(err error) bool {
	return hasCode(err, ErrCodeInvalidInput)
}
