//go:build !windows

package platform

import (
	"context"

	"taskdeck/internal/infrastructure/errors"
	"taskdeck/internal/infrastructure/logging"
)

// UnsupportedAPI implements WindowAPI on platforms without a window hook
// implementation. It lets the rest of the application build and run so the
// front end renders an empty list instead of failing to start.
type UnsupportedAPI struct {
	logger logging.Logger
}

// NewUnsupportedAPI creates a new UnsupportedAPI instance
func NewUnsupportedAPI(logger logging.Logger) *UnsupportedAPI {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &UnsupportedAPI{logger: logger}
}

// NewWindowAPI creates a new WindowAPI instance for the current platform
func NewWindowAPI(logger logging.Logger) WindowAPI {
	return NewUnsupportedAPI(logger)
}

// EnumerateWindows always returns an empty list
func (u *UnsupportedAPI) EnumerateWindows() []WindowRecord {
	return []WindowRecord{}
}

func (u *UnsupportedAPI) ExtractIcon(exePath string) (string, bool) {
	return "", false
}

// Listen fails immediately; there is no hook to install.
func (u *UnsupportedAPI) Listen(ctx context.Context, handler WindowEventHandler) error {
	u.logger.Warn("Window event hook is not available on this platform")
	return errors.HandleUnsupported("Listen", "window event hook")
}
