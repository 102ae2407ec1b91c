package logging

// WailsLoggerAdapter routes Wails runtime logs into the application logger.
// It satisfies github.com/wailsapp/wails/v2/pkg/logger.Logger.
type WailsLoggerAdapter struct {
	logger Logger
}

// NewWailsLoggerAdapter creates a new Wails logger adapter
func NewWailsLoggerAdapter(logger Logger) *WailsLoggerAdapter {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	return &WailsLoggerAdapter{logger: logger}
}

func (w *WailsLoggerAdapter) Print(message string) {
	w.logger.Info(message, "component", "wails")
}

func (w *WailsLoggerAdapter) Trace(message string) {
	w.logger.Debug(message, "component", "wails", "wails_level", "trace")
}

func (w *WailsLoggerAdapter) Debug(message string) {
	w.logger.Debug(message, "component", "wails")
}

func (w *WailsLoggerAdapter) Info(message string) {
	w.logger.Info(message, "component", "wails")
}

func (w *WailsLoggerAdapter) Warning(message string) {
	w.logger.Warn(message, "component", "wails")
}

func (w *WailsLoggerAdapter) Error(message string) {
	w.logger.Error(message, "component", "wails")
}

// Fatal is logged at error level; the webview must not take the process down
func (w *WailsLoggerAdapter) Fatal(message string) {
	w.logger.Error(message, "component", "wails", "wails_level", "fatal")
}
