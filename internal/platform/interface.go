package platform

import "context"

// WindowAPI defines the platform-specific window operations
type WindowAPI interface {
	// EnumerateWindows returns every visible, titled top-level window that
	// survives the title filter. Order is unspecified; a failed walk yields
	// whatever was collected before the failure.
	EnumerateWindows() []WindowRecord

	// ExtractIcon renders the executable's large icon as a PNG data URL.
	// ok is false whenever no icon can be produced.
	ExtractIcon(exePath string) (dataURL string, ok bool)

	// Listen installs a process-wide window lifecycle hook and delivers its
	// events to handler until ctx is cancelled. It returns an error without
	// blocking when the hook cannot be installed.
	Listen(ctx context.Context, handler WindowEventHandler) error
}

// WindowRecord is one top-level window and the process that owns it
type WindowRecord struct {
	PID   uint32
	Title string
}

// WindowEvent is a raw window lifecycle notification
type WindowEvent struct {
	Event    uint32
	ObjectID int32
	Hwnd     uintptr
}

// WindowEventHandler receives hook events. It runs on the hook's pump
// thread and must not block.
type WindowEventHandler func(WindowEvent)

// Win32 event identifiers, shared with non-Windows builds so event filtering
// can be exercised everywhere.
const (
	EventObjectCreate  uint32 = 0x8000
	EventObjectDestroy uint32 = 0x8001
	EventObjectShow    uint32 = 0x8002
	EventObjectHide    uint32 = 0x8003

	ObjectIDWindow int32 = 0
)

// IsWindowLifecycleEvent reports whether ev is a create, destroy, show or
// hide event targeting a window object itself (not a child element).
func IsWindowLifecycleEvent(ev WindowEvent) bool {
	if ev.ObjectID != ObjectIDWindow {
		return false
	}

	switch ev.Event {
	case EventObjectCreate, EventObjectDestroy, EventObjectShow, EventObjectHide:
		return true
	default:
		return false
	}
}
