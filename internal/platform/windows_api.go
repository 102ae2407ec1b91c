//go:build windows

package platform

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/windows"

	"taskdeck/internal/infrastructure/errors"
	"taskdeck/internal/infrastructure/logging"
)

var (
	user32                       = windows.NewLazySystemDLL("user32.dll")
	shell32                      = windows.NewLazySystemDLL("shell32.dll")
	gdi32                        = windows.NewLazySystemDLL("gdi32.dll")
	procEnumWindows              = user32.NewProc("EnumWindows")
	procIsWindowVisible          = user32.NewProc("IsWindowVisible")
	procGetWindowTextLengthW     = user32.NewProc("GetWindowTextLengthW")
	procGetWindowTextW           = user32.NewProc("GetWindowTextW")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procGetDC                    = user32.NewProc("GetDC")
	procReleaseDC                = user32.NewProc("ReleaseDC")
	procDrawIconEx               = user32.NewProc("DrawIconEx")
	procDestroyIcon              = user32.NewProc("DestroyIcon")
	procSetWinEventHook          = user32.NewProc("SetWinEventHook")
	procUnhookWinEvent           = user32.NewProc("UnhookWinEvent")
	procGetMessageW              = user32.NewProc("GetMessageW")
	procPeekMessageW             = user32.NewProc("PeekMessageW")
	procPostThreadMessageW       = user32.NewProc("PostThreadMessageW")
	procExtractIconExW           = shell32.NewProc("ExtractIconExW")
	procCreateCompatibleDC       = gdi32.NewProc("CreateCompatibleDC")
	procCreateCompatibleBitmap   = gdi32.NewProc("CreateCompatibleBitmap")
	procSelectObject             = gdi32.NewProc("SelectObject")
	procGetDIBits                = gdi32.NewProc("GetDIBits")
	procDeleteDC                 = gdi32.NewProc("DeleteDC")
	procDeleteObject             = gdi32.NewProc("DeleteObject")
)

const (
	diNormal             = 0x0003
	biRGB                = 0
	dibRGBColors         = 0
	wineventOutOfContext = 0x0000
	wmQuit               = 0x0012
	wmUser               = 0x0400
	pmNoRemove           = 0x0000
)

type BITMAPINFOHEADER struct {
	biSize          uint32
	biWidth         int32
	biHeight        int32
	biPlanes        uint16
	biBitCount      uint16
	biCompression   uint32
	biSizeImage     uint32
	biXPelsPerMeter int32
	biYPelsPerMeter int32
	biClrUsed       uint32
	biClrImportant  uint32
}

type BITMAPINFO struct {
	bmiHeader BITMAPINFOHEADER
	bmiColors [1]uint32
}

type MSG struct {
	hwnd     uintptr
	message  uint32
	wParam   uintptr
	lParam   uintptr
	time     uint32
	ptX      int32
	ptY      int32
	lPrivate uint32
}

// windowCollector gathers records from the EnumWindows callback. The
// callback only sees it through the lparam pointer.
type windowCollector struct {
	mu      sync.Mutex
	records []WindowRecord
}

func (c *windowCollector) add(record WindowRecord) {
	c.mu.Lock()
	c.records = append(c.records, record)
	c.mu.Unlock()
}

func (c *windowCollector) snapshot() []WindowRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]WindowRecord, len(c.records))
	copy(out, c.records)
	return out
}

// Callbacks are created once; windows.NewCallback slots are never released.
var (
	enumWindowsCallback = windows.NewCallback(func(hwnd uintptr, lparam uintptr) uintptr {
		// lparam is the collector EnumerateWindows converted inside the
		// procEnumWindows.Call expression, which keeps it alive until Call
		// returns. Callbacks only run inside that call.
		collector := (*windowCollector)(unsafe.Pointer(lparam))
		if record, ok := inspectWindow(hwnd); ok {
			collector.add(record)
		}
		return 1 // keep enumerating
	})

	// activeHandler is the handler of the one installed hook, if any
	activeHandler atomic.Pointer[WindowEventHandler]

	winEventCallback = windows.NewCallback(func(hook, event, hwnd, idObject, idChild, idEventThread, eventTime uintptr) uintptr {
		if handler := activeHandler.Load(); handler != nil {
			(*handler)(WindowEvent{
				Event:    uint32(event),
				ObjectID: int32(uint32(idObject)),
				Hwnd:     hwnd,
			})
		}
		return 0
	})
)

// WindowsAPI implements WindowAPI for Windows platform
type WindowsAPI struct {
	logger logging.Logger
}

// NewWindowsAPI creates a new Windows API instance
func NewWindowsAPI(logger logging.Logger) *WindowsAPI {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &WindowsAPI{logger: logger}
}

// NewWindowAPI creates a new WindowAPI instance for Windows
func NewWindowAPI(logger logging.Logger) WindowAPI {
	return NewWindowsAPI(logger)
}

// EnumerateWindows walks all top-level windows
func (w *WindowsAPI) EnumerateWindows() []WindowRecord {
	collector := &windowCollector{}

	ret, _, callErr := procEnumWindows.Call(enumWindowsCallback, uintptr(unsafe.Pointer(collector)))
	records := collector.snapshot()
	if ret == 0 {
		w.logger.Warn("EnumWindows failed, returning partial results",
			"error", callErr.Error(),
			"collected", len(records))
	}

	return records
}

func inspectWindow(hwnd uintptr) (WindowRecord, bool) {
	visible, _, _ := procIsWindowVisible.Call(hwnd)
	if visible == 0 {
		return WindowRecord{}, false
	}

	length, _, _ := procGetWindowTextLengthW.Call(hwnd)
	if length == 0 {
		return WindowRecord{}, false
	}

	buf := make([]uint16, length+1)
	copied, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if copied == 0 {
		return WindowRecord{}, false
	}
	title := windows.UTF16ToString(buf[:copied])

	var pid uint32
	procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
	if pid == 0 {
		return WindowRecord{}, false
	}

	if SkipTitle(title) {
		return WindowRecord{}, false
	}

	return WindowRecord{PID: pid, Title: title}, true
}

// ExtractIcon loads the first large icon embedded in exePath and renders it
// into a 32x32 PNG data URL. Every handle acquired is released on all paths.
func (w *WindowsAPI) ExtractIcon(exePath string) (string, bool) {
	if exePath == "" {
		return "", false
	}

	pathPtr, err := windows.UTF16PtrFromString(exePath)
	if err != nil {
		return "", false
	}

	var largeIcon, smallIcon uintptr
	procExtractIconExW.Call(
		uintptr(unsafe.Pointer(pathPtr)),
		0,
		uintptr(unsafe.Pointer(&largeIcon)),
		uintptr(unsafe.Pointer(&smallIcon)),
		1,
	)
	if smallIcon != 0 {
		defer procDestroyIcon.Call(smallIcon)
	}
	if largeIcon == 0 {
		return "", false
	}
	defer procDestroyIcon.Call(largeIcon)

	pixels, err := renderIcon(largeIcon, IconSize)
	if err != nil {
		w.logger.Debug("Icon rendering failed", "path", exePath, "error", err.Error())
		return "", false
	}

	img, err := BGRAToRGBA(pixels, IconSize, IconSize)
	if err != nil {
		return "", false
	}

	dataURL, err := EncodeDataURL(img)
	if err != nil {
		w.logger.Debug("Icon encoding failed", "path", exePath, "error", err.Error())
		return "", false
	}

	return dataURL, true
}

// renderIcon draws icon onto a size x size bitmap and reads it back as
// top-down 32-bit BGRA.
func renderIcon(icon uintptr, size int) ([]byte, error) {
	screenDC, _, _ := procGetDC.Call(0)
	if screenDC == 0 {
		return nil, fmt.Errorf("GetDC failed")
	}
	defer procReleaseDC.Call(0, screenDC)

	memDC, _, _ := procCreateCompatibleDC.Call(screenDC)
	if memDC == 0 {
		return nil, fmt.Errorf("CreateCompatibleDC failed")
	}
	defer procDeleteDC.Call(memDC)

	bitmap, _, _ := procCreateCompatibleBitmap.Call(screenDC, uintptr(size), uintptr(size))
	if bitmap == 0 {
		return nil, fmt.Errorf("CreateCompatibleBitmap failed")
	}
	defer procDeleteObject.Call(bitmap)

	previous, _, _ := procSelectObject.Call(memDC, bitmap)
	drawn, _, _ := procDrawIconEx.Call(memDC, 0, 0, icon, uintptr(size), uintptr(size), 0, 0, diNormal)
	// GetDIBits requires the bitmap to be deselected first
	procSelectObject.Call(memDC, previous)
	if drawn == 0 {
		return nil, fmt.Errorf("DrawIconEx failed")
	}

	info := BITMAPINFO{
		bmiHeader: BITMAPINFOHEADER{
			biWidth:       int32(size),
			biHeight:      -int32(size), // top-down rows
			biPlanes:      1,
			biBitCount:    32,
			biCompression: biRGB,
		},
	}
	info.bmiHeader.biSize = uint32(unsafe.Sizeof(info.bmiHeader))

	pixels := make([]byte, size*size*4)
	lines, _, _ := procGetDIBits.Call(
		memDC,
		bitmap,
		0,
		uintptr(size),
		uintptr(unsafe.Pointer(&pixels[0])),
		uintptr(unsafe.Pointer(&info)),
		dibRGBColors,
	)
	if lines == 0 {
		return nil, fmt.Errorf("GetDIBits failed")
	}

	return pixels, nil
}

// Listen installs an out-of-context WinEvent hook for window create, destroy,
// show and hide events and pumps the calling thread's message queue, which
// is where out-of-context callbacks are delivered. The goroutine stays
// locked to that thread until ctx is cancelled.
func (w *WindowsAPI) Listen(ctx context.Context, handler WindowEventHandler) error {
	if handler == nil {
		return errors.HandleValidationError("Listen", "handler", "nil", "handler is required")
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if !activeHandler.CompareAndSwap(nil, &handler) {
		return errors.HandleUnavailable("Listen", "win_event_hook", "a hook is already installed")
	}
	defer activeHandler.Store(nil)

	// Force creation of this thread's message queue so a cancellation posted
	// before the first GetMessage is not lost.
	var msg MSG
	procPeekMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, wmUser, wmUser, pmNoRemove)

	hook, _, callErr := procSetWinEventHook.Call(
		uintptr(EventObjectCreate),
		uintptr(EventObjectHide),
		0,
		winEventCallback,
		0,
		0,
		wineventOutOfContext,
	)
	if hook == 0 {
		return errors.WrapPlatformErrorWithContext("SetWinEventHook", callErr, map[string]string{
			"min_event": fmt.Sprintf("0x%04X", EventObjectCreate),
			"max_event": fmt.Sprintf("0x%04X", EventObjectHide),
		})
	}
	defer procUnhookWinEvent.Call(hook)

	threadID := windows.GetCurrentThreadId()
	stop := context.AfterFunc(ctx, func() {
		procPostThreadMessageW.Call(uintptr(threadID), wmQuit, 0, 0)
	})
	defer stop()

	w.logger.Info("Window event hook installed", "thread_id", threadID)

	for {
		ret, _, callErr := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		switch int32(ret) {
		case 0:
			w.logger.Info("Window event pump stopped")
			return nil
		case -1:
			return errors.NewPlatformError("GetMessage", callErr, errors.ErrCodeInternal).
				WithContext("thread_id", fmt.Sprint(threadID))
		}
	}
}
