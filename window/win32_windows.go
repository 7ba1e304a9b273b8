//go:build windows

package window

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/vindu-dev/vindu/event"
)

const (
	csOwnDC   = 0x0020
	csHRedraw = 0x0002
	csVRedraw = 0x0001

	wsOverlappedWindow = 0x00cf0000
	wsClipSiblings     = 0x04000000
	wsClipChildren     = 0x02000000
	wsPopup            = 0x80000000
	wsVisible          = 0x10000000

	swShow          = 5
	pmRemove        = 0x0001
	cwUseDefault    = 0x80000000
	idcArrow        = 32512
	idcHand         = 32649
	wmSetCursor     = 0x0020
	htClient        = 1
	swpFrameChanged = 0x0020
	smCxScreen      = 0
	smCyScreen      = 1
)

type wndClassEx struct {
	cbSize        uint32
	style         uint32
	lpfnWndProc   uintptr
	cbClsExtra    int32
	cbWndExtra    int32
	hInstance     windows.Handle
	hIcon         windows.Handle
	hCursor       windows.Handle
	hbrBackground windows.Handle
	lpszMenuName  *uint16
	lpszClassName *uint16
	hIconSm       windows.Handle
}

type winPoint struct {
	x, y int32
}

type winRect struct {
	left, top, right, bottom int32
}

type winMsg struct {
	hwnd     windows.Handle
	message  uint32
	wParam   uintptr
	lParam   uintptr
	time     uint32
	pt       winPoint
	lPrivate uint32
}

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procRegisterClassEx   = user32.NewProc("RegisterClassExW")
	procUnregisterClass   = user32.NewProc("UnregisterClassW")
	procCreateWindowEx    = user32.NewProc("CreateWindowExW")
	procDestroyWindow     = user32.NewProc("DestroyWindow")
	procDefWindowProc     = user32.NewProc("DefWindowProcW")
	procShowWindow        = user32.NewProc("ShowWindow")
	procUpdateWindow      = user32.NewProc("UpdateWindow")
	procAdjustWindowRect  = user32.NewProc("AdjustWindowRect")
	procPeekMessage       = user32.NewProc("PeekMessageW")
	procTranslateMessage  = user32.NewProc("TranslateMessage")
	procDispatchMessage   = user32.NewProc("DispatchMessageW")
	procGetDC             = user32.NewProc("GetDC")
	procReleaseDC         = user32.NewProc("ReleaseDC")
	procGetCursorPos      = user32.NewProc("GetCursorPos")
	procSetCursorPos      = user32.NewProc("SetCursorPos")
	procScreenToClient    = user32.NewProc("ScreenToClient")
	procClientToScreen    = user32.NewProc("ClientToScreen")
	procSetWindowText     = user32.NewProc("SetWindowTextW")
	procSetCapture        = user32.NewProc("SetCapture")
	procReleaseCapture    = user32.NewProc("ReleaseCapture")
	procLoadCursor        = user32.NewProc("LoadCursorW")
	procSetCursor         = user32.NewProc("SetCursor")
	procGetWindowLongPtr  = user32.NewProc("GetWindowLongPtrW")
	procSetWindowLongPtr  = user32.NewProc("SetWindowLongPtrW")
	procSetWindowPos      = user32.NewProc("SetWindowPos")
	procGetWindowRect     = user32.NewProc("GetWindowRect")
	procGetSystemMetrics  = user32.NewProc("GetSystemMetrics")
)

// The window class is process-wide state, registered when the first window
// is created and unregistered when the last one is destroyed. The class name
// carries the pid so CS_OWNDC classes of embedding processes never collide.
var (
	win32Mu        sync.Mutex
	win32ClassRefs int
	win32ClassName = fmt.Sprintf("VinduWindow_%d", os.Getpid())
	win32WndProcCB uintptr
	win32Backends  = map[windows.Handle]*win32Backend{}
)

func acquireWindowClass() error {
	win32Mu.Lock()
	defer win32Mu.Unlock()

	if win32ClassRefs > 0 {
		win32ClassRefs++
		return nil
	}

	if win32WndProcCB == 0 {
		win32WndProcCB = windows.NewCallback(wndProc)
	}

	instance, err := windows.GetModuleHandle(nil)
	if err != nil {
		return fmt.Errorf("%w: GetModuleHandle: %v", ErrWindowCreationFailed, err)
	}
	cursor, _, _ := procLoadCursor.Call(0, idcArrow)

	className, _ := windows.UTF16PtrFromString(win32ClassName)
	wc := wndClassEx{
		cbSize:        uint32(unsafe.Sizeof(wndClassEx{})),
		style:         csOwnDC | csHRedraw | csVRedraw,
		lpfnWndProc:   win32WndProcCB,
		hInstance:     instance,
		hCursor:       windows.Handle(cursor),
		lpszClassName: className,
	}
	if atom, _, err := procRegisterClassEx.Call(uintptr(unsafe.Pointer(&wc))); atom == 0 {
		return fmt.Errorf("%w: RegisterClassExW: %v", ErrWindowCreationFailed, err)
	}
	win32ClassRefs = 1
	return nil
}

func releaseWindowClass() {
	win32Mu.Lock()
	defer win32Mu.Unlock()

	if win32ClassRefs == 0 {
		return
	}
	win32ClassRefs--
	if win32ClassRefs == 0 {
		className, _ := windows.UTF16PtrFromString(win32ClassName)
		instance, _ := windows.GetModuleHandle(nil)
		procUnregisterClass.Call(uintptr(unsafe.Pointer(className)), uintptr(instance))
	}
}

// win32Backend owns one Win32 window, its device context and WGL context.
type win32Backend struct {
	hwnd windows.Handle
	hdc  windows.Handle
	ctx  *wglContext

	tr    win32Translator
	queue []event.Event

	// Buttons currently held, for SetCapture bookkeeping: while any button
	// is down the mouse stays captured so drags keep reporting outside the
	// window.
	buttonsDown int

	// Saved windowed style and rect for leaving fullscreen.
	savedStyle uintptr
	savedRect  winRect

	// Cursor shown over the client area once setCursor has been called;
	// zero means hidden. Until then the class cursor applies.
	cursor    uintptr
	cursorSet bool

	destroyed bool
}

// wndProc dispatches to the backend owning the window. Messages arriving for
// unknown windows (during CreateWindowEx, after destroy) fall through to the
// default handler.
func wndProc(hwnd, msg, wParam, lParam uintptr) uintptr {
	win32Mu.Lock()
	b := win32Backends[windows.Handle(hwnd)]
	win32Mu.Unlock()
	if b == nil {
		ret, _, _ := procDefWindowProc.Call(hwnd, msg, wParam, lParam)
		return ret
	}

	// The class cursor would reinstate the arrow on every move; selecting
	// our own keeps hidden and non-default cursors in force.
	if msg == wmSetCursor && b.cursorSet && loWord(lParam) == htClient {
		procSetCursor.Call(b.cursor)
		return 1
	}

	before := len(b.queue)
	b.queue = b.tr.translate(uint32(msg), wParam, lParam, b.queue)
	for _, ev := range b.queue[before:] {
		if mb, ok := ev.(event.MouseButton); ok {
			b.updateCapture(mb.Pressed)
		}
	}

	if msg == wmClose {
		// DefWindowProc would destroy the window; closing is the
		// application's decision.
		return 0
	}
	ret, _, _ := procDefWindowProc.Call(hwnd, msg, wParam, lParam)
	return ret
}

func (b *win32Backend) updateCapture(pressed bool) {
	if pressed {
		b.buttonsDown++
		if b.buttonsDown == 1 {
			procSetCapture.Call(uintptr(b.hwnd))
		}
		return
	}
	if b.buttonsDown > 0 {
		b.buttonsDown--
		if b.buttonsDown == 0 {
			procReleaseCapture.Call()
		}
	}
}

func newPlatformBackend(cfg Config) (backend, error) {
	runtime.LockOSThread()

	if err := acquireWindowClass(); err != nil {
		runtime.UnlockOSThread()
		return nil, err
	}
	fail := func(err error) (backend, error) {
		releaseWindowClass()
		runtime.UnlockOSThread()
		return nil, err
	}

	className, _ := windows.UTF16PtrFromString(win32ClassName)
	title, err := windows.UTF16PtrFromString(cfg.Title)
	if err != nil {
		return fail(fmt.Errorf("%w: title: %v", ErrWindowCreationFailed, err))
	}

	style := uintptr(wsOverlappedWindow | wsClipSiblings | wsClipChildren)

	// Width and height are the client area; grow the outer rect by the
	// frame.
	r := winRect{right: int32(cfg.Width), bottom: int32(cfg.Height)}
	procAdjustWindowRect.Call(uintptr(unsafe.Pointer(&r)), style, 0)

	instance, _ := windows.GetModuleHandle(nil)
	hwndRet, _, cerr := procCreateWindowEx.Call(
		0,
		uintptr(unsafe.Pointer(className)),
		uintptr(unsafe.Pointer(title)),
		style,
		cwUseDefault, cwUseDefault,
		uintptr(r.right-r.left), uintptr(r.bottom-r.top),
		0, 0,
		uintptr(instance),
		0,
	)
	if hwndRet == 0 {
		return fail(fmt.Errorf("%w: CreateWindowExW: %v", ErrWindowCreationFailed, cerr))
	}
	hwnd := windows.Handle(hwndRet)

	hdcRet, _, cerr := procGetDC.Call(hwndRet)
	if hdcRet == 0 {
		procDestroyWindow.Call(hwndRet)
		return fail(fmt.Errorf("%w: GetDC: %v", ErrWindowCreationFailed, cerr))
	}
	hdc := windows.Handle(hdcRet)

	if err := choosePixelFormat(hdc); err != nil {
		procReleaseDC.Call(hwndRet, hdcRet)
		procDestroyWindow.Call(hwndRet)
		return fail(err)
	}

	ctx, err := createWGLContext(hdc, cfg)
	if err != nil {
		procReleaseDC.Call(hwndRet, hdcRet)
		procDestroyWindow.Call(hwndRet)
		return fail(err)
	}

	b := &win32Backend{hwnd: hwnd, hdc: hdc, ctx: ctx}

	win32Mu.Lock()
	win32Backends[hwnd] = b
	win32Mu.Unlock()

	// Show only after the pixel format and context are established; the
	// first WM_SIZE lands in the queue and is drained by the first poll.
	procShowWindow.Call(hwndRet, swShow)
	procUpdateWindow.Call(hwndRet)

	return b, nil
}

func (b *win32Backend) pollEvents() ([]event.Event, error) {
	var m winMsg
	for {
		ret, _, _ := procPeekMessage.Call(
			uintptr(unsafe.Pointer(&m)),
			uintptr(b.hwnd),
			0, 0,
			pmRemove,
		)
		if ret == 0 {
			break
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		procDispatchMessage.Call(uintptr(unsafe.Pointer(&m)))
	}

	out := b.queue
	b.queue = nil
	return out, nil
}

func (b *win32Backend) swapBuffers() error {
	if b.destroyed {
		return ErrSwapFailed
	}
	return b.ctx.swap()
}

func (b *win32Backend) makeCurrent() error {
	return b.ctx.makeCurrent()
}

func (b *win32Backend) procAddress(name string) (uintptr, error) {
	return wglProcAddress(name)
}

func (b *win32Backend) cursorPos() (int, int, error) {
	var p winPoint
	if ok, _, err := procGetCursorPos.Call(uintptr(unsafe.Pointer(&p))); ok == 0 {
		return 0, 0, fmt.Errorf("GetCursorPos: %v", err)
	}
	procScreenToClient.Call(uintptr(b.hwnd), uintptr(unsafe.Pointer(&p)))
	return int(p.x), int(p.y), nil
}

func (b *win32Backend) warpCursor(x, y int) error {
	if b.destroyed {
		return ErrDestroyed
	}
	p := winPoint{x: int32(x), y: int32(y)}
	procClientToScreen.Call(uintptr(b.hwnd), uintptr(unsafe.Pointer(&p)))
	if ok, _, err := procSetCursorPos.Call(uintptr(p.x), uintptr(p.y)); ok == 0 {
		return fmt.Errorf("SetCursorPos: %v", err)
	}
	return nil
}

func (b *win32Backend) setTitle(title string) error {
	t, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return err
	}
	if ok, _, cerr := procSetWindowText.Call(uintptr(b.hwnd), uintptr(unsafe.Pointer(t))); ok == 0 {
		return fmt.Errorf("SetWindowTextW: %v", cerr)
	}
	return nil
}

func (b *win32Backend) setVSync(on bool) error {
	var interval int32
	if on {
		interval = 1
	}
	return b.ctx.setSwapInterval(interval)
}

func (b *win32Backend) setCursor(c Cursor) error {
	var handle uintptr
	switch c {
	case CursorHidden:
		handle = 0
	case CursorHand:
		h, _, err := procLoadCursor.Call(0, idcHand)
		if h == 0 {
			return fmt.Errorf("LoadCursorW: %v", err)
		}
		handle = h
	default:
		h, _, err := procLoadCursor.Call(0, idcArrow)
		if h == 0 {
			return fmt.Errorf("LoadCursorW: %v", err)
		}
		handle = h
	}
	b.cursor = handle
	b.cursorSet = true
	procSetCursor.Call(handle)
	return nil
}

// setFullscreen switches to a borderless window covering the primary monitor
// and back, restoring the saved windowed style and placement.
func (b *win32Backend) setFullscreen(on bool) error {
	// GWL_STYLE is -16, sign-extended for the 64-bit call.
	gwlStyle := ^uintptr(15)

	if on {
		style, _, _ := procGetWindowLongPtr.Call(uintptr(b.hwnd), gwlStyle)
		b.savedStyle = style
		procGetWindowRect.Call(uintptr(b.hwnd), uintptr(unsafe.Pointer(&b.savedRect)))

		w, _, _ := procGetSystemMetrics.Call(smCxScreen)
		h, _, _ := procGetSystemMetrics.Call(smCyScreen)

		procSetWindowLongPtr.Call(uintptr(b.hwnd), gwlStyle, wsPopup|wsVisible)
		procSetWindowPos.Call(uintptr(b.hwnd), 0, 0, 0, w, h, swpFrameChanged)
		return nil
	}

	procSetWindowLongPtr.Call(uintptr(b.hwnd), gwlStyle, b.savedStyle)
	procSetWindowPos.Call(
		uintptr(b.hwnd), 0,
		uintptr(b.savedRect.left), uintptr(b.savedRect.top),
		uintptr(b.savedRect.right-b.savedRect.left), uintptr(b.savedRect.bottom-b.savedRect.top),
		swpFrameChanged,
	)
	return nil
}

// destroy releases context, device context and window, in that order.
// Idempotent.
func (b *win32Backend) destroy() {
	if b.destroyed {
		return
	}
	b.destroyed = true

	win32Mu.Lock()
	delete(win32Backends, b.hwnd)
	win32Mu.Unlock()

	b.ctx.destroy()
	if b.hdc != 0 {
		procReleaseDC.Call(uintptr(b.hwnd), uintptr(b.hdc))
		b.hdc = 0
	}
	if b.hwnd != 0 {
		procDestroyWindow.Call(uintptr(b.hwnd))
		b.hwnd = 0
	}
	releaseWindowClass()
	runtime.UnlockOSThread()
}
