//go:build linux

package window

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/vindu-dev/vindu/event"
)

// Xlib constants, from X11/X.h.
const (
	xInputOutput = 1

	xKeyPressMask         = 1 << 0
	xKeyReleaseMask       = 1 << 1
	xButtonPressMask      = 1 << 2
	xButtonReleaseMask    = 1 << 3
	xPointerMotionMask    = 1 << 6
	xExposureMask         = 1 << 15
	xStructureNotifyMask  = 1 << 17
	xSubstructureNotify   = 1 << 19
	xSubstructureRedirect = 1 << 20
	xFocusChangeMask      = 1 << 21

	xCWBorderPixel = 1 << 3
	xCWEventMask   = 1 << 11
	xCWColormap    = 1 << 13
)

type xVisualInfo struct {
	Visual       uintptr
	VisualID     uint64
	Screen       int32
	Depth        int32
	Class        int32
	RedMask      uint64
	GreenMask    uint64
	BlueMask     uint64
	ColormapSize int32
	BitsPerRGB   int32
}

type xSetWindowAttributes struct {
	BackgroundPixmap uintptr
	BackgroundPixel  uint64
	BorderPixmap     uint64
	BorderPixel      uint64
	BitGravity       int32
	WinGravity       int32
	BackingStore     int32
	BackingPlanes    uint64
	BackingPixel     uint64
	SaveUnder        int32
	EventMask        int64
	DoNotPropagate   int64
	OverrideRedirect int32
	Colormap         uintptr
	Cursor           uintptr
}

var (
	xOpenDisplay     func(name *byte) uintptr
	xCloseDisplay    func(dpy uintptr) int32
	xDefaultScreen   func(dpy uintptr) int32
	xRootWindow      func(dpy uintptr, screen int32) uintptr
	xCreateColormap  func(dpy, win, visual uintptr, alloc int32) uintptr
	xFreeColormap    func(dpy, colormap uintptr) int32
	xCreateWindow    func(dpy, parent uintptr, x, y int32, width, height, borderWidth uint32, depth int32, class uint32, visual uintptr, valueMask uint64, attrs unsafe.Pointer) uintptr
	xDestroyWindow   func(dpy, win uintptr) int32
	xMapWindow       func(dpy, win uintptr) int32
	xStoreName       func(dpy, win uintptr, name *byte) int32
	xInternAtom      func(dpy uintptr, name *byte, onlyIfExists int32) uintptr
	xSetWMProtocols  func(dpy, win uintptr, protocols *uintptr, count int32) int32
	xSelectInput     func(dpy, win uintptr, mask int64)
	xPending         func(dpy uintptr) int32
	xNextEvent       func(dpy uintptr, ev unsafe.Pointer)
	xSendEvent       func(dpy, win uintptr, propagate int32, mask int64, ev unsafe.Pointer) int32
	xQueryPointer    func(dpy, win uintptr, root, child *uintptr, rootX, rootY, winX, winY *int32, mask *uint32) int32
	xWarpPointer     func(dpy, src, dst uintptr, srcX, srcY int32, srcW, srcH uint32, dstX, dstY int32) int32
	xFlush           func(dpy uintptr) int32
	xFree            func(p unsafe.Pointer) int32
	xLookupString    func(ev unsafe.Pointer, buf *byte, n int32, keysym *uintptr, composeStatus uintptr) int32
	xRefreshKeyboard func(ev unsafe.Pointer) int32
	xSetErrorHandler func(handler uintptr) uintptr
	xInitThreads     func() int32

	xCreateFontCursor     func(dpy uintptr, shape uint32) uintptr
	xCreateBitmapFromData func(dpy, drawable uintptr, data *byte, width, height uint32) uintptr
	xCreatePixmapCursor   func(dpy, src, mask uintptr, fg, bg unsafe.Pointer, x, y uint32) uintptr
	xFreePixmap           func(dpy, pixmap uintptr) int32
	xDefineCursor         func(dpy, win, cursor uintptr) int32
	xFreeCursor           func(dpy, cursor uintptr) int32
)

func registerXlib(lib uintptr) {
	purego.RegisterLibFunc(&xOpenDisplay, lib, "XOpenDisplay")
	purego.RegisterLibFunc(&xCloseDisplay, lib, "XCloseDisplay")
	purego.RegisterLibFunc(&xDefaultScreen, lib, "XDefaultScreen")
	purego.RegisterLibFunc(&xRootWindow, lib, "XRootWindow")
	purego.RegisterLibFunc(&xCreateColormap, lib, "XCreateColormap")
	purego.RegisterLibFunc(&xFreeColormap, lib, "XFreeColormap")
	purego.RegisterLibFunc(&xCreateWindow, lib, "XCreateWindow")
	purego.RegisterLibFunc(&xDestroyWindow, lib, "XDestroyWindow")
	purego.RegisterLibFunc(&xMapWindow, lib, "XMapWindow")
	purego.RegisterLibFunc(&xStoreName, lib, "XStoreName")
	purego.RegisterLibFunc(&xInternAtom, lib, "XInternAtom")
	purego.RegisterLibFunc(&xSetWMProtocols, lib, "XSetWMProtocols")
	purego.RegisterLibFunc(&xSelectInput, lib, "XSelectInput")
	purego.RegisterLibFunc(&xPending, lib, "XPending")
	purego.RegisterLibFunc(&xNextEvent, lib, "XNextEvent")
	purego.RegisterLibFunc(&xSendEvent, lib, "XSendEvent")
	purego.RegisterLibFunc(&xQueryPointer, lib, "XQueryPointer")
	purego.RegisterLibFunc(&xWarpPointer, lib, "XWarpPointer")
	purego.RegisterLibFunc(&xFlush, lib, "XFlush")
	purego.RegisterLibFunc(&xFree, lib, "XFree")
	purego.RegisterLibFunc(&xLookupString, lib, "XLookupString")
	purego.RegisterLibFunc(&xRefreshKeyboard, lib, "XRefreshKeyboardMapping")
	purego.RegisterLibFunc(&xSetErrorHandler, lib, "XSetErrorHandler")
	purego.RegisterLibFunc(&xInitThreads, lib, "XInitThreads")
	purego.RegisterLibFunc(&xCreateFontCursor, lib, "XCreateFontCursor")
	purego.RegisterLibFunc(&xCreateBitmapFromData, lib, "XCreateBitmapFromData")
	purego.RegisterLibFunc(&xCreatePixmapCursor, lib, "XCreatePixmapCursor")
	purego.RegisterLibFunc(&xFreePixmap, lib, "XFreePixmap")
	purego.RegisterLibFunc(&xDefineCursor, lib, "XDefineCursor")
	purego.RegisterLibFunc(&xFreeCursor, lib, "XFreeCursor")
}

// The display connection is process-wide state. It is opened when the first
// window is created and closed when the last one is destroyed. Events for all
// windows arrive on this one connection, so a registry maps each X window to
// its backend; displayMu also guards the registry and the per-backend queues.
var (
	displayMu   sync.Mutex
	displayRefs int
	displayConn uintptr
	x11Libs     bool
	x11Windows  = map[uintptr]*x11Backend{}
)

func ensureX11Libs() error {
	if x11Libs {
		return nil
	}
	x11, err := purego.Dlopen("libX11.so.6", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWindowCreationFailed, err)
	}
	gl, err := purego.Dlopen("libGL.so.1", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrContextCreationFailed, err)
	}
	registerXlib(x11)
	registerGLX(gl)

	// Windows created from different goroutines share the connection, so
	// Xlib's internal locking must be on before the first call touches it.
	xInitThreads()

	// Xlib aborts the process on protocol errors by default. Log instead;
	// the failing request surfaces as a zero return wherever it matters.
	xSetErrorHandler(purego.NewCallback(func(dpy, ev uintptr) uintptr {
		// error_code is the byte after type, display, resourceid, serial.
		code := *(*uint8)(unsafe.Pointer(ev + 32))
		logger.Warn("X protocol error", "code", code)
		return 0
	}))

	x11Libs = true
	return nil
}

func acquireDisplay() (uintptr, error) {
	displayMu.Lock()
	defer displayMu.Unlock()

	if displayRefs > 0 {
		displayRefs++
		return displayConn, nil
	}
	if err := ensureX11Libs(); err != nil {
		return 0, err
	}
	dpy := xOpenDisplay(nil)
	if dpy == 0 {
		return 0, fmt.Errorf("%w: cannot connect to the X server", ErrWindowCreationFailed)
	}
	displayConn = dpy
	displayRefs = 1
	return dpy, nil
}

func releaseDisplay() {
	displayMu.Lock()
	defer displayMu.Unlock()

	if displayRefs == 0 {
		return
	}
	displayRefs--
	if displayRefs == 0 {
		xCloseDisplay(displayConn)
		displayConn = 0
	}
}

// x11Backend owns one X window and its GLX context.
type x11Backend struct {
	dpy      uintptr
	win      uintptr
	colormap uintptr
	ctx      *glxContext

	tr xTranslator

	// Events routed here by whichever window drained the connection.
	// Guarded by displayMu.
	queue []event.Event

	cursors   map[Cursor]uintptr
	destroyed bool
}

func newPlatformBackend(cfg Config) (backend, error) {
	runtime.LockOSThread()

	dpy, err := acquireDisplay()
	if err != nil {
		runtime.UnlockOSThread()
		return nil, err
	}

	screen := xDefaultScreen(dpy)
	root := xRootWindow(dpy, screen)

	config, visual, err := chooseFBConfig(dpy, screen)
	if err != nil {
		releaseDisplay()
		runtime.UnlockOSThread()
		return nil, err
	}

	colormap := xCreateColormap(dpy, root, visual.Visual, 0)

	attrs := xSetWindowAttributes{
		Colormap: colormap,
		EventMask: xExposureMask | xStructureNotifyMask | xFocusChangeMask |
			xKeyPressMask | xKeyReleaseMask |
			xButtonPressMask | xButtonReleaseMask | xPointerMotionMask,
	}

	win := xCreateWindow(
		dpy, root,
		0, 0,
		uint32(cfg.Width), uint32(cfg.Height),
		0,
		visual.Depth,
		xInputOutput,
		visual.Visual,
		xCWBorderPixel|xCWColormap|xCWEventMask,
		unsafe.Pointer(&attrs),
	)
	xFree(unsafe.Pointer(visual))
	if win == 0 {
		xFreeColormap(dpy, colormap)
		releaseDisplay()
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("%w: XCreateWindow returned no window", ErrWindowCreationFailed)
	}

	xStoreName(dpy, win, cString(cfg.Title))

	wmDelete := xInternAtom(dpy, cString("WM_DELETE_WINDOW"), 0)
	xSetWMProtocols(dpy, win, &wmDelete, 1)

	ctx, err := createGLXContext(dpy, win, config, cfg)
	if err != nil {
		xDestroyWindow(dpy, win)
		xFreeColormap(dpy, colormap)
		releaseDisplay()
		runtime.UnlockOSThread()
		return nil, err
	}

	xMapWindow(dpy, win)
	xFlush(dpy)

	b := &x11Backend{
		dpy:      dpy,
		win:      win,
		colormap: colormap,
		ctx:      ctx,
		tr: xTranslator{
			wmDeleteWindow: wmDelete,
			lastW:          int32(cfg.Width),
			lastH:          int32(cfg.Height),
			lookupChars:    xLookupChars,
			refreshKeymap:  func(ev unsafe.Pointer) { xRefreshKeyboard(ev) },
		},
	}

	displayMu.Lock()
	x11Windows[win] = b
	displayMu.Unlock()

	return b, nil
}

// pollEvents drains the shared connection and routes each event to the
// backend owning its window, so one window's poll never swallows another's
// input. Events for the polling window are returned; the rest wait in their
// owners' queues.
func (b *x11Backend) pollEvents() ([]event.Event, error) {
	displayMu.Lock()
	defer displayMu.Unlock()

	for xPending(b.dpy) > 0 {
		var buf [xEventSize]byte
		xNextEvent(b.dpy, unsafe.Pointer(&buf[0]))

		// MappingNotify carries no window; let the draining backend
		// refresh its keymap.
		owner := b
		if *(*int32)(unsafe.Pointer(&buf[0])) != xMappingNotify {
			owner = x11Windows[xEventWindow(&buf)]
			if owner == nil {
				continue
			}
		}
		owner.queue = owner.tr.translate(&buf, owner.queue)
	}

	out := b.queue
	b.queue = nil
	return out, nil
}

func (b *x11Backend) swapBuffers() error {
	if b.destroyed {
		return ErrSwapFailed
	}
	b.ctx.swap()
	return nil
}

func (b *x11Backend) makeCurrent() error {
	return b.ctx.makeCurrent()
}

func (b *x11Backend) procAddress(name string) (uintptr, error) {
	addr := glxGetProcAddress(cString(name))
	if addr == 0 {
		return 0, fmt.Errorf("GL entry point %q not found", name)
	}
	return addr, nil
}

func (b *x11Backend) cursorPos() (int, int, error) {
	var root, child uintptr
	var rootX, rootY, winX, winY int32
	var mask uint32
	if xQueryPointer(b.dpy, b.win, &root, &child, &rootX, &rootY, &winX, &winY, &mask) == 0 {
		return 0, 0, fmt.Errorf("XQueryPointer failed")
	}
	return int(winX), int(winY), nil
}

func (b *x11Backend) warpCursor(x, y int) error {
	if b.destroyed {
		return ErrDestroyed
	}
	xWarpPointer(b.dpy, 0, b.win, 0, 0, 0, 0, int32(x), int32(y))
	xFlush(b.dpy)
	return nil
}

func (b *x11Backend) setTitle(title string) error {
	xStoreName(b.dpy, b.win, cString(title))
	xFlush(b.dpy)
	return nil
}

func (b *x11Backend) setVSync(on bool) error {
	var interval int32
	if on {
		interval = 1
	}
	return b.ctx.setSwapInterval(interval)
}

func (b *x11Backend) setCursor(c Cursor) error {
	cur, ok := b.cursors[c]
	if !ok {
		var err error
		cur, err = b.createCursor(c)
		if err != nil {
			return err
		}
		if b.cursors == nil {
			b.cursors = map[Cursor]uintptr{}
		}
		b.cursors[c] = cur
	}
	xDefineCursor(b.dpy, b.win, cur)
	xFlush(b.dpy)
	return nil
}

// xColor mirrors XColor.
type xColor struct {
	Pixel            uint64
	Red, Green, Blue uint16
	Flags, Pad       int8
}

func (b *x11Backend) createCursor(c Cursor) (uintptr, error) {
	switch c {
	case CursorHidden:
		// An all-zero bitmap as both shape and mask is invisible.
		var blank [8]byte
		pixmap := xCreateBitmapFromData(b.dpy, b.win, &blank[0], 8, 8)
		if pixmap == 0 {
			return 0, fmt.Errorf("XCreateBitmapFromData failed")
		}
		var black xColor
		cur := xCreatePixmapCursor(b.dpy, pixmap, pixmap,
			unsafe.Pointer(&black), unsafe.Pointer(&black), 0, 0)
		xFreePixmap(b.dpy, pixmap)
		if cur == 0 {
			return 0, fmt.Errorf("XCreatePixmapCursor failed")
		}
		return cur, nil
	case CursorHand:
		return xCreateFontCursor(b.dpy, 58), nil // XC_hand2
	default:
		return xCreateFontCursor(b.dpy, 2), nil // XC_arrow
	}
}

// setFullscreen toggles _NET_WM_STATE_FULLSCREEN through the window manager,
// per the EWMH spec.
func (b *x11Backend) setFullscreen(on bool) error {
	wmState := xInternAtom(b.dpy, cString("_NET_WM_STATE"), 0)
	wmFullscreen := xInternAtom(b.dpy, cString("_NET_WM_STATE_FULLSCREEN"), 0)
	if wmState == 0 || wmFullscreen == 0 {
		return fmt.Errorf("window manager does not support _NET_WM_STATE")
	}

	var action uint64
	if on {
		action = 1 // _NET_WM_STATE_ADD
	}
	msg := xClientMessageEvent{
		Type:        xClientMessage,
		Window:      b.win,
		MessageType: wmState,
		Format:      32,
	}
	msg.Data[0] = action
	msg.Data[1] = uint64(wmFullscreen)

	root := xRootWindow(b.dpy, xDefaultScreen(b.dpy))
	xSendEvent(b.dpy, root, 0, xSubstructureNotify|xSubstructureRedirect, unsafe.Pointer(&msg))
	xFlush(b.dpy)
	return nil
}

// destroy releases context, window, colormap and the display reference, in
// that order. Idempotent.
func (b *x11Backend) destroy() {
	if b.destroyed {
		return
	}
	b.destroyed = true

	displayMu.Lock()
	delete(x11Windows, b.win)
	displayMu.Unlock()

	b.ctx.destroy()
	for _, cur := range b.cursors {
		xFreeCursor(b.dpy, cur)
	}
	b.cursors = nil
	if b.win != 0 {
		xDestroyWindow(b.dpy, b.win)
		b.win = 0
	}
	if b.colormap != 0 {
		xFreeColormap(b.dpy, b.colormap)
		b.colormap = 0
	}
	xFlush(b.dpy)
	releaseDisplay()
	runtime.UnlockOSThread()
}

func cString(s string) *byte {
	b := append([]byte(s), 0)
	return &b[0]
}
