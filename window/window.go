// Package window creates native OS windows with an OpenGL context and turns
// platform messages into the normalized events of the event package.
//
// Two backends exist, X11 on Linux and Win32 on Windows, selected at compile
// time. They share one contract; nothing differs observably between them
// except native error detail.
//
// A window and its GL context belong to the OS thread that created them. The
// creating goroutine is locked to its thread for the lifetime of the window,
// and every method must be called from that goroutine.
//
//	win, err := window.New("My game", window.WithSize(800, 600))
//	if err != nil {
//		...
//	}
//	defer win.Destroy()
//
//	in := input.NewManager()
//	for !win.CloseRequested() {
//		if _, err := win.PollEvents(in); err != nil {
//			break
//		}
//		// update and render
//		if err := win.SwapBuffers(); err != nil {
//			break
//		}
//	}
package window

import (
	"image"

	"github.com/vindu-dev/vindu/event"
	"github.com/vindu-dev/vindu/input"
)

// Window is one OS-level top-level window with its own OpenGL context. The
// context is created with the window and destroyed with it; there is no
// separate lifetime. After Destroy every operation fails with ErrDestroyed.
type Window struct {
	backend backend

	title          string
	width, height  int
	closeRequested bool
	focused        bool
	fullscreen     bool
	destroyed      bool
	swapBroken     bool

	cursor  Cursor
	region  *image.Rectangle
	grabbed bool
	confine confiner
}

// New creates a native window, negotiates a framebuffer format for the
// requested GL version, creates the context and makes it current on the
// calling thread. On any native failure all partially created resources are
// released before the error is returned.
func New(title string, opts ...Option) (*Window, error) {
	cfg := defaultConfig(title)
	for _, opt := range opts {
		opt(&cfg)
	}

	b, err := newPlatformBackend(cfg)
	if err != nil {
		return nil, err
	}

	w := newWindow(b, cfg)
	if cfg.VSync {
		if err := b.setVSync(true); err != nil {
			logger.Warn("vsync not available", "err", err)
		}
	}
	return w, nil
}

// newWindow wires a backend to the portable state. Tests inject a fake
// backend here.
func newWindow(b backend, cfg Config) *Window {
	return &Window{
		backend: b,
		title:   cfg.Title,
		width:   cfg.Width,
		height:  cfg.Height,
	}
}

// PollEvents drains all pending native messages without blocking and returns
// the normalized events in arrival order. Window state (size, close flag,
// focus) and cursor confinement are applied before the slice is returned, so
// by the time the caller sees a Resize the window already reports the new
// size. When in is non-nil it is advanced one frame and fed every event.
//
// A call with nothing pending returns an empty slice and changes no window
// state.
func (w *Window) PollEvents(in *input.Manager) ([]event.Event, error) {
	if w.destroyed {
		return nil, ErrDestroyed
	}

	raw, err := w.backend.pollEvents()
	if err != nil {
		return nil, err
	}

	out := make([]event.Event, 0, len(raw))
	for _, ev := range raw {
		switch e := ev.(type) {
		case event.MouseMove:
			mv, ok := w.confine.processMove(e.X, e.Y, w.backend.warpCursor, w.focused)
			if ok {
				out = append(out, mv)
			}
		case event.Resize:
			w.width, w.height = e.Width, e.Height
			if w.grabbed {
				w.confine.installRegion(w.grabTarget())
			}
			out = append(out, ev)
		case event.Close:
			w.closeRequested = true
			out = append(out, ev)
		case event.FocusGained:
			w.focused = true
			out = append(out, ev)
		case event.FocusLost:
			w.focused = false
			out = append(out, ev)
		default:
			out = append(out, ev)
		}
	}

	if in != nil {
		in.BeginFrame()
		for _, ev := range out {
			in.Consume(ev)
		}
	}
	return out, nil
}

// SwapBuffers presents the back buffer. A failed swap marks the window
// unusable for rendering: the error is ErrSwapFailed, and so is every
// subsequent call. The application must recreate the window to keep drawing.
func (w *Window) SwapBuffers() error {
	if w.destroyed {
		return ErrDestroyed
	}
	if w.swapBroken {
		return ErrSwapFailed
	}
	if err := w.backend.swapBuffers(); err != nil {
		w.swapBroken = true
		return err
	}
	return nil
}

// MakeCurrent binds the window's GL context to the calling thread. Concurrent
// calls from different threads on the same window are undefined; the caller
// must prevent them.
func (w *Window) MakeCurrent() error {
	if w.destroyed {
		return ErrDestroyed
	}
	return w.backend.makeCurrent()
}

// ProcAddress resolves a GL entry point in the window's context. This is the
// hook for shader and rendering collaborators; the window itself never calls
// into GL beyond context setup and swapping.
func (w *Window) ProcAddress(name string) (uintptr, error) {
	if w.destroyed {
		return 0, ErrDestroyed
	}
	return w.backend.procAddress(name)
}

// SetCursorRegion confines the OS cursor to a rectangle in window-local
// coordinates, inclusive of its max edge. Passing nil lifts the confinement.
// If the cursor is outside a newly set region it is warped inside
// immediately. Confinement only acts while the window has focus and is best
// effort: a failing native warp logs a warning and the cursor runs
// unconfined. While the cursor is grabbed the region is stored but dormant.
func (w *Window) SetCursorRegion(r *image.Rectangle) error {
	if w.destroyed {
		return ErrDestroyed
	}
	if r == nil {
		w.region = nil
		if !w.grabbed {
			w.confine.installRegion(nil)
		}
		return nil
	}
	rect := r.Canon()
	w.region = &rect
	if w.grabbed {
		return nil
	}
	x, y, err := w.backend.cursorPos()
	if err != nil {
		// Fall back to the last position seen in the event stream.
		x, y = w.confine.lastX, w.confine.lastY
	}
	w.confine.setRegion(&rect, x, y, w.backend.warpCursor)
	return nil
}

// CursorRegion returns the requested confinement rectangle, or nil.
func (w *Window) CursorRegion() *image.Rectangle {
	if w.region == nil {
		return nil
	}
	r := *w.region
	return &r
}

// SetCursorGrabbed locks the OS cursor to the center of the window for
// camera-style controls. Mouse deltas keep reporting the raw displacement.
// Grabbing takes precedence over SetCursorRegion; the region becomes active
// again when the grab is released. Like confinement, the lock only acts while
// the window has focus.
func (w *Window) SetCursorGrabbed(on bool) error {
	if w.destroyed {
		return ErrDestroyed
	}
	if on == w.grabbed {
		return nil
	}
	w.grabbed = on

	if on {
		target := w.grabTarget()
		if !w.focused {
			w.confine.installRegion(target)
			return nil
		}
		x, y, err := w.backend.cursorPos()
		if err != nil {
			x, y = w.confine.lastX, w.confine.lastY
		}
		w.confine.setRegion(target, x, y, w.backend.warpCursor)
		return nil
	}
	w.confine.installRegion(w.region)
	return nil
}

// CursorGrabbed reports whether the cursor is locked to the window center.
func (w *Window) CursorGrabbed() bool { return w.grabbed }

// grabTarget is the degenerate rectangle a grabbed cursor is clamped to.
func (w *Window) grabTarget() *image.Rectangle {
	r := image.Rect(w.width/2, w.height/2, w.width/2, w.height/2)
	return &r
}

// SetCursor changes the shape the cursor takes while it is over the window.
func (w *Window) SetCursor(c Cursor) error {
	if w.destroyed {
		return ErrDestroyed
	}
	if c == w.cursor {
		return nil
	}
	if err := w.backend.setCursor(c); err != nil {
		return err
	}
	w.cursor = c
	return nil
}

// Cursor returns the current cursor shape.
func (w *Window) Cursor() Cursor { return w.cursor }

// SetTitle changes the window title.
func (w *Window) SetTitle(title string) error {
	if w.destroyed {
		return ErrDestroyed
	}
	if err := w.backend.setTitle(title); err != nil {
		return err
	}
	w.title = title
	return nil
}

// SetVSync enables or disables vertical sync, when the driver supports
// changing it.
func (w *Window) SetVSync(on bool) error {
	if w.destroyed {
		return ErrDestroyed
	}
	return w.backend.setVSync(on)
}

// SetFullscreen switches between borderless fullscreen and windowed mode.
func (w *Window) SetFullscreen(on bool) error {
	if w.destroyed {
		return ErrDestroyed
	}
	if on == w.fullscreen {
		return nil
	}
	if err := w.backend.setFullscreen(on); err != nil {
		return err
	}
	w.fullscreen = on
	return nil
}

// Destroy releases the GL context and then the native window, in that order.
// It is idempotent; a second call is a no-op.
func (w *Window) Destroy() {
	if w.destroyed {
		return
	}
	w.destroyed = true
	w.backend.destroy()
}

// Size returns the current client-area size in pixels.
func (w *Window) Size() (width, height int) { return w.width, w.height }

// Title returns the current window title.
func (w *Window) Title() string { return w.title }

// CloseRequested reports whether the user has asked the window to close. The
// flag latches; it is the application's cue to stop its loop and call
// Destroy.
func (w *Window) CloseRequested() bool { return w.closeRequested }

// Focused reports whether the window has keyboard focus.
func (w *Window) Focused() bool { return w.focused }

// Fullscreen reports whether the window is in borderless fullscreen mode.
func (w *Window) Fullscreen() bool { return w.fullscreen }
