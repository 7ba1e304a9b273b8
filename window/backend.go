package window

import "github.com/vindu-dev/vindu/event"

// backend is the contract both platform implementations satisfy. The two
// variants (X11 on Linux, Win32 on Windows) are selected at compile time by
// build tags; no behavior differs observably except native error detail.
//
// All methods must be called from the OS thread the backend was created on.
type backend interface {
	// pollEvents drains every pending native message without blocking and
	// returns the translated events in native arrival order. Mouse moves
	// carry absolute positions only; deltas and confinement are applied by
	// the portable layer.
	pollEvents() ([]event.Event, error)

	// swapBuffers presents the back buffer.
	swapBuffers() error

	// makeCurrent binds the GL context to the calling thread. Calling this
	// from two threads at once on the same context is undefined; the caller
	// must prevent it.
	makeCurrent() error

	// procAddress resolves a GL entry point in the created context.
	procAddress(name string) (uintptr, error)

	// cursorPos returns the cursor position in window-local coordinates.
	cursorPos() (x, y int, err error)

	// warpCursor moves the OS cursor to window-local coordinates.
	warpCursor(x, y int) error

	setTitle(title string) error
	setVSync(on bool) error
	setFullscreen(on bool) error
	setCursor(c Cursor) error

	// destroy releases the GL context and then the native window. It must
	// tolerate being called more than once.
	destroy()
}

// Cursor selects the shape the OS cursor takes while it is over the window.
type Cursor uint8

const (
	// CursorArrow is the platform's default pointer.
	CursorArrow Cursor = iota
	// CursorHand marks clickable elements.
	CursorHand
	// CursorHidden makes the cursor invisible over the window.
	CursorHidden
)

// Config carries the explicit creation parameters. Nothing is read from the
// environment.
type Config struct {
	Title  string
	Width  int
	Height int

	// GLMajor.GLMinor is the requested context version; Compat requests a
	// compatibility profile instead of core.
	GLMajor int
	GLMinor int
	Compat  bool

	VSync bool
}

func defaultConfig(title string) Config {
	return Config{
		Title:   title,
		Width:   1024,
		Height:  576,
		GLMajor: 3,
		GLMinor: 3,
	}
}

// Option adjusts window creation parameters.
type Option func(*Config)

// WithSize sets the initial client-area size in pixels.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithGLVersion requests a specific core-profile context version.
func WithGLVersion(major, minor int) Option {
	return func(c *Config) {
		c.GLMajor = major
		c.GLMinor = minor
	}
}

// WithCompatProfile requests a compatibility profile context.
func WithCompatProfile() Option {
	return func(c *Config) { c.Compat = true }
}

// WithVSync enables vertical sync from the first frame.
func WithVSync() Option {
	return func(c *Config) { c.VSync = true }
}
