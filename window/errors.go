package window

import "errors"

// The error taxonomy shared by both backends. Native failures are wrapped
// around these sentinels so callers can match with errors.Is regardless of
// platform.
var (
	// ErrWindowCreationFailed reports that the native window could not be
	// allocated.
	ErrWindowCreationFailed = errors.New("window creation failed")

	// ErrPixelFormatUnsupported reports that no framebuffer configuration
	// compatible with the requested GL version exists.
	ErrPixelFormatUnsupported = errors.New("pixel format unsupported")

	// ErrContextCreationFailed reports that the native GL context could not
	// be created or made current.
	ErrContextCreationFailed = errors.New("context creation failed")

	// ErrSwapFailed reports that presenting the back buffer failed. This is
	// fatal for the window: rendering cannot continue and the window must be
	// recreated.
	ErrSwapFailed = errors.New("buffer swap failed")

	// ErrDestroyed reports an operation on a window after Destroy. This is a
	// caller bug; it is reported rather than silently ignored.
	ErrDestroyed = errors.New("window destroyed")
)
