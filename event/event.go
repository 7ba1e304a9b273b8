// Package event defines the normalized window and input events shared by both
// platform backends. Events are immutable values; within one poll cycle they
// are delivered in native arrival order.
package event

// Event is implemented by every normalized event variant.
type Event interface {
	isEvent()
}

// Resize reports the new client-area size of the window in pixels.
type Resize struct {
	Width  int
	Height int
}

// Close reports that the user asked the window to close. The window itself is
// still alive; the application decides when to destroy it.
type Close struct{}

// FocusGained reports that the window received keyboard focus.
type FocusGained struct{}

// FocusLost reports that the window lost keyboard focus.
type FocusLost struct{}

// KeyDown reports a key press. Repeats from the OS key-repeat mechanism are
// delivered as additional KeyDown events with Repeat set.
type KeyDown struct {
	Key    Key
	Mods   Mods
	Repeat bool
}

// KeyUp reports a key release.
type KeyUp struct {
	Key  Key
	Mods Mods
}

// MouseMove reports cursor movement. X and Y are window-local coordinates
// after any cursor confinement has been applied; DX and DY carry the true raw
// displacement, which is preserved even when the cursor was clamped to a
// confinement region.
type MouseMove struct {
	X, Y   int
	DX, DY int
}

// MouseButton reports a press or release of a mouse button.
type MouseButton struct {
	Button  Button
	Pressed bool
	Mods    Mods
}

// Scroll reports wheel movement in lines. Vertical scrolling is positive
// away from the user.
type Scroll struct {
	DX, DY float32
}

// CharInput reports a typed character, post keyboard-layout translation.
type CharInput struct {
	Rune rune
}

func (Resize) isEvent()      {}
func (Close) isEvent()       {}
func (FocusGained) isEvent() {}
func (FocusLost) isEvent()   {}
func (KeyDown) isEvent()     {}
func (KeyUp) isEvent()       {}
func (MouseMove) isEvent()   {}
func (MouseButton) isEvent() {}
func (Scroll) isEvent()      {}
func (CharInput) isEvent()   {}

// Key is a platform scancode. It identifies a position on the keyboard, not a
// symbol; the named constants follow the american layout and differ in value
// between backends. Scancodes fit in a byte on both platforms.
type Key uint8

// Button identifies a mouse button.
type Button uint8

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
	ButtonExtra1
	ButtonExtra2

	// ButtonCount is the number of distinct buttons tracked by the input
	// manager.
	ButtonCount = 5
)

// Mods is a bitmask of modifier keys held when an event was generated.
type Mods uint8

const (
	ModShift Mods = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

// Has reports whether all modifiers in m2 are set in m.
func (m Mods) Has(m2 Mods) bool { return m&m2 == m2 }
