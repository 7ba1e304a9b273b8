// Package input tracks keyboard and mouse state over consecutive frames.
//
// A Manager holds two snapshots, the previous frame and the current frame.
// Window.PollEvents calls BeginFrame once and then Consume for every event it
// produced, in order. Between polls all queries are pure reads, so press and
// release edges are derived by comparing the two snapshots rather than kept
// as explicit states.
package input

import (
	"strings"

	"github.com/vindu-dev/vindu/event"
)

const keyCount = 256

// snapshot is the recorded input state for one frame.
type snapshot struct {
	keys    [keyCount]bool
	buttons [event.ButtonCount]bool
}

// Manager accumulates normalized events into per-frame input state. It is
// created once and updated once per frame; it must not be shared between
// goroutines.
type Manager struct {
	prev snapshot
	cur  snapshot

	mouseX, mouseY   int
	deltaX, deltaY   int
	scrollX, scrollY float32

	typed   strings.Builder
	focused bool
}

// NewManager returns an empty input manager.
func NewManager() *Manager {
	return &Manager{}
}

// BeginFrame rolls the current snapshot over to the previous one and clears
// all per-frame accumulators. Held keys and buttons carry over.
func (m *Manager) BeginFrame() {
	m.prev = m.cur
	m.deltaX, m.deltaY = 0, 0
	m.scrollX, m.scrollY = 0, 0
	m.typed.Reset()
}

// Consume applies one event to the current snapshot. Events must be consumed
// in the order the window produced them.
func (m *Manager) Consume(ev event.Event) {
	switch e := ev.(type) {
	case event.KeyDown:
		m.cur.keys[e.Key] = true
	case event.KeyUp:
		m.cur.keys[e.Key] = false
	case event.MouseButton:
		if int(e.Button) < len(m.cur.buttons) {
			m.cur.buttons[e.Button] = e.Pressed
		}
	case event.MouseMove:
		m.mouseX, m.mouseY = e.X, e.Y
		m.deltaX += e.DX
		m.deltaY += e.DY
	case event.Scroll:
		m.scrollX += e.DX
		m.scrollY += e.DY
	case event.CharInput:
		m.typed.WriteRune(e.Rune)
	case event.FocusGained:
		m.focused = true
	case event.FocusLost:
		m.focused = false
		// Keys released while unfocused never reach us. Drop everything so
		// nothing sticks when focus returns.
		m.cur = snapshot{}
	}
}

// IsKeyDown reports whether the key is held in the current frame.
func (m *Manager) IsKeyDown(k event.Key) bool { return m.cur.keys[k] }

// IsKeyPressed reports whether the key went from up to down this frame.
func (m *Manager) IsKeyPressed(k event.Key) bool {
	return m.cur.keys[k] && !m.prev.keys[k]
}

// IsKeyReleased reports whether the key went from down to up this frame.
func (m *Manager) IsKeyReleased(k event.Key) bool {
	return !m.cur.keys[k] && m.prev.keys[k]
}

// IsButtonDown reports whether the mouse button is held in the current frame.
func (m *Manager) IsButtonDown(b event.Button) bool { return m.cur.buttons[b] }

// IsButtonPressed reports whether the mouse button went down this frame.
func (m *Manager) IsButtonPressed(b event.Button) bool {
	return m.cur.buttons[b] && !m.prev.buttons[b]
}

// IsButtonReleased reports whether the mouse button went up this frame.
func (m *Manager) IsButtonReleased(b event.Button) bool {
	return !m.cur.buttons[b] && m.prev.buttons[b]
}

// MousePosition returns the cursor position in window-local pixels, as of the
// last mouse move consumed.
func (m *Manager) MousePosition() (x, y int) { return m.mouseX, m.mouseY }

// MouseDelta returns the displacement accumulated this frame. While a cursor
// confinement region is active this is the true raw displacement, not the
// clamped one.
func (m *Manager) MouseDelta() (dx, dy int) { return m.deltaX, m.deltaY }

// ScrollDelta returns the wheel movement accumulated this frame, in lines.
func (m *Manager) ScrollDelta() (dx, dy float32) { return m.scrollX, m.scrollY }

// Typed returns the characters typed this frame, cleared by BeginFrame.
func (m *Manager) Typed() string { return m.typed.String() }

// Focused reports whether the window had keyboard focus after the last poll.
func (m *Manager) Focused() bool { return m.focused }
