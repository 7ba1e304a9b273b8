//go:build windows

package window

import "github.com/vindu-dev/vindu/event"

// Window messages handled by the translator.
const (
	wmSize        = 0x0005
	wmSetFocus    = 0x0007
	wmKillFocus   = 0x0008
	wmClose       = 0x0010
	wmKeyDown     = 0x0100
	wmKeyUp       = 0x0101
	wmChar        = 0x0102
	wmSysKeyDown  = 0x0104
	wmSysKeyUp    = 0x0105
	wmMouseMove   = 0x0200
	wmLButtonDown = 0x0201
	wmLButtonUp   = 0x0202
	wmRButtonDown = 0x0204
	wmRButtonUp   = 0x0205
	wmMButtonDown = 0x0207
	wmMButtonUp   = 0x0208
	wmMouseWheel  = 0x020a
	wmXButtonDown = 0x020b
	wmXButtonUp   = 0x020c
	wmMouseHWheel = 0x020e
)

const wheelDelta = 120

// win32Translator maps window messages to normalized events. Modifier state
// is tracked from the key stream itself so translation stays a pure function
// of the messages seen, and a pending high surrogate carries WM_CHAR pairs
// across calls.
type win32Translator struct {
	mods          event.Mods
	highSurrogate uint16
}

func loWord(v uintptr) int { return int(int16(v & 0xffff)) }
func hiWord(v uintptr) int { return int(int16((v >> 16) & 0xffff)) }

func (t *win32Translator) updateMods(key event.Key, down bool) {
	var m event.Mods
	switch key {
	case event.KeyLShift, event.KeyRShift:
		m = event.ModShift
	case event.KeyLCtrl:
		m = event.ModCtrl
	case event.KeyLAlt:
		m = event.ModAlt
	default:
		return
	}
	if down {
		t.mods |= m
	} else {
		t.mods &^= m
	}
}

// translate appends the normalized events for one window message to out.
func (t *win32Translator) translate(msg uint32, wParam, lParam uintptr, out []event.Event) []event.Event {
	switch msg {
	case wmSize:
		out = append(out, event.Resize{Width: loWord(lParam), Height: hiWord(lParam)})

	case wmClose:
		out = append(out, event.Close{})

	case wmSetFocus:
		out = append(out, event.FocusGained{})

	case wmKillFocus:
		out = append(out, event.FocusLost{})

	case wmKeyDown, wmSysKeyDown:
		key := event.Key((lParam >> 16) & 0xff)
		repeat := lParam&(1<<30) != 0
		t.updateMods(key, true)
		out = append(out, event.KeyDown{Key: key, Mods: t.mods, Repeat: repeat})

	case wmKeyUp, wmSysKeyUp:
		key := event.Key((lParam >> 16) & 0xff)
		t.updateMods(key, false)
		out = append(out, event.KeyUp{Key: key, Mods: t.mods})

	case wmChar:
		if r, ok := t.decodeChar(uint16(wParam)); ok {
			out = append(out, event.CharInput{Rune: r})
		}

	case wmMouseMove:
		// Deltas are filled in by the confinement layer.
		out = append(out, event.MouseMove{X: loWord(lParam), Y: hiWord(lParam)})

	case wmMouseWheel:
		out = append(out, event.Scroll{DY: float32(hiWord(wParam)) / wheelDelta})

	case wmMouseHWheel:
		out = append(out, event.Scroll{DX: float32(hiWord(wParam)) / wheelDelta})

	case wmLButtonDown, wmLButtonUp:
		out = append(out, event.MouseButton{Button: event.ButtonLeft, Pressed: msg == wmLButtonDown, Mods: t.mods})

	case wmRButtonDown, wmRButtonUp:
		out = append(out, event.MouseButton{Button: event.ButtonRight, Pressed: msg == wmRButtonDown, Mods: t.mods})

	case wmMButtonDown, wmMButtonUp:
		out = append(out, event.MouseButton{Button: event.ButtonMiddle, Pressed: msg == wmMButtonDown, Mods: t.mods})

	case wmXButtonDown, wmXButtonUp:
		button := event.ButtonExtra1
		if hiWord(wParam) == 2 {
			button = event.ButtonExtra2
		}
		out = append(out, event.MouseButton{Button: button, Pressed: msg == wmXButtonDown, Mods: t.mods})
	}

	return out
}

// decodeChar folds UTF-16 code units into runes, pairing surrogates across
// consecutive WM_CHAR messages. Control characters are dropped.
func (t *win32Translator) decodeChar(u uint16) (rune, bool) {
	switch {
	case u >= 0xd800 && u <= 0xdbff:
		t.highSurrogate = u
		return 0, false
	case u >= 0xdc00 && u <= 0xdfff:
		if t.highSurrogate == 0 {
			return 0, false
		}
		r := 0x10000 + (rune(t.highSurrogate)-0xd800)<<10 + (rune(u) - 0xdc00)
		t.highSurrogate = 0
		return r, true
	default:
		t.highSurrogate = 0
		if u < 0x20 || u == 0x7f {
			return 0, false
		}
		return rune(u), true
	}
}
