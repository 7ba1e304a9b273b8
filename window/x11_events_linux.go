//go:build linux

package window

import (
	"unsafe"

	"github.com/vindu-dev/vindu/event"
)

// xEventSize is sizeof(XEvent): the union is padded to 24 longs.
const xEventSize = 192

// X event type codes, from X11/X.h.
const (
	xKeyPress        = 2
	xKeyRelease      = 3
	xButtonPress     = 4
	xButtonRelease   = 5
	xMotionNotify    = 6
	xFocusIn         = 9
	xFocusOut        = 10
	xExpose          = 12
	xDestroyNotify   = 17
	xUnmapNotify     = 18
	xMapNotify       = 19
	xReparentNotify  = 21
	xConfigureNotify = 22
	xClientMessage   = 33
	xMappingNotify   = 34
)

// Core modifier masks.
const (
	xShiftMask   = 1 << 0
	xControlMask = 1 << 2
	xMod1Mask    = 1 << 3 // Alt
	xMod4Mask    = 1 << 6 // Super
)

// Struct overlays of the XEvent union, LP64 layout.

type xAnyEvent struct {
	Type      int32
	_         int32
	Serial    uint64
	SendEvent int32
	_         int32
	Display   uintptr
	Window    uintptr
}

// xEventWindow returns the window an event belongs to, used to route events
// from the shared connection to the right backend. Every event type selected
// on our windows carries the window in the XAnyEvent slot; for the
// *Notify family that slot is the `event` field, which is the window whose
// StructureNotifyMask matched, i.e. still ours.
func xEventWindow(buf *[xEventSize]byte) uintptr {
	return (*xAnyEvent)(unsafe.Pointer(&buf[0])).Window
}

type xKeyEvent struct {
	Type         int32
	_            int32
	Serial       uint64
	SendEvent    int32
	_            int32
	Display      uintptr
	Window       uintptr
	Root         uintptr
	Subwindow    uintptr
	Time         uint64
	X, Y         int32
	XRoot, YRoot int32
	State        uint32
	Keycode      uint32
	SameScreen   int32
	_            int32
}

type xButtonEvent struct {
	Type         int32
	_            int32
	Serial       uint64
	SendEvent    int32
	_            int32
	Display      uintptr
	Window       uintptr
	Root         uintptr
	Subwindow    uintptr
	Time         uint64
	X, Y         int32
	XRoot, YRoot int32
	State        uint32
	Button       uint32
	SameScreen   int32
	_            int32
}

type xMotionEvent struct {
	Type         int32
	_            int32
	Serial       uint64
	SendEvent    int32
	_            int32
	Display      uintptr
	Window       uintptr
	Root         uintptr
	Subwindow    uintptr
	Time         uint64
	X, Y         int32
	XRoot, YRoot int32
	State        uint32
	IsHint       int8
	_            [3]int8
	SameScreen   int32
}

type xConfigureEvent struct {
	Type             int32
	_                int32
	Serial           uint64
	SendEvent        int32
	_                int32
	Display          uintptr
	Event            uintptr
	Window           uintptr
	X, Y             int32
	Width, Height    int32
	BorderWidth      int32
	_                int32
	Above            uintptr
	OverrideRedirect int32
	_                int32
}

type xClientMessageEvent struct {
	Type        int32
	_           int32
	Serial      uint64
	SendEvent   int32
	_           int32
	Display     uintptr
	Window      uintptr
	MessageType uintptr
	Format      int32
	_           int32
	Data        [5]uint64
}

// xTranslator maps raw X events to normalized events. Translation itself is
// a pure function of the event bytes and this state; the two callbacks hook
// in the Xlib calls that character lookup and keymap refresh require, and are
// nil in tests.
type xTranslator struct {
	wmDeleteWindow uintptr
	lastW, lastH   int32

	lookupChars   func(ev unsafe.Pointer) []rune
	refreshKeymap func(ev unsafe.Pointer)
}

func xMods(state uint32) event.Mods {
	var m event.Mods
	if state&xShiftMask != 0 {
		m |= event.ModShift
	}
	if state&xControlMask != 0 {
		m |= event.ModCtrl
	}
	if state&xMod1Mask != 0 {
		m |= event.ModAlt
	}
	if state&xMod4Mask != 0 {
		m |= event.ModSuper
	}
	return m
}

// translate appends the normalized events for one raw X event to out. A
// single native event may produce zero, one, or several normalized events:
// a KeyPress yields a KeyDown plus a CharInput per typed character, Expose
// and the various map/reparent notifications yield nothing.
func (t *xTranslator) translate(buf *[xEventSize]byte, out []event.Event) []event.Event {
	p := unsafe.Pointer(&buf[0])

	switch *(*int32)(p) {
	case xKeyPress:
		ev := (*xKeyEvent)(p)
		out = append(out, event.KeyDown{
			Key:  event.Key(ev.Keycode),
			Mods: xMods(ev.State),
		})
		if t.lookupChars != nil {
			for _, r := range t.lookupChars(p) {
				out = append(out, event.CharInput{Rune: r})
			}
		}

	case xKeyRelease:
		ev := (*xKeyEvent)(p)
		out = append(out, event.KeyUp{
			Key:  event.Key(ev.Keycode),
			Mods: xMods(ev.State),
		})

	case xButtonPress, xButtonRelease:
		ev := (*xButtonEvent)(p)
		pressed := ev.Type == xButtonPress
		switch ev.Button {
		case 1:
			out = append(out, event.MouseButton{Button: event.ButtonLeft, Pressed: pressed, Mods: xMods(ev.State)})
		case 2:
			out = append(out, event.MouseButton{Button: event.ButtonMiddle, Pressed: pressed, Mods: xMods(ev.State)})
		case 3:
			out = append(out, event.MouseButton{Button: event.ButtonRight, Pressed: pressed, Mods: xMods(ev.State)})
		// X reports the wheel as button presses; releases are dropped so a
		// tick scrolls once.
		case 4:
			if pressed {
				out = append(out, event.Scroll{DY: 1})
			}
		case 5:
			if pressed {
				out = append(out, event.Scroll{DY: -1})
			}
		case 6:
			if pressed {
				out = append(out, event.Scroll{DX: -1})
			}
		case 7:
			if pressed {
				out = append(out, event.Scroll{DX: 1})
			}
		case 8:
			out = append(out, event.MouseButton{Button: event.ButtonExtra1, Pressed: pressed, Mods: xMods(ev.State)})
		case 9:
			out = append(out, event.MouseButton{Button: event.ButtonExtra2, Pressed: pressed, Mods: xMods(ev.State)})
		}

	case xMotionNotify:
		ev := (*xMotionEvent)(p)
		// Deltas are filled in by the confinement layer.
		out = append(out, event.MouseMove{X: int(ev.X), Y: int(ev.Y)})

	case xConfigureNotify:
		ev := (*xConfigureEvent)(p)
		// ConfigureNotify also fires for plain moves; only size changes
		// become events.
		if ev.Width != t.lastW || ev.Height != t.lastH {
			t.lastW, t.lastH = ev.Width, ev.Height
			out = append(out, event.Resize{Width: int(ev.Width), Height: int(ev.Height)})
		}

	case xFocusIn:
		out = append(out, event.FocusGained{})

	case xFocusOut:
		out = append(out, event.FocusLost{})

	case xClientMessage:
		ev := (*xClientMessageEvent)(p)
		if ev.Format == 32 && ev.Data[0] == uint64(t.wmDeleteWindow) {
			out = append(out, event.Close{})
		}

	case xMappingNotify:
		if t.refreshKeymap != nil {
			t.refreshKeymap(p)
		}

	case xExpose, xMapNotify, xUnmapNotify, xReparentNotify, xDestroyNotify:
		// Redraws happen every frame and lifecycle notifications carry no
		// information the window does not already have.
	}

	return out
}

// xLookupChars resolves the typed characters for a key press through
// XLookupString. The core protocol hands back Latin-1; anything beyond it
// needs an input method, which this layer does not drive.
func xLookupChars(ev unsafe.Pointer) []rune {
	var buf [16]byte
	var keysym uintptr
	n := xLookupString(ev, &buf[0], int32(len(buf)), &keysym, 0)
	if n <= 0 {
		return nil
	}
	runes := make([]rune, 0, n)
	for _, b := range buf[:n] {
		if b >= 0x20 && b != 0x7f {
			runes = append(runes, rune(b))
		}
	}
	return runes
}
