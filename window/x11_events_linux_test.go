//go:build linux

package window

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vindu-dev/vindu/event"
)

func keyEventBuf(typ int32, keycode, state uint32) *[xEventSize]byte {
	var buf [xEventSize]byte
	ev := (*xKeyEvent)(unsafe.Pointer(&buf[0]))
	ev.Type = typ
	ev.Keycode = keycode
	ev.State = state
	return &buf
}

func buttonEventBuf(typ int32, button, state uint32) *[xEventSize]byte {
	var buf [xEventSize]byte
	ev := (*xButtonEvent)(unsafe.Pointer(&buf[0]))
	ev.Type = typ
	ev.Button = button
	ev.State = state
	return &buf
}

func motionEventBuf(x, y int32) *[xEventSize]byte {
	var buf [xEventSize]byte
	ev := (*xMotionEvent)(unsafe.Pointer(&buf[0]))
	ev.Type = xMotionNotify
	ev.X, ev.Y = x, y
	return &buf
}

func configureEventBuf(w, h int32) *[xEventSize]byte {
	var buf [xEventSize]byte
	ev := (*xConfigureEvent)(unsafe.Pointer(&buf[0]))
	ev.Type = xConfigureNotify
	ev.Width, ev.Height = w, h
	return &buf
}

func clientMessageBuf(format int32, data0 uint64) *[xEventSize]byte {
	var buf [xEventSize]byte
	ev := (*xClientMessageEvent)(unsafe.Pointer(&buf[0]))
	ev.Type = xClientMessage
	ev.Format = format
	ev.Data[0] = data0
	return &buf
}

func simpleEventBuf(typ int32) *[xEventSize]byte {
	var buf [xEventSize]byte
	*(*int32)(unsafe.Pointer(&buf[0])) = typ
	return &buf
}

func TestXTranslateKeyPressAndRelease(t *testing.T) {
	tr := xTranslator{}

	out := tr.translate(keyEventBuf(xKeyPress, uint32(event.KeyW), xShiftMask|xControlMask), nil)
	require.Len(t, out, 1)
	assert.Equal(t, event.KeyDown{Key: event.KeyW, Mods: event.ModShift | event.ModCtrl}, out[0])

	out = tr.translate(keyEventBuf(xKeyRelease, uint32(event.KeyW), 0), nil)
	require.Len(t, out, 1)
	assert.Equal(t, event.KeyUp{Key: event.KeyW}, out[0])
}

func TestXTranslateKeyPressEmitsChars(t *testing.T) {
	tr := xTranslator{
		lookupChars: func(ev unsafe.Pointer) []rune { return []rune{'w'} },
	}

	out := tr.translate(keyEventBuf(xKeyPress, uint32(event.KeyW), 0), nil)
	require.Len(t, out, 2)
	assert.Equal(t, event.CharInput{Rune: 'w'}, out[1])
}

func TestXTranslateMouseButtons(t *testing.T) {
	tr := xTranslator{}

	out := tr.translate(buttonEventBuf(xButtonPress, 1, 0), nil)
	require.Len(t, out, 1)
	assert.Equal(t, event.MouseButton{Button: event.ButtonLeft, Pressed: true}, out[0])

	out = tr.translate(buttonEventBuf(xButtonRelease, 3, xMod1Mask), nil)
	require.Len(t, out, 1)
	assert.Equal(t, event.MouseButton{Button: event.ButtonRight, Mods: event.ModAlt}, out[0])

	out = tr.translate(buttonEventBuf(xButtonPress, 9, 0), nil)
	require.Len(t, out, 1)
	assert.Equal(t, event.ButtonExtra2, out[0].(event.MouseButton).Button)
}

func TestXTranslateWheelTicksOnPressOnly(t *testing.T) {
	tr := xTranslator{}

	out := tr.translate(buttonEventBuf(xButtonPress, 4, 0), nil)
	require.Len(t, out, 1)
	assert.Equal(t, event.Scroll{DY: 1}, out[0])

	// The paired release must not scroll again.
	out = tr.translate(buttonEventBuf(xButtonRelease, 4, 0), nil)
	assert.Empty(t, out)

	out = tr.translate(buttonEventBuf(xButtonPress, 5, 0), nil)
	require.Len(t, out, 1)
	assert.Equal(t, event.Scroll{DY: -1}, out[0])
}

func TestXTranslateMotion(t *testing.T) {
	tr := xTranslator{}

	out := tr.translate(motionEventBuf(320, 240), nil)
	require.Len(t, out, 1)
	assert.Equal(t, event.MouseMove{X: 320, Y: 240}, out[0])
}

func TestXTranslateConfigureOnlyOnSizeChange(t *testing.T) {
	tr := xTranslator{lastW: 800, lastH: 600}

	// Same size: a plain window move, no event.
	out := tr.translate(configureEventBuf(800, 600), nil)
	assert.Empty(t, out)

	out = tr.translate(configureEventBuf(1024, 768), nil)
	require.Len(t, out, 1)
	assert.Equal(t, event.Resize{Width: 1024, Height: 768}, out[0])

	// And deduplicated afterwards.
	out = tr.translate(configureEventBuf(1024, 768), nil)
	assert.Empty(t, out)
}

func TestXTranslateCloseViaWMDelete(t *testing.T) {
	tr := xTranslator{wmDeleteWindow: 0x1234}

	out := tr.translate(clientMessageBuf(32, 0x1234), nil)
	require.Len(t, out, 1)
	assert.Equal(t, event.Close{}, out[0])

	// Other client messages are not a close request.
	out = tr.translate(clientMessageBuf(32, 0x9999), nil)
	assert.Empty(t, out)
	out = tr.translate(clientMessageBuf(8, 0x1234), nil)
	assert.Empty(t, out)
}

func TestXTranslateFocus(t *testing.T) {
	tr := xTranslator{}

	out := tr.translate(simpleEventBuf(xFocusIn), nil)
	require.Len(t, out, 1)
	assert.Equal(t, event.FocusGained{}, out[0])

	out = tr.translate(simpleEventBuf(xFocusOut), nil)
	require.Len(t, out, 1)
	assert.Equal(t, event.FocusLost{}, out[0])
}

func TestXTranslateIgnoresLifecycleNoise(t *testing.T) {
	tr := xTranslator{}

	for _, typ := range []int32{xExpose, xMapNotify, xUnmapNotify, xReparentNotify, xDestroyNotify} {
		assert.Empty(t, tr.translate(simpleEventBuf(typ), nil))
	}
}

func TestXEventWindowRouting(t *testing.T) {
	// Events from the shared connection are routed to their owning window
	// by the XAnyEvent window slot.
	buf := keyEventBuf(xKeyPress, uint32(event.KeyW), 0)
	(*xKeyEvent)(unsafe.Pointer(&buf[0])).Window = 0x5001
	assert.Equal(t, uintptr(0x5001), xEventWindow(buf))

	buf = motionEventBuf(10, 20)
	(*xMotionEvent)(unsafe.Pointer(&buf[0])).Window = 0x5002
	assert.Equal(t, uintptr(0x5002), xEventWindow(buf))

	// For ConfigureNotify the slot is the structure-notify window, which
	// is the window the resize belongs to.
	buf = configureEventBuf(800, 600)
	(*xConfigureEvent)(unsafe.Pointer(&buf[0])).Event = 0x5003
	assert.Equal(t, uintptr(0x5003), xEventWindow(buf))

	buf = clientMessageBuf(32, 1)
	(*xClientMessageEvent)(unsafe.Pointer(&buf[0])).Window = 0x5004
	assert.Equal(t, uintptr(0x5004), xEventWindow(buf))
}

func TestXTranslateMappingNotifyRefreshesKeymap(t *testing.T) {
	refreshed := 0
	tr := xTranslator{refreshKeymap: func(ev unsafe.Pointer) { refreshed++ }}

	out := tr.translate(simpleEventBuf(xMappingNotify), nil)
	assert.Empty(t, out)
	assert.Equal(t, 1, refreshed)
}
