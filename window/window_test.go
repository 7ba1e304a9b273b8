package window

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vindu-dev/vindu/event"
	"github.com/vindu-dev/vindu/input"
)

// fakeBackend satisfies the backend contract in-memory and counts every
// native resource operation, so lifecycle tests can assert on leaks and
// double frees.
type fakeBackend struct {
	pending []event.Event
	pollErr error
	swapErr error

	curX, curY int
	curPosErr  error
	warpErr    error
	warps      []image.Point

	titles     []string
	vsyncCalls []bool
	fsCalls    []bool
	cursors    []Cursor
	swapCount  int
	currentSet int
	destroyed  int
}

func (f *fakeBackend) pollEvents() ([]event.Event, error) {
	if f.pollErr != nil {
		return nil, f.pollErr
	}
	out := f.pending
	f.pending = nil
	return out, nil
}

func (f *fakeBackend) swapBuffers() error {
	f.swapCount++
	return f.swapErr
}

func (f *fakeBackend) makeCurrent() error {
	f.currentSet++
	return nil
}

func (f *fakeBackend) procAddress(name string) (uintptr, error) {
	return 0x1000, nil
}

func (f *fakeBackend) cursorPos() (int, int, error) {
	return f.curX, f.curY, f.curPosErr
}

func (f *fakeBackend) warpCursor(x, y int) error {
	if f.warpErr != nil {
		return f.warpErr
	}
	f.warps = append(f.warps, image.Pt(x, y))
	return nil
}

func (f *fakeBackend) setTitle(title string) error {
	f.titles = append(f.titles, title)
	return nil
}

func (f *fakeBackend) setVSync(on bool) error {
	f.vsyncCalls = append(f.vsyncCalls, on)
	return nil
}

func (f *fakeBackend) setFullscreen(on bool) error {
	f.fsCalls = append(f.fsCalls, on)
	return nil
}

func (f *fakeBackend) setCursor(c Cursor) error {
	f.cursors = append(f.cursors, c)
	return nil
}

func (f *fakeBackend) destroy() {
	f.destroyed++
}

func newTestWindow(b *fakeBackend) *Window {
	return newWindow(b, defaultConfig("test"))
}

func TestPollEventsEmptyChangesNothing(t *testing.T) {
	b := &fakeBackend{}
	w := newTestWindow(b)

	wantW, wantH := w.Size()
	evs, err := w.PollEvents(nil)
	require.NoError(t, err)
	assert.Empty(t, evs)

	gotW, gotH := w.Size()
	assert.Equal(t, wantW, gotW)
	assert.Equal(t, wantH, gotH)
	assert.False(t, w.CloseRequested())
}

func TestPollEventsResizeUpdatesSizeBeforeReturn(t *testing.T) {
	b := &fakeBackend{pending: []event.Event{event.Resize{Width: 1024, Height: 768}}}
	w := newTestWindow(b)

	evs, err := w.PollEvents(nil)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, event.Resize{Width: 1024, Height: 768}, evs[0])

	gotW, gotH := w.Size()
	assert.Equal(t, 1024, gotW)
	assert.Equal(t, 768, gotH)
}

func TestCloseRequestedLatches(t *testing.T) {
	b := &fakeBackend{pending: []event.Event{event.Close{}}}
	w := newTestWindow(b)

	_, err := w.PollEvents(nil)
	require.NoError(t, err)
	assert.True(t, w.CloseRequested())

	// Stays set across further polls with nothing pending.
	_, err = w.PollEvents(nil)
	require.NoError(t, err)
	assert.True(t, w.CloseRequested())
}

func TestFocusTracking(t *testing.T) {
	b := &fakeBackend{pending: []event.Event{event.FocusGained{}}}
	w := newTestWindow(b)

	_, err := w.PollEvents(nil)
	require.NoError(t, err)
	assert.True(t, w.Focused())

	b.pending = []event.Event{event.FocusLost{}}
	_, err = w.PollEvents(nil)
	require.NoError(t, err)
	assert.False(t, w.Focused())
}

func TestSwapFailureLatches(t *testing.T) {
	b := &fakeBackend{swapErr: ErrSwapFailed}
	w := newTestWindow(b)

	err := w.SwapBuffers()
	require.ErrorIs(t, err, ErrSwapFailed)

	// The second failure comes from the latch, not another native call.
	err = w.SwapBuffers()
	require.ErrorIs(t, err, ErrSwapFailed)
	assert.Equal(t, 1, b.swapCount)
}

func TestDestroyIdempotent(t *testing.T) {
	b := &fakeBackend{}
	w := newTestWindow(b)

	w.Destroy()
	w.Destroy()
	assert.Equal(t, 1, b.destroyed)

	_, err := w.PollEvents(nil)
	assert.ErrorIs(t, err, ErrDestroyed)
	assert.ErrorIs(t, w.SwapBuffers(), ErrDestroyed)
	assert.ErrorIs(t, w.MakeCurrent(), ErrDestroyed)
	assert.ErrorIs(t, w.SetTitle("x"), ErrDestroyed)
	assert.ErrorIs(t, w.SetVSync(true), ErrDestroyed)
	assert.ErrorIs(t, w.SetFullscreen(true), ErrDestroyed)
	assert.ErrorIs(t, w.SetCursor(CursorHand), ErrDestroyed)
	assert.ErrorIs(t, w.SetCursorGrabbed(true), ErrDestroyed)
	_, err = w.ProcAddress("glClear")
	assert.ErrorIs(t, err, ErrDestroyed)
}

func TestCursorConfinementClampsAndKeepsRawDelta(t *testing.T) {
	b := &fakeBackend{curX: 50, curY: 50}
	w := newTestWindow(b)

	region := image.Rect(10, 10, 110, 110)
	require.NoError(t, w.SetCursorRegion(&region))
	require.NotNil(t, w.CursorRegion())
	assert.Empty(t, b.warps, "cursor already inside, no warp expected")

	// Confinement only acts on a focused window; the first move also
	// establishes the reference position.
	b.pending = []event.Event{event.FocusGained{}, event.MouseMove{X: 50, Y: 50}}
	evs, err := w.PollEvents(nil)
	require.NoError(t, err)
	require.Len(t, evs, 2)

	// A move past the right edge is clamped, but the delta is the true
	// displacement of the raw positions.
	b.pending = []event.Event{event.MouseMove{X: 200, Y: 60}}
	evs, err = w.PollEvents(nil)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	mv := evs[0].(event.MouseMove)
	assert.Equal(t, 110, mv.X)
	assert.Equal(t, 60, mv.Y)
	assert.Equal(t, 150, mv.DX)
	assert.Equal(t, 10, mv.DY)
	require.Equal(t, []image.Point{image.Pt(110, 60)}, b.warps)

	// The warp comes back through the event stream as a motion event; it is
	// not user input and must not surface.
	b.pending = []event.Event{event.MouseMove{X: 110, Y: 60}}
	evs, err = w.PollEvents(nil)
	require.NoError(t, err)
	assert.Empty(t, evs)

	// Subsequent deltas are measured from the warped position.
	b.pending = []event.Event{event.MouseMove{X: 120, Y: 70}}
	evs, err = w.PollEvents(nil)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	mv = evs[0].(event.MouseMove)
	assert.Equal(t, 110, mv.X)
	assert.Equal(t, 70, mv.Y)
	assert.Equal(t, 10, mv.DX)
	assert.Equal(t, 10, mv.DY)
}

func TestSetCursorRegionWarpsWhenOutside(t *testing.T) {
	b := &fakeBackend{curX: 0, curY: 0}
	w := newTestWindow(b)

	region := image.Rect(10, 10, 110, 110)
	require.NoError(t, w.SetCursorRegion(&region))
	require.Equal(t, []image.Point{image.Pt(10, 10)}, b.warps)
}

func TestSetCursorRegionNilLiftsConfinement(t *testing.T) {
	b := &fakeBackend{curX: 50, curY: 50}
	w := newTestWindow(b)

	region := image.Rect(10, 10, 110, 110)
	require.NoError(t, w.SetCursorRegion(&region))
	require.NotNil(t, w.CursorRegion())

	require.NoError(t, w.SetCursorRegion(nil))
	assert.Nil(t, w.CursorRegion())

	b.pending = []event.Event{event.MouseMove{X: 500, Y: 500}}
	evs, err := w.PollEvents(nil)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, 500, evs[0].(event.MouseMove).X)
}

func TestWarpFailureDegradesToUnconfined(t *testing.T) {
	b := &fakeBackend{curX: 0, curY: 0, warpErr: errors.New("no warp")}
	w := newTestWindow(b)

	region := image.Rect(10, 10, 110, 110)
	require.NoError(t, w.SetCursorRegion(&region))
	assert.Nil(t, w.CursorRegion(), "failed warp must lift the region")
}

func TestSetTitle(t *testing.T) {
	b := &fakeBackend{}
	w := newTestWindow(b)

	require.NoError(t, w.SetTitle("renamed"))
	assert.Equal(t, "renamed", w.Title())
	assert.Equal(t, []string{"renamed"}, b.titles)
}

func TestSetFullscreenSkipsRedundantSwitch(t *testing.T) {
	b := &fakeBackend{}
	w := newTestWindow(b)

	require.NoError(t, w.SetFullscreen(false))
	assert.Empty(t, b.fsCalls)

	require.NoError(t, w.SetFullscreen(true))
	assert.True(t, w.Fullscreen())
	require.NoError(t, w.SetFullscreen(true))
	assert.Equal(t, []bool{true}, b.fsCalls)

	require.NoError(t, w.SetFullscreen(false))
	assert.Equal(t, []bool{true, false}, b.fsCalls)
}

func TestUnfocusedWindowIsNotConfined(t *testing.T) {
	b := &fakeBackend{curX: 50, curY: 50}
	w := newTestWindow(b)

	region := image.Rect(10, 10, 110, 110)
	require.NoError(t, w.SetCursorRegion(&region))

	// The window never gained focus; a cursor merely passing over it must
	// not be warped.
	b.pending = []event.Event{event.MouseMove{X: 500, Y: 500}}
	evs, err := w.PollEvents(nil)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, 500, evs[0].(event.MouseMove).X)
	assert.Empty(t, b.warps)

	// Losing focus mid-session stops clamping too.
	b.pending = []event.Event{event.FocusGained{}, event.FocusLost{}, event.MouseMove{X: 600, Y: 500}}
	evs, err = w.PollEvents(nil)
	require.NoError(t, err)
	require.Len(t, evs, 3)
	assert.Equal(t, 600, evs[2].(event.MouseMove).X)
	assert.Empty(t, b.warps)
}

func TestCursorGrabLocksToCenter(t *testing.T) {
	b := &fakeBackend{curX: 50, curY: 50}
	w := newTestWindow(b)
	cx, cy := 1024/2, 576/2

	b.pending = []event.Event{event.FocusGained{}}
	_, err := w.PollEvents(nil)
	require.NoError(t, err)

	require.NoError(t, w.SetCursorGrabbed(true))
	assert.True(t, w.CursorGrabbed())
	// Grabbing warps to the center straight away.
	require.Equal(t, []image.Point{image.Pt(cx, cy)}, b.warps)

	// The echo comes back, then real motion is re-centered with the raw
	// delta preserved.
	b.pending = []event.Event{event.MouseMove{X: cx, Y: cy}}
	evs, err := w.PollEvents(nil)
	require.NoError(t, err)
	assert.Empty(t, evs)

	b.pending = []event.Event{event.MouseMove{X: cx + 40, Y: cy - 3}}
	evs, err = w.PollEvents(nil)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	mv := evs[0].(event.MouseMove)
	assert.Equal(t, cx, mv.X)
	assert.Equal(t, cy, mv.Y)
	assert.Equal(t, 40, mv.DX)
	assert.Equal(t, -3, mv.DY)

	require.NoError(t, w.SetCursorGrabbed(false))
	assert.False(t, w.CursorGrabbed())
}

func TestCursorGrabTakesPrecedenceOverRegion(t *testing.T) {
	b := &fakeBackend{curX: 50, curY: 50}
	w := newTestWindow(b)
	cx, cy := 1024/2, 576/2

	b.pending = []event.Event{event.FocusGained{}}
	_, err := w.PollEvents(nil)
	require.NoError(t, err)

	require.NoError(t, w.SetCursorGrabbed(true))
	region := image.Rect(10, 10, 110, 110)
	require.NoError(t, w.SetCursorRegion(&region))

	// While grabbed, motion is still locked to the center, not the region.
	b.pending = []event.Event{event.MouseMove{X: cx, Y: cy}} // warp echo
	_, err = w.PollEvents(nil)
	require.NoError(t, err)
	b.pending = []event.Event{event.MouseMove{X: 90, Y: 90}}
	evs, err := w.PollEvents(nil)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, cx, evs[0].(event.MouseMove).X)

	// The region survives the grab and takes over on release.
	require.NoError(t, w.SetCursorGrabbed(false))
	require.Equal(t, &region, w.CursorRegion())
	b.pending = []event.Event{event.MouseMove{X: cx, Y: cy}} // warp echo
	_, err = w.PollEvents(nil)
	require.NoError(t, err)
	b.pending = []event.Event{event.MouseMove{X: 500, Y: 50}}
	evs, err = w.PollEvents(nil)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, 110, evs[0].(event.MouseMove).X)
}

func TestSetCursorForwardsShape(t *testing.T) {
	b := &fakeBackend{}
	w := newTestWindow(b)

	assert.Equal(t, CursorArrow, w.Cursor())
	require.NoError(t, w.SetCursor(CursorArrow))
	assert.Empty(t, b.cursors, "redundant shape change skips the backend")

	require.NoError(t, w.SetCursor(CursorHidden))
	assert.Equal(t, CursorHidden, w.Cursor())
	require.NoError(t, w.SetCursor(CursorHand))
	assert.Equal(t, []Cursor{CursorHidden, CursorHand}, b.cursors)
}

func TestPollEventsFeedsInputManager(t *testing.T) {
	b := &fakeBackend{pending: []event.Event{
		event.KeyDown{Key: 40},
		event.MouseMove{X: 30, Y: 40},
	}}
	w := newTestWindow(b)

	in := input.NewManager()
	_, err := w.PollEvents(in)
	require.NoError(t, err)

	assert.True(t, in.IsKeyDown(40))
	assert.True(t, in.IsKeyPressed(40))
	x, y := in.MousePosition()
	assert.Equal(t, 30, x)
	assert.Equal(t, 40, y)

	// Next frame with nothing pending: held, but no longer pressed.
	_, err = w.PollEvents(in)
	require.NoError(t, err)
	assert.True(t, in.IsKeyDown(40))
	assert.False(t, in.IsKeyPressed(40))
}
