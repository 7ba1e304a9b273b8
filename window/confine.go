package window

import (
	"image"

	"github.com/vindu-dev/vindu/event"
)

// warpFunc moves the OS cursor to window-local coordinates.
type warpFunc func(x, y int) error

// confiner keeps the OS cursor inside an optional rectangle without breaking
// relative-delta semantics. Deltas are always measured between raw reported
// positions, so camera-style controls see the true mouse displacement even
// when the cursor has hit a region edge and been warped back. The region is
// inclusive of its max edge: image.Rect(10, 10, 110, 110) confines to
// [10,110]x[10,110].
type confiner struct {
	region    *image.Rectangle
	haveLast  bool
	lastX     int
	lastY     int
	warpX     int
	warpY     int
	warpQueue int // corrective warps issued whose echo has not arrived yet
}

// setRegion installs or clears the confinement rectangle. curX/curY is the
// current cursor position; a region set while the cursor is outside it warps
// immediately. Warp failure degrades to unconfined with a logged warning.
func (c *confiner) setRegion(r *image.Rectangle, curX, curY int, warp warpFunc) {
	if r == nil {
		c.region = nil
		return
	}
	rect := r.Canon()
	c.region = &rect

	cx, cy := clampPoint(curX, curY, rect)
	if cx == curX && cy == curY {
		return
	}
	if err := warp(cx, cy); err != nil {
		logger.Warn("cursor warp failed, confinement disabled", "err", err)
		c.region = nil
		return
	}
	c.noteWarp(cx, cy)
}

// installRegion swaps the active rectangle without issuing a warp.
func (c *confiner) installRegion(r *image.Rectangle) {
	if r == nil {
		c.region = nil
		return
	}
	rect := r.Canon()
	c.region = &rect
}

// processMove folds one raw mouse move into the confinement state. It returns
// the event to emit, or ok=false when the move is the echo of a corrective
// warp and must be suppressed. Clamping only happens while active (the window
// is focused); an inactive move still tracks position so deltas stay correct.
func (c *confiner) processMove(x, y int, warp warpFunc, active bool) (event.MouseMove, bool) {
	if c.warpQueue > 0 && x == c.warpX && y == c.warpY {
		// Our own warp coming back through the message pump, not user motion.
		c.warpQueue--
		c.haveLast = true
		c.lastX, c.lastY = x, y
		return event.MouseMove{}, false
	}

	var dx, dy int
	if c.haveLast {
		dx, dy = x-c.lastX, y-c.lastY
	}
	c.haveLast = true
	c.lastX, c.lastY = x, y

	rx, ry := x, y
	if active && c.region != nil {
		rx, ry = clampPoint(x, y, *c.region)
		if rx != x || ry != y {
			if err := warp(rx, ry); err != nil {
				logger.Warn("cursor warp failed, confinement disabled", "err", err)
				c.region = nil
				rx, ry = x, y
			} else {
				c.noteWarp(rx, ry)
				// The pointer physically sits at the clamped position now, so
				// the next raw delta is measured from there.
				c.lastX, c.lastY = rx, ry
			}
		}
	}

	return event.MouseMove{X: rx, Y: ry, DX: dx, DY: dy}, true
}

func (c *confiner) noteWarp(x, y int) {
	c.warpX, c.warpY = x, y
	c.warpQueue++
}

func clampPoint(x, y int, r image.Rectangle) (int, int) {
	if x < r.Min.X {
		x = r.Min.X
	} else if x > r.Max.X {
		x = r.Max.X
	}
	if y < r.Min.Y {
		y = r.Min.Y
	} else if y > r.Max.Y {
		y = r.Max.Y
	}
	return x, y
}
