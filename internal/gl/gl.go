// Package gl binds the handful of OpenGL entry points the demo needs. Entry
// points are resolved through the context that created the window, so the
// same binding works against GLX and WGL drivers.
package gl

import (
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"
)

const (
	// ColorBufferBit is a mask used with Clear to clear the color buffer.
	ColorBufferBit = 0x00004000
	// DepthBufferBit is a mask used with Clear to clear the depth buffer.
	DepthBufferBit = 0x00000100

	// GetString parameters.
	//
	// Vendor returns the company responsible for the GL implementation.
	Vendor = 0x1F00
	// Renderer returns the name of the renderer.
	Renderer = 0x1F01
	// Version returns the GL version string of the current context.
	Version = 0x1F02
)

// Resolver looks up a GL entry point in the current context. Window
// ProcAddress satisfies it.
type Resolver func(name string) (uintptr, error)

// GL is a loaded set of entry points. It is bound to the context that
// resolved it and must only be called on that context's thread.
type GL struct {
	clearColor func(float32, float32, float32, float32)
	clear      func(uint32)
	viewport   func(int32, int32, int32, int32)
	getError   func() uint32
	getString  func(uint32) uintptr
}

// Load resolves every entry point through the given resolver. The context
// must be current on the calling thread.
func Load(resolve Resolver) (*GL, error) {
	gl := &GL{}
	for _, ep := range []struct {
		name string
		fptr any
	}{
		{"glClearColor", &gl.clearColor},
		{"glClear", &gl.clear},
		{"glViewport", &gl.viewport},
		{"glGetError", &gl.getError},
		{"glGetString", &gl.getString},
	} {
		addr, err := resolve(ep.name)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", ep.name, err)
		}
		purego.RegisterFunc(ep.fptr, addr)
	}
	return gl, nil
}

// ClearColor sets the clear color used by Clear.
func (gl *GL) ClearColor(r, g, b, a float32) {
	gl.clearColor(r, g, b, a)
}

// Clear clears buffers to preset values (e.g. ColorBufferBit).
func (gl *GL) Clear(mask uint32) {
	gl.clear(mask)
}

// Viewport sets the transformation from normalized device coordinates to
// window coordinates.
func (gl *GL) Viewport(x, y, width, height int32) {
	gl.viewport(x, y, width, height)
}

// GetError returns and clears the oldest recorded GL error flag.
func (gl *GL) GetError() uint32 {
	return gl.getError()
}

// GetString returns a string describing a GL property of the current context,
// or the empty string when the name is not recognized.
func (gl *GL) GetString(name uint32) string {
	return gostring((*byte)(unsafe.Pointer(gl.getString(uint32(name)))))
}

func gostring(ptr *byte) string {
	if ptr == nil {
		return ""
	}
	var bytes []byte
	for p := ptr; *p != 0; p = (*byte)(unsafe.Pointer(uintptr(unsafe.Pointer(p)) + 1)) {
		bytes = append(bytes, *p)
	}
	return string(bytes)
}
