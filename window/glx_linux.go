//go:build linux

package window

import (
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"
)

// GLX constants, from GL/glx.h.
const (
	glxXRenderable  = 0x8012
	glxDrawableType = 0x8010
	glxWindowBit    = 0x0001
	glxRenderType   = 0x8011
	glxRGBABit      = 0x0001
	glxXVisualType  = 0x0022
	glxTrueColor    = 0x8002
	glxRedSize      = 8
	glxGreenSize    = 9
	glxBlueSize     = 10
	glxAlphaSize    = 11
	glxDepthSize    = 12
	glxStencilSize  = 13
	glxDoubleBuffer = 5
	glxRGBAType     = 0x8014
	glxNone         = 0

	// GLX_ARB_create_context
	glxContextMajorVersionARB = 0x2091
	glxContextMinorVersionARB = 0x2092
	glxContextProfileMaskARB  = 0x9126
	glxContextCoreProfileBit  = 0x0001
	glxContextCompatProfile   = 0x0002
)

var (
	glxChooseFBConfig        func(dpy uintptr, screen int32, attribs *int32, count *int32) *uintptr
	glxGetVisualFromFBConfig func(dpy uintptr, config uintptr) *xVisualInfo
	glxCreateNewContext      func(dpy uintptr, config uintptr, renderType int32, share uintptr, direct int32) uintptr
	glxMakeCurrent           func(dpy uintptr, drawable uintptr, ctx uintptr) int32
	glxSwapBuffers           func(dpy uintptr, drawable uintptr)
	glxDestroyContext        func(dpy uintptr, ctx uintptr)
	glxGetProcAddress        func(name *byte) uintptr
)

func registerGLX(lib uintptr) {
	purego.RegisterLibFunc(&glxChooseFBConfig, lib, "glXChooseFBConfig")
	purego.RegisterLibFunc(&glxGetVisualFromFBConfig, lib, "glXGetVisualFromFBConfig")
	purego.RegisterLibFunc(&glxCreateNewContext, lib, "glXCreateNewContext")
	purego.RegisterLibFunc(&glxMakeCurrent, lib, "glXMakeCurrent")
	purego.RegisterLibFunc(&glxSwapBuffers, lib, "glXSwapBuffers")
	purego.RegisterLibFunc(&glxDestroyContext, lib, "glXDestroyContext")
	purego.RegisterLibFunc(&glxGetProcAddress, lib, "glXGetProcAddressARB")
}

// glxContext owns the native GLX rendering context for one window.
type glxContext struct {
	dpy      uintptr
	drawable uintptr
	ctx      uintptr

	// glXSwapIntervalEXT, when the driver exposes it.
	swapIntervalEXT func(dpy uintptr, drawable uintptr, interval int32)
}

// chooseFBConfig picks the first double-buffered true-color framebuffer
// configuration with an 8-bit RGBA visual and 24/8 depth/stencil. The caller
// must XFree the returned visual.
func chooseFBConfig(dpy uintptr, screen int32) (uintptr, *xVisualInfo, error) {
	attribs := []int32{
		glxXRenderable, 1,
		glxDrawableType, glxWindowBit,
		glxRenderType, glxRGBABit,
		glxXVisualType, glxTrueColor,
		glxRedSize, 8,
		glxGreenSize, 8,
		glxBlueSize, 8,
		glxAlphaSize, 8,
		glxDepthSize, 24,
		glxStencilSize, 8,
		glxDoubleBuffer, 1,
		glxNone,
	}

	var count int32
	configs := glxChooseFBConfig(dpy, screen, &attribs[0], &count)
	if configs == nil || count == 0 {
		return 0, nil, fmt.Errorf("%w: no matching GLX framebuffer configs", ErrPixelFormatUnsupported)
	}
	config := *configs
	xFree(unsafe.Pointer(configs))

	visual := glxGetVisualFromFBConfig(dpy, config)
	if visual == nil {
		return 0, nil, fmt.Errorf("%w: framebuffer config has no visual", ErrPixelFormatUnsupported)
	}
	return config, visual, nil
}

// createGLXContext creates the real versioned context and makes it current.
// GLX exposes glXCreateContextAttribsARB without needing a current context,
// so unlike WGL no dummy context is involved; drivers predating the
// extension fall back to glXCreateNewContext.
func createGLXContext(dpy, win, config uintptr, cfg Config) (*glxContext, error) {
	var ctx uintptr

	if create := glxGetProcAddress(cString("glXCreateContextAttribsARB")); create != 0 {
		var createContextAttribs func(dpy uintptr, config uintptr, share uintptr, direct int32, attribs *int32) uintptr
		purego.RegisterFunc(&createContextAttribs, create)

		profile := int32(glxContextCoreProfileBit)
		if cfg.Compat {
			profile = glxContextCompatProfile
		}
		attribs := []int32{
			glxContextMajorVersionARB, int32(cfg.GLMajor),
			glxContextMinorVersionARB, int32(cfg.GLMinor),
			glxContextProfileMaskARB, profile,
			glxNone,
		}
		ctx = createContextAttribs(dpy, config, 0, 1, &attribs[0])
	} else {
		logger.Debug("glXCreateContextAttribsARB unavailable, using legacy context")
		ctx = glxCreateNewContext(dpy, config, glxRGBAType, 0, 1)
	}
	if ctx == 0 {
		return nil, fmt.Errorf("%w: GLX refused a %d.%d context", ErrContextCreationFailed, cfg.GLMajor, cfg.GLMinor)
	}

	if glxMakeCurrent(dpy, win, ctx) == 0 {
		glxDestroyContext(dpy, ctx)
		return nil, fmt.Errorf("%w: glXMakeCurrent failed", ErrContextCreationFailed)
	}

	c := &glxContext{dpy: dpy, drawable: win, ctx: ctx}
	if p := glxGetProcAddress(cString("glXSwapIntervalEXT")); p != 0 {
		purego.RegisterFunc(&c.swapIntervalEXT, p)
	}
	return c, nil
}

func (c *glxContext) makeCurrent() error {
	if glxMakeCurrent(c.dpy, c.drawable, c.ctx) == 0 {
		return fmt.Errorf("%w: glXMakeCurrent failed", ErrContextCreationFailed)
	}
	return nil
}

func (c *glxContext) swap() {
	glxSwapBuffers(c.dpy, c.drawable)
}

func (c *glxContext) setSwapInterval(interval int32) error {
	if c.swapIntervalEXT == nil {
		return fmt.Errorf("GLX_EXT_swap_control not supported")
	}
	c.swapIntervalEXT(c.dpy, c.drawable, interval)
	return nil
}

// destroy unbinds and releases the context. Safe to call twice.
func (c *glxContext) destroy() {
	if c.ctx == 0 {
		return
	}
	glxMakeCurrent(c.dpy, 0, 0)
	glxDestroyContext(c.dpy, c.ctx)
	c.ctx = 0
}
