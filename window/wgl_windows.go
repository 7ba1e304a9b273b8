//go:build windows

package window

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	gdi32    = windows.NewLazySystemDLL("gdi32.dll")
	opengl32 = windows.NewLazySystemDLL("opengl32.dll")

	procChoosePixelFormat   = gdi32.NewProc("ChoosePixelFormat")
	procDescribePixelFormat = gdi32.NewProc("DescribePixelFormat")
	procSetPixelFormat      = gdi32.NewProc("SetPixelFormat")
	procSwapBuffers         = gdi32.NewProc("SwapBuffers")

	procWglCreateContext  = opengl32.NewProc("wglCreateContext")
	procWglDeleteContext  = opengl32.NewProc("wglDeleteContext")
	procWglMakeCurrent    = opengl32.NewProc("wglMakeCurrent")
	procWglGetProcAddress = opengl32.NewProc("wglGetProcAddress")
)

const (
	pfdTypeRGBA      = 0
	pfdMainPlane     = 0
	pfdDoubleBuffer  = 0x00000001
	pfdDrawToWindow  = 0x00000004
	pfdSupportOpenGL = 0x00000020
)

// WGL_ARB_create_context
const (
	wglContextMajorVersionARB  = 0x2091
	wglContextMinorVersionARB  = 0x2092
	wglContextProfileMaskARB   = 0x9126
	wglContextCoreProfileBit   = 0x0001
	wglContextCompatProfileBit = 0x0002
)

// Mirrors PIXELFORMATDESCRIPTOR (must be 40 bytes).
type pixelFormatDescriptor struct {
	nSize           uint16
	nVersion        uint16
	dwFlags         uint32
	iPixelType      byte
	cColorBits      byte
	cRedBits        byte
	cRedShift       byte
	cGreenBits      byte
	cGreenShift     byte
	cBlueBits       byte
	cBlueShift      byte
	cAlphaBits      byte
	cAlphaShift     byte
	cAccumBits      byte
	cAccumRedBits   byte
	cAccumGreenBits byte
	cAccumBlueBits  byte
	cAccumAlphaBits byte
	cDepthBits      byte
	cStencilBits    byte
	cAuxBuffers     byte
	iLayerType      byte
	bReserved       byte
	dwLayerMask     uint32
	dwVisibleMask   uint32
	dwDamageMask    uint32
}

// choosePixelFormat negotiates and sets a double-buffered RGBA format with
// 24/8 depth/stencil on the device context. ChoosePixelFormat occasionally
// hands back a format missing required flags, so the described format is
// verified and a strict enumeration over all formats is the fallback.
func choosePixelFormat(hdc windows.Handle) error {
	desired := pixelFormatDescriptor{
		nSize:        uint16(unsafe.Sizeof(pixelFormatDescriptor{})),
		nVersion:     1,
		dwFlags:      pfdDrawToWindow | pfdSupportOpenGL | pfdDoubleBuffer,
		iPixelType:   pfdTypeRGBA,
		cColorBits:   24,
		cAlphaBits:   8,
		cDepthBits:   24,
		cStencilBits: 8,
		iLayerType:   pfdMainPlane,
	}

	pf, _, _ := procChoosePixelFormat.Call(uintptr(hdc), uintptr(unsafe.Pointer(&desired)))
	if pf != 0 {
		var chosen pixelFormatDescriptor
		r, _, _ := procDescribePixelFormat.Call(
			uintptr(hdc), pf,
			unsafe.Sizeof(chosen), uintptr(unsafe.Pointer(&chosen)),
		)
		if r != 0 && pfdUsable(&chosen, &desired) {
			ok, _, err := procSetPixelFormat.Call(uintptr(hdc), pf, uintptr(unsafe.Pointer(&chosen)))
			if ok == 0 {
				return fmt.Errorf("%w: SetPixelFormat: %v", ErrPixelFormatUnsupported, err)
			}
			return nil
		}
	}

	return enumPixelFormat(hdc, &desired)
}

func pfdUsable(got, want *pixelFormatDescriptor) bool {
	const required = pfdDrawToWindow | pfdSupportOpenGL | pfdDoubleBuffer
	return got.dwFlags&required == required &&
		got.iPixelType == pfdTypeRGBA &&
		got.cColorBits >= want.cColorBits &&
		got.cDepthBits >= want.cDepthBits &&
		got.cStencilBits >= want.cStencilBits &&
		got.iLayerType == pfdMainPlane
}

func enumPixelFormat(hdc windows.Handle, want *pixelFormatDescriptor) error {
	var pfd pixelFormatDescriptor
	max, _, _ := procDescribePixelFormat.Call(
		uintptr(hdc), 1,
		unsafe.Sizeof(pfd), uintptr(unsafe.Pointer(&pfd)),
	)
	if max == 0 {
		return fmt.Errorf("%w: DescribePixelFormat returned no formats", ErrPixelFormatUnsupported)
	}

	for i := uintptr(1); i <= max; i++ {
		r, _, _ := procDescribePixelFormat.Call(
			uintptr(hdc), i,
			unsafe.Sizeof(pfd), uintptr(unsafe.Pointer(&pfd)),
		)
		if r == 0 || !pfdUsable(&pfd, want) {
			continue
		}
		ok, _, err := procSetPixelFormat.Call(uintptr(hdc), i, uintptr(unsafe.Pointer(&pfd)))
		if ok == 0 {
			return fmt.Errorf("%w: SetPixelFormat: %v", ErrPixelFormatUnsupported, err)
		}
		return nil
	}
	return fmt.Errorf("%w: no usable OpenGL pixel format", ErrPixelFormatUnsupported)
}

// wglContext owns the native WGL rendering context for one window.
type wglContext struct {
	hdc windows.Handle
	ctx windows.Handle

	// wglSwapIntervalEXT, when the driver exposes it.
	swapIntervalEXT uintptr
}

// createWGLContext performs the two-phase WGL creation sequence. The modern
// entry points (wglCreateContextAttribsARB, wglSwapIntervalEXT) are only
// resolvable through wglGetProcAddress while some context is already
// current, so a throwaway legacy context is created first, used to resolve
// them and create the real versioned context, then deleted. Callers never
// see the dummy.
func createWGLContext(hdc windows.Handle, cfg Config) (*wglContext, error) {
	dummy, _, err := procWglCreateContext.Call(uintptr(hdc))
	if dummy == 0 {
		return nil, fmt.Errorf("%w: wglCreateContext: %v", ErrContextCreationFailed, err)
	}
	if ok, _, err := procWglMakeCurrent.Call(uintptr(hdc), dummy); ok == 0 {
		procWglDeleteContext.Call(dummy)
		return nil, fmt.Errorf("%w: wglMakeCurrent: %v", ErrContextCreationFailed, err)
	}

	createAttribs, _, _ := procWglGetProcAddress.Call(uintptr(unsafe.Pointer(cStringWin("wglCreateContextAttribsARB"))))
	if !wglAddrValid(createAttribs) {
		// Pre-3.0 drivers: the legacy context is the best available. Honor
		// an explicit legacy request, fail a modern one.
		if cfg.GLMajor < 3 {
			return finishWGLContext(hdc, windows.Handle(dummy))
		}
		procWglMakeCurrent.Call(uintptr(hdc), 0)
		procWglDeleteContext.Call(dummy)
		return nil, fmt.Errorf("%w: WGL_ARB_create_context not supported", ErrContextCreationFailed)
	}

	profile := uintptr(wglContextCoreProfileBit)
	if cfg.Compat {
		profile = wglContextCompatProfileBit
	}
	attribs := []int32{
		wglContextMajorVersionARB, int32(cfg.GLMajor),
		wglContextMinorVersionARB, int32(cfg.GLMinor),
		wglContextProfileMaskARB, int32(profile),
		0,
	}

	ctx, _, errno := syscall.SyscallN(createAttribs, uintptr(hdc), 0, uintptr(unsafe.Pointer(&attribs[0])))
	procWglMakeCurrent.Call(uintptr(hdc), 0)
	procWglDeleteContext.Call(dummy)
	if ctx == 0 {
		return nil, fmt.Errorf("%w: wglCreateContextAttribsARB refused a %d.%d context: %v",
			ErrContextCreationFailed, cfg.GLMajor, cfg.GLMinor, errno)
	}

	if ok, _, err := procWglMakeCurrent.Call(uintptr(hdc), ctx); ok == 0 {
		procWglDeleteContext.Call(ctx)
		return nil, fmt.Errorf("%w: wglMakeCurrent: %v", ErrContextCreationFailed, err)
	}
	return finishWGLContext(hdc, windows.Handle(ctx))
}

func finishWGLContext(hdc, ctx windows.Handle) (*wglContext, error) {
	c := &wglContext{hdc: hdc, ctx: ctx}
	if p, _, _ := procWglGetProcAddress.Call(uintptr(unsafe.Pointer(cStringWin("wglSwapIntervalEXT")))); wglAddrValid(p) {
		c.swapIntervalEXT = p
	}
	return c, nil
}

func (c *wglContext) makeCurrent() error {
	if ok, _, err := procWglMakeCurrent.Call(uintptr(c.hdc), uintptr(c.ctx)); ok == 0 {
		return fmt.Errorf("%w: wglMakeCurrent: %v", ErrContextCreationFailed, err)
	}
	return nil
}

func (c *wglContext) swap() error {
	if ok, _, err := procSwapBuffers.Call(uintptr(c.hdc)); ok == 0 {
		return fmt.Errorf("%w: %v", ErrSwapFailed, err)
	}
	return nil
}

func (c *wglContext) setSwapInterval(interval int32) error {
	if c.swapIntervalEXT == 0 {
		return fmt.Errorf("WGL_EXT_swap_control not supported")
	}
	if ok, _, _ := syscall.SyscallN(c.swapIntervalEXT, uintptr(interval)); ok == 0 {
		return fmt.Errorf("wglSwapIntervalEXT failed")
	}
	return nil
}

// destroy unbinds and releases the context. Safe to call twice.
func (c *wglContext) destroy() {
	if c.ctx == 0 {
		return
	}
	procWglMakeCurrent.Call(uintptr(c.hdc), 0)
	procWglDeleteContext.Call(uintptr(c.ctx))
	c.ctx = 0
}

// wglProcAddress resolves a GL entry point. wglGetProcAddress only knows
// post-1.1 functions; legacy ones live as plain exports of opengl32.dll.
func wglProcAddress(name string) (uintptr, error) {
	p, _, _ := procWglGetProcAddress.Call(uintptr(unsafe.Pointer(cStringWin(name))))
	if wglAddrValid(p) {
		return p, nil
	}
	if err := opengl32.Load(); err == nil {
		if addr, err := windows.GetProcAddress(windows.Handle(opengl32.Handle()), name); err == nil && addr != 0 {
			return addr, nil
		}
	}
	return 0, fmt.Errorf("GL entry point %q not found", name)
}

// wglGetProcAddress returns -1, 0, 1, 2 or 3 on failure.
func wglAddrValid(p uintptr) bool {
	return p > 3 && p != ^uintptr(0)
}

func cStringWin(s string) *byte {
	b := append([]byte(s), 0)
	return &b[0]
}
