//go:build windows

package event

// Win32 set-1 scancodes, extracted from bits 16..23 of the WM_KEYDOWN lParam.
const (
	KeyUnknown Key = 0

	Key1 Key = 0x02
	Key2 Key = 0x03
	Key3 Key = 0x04
	Key4 Key = 0x05
	Key5 Key = 0x06
	Key6 Key = 0x07
	Key7 Key = 0x08
	Key8 Key = 0x09
	Key9 Key = 0x0a
	Key0 Key = 0x0b

	KeyQ Key = 0x10
	KeyW Key = 0x11
	KeyE Key = 0x12
	KeyR Key = 0x13
	KeyT Key = 0x14
	KeyY Key = 0x15
	KeyU Key = 0x16
	KeyI Key = 0x17
	KeyO Key = 0x18
	KeyP Key = 0x19
	KeyA Key = 0x1e
	KeyS Key = 0x1f
	KeyD Key = 0x20
	KeyF Key = 0x21
	KeyG Key = 0x22
	KeyH Key = 0x23
	KeyJ Key = 0x24
	KeyK Key = 0x25
	KeyL Key = 0x26
	KeyZ Key = 0x2c
	KeyX Key = 0x2d
	KeyC Key = 0x2e
	KeyV Key = 0x2f
	KeyB Key = 0x30
	KeyN Key = 0x31
	KeyM Key = 0x32

	KeySpace     Key = 0x39
	KeyEscape    Key = 0x01
	KeyGrave     Key = 0x29
	KeyTab       Key = 0x0f
	KeyCapsLock  Key = 0x3a
	KeyLShift    Key = 0x2a
	KeyLCtrl     Key = 0x1d
	KeyLAlt      Key = 0x38
	KeyRAlt      Key = 0x38 // Same scancode as LAlt; the extended bit is dropped.
	KeyRCtrl     Key = 0x1d // Same scancode as LCtrl.
	KeyRShift    Key = 0x36
	KeyReturn    Key = 0x1c
	KeyBackspace Key = 0x0e

	KeyRight     Key = 0x4d
	KeyLeft      Key = 0x4b
	KeyArrowDown Key = 0x50
	KeyArrowUp   Key = 0x48

	KeyInsert   Key = 0x52
	KeyDelete   Key = 0x53
	KeyHome     Key = 0x47
	KeyEnd      Key = 0x4f
	KeyPageUp   Key = 0x49
	KeyPageDown Key = 0x51

	KeyF1  Key = 0x3b
	KeyF2  Key = 0x3c
	KeyF3  Key = 0x3d
	KeyF4  Key = 0x3e
	KeyF5  Key = 0x3f
	KeyF6  Key = 0x40
	KeyF7  Key = 0x41
	KeyF8  Key = 0x42
	KeyF9  Key = 0x43
	KeyF10 Key = 0x44
	KeyF11 Key = 0x57
	KeyF12 Key = 0x58
)
