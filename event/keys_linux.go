//go:build linux

package event

// X11 keycodes as delivered by the core protocol (evdev scancode + 8 on any
// modern server). Values copied from a standard pc105 layout.
const (
	KeyUnknown Key = 0

	Key1 Key = 0x0a
	Key2 Key = 0x0b
	Key3 Key = 0x0c
	Key4 Key = 0x0d
	Key5 Key = 0x0e
	Key6 Key = 0x0f
	Key7 Key = 0x10
	Key8 Key = 0x11
	Key9 Key = 0x12
	Key0 Key = 0x13

	KeyQ Key = 0x18
	KeyW Key = 0x19
	KeyE Key = 0x1a
	KeyR Key = 0x1b
	KeyT Key = 0x1c
	KeyY Key = 0x1d
	KeyU Key = 0x1e
	KeyI Key = 0x1f
	KeyO Key = 0x20
	KeyP Key = 0x21
	KeyA Key = 0x26
	KeyS Key = 0x27
	KeyD Key = 0x28
	KeyF Key = 0x29
	KeyG Key = 0x2a
	KeyH Key = 0x2b
	KeyJ Key = 0x2c
	KeyK Key = 0x2d
	KeyL Key = 0x2e
	KeyZ Key = 0x34
	KeyX Key = 0x35
	KeyC Key = 0x36
	KeyV Key = 0x37
	KeyB Key = 0x38
	KeyN Key = 0x39
	KeyM Key = 0x3a

	KeySpace     Key = 0x41
	KeyEscape    Key = 0x09
	KeyGrave     Key = 0x31
	KeyTab       Key = 0x17
	KeyCapsLock  Key = 0x42
	KeyLShift    Key = 0x32
	KeyLCtrl     Key = 0x25
	KeyLAlt      Key = 0x40
	KeyRAlt      Key = 0x6c
	KeyRCtrl     Key = 0x69
	KeyRShift    Key = 0x3e
	KeyReturn    Key = 0x24
	KeyBackspace Key = 0x16

	KeyRight     Key = 0x72
	KeyLeft      Key = 0x71
	KeyArrowDown Key = 0x74
	KeyArrowUp   Key = 0x6f

	KeyInsert   Key = 0x76
	KeyDelete   Key = 0x77
	KeyHome     Key = 0x6e
	KeyEnd      Key = 0x73
	KeyPageUp   Key = 0x70
	KeyPageDown Key = 0x75

	KeyF1  Key = 0x43
	KeyF2  Key = 0x44
	KeyF3  Key = 0x45
	KeyF4  Key = 0x46
	KeyF5  Key = 0x47
	KeyF6  Key = 0x48
	KeyF7  Key = 0x49
	KeyF8  Key = 0x4a
	KeyF9  Key = 0x4b
	KeyF10 Key = 0x4c
	KeyF11 Key = 0x5f
	KeyF12 Key = 0x60
)
