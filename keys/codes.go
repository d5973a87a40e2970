// Package keys defines logical key codes and resolves matrix coordinates to them.
package keys

import "fmt"

// Code is a logical key. The top nibble is the HID usage page, the rest is
// the usage ID.
type Code uint16

// Page is the HID usage page a code belongs to.
type Page uint8

const (
	PageNone Page = iota
	PageKeyboard
	PageConsumer
)

// No is the empty key. An event carrying it is a no-op.
const No Code = 0

// Keyboard returns the code for a keyboard/keypad page usage.
func Keyboard(usage uint8) Code { return Code(uint16(PageKeyboard)<<12 | uint16(usage)) }

// Consumer returns the code for a consumer page usage.
func Consumer(usage uint16) Code { return Code(uint16(PageConsumer)<<12 | usage&0x0FFF) }

func (c Code) Page() Page    { return Page(c >> 12) }
func (c Code) Usage() uint16 { return uint16(c) & 0x0FFF }
func (c Code) IsModifier() bool {
	return c.Page() == PageKeyboard && c.Usage() >= 0xE0 && c.Usage() <= 0xE7
}

// ModifierBit returns the bit this modifier sets in a boot keyboard report.
func (c Code) ModifierBit() uint8 {
	if !c.IsModifier() {
		return 0
	}
	return 1 << (c.Usage() - 0xE0)
}

func (c Code) String() string {
	if c == No {
		return "NO"
	}
	if n, ok := codeNames[c]; ok {
		return n
	}
	switch c.Page() {
	case PageKeyboard:
		return fmt.Sprintf("KB(0x%02x)", c.Usage())
	case PageConsumer:
		return fmt.Sprintf("CC(0x%03x)", c.Usage())
	default:
		return fmt.Sprintf("0x%04x", uint16(c))
	}
}

var (
	A = Keyboard(0x04)
	B = Keyboard(0x05)
	C = Keyboard(0x06)
	D = Keyboard(0x07)
	E = Keyboard(0x08)
	F = Keyboard(0x09)
	G = Keyboard(0x0A)
	H = Keyboard(0x0B)
	I = Keyboard(0x0C)
	J = Keyboard(0x0D)
	K = Keyboard(0x0E)
	L = Keyboard(0x0F)
	M = Keyboard(0x10)
	N = Keyboard(0x11)
	O = Keyboard(0x12)
	P = Keyboard(0x13)
	Q = Keyboard(0x14)
	R = Keyboard(0x15)
	S = Keyboard(0x16)
	T = Keyboard(0x17)
	U = Keyboard(0x18)
	V = Keyboard(0x19)
	W = Keyboard(0x1A)
	X = Keyboard(0x1B)
	Y = Keyboard(0x1C)
	Z = Keyboard(0x1D)

	N1 = Keyboard(0x1E)
	N2 = Keyboard(0x1F)
	N3 = Keyboard(0x20)
	N4 = Keyboard(0x21)
	N5 = Keyboard(0x22)
	N6 = Keyboard(0x23)
	N7 = Keyboard(0x24)
	N8 = Keyboard(0x25)
	N9 = Keyboard(0x26)
	N0 = Keyboard(0x27)

	Enter     = Keyboard(0x28)
	Escape    = Keyboard(0x29)
	Backspace = Keyboard(0x2A)
	Tab       = Keyboard(0x2B)
	Space     = Keyboard(0x2C)
	Minus     = Keyboard(0x2D)
	Equal     = Keyboard(0x2E)
	Dot       = Keyboard(0x37)

	F1  = Keyboard(0x3A)
	F2  = Keyboard(0x3B)
	F3  = Keyboard(0x3C)
	F4  = Keyboard(0x3D)
	F5  = Keyboard(0x3E)
	F6  = Keyboard(0x3F)
	F7  = Keyboard(0x40)
	F8  = Keyboard(0x41)
	F9  = Keyboard(0x42)
	F10 = Keyboard(0x43)
	F11 = Keyboard(0x44)
	F12 = Keyboard(0x45)

	Right = Keyboard(0x4F)
	Left  = Keyboard(0x50)
	Down  = Keyboard(0x51)
	Up    = Keyboard(0x52)

	KP1 = Keyboard(0x59)
	KP2 = Keyboard(0x5A)
	KP3 = Keyboard(0x5B)
	KP4 = Keyboard(0x5C)
	KP5 = Keyboard(0x5D)
	KP6 = Keyboard(0x5E)
	KP7 = Keyboard(0x5F)
	KP8 = Keyboard(0x60)
	KP9 = Keyboard(0x61)
	KP0 = Keyboard(0x62)

	LCtrl  = Keyboard(0xE0)
	LShift = Keyboard(0xE1)
	LAlt   = Keyboard(0xE2)
	LGUI   = Keyboard(0xE3)
	RCtrl  = Keyboard(0xE4)
	RShift = Keyboard(0xE5)
	RAlt   = Keyboard(0xE6)
	RGUI   = Keyboard(0xE7)

	MediaNext    = Consumer(0x0B5)
	MediaPrev    = Consumer(0x0B6)
	MediaStop    = Consumer(0x0B7)
	MediaPlay    = Consumer(0x0CD)
	Mute         = Consumer(0x0E2)
	VolumeUp     = Consumer(0x0E9)
	VolumeDown   = Consumer(0x0EA)
	BrightnessUp = Consumer(0x06F)
	BrightnessDn = Consumer(0x070)
)
