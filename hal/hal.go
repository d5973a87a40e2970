package hal

import (
	"errors"
	"image/color"

	"tinygo.org/x/drivers"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a minimal output pin abstraction.
type LED interface {
	High()
	Low()
}

var ErrNotImplemented = errors.New("not implemented")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// Display provides the drawable status screen (if available).
//
// The returned displayer owns the device lifecycle; callers only draw into it.
type Display interface {
	Displayer() drivers.Displayer
}

// Pixels drives addressable RGB LEDs.
type Pixels interface {
	Len() int
	WriteColors(c []color.RGBA) error
}

// ReportKind identifies a HID report.
type ReportKind uint8

const (
	ReportKeyboard ReportKind = iota + 1
	ReportConsumer
)

func (k ReportKind) String() string {
	switch k {
	case ReportKeyboard:
		return "keyboard"
	case ReportConsumer:
		return "consumer"
	default:
		return "unknown"
	}
}

// HID accepts finished HID reports. Transport is up to the implementation.
type HID interface {
	WriteReport(kind ReportKind, report []byte) error
}

// HAL provides the only contact point between the firmware and the outside world.
type HAL interface {
	Logger() Logger
	LED() LED
	GPIO() GPIO
	Display() Display
	Pixels() Pixels
	HID() HID
}
