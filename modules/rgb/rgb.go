// Package rgb cycles the RGB pixels through the colour wheel.
package rgb

import (
	"fmt"
	"image/color"

	"macropad/hal"
	"macropad/kbd"
)

const (
	DefaultBrightness = 25
	DefaultDivisor    = 8
)

// Options configure the rainbow. Zero values take the defaults.
type Options struct {
	// Brightness in percent, 1..100.
	Brightness int
	// Divisor is the number of iterations per hue step.
	Divisor int
}

// Module advances the hue in after_output, at most once every Divisor
// iterations. Pixels go dark on suspend and pick up where they left off on
// resume.
type Module struct {
	kbd.Base

	px      hal.Pixels
	value   uint8
	divisor uint32

	tick uint32
	hue  uint8
	dark bool
	buf  []color.RGBA
}

func New(px hal.Pixels, opts Options) (*Module, error) {
	if px == nil {
		return nil, fmt.Errorf("rgb: nil pixels")
	}
	if opts.Brightness == 0 {
		opts.Brightness = DefaultBrightness
	}
	if opts.Divisor == 0 {
		opts.Divisor = DefaultDivisor
	}
	if opts.Brightness < 0 || opts.Brightness > 100 {
		return nil, fmt.Errorf("rgb: brightness %d out of range", opts.Brightness)
	}
	if opts.Divisor < 0 {
		return nil, fmt.Errorf("rgb: divisor %d out of range", opts.Divisor)
	}
	return &Module{
		px:      px,
		value:   uint8(opts.Brightness * 255 / 100),
		divisor: uint32(opts.Divisor),
		buf:     make([]color.RGBA, px.Len()),
	}, nil
}

func (m *Module) Name() string { return "rgb" }

// Hue returns the current position on the wheel.
func (m *Module) Hue() uint8 { return m.hue }

func (m *Module) OnBoot(*kbd.State) error { return m.show() }

func (m *Module) AfterOutput(*kbd.State) error {
	if m.dark {
		return nil
	}
	m.tick++
	if m.tick%m.divisor != 0 {
		return nil
	}
	m.hue++
	return m.show()
}

func (m *Module) OnSuspend(*kbd.State) error {
	m.dark = true
	return m.fill(color.RGBA{A: 0xff})
}

func (m *Module) OnResume(*kbd.State) error {
	m.dark = false
	return m.show()
}

func (m *Module) show() error {
	return m.fill(Wheel(m.hue, m.value))
}

func (m *Module) fill(c color.RGBA) error {
	for i := range m.buf {
		m.buf[i] = c
	}
	return m.px.WriteColors(m.buf)
}

// Wheel converts a hue at full saturation and value v into RGB.
func Wheel(hue, v uint8) color.RGBA {
	region := hue / 43
	rem := uint16(hue-region*43) * 6
	up := uint8(uint16(v) * rem / 258)
	down := v - up
	switch region {
	case 0:
		return color.RGBA{R: v, G: up, A: 0xff}
	case 1:
		return color.RGBA{R: down, G: v, A: 0xff}
	case 2:
		return color.RGBA{G: v, B: up, A: 0xff}
	case 3:
		return color.RGBA{G: down, B: v, A: 0xff}
	case 4:
		return color.RGBA{R: up, B: v, A: 0xff}
	default:
		return color.RGBA{R: v, B: down, A: 0xff}
	}
}
