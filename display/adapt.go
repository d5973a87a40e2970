// Package display draws the status screen through drivers.Displayer.
package display

import (
	"image/color"

	"tinygo.org/x/drivers"
)

// Rotated returns d drawn upside down when r is drivers.Rotation180. Other
// rotations return d unchanged: a wide panel is only ever mounted flat or flipped.
func Rotated(d drivers.Displayer, r drivers.Rotation) drivers.Displayer {
	if d == nil || r != drivers.Rotation180 {
		return d
	}
	return &flipped{d: d}
}

type flipped struct {
	d drivers.Displayer
}

func (f *flipped) Size() (x, y int16) { return f.d.Size() }

func (f *flipped) SetPixel(x, y int16, c color.RGBA) {
	w, h := f.d.Size()
	f.d.SetPixel(w-1-x, h-1-y, c)
}

func (f *flipped) Display() error { return f.d.Display() }

// scaled draws every pixel as an s x s block offset by (ox, oy).
type scaled struct {
	d      drivers.Displayer
	s      int16
	ox, oy int16
	w, h   int16
}

func (sd *scaled) Size() (x, y int16) { return sd.w, sd.h }

func (sd *scaled) SetPixel(x, y int16, c color.RGBA) {
	px := sd.ox + x*sd.s
	py := sd.oy + y*sd.s
	if px+sd.s <= 0 || py+sd.s <= 0 || px >= sd.w || py >= sd.h {
		return
	}
	for dy := int16(0); dy < sd.s; dy++ {
		for dx := int16(0); dx < sd.s; dx++ {
			sd.d.SetPixel(px+dx, py+dy, c)
		}
	}
}

func (sd *scaled) Display() error { return nil }

// FillRect sets every pixel in the rectangle, clipped to the display.
func FillRect(d drivers.Displayer, x, y, w, h int16, c color.RGBA) {
	dw, dh := d.Size()
	x0, y0 := clamp(x, 0, dw), clamp(y, 0, dh)
	x1, y1 := clamp(x+w, 0, dw), clamp(y+h, 0, dh)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			d.SetPixel(px, py, c)
		}
	}
}

func clamp(v, lo, hi int16) int16 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
