package hal

import "image/color"

// FramebufferDisplayer adapts an RGB565 framebuffer to drivers.Displayer.
// Display presents the framebuffer.
type FramebufferDisplayer struct {
	fb Framebuffer
}

func NewFramebufferDisplayer(fb Framebuffer) *FramebufferDisplayer {
	return &FramebufferDisplayer{fb: fb}
}

func (d *FramebufferDisplayer) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *FramebufferDisplayer) SetPixel(x, y int16, c color.RGBA) {
	if d.fb == nil || d.fb.Format() != PixelFormatRGB565 {
		return
	}
	buf := d.fb.Buffer()
	if buf == nil {
		return
	}

	w := d.fb.Width()
	h := d.fb.Height()
	ix := int(x)
	iy := int(y)
	if ix < 0 || ix >= w || iy < 0 || iy >= h {
		return
	}

	pixel := rgb565(c.R, c.G, c.B)
	off := iy*d.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d *FramebufferDisplayer) Display() error {
	if d.fb == nil {
		return nil
	}
	return d.fb.Present()
}

// ClearBuffer fills the framebuffer with black without presenting it.
func (d *FramebufferDisplayer) ClearBuffer() {
	if d.fb != nil {
		d.fb.ClearRGB(0, 0, 0)
	}
}
