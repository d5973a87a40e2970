package display

import (
	"errors"
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	White = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	Black = color.RGBA{A: 0xFF}
)

// ErrNoDisplay is returned by NewLabel without a displayer.
var ErrNoDisplay = errors.New("display: no displayer")

// LabelOptions controls how a Label is laid out.
type LabelOptions struct {
	// Font defaults to proggy.TinySZ8pt7b.
	Font tinyfont.Fonter
	// Scale multiplies every glyph pixel; values below 1 mean 1.
	Scale int
	// Top is the first display row of the label band. Negative centres it.
	Top int
	// Width overrides the measured content width when positive.
	Width int
	FG    color.RGBA
	BG    color.RGBA
}

// Label is one line of text drawn at a settable horizontal offset. It owns
// a horizontal band of the display: each SetX clears the band, draws the
// text and presents the frame.
type Label struct {
	d      drivers.Displayer
	font   tinyfont.Fonter
	text   string
	scale  int16
	top    int16
	height int16
	width  int
	fg, bg color.RGBA

	x     int
	drawn bool
}

// NewLabel measures text and returns a label that has not drawn yet.
func NewLabel(d drivers.Displayer, text string, opts LabelOptions) (*Label, error) {
	if d == nil {
		return nil, ErrNoDisplay
	}
	if opts.Font == nil {
		opts.Font = &proggy.TinySZ8pt7b
	}
	if opts.Scale < 1 {
		opts.Scale = 1
	}
	if opts.FG == (color.RGBA{}) {
		opts.FG = White
	}
	if opts.BG == (color.RGBA{}) {
		opts.BG = Black
	}

	l := &Label{
		d:      d,
		font:   opts.Font,
		text:   text,
		scale:  int16(opts.Scale),
		height: int16(opts.Font.GetYAdvance()) * int16(opts.Scale),
		fg:     opts.FG,
		bg:     opts.BG,
	}
	_, outbox := tinyfont.LineWidth(opts.Font, text)
	l.width = int(outbox) * opts.Scale
	if opts.Width > 0 {
		l.width = opts.Width
	}

	_, dh := d.Size()
	if opts.Top < 0 {
		l.top = (dh - l.height) / 2
	} else {
		l.top = int16(opts.Top)
	}
	return l, nil
}

// BoundingWidth returns the content width in display pixels.
func (l *Label) BoundingWidth() int { return l.width }

// X returns the last offset drawn.
func (l *Label) X() int { return l.x }

// Text returns the label text.
func (l *Label) Text() string { return l.text }

// SetX moves the label to offset x and redraws. Setting the current offset
// again is free.
func (l *Label) SetX(x int) error {
	if l.drawn && x == l.x {
		return nil
	}
	l.x = x
	l.drawn = true

	dw, _ := l.d.Size()
	FillRect(l.d, 0, l.top, dw, l.height, l.bg)

	if x < int(dw) && x+l.width > 0 {
		_, dh := l.d.Size()
		sd := &scaled{d: l.d, s: l.scale, ox: int16(x), oy: l.top, w: dw, h: dh}
		// tinyfont draws from the baseline; glyphs rise above it.
		baseline := int16(l.font.GetYAdvance()) - 1
		tinyfont.WriteLine(sd, l.font, 0, baseline, l.text, l.fg)
	}
	return l.d.Display()
}
