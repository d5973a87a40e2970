//go:build !tinygo && cgo

package hal

import (
	"image"
	"image/color"

	"macropad/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	windowScale = 4
	swatchSize  = 12
)

// WindowConfig controls the desktop runner.
type WindowConfig struct {
	// StepBudget is the number of loop iterations run per 60 Hz frame.
	StepBudget int
}

// RunWindow starts a desktop window that shows the status display, the RGB
// pixel and the LED, and maps the keyboard onto the key matrix and encoder.
// It blocks until the window closes.
func RunWindow(newApp func(HAL) (func() error, error), cfg WindowConfig) error {
	if cfg.StepBudget <= 0 {
		cfg.StepBudget = 16
	}

	h := newHost()
	step, err := newApp(h)
	if err != nil {
		return err
	}

	g := &hostGame{h: h, step: step, budget: cfg.StepBudget, kbd: newHostKeyboard(h.matrix, h.encoder)}
	ebiten.SetWindowTitle("macropad (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.fb.width*windowScale, (h.fb.height+swatchSize*2)*windowScale)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h       *hostHAL
	kbd     *hostKeyboard
	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
	step    func() error
	budget  int
}

func (g *hostGame) Update() error {
	g.kbd.poll()
	for i := 0; i < g.budget; i++ {
		g.h.step()
		if g.step != nil {
			if err := g.step(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.img == nil {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.buf))
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}

	fb.snapshotRGB565(g.scratch)

	src := g.scratch
	dst := g.img.Pix
	for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
		r, gg, b := rgb888From565(uint16(src[i]) | uint16(src[i+1])<<8)
		j := (i / 2) * 4
		dst[j+0] = r
		dst[j+1] = gg
		dst[j+2] = b
		dst[j+3] = 0xFF
	}

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)

	y := float32(fb.height + swatchSize/2)
	for i, c := range g.h.pixels.snapshot() {
		x := float32(2 + i*(swatchSize+2))
		vector.DrawFilledRect(screen, x, y, swatchSize, swatchSize, c, false)
	}

	led := color.RGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xFF}
	if g.h.led.isOn() {
		led = color.RGBA{R: 0xFF, G: 0x40, B: 0x40, A: 0xFF}
	}
	vector.DrawFilledCircle(screen, float32(fb.width-swatchSize), y+swatchSize/2, swatchSize/3, led, true)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height + swatchSize*2
}
