//go:build !tinygo && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// hostKeys lays the numpad over the 3x3 matrix, top row first. The digit row
// works too for keyboards without a numpad.
var hostKeys = [][]ebiten.Key{
	{ebiten.KeyNumpad7, ebiten.KeyNumpad8, ebiten.KeyNumpad9},
	{ebiten.KeyNumpad4, ebiten.KeyNumpad5, ebiten.KeyNumpad6},
	{ebiten.KeyNumpad1, ebiten.KeyNumpad2, ebiten.KeyNumpad3},
}

var hostDigitKeys = [][]ebiten.Key{
	{ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9},
	{ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6},
	{ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3},
}

type hostKeyboard struct {
	matrix  *SwitchMatrix
	encoder *QuadratureEncoder
}

func newHostKeyboard(m *SwitchMatrix, enc *QuadratureEncoder) *hostKeyboard {
	return &hostKeyboard{matrix: m, encoder: enc}
}

func (k *hostKeyboard) poll() {
	for r, row := range hostKeys {
		for c, key := range row {
			down := ebiten.IsKeyPressed(key) || ebiten.IsKeyPressed(hostDigitKeys[r][c])
			k.matrix.Set(r, c, down)
		}
	}

	// Arrow keys and the mouse wheel turn the encoder.
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) || inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		k.encoder.Turn(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) || inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		k.encoder.Turn(-1)
	}
	if _, dy := ebiten.Wheel(); dy > 0 {
		k.encoder.Turn(1)
	} else if dy < 0 {
		k.encoder.Turn(-1)
	}
}
