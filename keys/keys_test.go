package keys

import (
	"testing"

	"macropad/matrix"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for name, want := range map[string]Code{
		"KC.N7":   N7,
		"n7":      N7,
		"VOLU":    VolumeUp,
		"kc.vold": VolumeDown,
		"ENT":     Enter,
		"NO":      No,
	} {
		got, err := Parse(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := Parse("KC.WARP")
	assert.ErrorIs(t, err, ErrUnknown)
}

func TestCodePages(t *testing.T) {
	assert.Equal(t, PageKeyboard, N7.Page())
	assert.Equal(t, uint16(0x24), N7.Usage())
	assert.Equal(t, PageConsumer, VolumeUp.Page())
	assert.Equal(t, uint16(0xE9), VolumeUp.Usage())
	assert.True(t, LShift.IsModifier())
	assert.Equal(t, uint8(0x02), LShift.ModifierBit())
	assert.False(t, A.IsModifier())
	assert.Equal(t, uint8(0), A.ModifierBit())
}

func TestCodeString(t *testing.T) {
	assert.Equal(t, "N7", N7.String())
	assert.Equal(t, "ENTER", Enter.String())
	assert.Equal(t, "AUDIO_VOL_UP", VolumeUp.String())
	assert.Equal(t, "NO", No.String())
	assert.Equal(t, "KB(0x99)", Keyboard(0x99).String())
}

func TestKeymapResolve(t *testing.T) {
	k, err := ParseKeymap(3, 3, [][]string{
		{"N7", "N8", "N9"},
		{"N4", "N5", "N6"},
		{"N1", "N2", "N3"},
	}, [][2]string{{"VOLU", "VOLD"}})
	require.NoError(t, err)

	assert.Equal(t, N7, k.Resolve(matrix.Coord{Row: 0, Col: 0}))
	assert.Equal(t, N3, k.Resolve(matrix.Coord{Row: 2, Col: 2}))
	assert.Equal(t, No, k.Resolve(matrix.Coord{Row: 3, Col: 0}))
	assert.Equal(t, VolumeUp, k.Resolve(matrix.Coord{Row: 0, Col: matrix.Clockwise, Encoder: true}))
	assert.Equal(t, VolumeDown, k.Resolve(matrix.Coord{Row: 0, Col: matrix.CounterClockwise, Encoder: true}))
	assert.Equal(t, No, k.Resolve(matrix.Coord{Row: 1, Encoder: true}))

	var nilMap *Keymap
	assert.Equal(t, No, nilMap.Resolve(matrix.Coord{}))
}

func TestKeymapShortRowsPadWithNo(t *testing.T) {
	k, err := NewKeymap(2, 2, [][]Code{{A}}, nil)
	require.NoError(t, err)
	assert.Equal(t, [][]Code{{A, No}, {No, No}}, k.Rows())
}

func TestKeymapLayoutErrors(t *testing.T) {
	_, err := NewKeymap(1, 2, [][]Code{{A, B, C}}, nil)
	assert.ErrorIs(t, err, ErrLayout)

	_, err = NewKeymap(1, 1, [][]Code{{A}, {B}}, nil)
	assert.ErrorIs(t, err, ErrLayout)

	_, err = ParseKeymap(1, 1, [][]string{{"BOGUS"}}, nil)
	assert.ErrorIs(t, err, ErrUnknown)
}
