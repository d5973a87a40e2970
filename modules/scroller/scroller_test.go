package scroller

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macropad/kbd"
	"macropad/keys"
	"macropad/matrix"
)

type fakeSurface struct {
	width int
	xs    []int
	err   error
}

func (f *fakeSurface) SetX(x int) error {
	f.xs = append(f.xs, x)
	return f.err
}

func (f *fakeSurface) BoundingWidth() int { return f.width }

func intp(v int) *int { return &v }

func TestDefaults(t *testing.T) {
	surf := &fakeSurface{width: 40}
	s, err := New(surf, Options{})
	require.NoError(t, err)
	assert.Equal(t, "scroller", s.Name())
	assert.Equal(t, DefaultSurfaceWidth, s.Offset())

	require.NoError(t, s.OnBoot(&kbd.State{}))
	assert.Equal(t, []int{DefaultSurfaceWidth}, surf.xs)
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New(nil, Options{})
	assert.ErrorIs(t, err, ErrNoSurface)

	_, err = New(&fakeSurface{}, Options{Divisor: -1})
	assert.Error(t, err)
}

func TestMovesOncePerDivisor(t *testing.T) {
	for _, n := range []int{1, 2, 7, 60} {
		surf := &fakeSurface{width: 1000}
		s, err := New(surf, Options{Divisor: n, Step: 1, Start: intp(0)})
		require.NoError(t, err)

		st := &kbd.State{}
		prev := s.Offset()
		changes := 0
		for i := 1; i <= 10*n; i++ {
			require.NoError(t, s.BeforeScan(st))
			if s.Offset() != prev {
				changes++
				assert.Zero(t, i%n, "divisor %d moved at iteration %d", n, i)
				prev = s.Offset()
			}
		}
		assert.Equal(t, 10, changes, "divisor %d", n)
		assert.Len(t, surf.xs, 10)
	}
}

func TestFullCycleReturnsToRightEdge(t *testing.T) {
	const (
		n     = 60
		step  = 15
		width = 200
		surfW = 128
	)
	surf := &fakeSurface{width: width}
	s, err := New(surf, Options{Divisor: n, Step: step, SurfaceWidth: surfW})
	require.NoError(t, err)

	k := (width+surfW)/step + 1
	st := &kbd.State{}
	for i := 0; i < k*n; i++ {
		require.NoError(t, s.BeforeScan(st))
		if (i+1)%n == 0 && i < k*n-1 {
			assert.NotEqual(t, surfW, s.Offset(), "early reset at iteration %d", i+1)
		}
	}
	assert.Equal(t, surfW, s.Offset())
}

func TestScrollScenario(t *testing.T) {
	surf := &fakeSurface{width: 600}
	s, err := New(surf, Options{Divisor: 60, Step: 15, SurfaceWidth: 128, Start: intp(0)})
	require.NoError(t, err)

	st := &kbd.State{}
	offsets := map[int]int{}
	for i := 1; i <= 2460; i++ {
		require.NoError(t, s.BeforeScan(st))
		offsets[i] = s.Offset()
	}
	assert.Equal(t, 0, offsets[59])
	assert.Equal(t, -15, offsets[60])
	assert.Equal(t, -30, offsets[120])
	assert.Equal(t, -600, offsets[2400])
	assert.Equal(t, -600, offsets[2459])
	assert.Equal(t, 128, offsets[2460])
	assert.Len(t, surf.xs, 41)
}

func TestSurfaceErrorPropagates(t *testing.T) {
	boom := errors.New("i2c nak")
	surf := &fakeSurface{width: 10, err: boom}
	s, err := New(surf, Options{Divisor: 1})
	require.NoError(t, err)
	assert.ErrorIs(t, s.BeforeScan(&kbd.State{}), boom)
}

func TestRunsUnderKeyboard(t *testing.T) {
	surf := &fakeSurface{width: 600}
	s, err := New(surf, Options{Start: intp(0)})
	require.NoError(t, err)

	kb, err := kbd.New(kbd.Config{Keymap: noKeys{}})
	require.NoError(t, err)
	require.NoError(t, kb.Register(s))
	require.NoError(t, kb.Boot())
	for i := 0; i < 120; i++ {
		require.NoError(t, kb.Step())
	}
	assert.Equal(t, -30, s.Offset())
	assert.Equal(t, []int{0, -15, -30}, surf.xs)
}

type noKeys struct{}

func (noKeys) Resolve(matrix.Coord) keys.Code { return keys.No }

func TestFullCycleExactMultiple(t *testing.T) {
	// W+S = 225 = 15 steps exactly. Step 15 lands on -W, which is still
	// visible under the strict comparison, so the reset comes at step 16.
	const (
		n     = 60
		step  = 15
		width = 97
		surfW = 128
	)
	surf := &fakeSurface{width: width}
	s, err := New(surf, Options{Divisor: n, Step: step, SurfaceWidth: surfW})
	require.NoError(t, err)

	st := &kbd.State{}
	for i := 0; i < 15*n; i++ {
		require.NoError(t, s.BeforeScan(st))
	}
	assert.Equal(t, -width, s.Offset())
	for i := 0; i < n; i++ {
		require.NoError(t, s.BeforeScan(st))
	}
	assert.Equal(t, surfW, s.Offset())
}
