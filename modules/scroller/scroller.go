// Package scroller moves a label across the display a few pixels at a time.
//
// The scroller runs in before_scan and only touches the surface once every
// Divisor iterations, so the scan that follows is never delayed by more than
// one redraw.
package scroller

import (
	"errors"
	"fmt"

	"macropad/kbd"
)

// Surface is the drawable the scroller moves.
type Surface interface {
	SetX(x int) error
	BoundingWidth() int
}

// Options tune the animation. Zero values take the defaults.
type Options struct {
	// Divisor is the number of iterations per frame (default 60).
	Divisor int
	// Step is the distance moved per frame in pixels (default 15).
	Step int
	// SurfaceWidth is the visible width; the offset resets to it (default 128).
	SurfaceWidth int
	// Start is the initial offset. Nil starts at SurfaceWidth.
	Start *int
}

const (
	DefaultDivisor      = 60
	DefaultStep         = 15
	DefaultSurfaceWidth = 128
)

var ErrNoSurface = errors.New("scroller: nil surface")

// Scroller is a kbd.Module.
type Scroller struct {
	kbd.Base

	surface Surface
	divisor uint32
	step    int
	width   int

	tick   uint32
	offset int
}

func New(s Surface, opts Options) (*Scroller, error) {
	if s == nil {
		return nil, ErrNoSurface
	}
	if opts.Divisor < 0 || opts.Step < 0 || opts.SurfaceWidth < 0 {
		return nil, fmt.Errorf("scroller: negative option: %+v", opts)
	}
	if opts.Divisor == 0 {
		opts.Divisor = DefaultDivisor
	}
	if opts.Step == 0 {
		opts.Step = DefaultStep
	}
	if opts.SurfaceWidth == 0 {
		opts.SurfaceWidth = DefaultSurfaceWidth
	}
	sc := &Scroller{
		surface: s,
		divisor: uint32(opts.Divisor),
		step:    opts.Step,
		width:   opts.SurfaceWidth,
		offset:  opts.SurfaceWidth,
	}
	if opts.Start != nil {
		sc.offset = *opts.Start
	}
	return sc, nil
}

func (s *Scroller) Name() string { return "scroller" }

// Offset returns the current horizontal position of the surface.
func (s *Scroller) Offset() int { return s.offset }

// OnBoot places the surface at its starting offset.
func (s *Scroller) OnBoot(*kbd.State) error {
	return s.surface.SetX(s.offset)
}

// BeforeScan advances the animation by at most one frame.
func (s *Scroller) BeforeScan(*kbd.State) error {
	s.tick++
	if s.tick%s.divisor != 0 {
		return nil
	}
	s.offset -= s.step
	if s.offset < -s.surface.BoundingWidth() {
		s.offset = s.width
	}
	return s.surface.SetX(s.offset)
}
