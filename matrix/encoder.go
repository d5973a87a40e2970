package matrix

import (
	"fmt"
	"math"

	"macropad/hal"
)

// quadratureDelta maps prev<<2|cur (state = A<<1|B) to a quarter-step
// direction. Invalid double jumps and no-ops are 0.
var quadratureDelta = [16]int8{
	0b11_01: 1, 0b01_00: 1, 0b00_10: 1, 0b10_11: 1,
	0b01_11: -1, 0b00_01: -1, 0b10_00: -1, 0b11_10: -1,
}

// Encoder decodes a two-phase rotary encoder. Every full detent becomes a
// tap: a press of the virtual coordinate in that scan and its release in the
// next one.
type Encoder struct {
	index   uint8
	a, b    hal.GPIOPin
	divisor int8

	state   uint8
	acc     int8
	release *Coord
}

// NewEncoder configures both pins as pulled-up inputs. divisor is the number
// of quarter steps per detent (4 for most encoders).
func NewEncoder(index int, a, b hal.GPIOPin, divisor int) (*Encoder, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("%w: encoder %d: missing pin", ErrConfig, index)
	}
	if index < 0 || index > 255 {
		return nil, fmt.Errorf("%w: encoder index %d", ErrConfig, index)
	}
	if divisor <= 0 {
		divisor = 4
	}
	if divisor > 64 {
		return nil, fmt.Errorf("%w: encoder %d: divisor %d", ErrConfig, index, divisor)
	}
	for _, p := range []hal.GPIOPin{a, b} {
		if err := p.Configure(hal.GPIOModeInput, hal.GPIOPullUp); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfig, err)
		}
	}
	e := &Encoder{index: uint8(index), a: a, b: b, divisor: int8(divisor)}
	st, err := e.read()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	e.state = st
	return e, nil
}

func (e *Encoder) read() (uint8, error) {
	la, err := e.a.Read()
	if err != nil {
		return 0, fmt.Errorf("matrix: encoder %d: read %s: %w", e.index, e.a.Name(), err)
	}
	lb, err := e.b.Read()
	if err != nil {
		return 0, fmt.Errorf("matrix: encoder %d: read %s: %w", e.index, e.b.Name(), err)
	}
	var st uint8
	if la {
		st |= 2
	}
	if lb {
		st |= 1
	}
	return st, nil
}

// Scan samples both phases once. A scan that releases the previous detent
// never presses, so every tap reaches the output as its own press and
// release; movement keeps accumulating and the next press follows one scan
// later.
func (e *Encoder) Scan(dst []Transition) ([]Transition, error) {
	released := false
	if e.release != nil {
		dst = append(dst, Transition{Coord: *e.release})
		e.release = nil
		released = true
	}

	st, err := e.read()
	if err != nil {
		return dst, err
	}
	e.accumulate(quadratureDelta[e.state<<2|st])
	e.state = st
	if released {
		return dst, nil
	}

	var dir uint8
	switch {
	case e.acc >= e.divisor:
		dir = Clockwise
		e.acc -= e.divisor
	case e.acc <= -e.divisor:
		dir = CounterClockwise
		e.acc += e.divisor
	default:
		return dst, nil
	}

	c := Coord{Row: e.index, Col: dir, Encoder: true}
	e.release = &c
	return append(dst, Transition{Coord: c, Pressed: true}), nil
}

// accumulate adds d without overflowing the int8 counter.
func (e *Encoder) accumulate(d int8) {
	switch {
	case d > 0 && e.acc > math.MaxInt8-d:
		return
	case d < 0 && e.acc < math.MinInt8-d:
		return
	}
	e.acc += d
}
