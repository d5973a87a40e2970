// Package matrix turns raw GPIO line states into key transitions.
//
// A Scanner walks a diode key matrix; an Encoder decodes a rotary encoder
// into taps on virtual coordinates. Both are polled once per loop iteration
// and never block.
package matrix

import (
	"errors"
	"fmt"
)

// ErrConfig marks a pin or matrix setup that cannot work. It is reported at
// construction time, never from Scan.
var ErrConfig = errors.New("matrix: invalid configuration")

// Coord is a logical key position. Encoder coordinates are virtual: Row is
// the encoder index and Col is Clockwise or CounterClockwise.
type Coord struct {
	Row     uint8
	Col     uint8
	Encoder bool
}

const (
	Clockwise        uint8 = 0
	CounterClockwise uint8 = 1
)

func (c Coord) String() string {
	if c.Encoder {
		dir := "cw"
		if c.Col == CounterClockwise {
			dir = "ccw"
		}
		return fmt.Sprintf("enc%d:%s", c.Row, dir)
	}
	return fmt.Sprintf("r%dc%d", c.Row, c.Col)
}

// Transition is a change of one key's debounced state.
type Transition struct {
	Coord   Coord
	Pressed bool
}

// Source produces transitions. Scan appends to dst and returns it.
type Source interface {
	Scan(dst []Transition) ([]Transition, error)
}

// DiodeOrientation names the direction current flows through each switch.
type DiodeOrientation uint8

const (
	// COL2ROW: anodes on columns. Columns are driven, rows are read.
	COL2ROW DiodeOrientation = iota
	// ROW2COL: anodes on rows. Rows are driven, columns are read.
	ROW2COL
)

func (o DiodeOrientation) String() string {
	switch o {
	case COL2ROW:
		return "COL2ROW"
	case ROW2COL:
		return "ROW2COL"
	default:
		return "unknown"
	}
}

// ParseDiodeOrientation accepts the names returned by String.
func ParseDiodeOrientation(s string) (DiodeOrientation, error) {
	switch s {
	case "COL2ROW", "col2row":
		return COL2ROW, nil
	case "ROW2COL", "row2col":
		return ROW2COL, nil
	default:
		return 0, fmt.Errorf("%w: diode orientation %q", ErrConfig, s)
	}
}
