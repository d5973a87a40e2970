package matrix

import (
	"fmt"

	"macropad/hal"
)

const maxLines = 32

// Scanner scans a diode matrix. One output line is driven high at a time and
// every input line (pulled down) is sampled.
type Scanner struct {
	rows        []hal.GPIOPin
	cols        []hal.GPIOPin
	outputs     []hal.GPIOPin
	inputs      []hal.GPIOPin
	orientation DiodeOrientation
	debounce    uint8

	stable []bool
	count  []uint8
}

// NewScanner configures the pins and returns a scanner with every key released.
// debounce is the number of consecutive scans a change must persist for; values
// below 1 are treated as 1.
func NewScanner(rows, cols []hal.GPIOPin, orientation DiodeOrientation, debounce int) (*Scanner, error) {
	if len(rows) == 0 || len(cols) == 0 {
		return nil, fmt.Errorf("%w: empty matrix %dx%d", ErrConfig, len(rows), len(cols))
	}
	if len(rows) > maxLines || len(cols) > maxLines {
		return nil, fmt.Errorf("%w: matrix %dx%d exceeds %d lines", ErrConfig, len(rows), len(cols), maxLines)
	}
	if debounce < 1 {
		debounce = 1
	}
	if debounce > 255 {
		debounce = 255
	}

	s := &Scanner{
		rows:        rows,
		cols:        cols,
		orientation: orientation,
		debounce:    uint8(debounce),
		stable:      make([]bool, len(rows)*len(cols)),
		count:       make([]uint8, len(rows)*len(cols)),
	}
	switch orientation {
	case COL2ROW:
		s.outputs, s.inputs = cols, rows
	case ROW2COL:
		s.outputs, s.inputs = rows, cols
	default:
		return nil, fmt.Errorf("%w: diode orientation %d", ErrConfig, orientation)
	}

	for i, p := range s.outputs {
		if p == nil {
			return nil, fmt.Errorf("%w: output line %d missing", ErrConfig, i)
		}
		if err := p.Configure(hal.GPIOModeOutput, hal.GPIOPullNone); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfig, err)
		}
		if err := p.Write(false); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfig, err)
		}
	}
	for i, p := range s.inputs {
		if p == nil {
			return nil, fmt.Errorf("%w: input line %d missing", ErrConfig, i)
		}
		if err := p.Configure(hal.GPIOModeInput, hal.GPIOPullDown); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfig, err)
		}
	}
	return s, nil
}

// Rows returns the number of matrix rows.
func (s *Scanner) Rows() int { return len(s.rows) }

// Cols returns the number of matrix columns.
func (s *Scanner) Cols() int { return len(s.cols) }

// Pressed reports the debounced state of (row, col).
func (s *Scanner) Pressed(row, col int) bool {
	if row < 0 || row >= len(s.rows) || col < 0 || col >= len(s.cols) {
		return false
	}
	return s.stable[row*len(s.cols)+col]
}

// Scan samples the whole matrix once. Transitions come out in row-major order.
func (s *Scanner) Scan(dst []Transition) ([]Transition, error) {
	start := len(dst)
	for o, out := range s.outputs {
		if err := out.Write(true); err != nil {
			return dst, fmt.Errorf("matrix: drive %s: %w", out.Name(), err)
		}
		for i, in := range s.inputs {
			level, err := in.Read()
			if err != nil {
				_ = out.Write(false)
				return dst, fmt.Errorf("matrix: read %s: %w", in.Name(), err)
			}
			row, col := i, o
			if s.orientation == ROW2COL {
				row, col = o, i
			}
			if t, ok := s.sample(row, col, level); ok {
				dst = append(dst, t)
			}
		}
		if err := out.Write(false); err != nil {
			return dst, fmt.Errorf("matrix: release %s: %w", out.Name(), err)
		}
	}
	if s.orientation == COL2ROW {
		sortRowMajor(dst[start:])
	}
	return dst, nil
}

func (s *Scanner) sample(row, col int, level bool) (Transition, bool) {
	idx := row*len(s.cols) + col
	if level == s.stable[idx] {
		s.count[idx] = 0
		return Transition{}, false
	}
	s.count[idx]++
	if s.count[idx] < s.debounce {
		return Transition{}, false
	}
	s.count[idx] = 0
	s.stable[idx] = level
	return Transition{Coord: Coord{Row: uint8(row), Col: uint8(col)}, Pressed: level}, true
}

// sortRowMajor orders a short, column-major batch by (row, col). Insertion
// sort: batches are a handful of keys.
func sortRowMajor(ts []Transition) {
	for i := 1; i < len(ts); i++ {
		for j := i; j > 0 && less(ts[j].Coord, ts[j-1].Coord); j-- {
			ts[j], ts[j-1] = ts[j-1], ts[j]
		}
	}
}

func less(a, b Coord) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	return a.Col < b.Col
}
