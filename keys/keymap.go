package keys

import (
	"errors"
	"fmt"

	"macropad/matrix"
)

// ErrLayout marks a keymap that does not fit the matrix.
var ErrLayout = errors.New("keys: invalid layout")

// Keymap maps matrix and encoder coordinates to codes.
type Keymap struct {
	rows, cols int
	layout     []Code
	encoders   [][2]Code
}

// NewKeymap builds a keymap for a rows x cols matrix. Missing trailing keys
// are No; extra keys are an error.
func NewKeymap(rows, cols int, layout [][]Code, encoders [][2]Code) (*Keymap, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: matrix %dx%d", ErrLayout, rows, cols)
	}
	if len(layout) > rows {
		return nil, fmt.Errorf("%w: %d rows for a %d-row matrix", ErrLayout, len(layout), rows)
	}
	k := &Keymap{rows: rows, cols: cols, layout: make([]Code, rows*cols)}
	for r, row := range layout {
		if len(row) > cols {
			return nil, fmt.Errorf("%w: row %d has %d keys for %d columns", ErrLayout, r, len(row), cols)
		}
		copy(k.layout[r*cols:], row)
	}
	k.encoders = append(k.encoders, encoders...)
	return k, nil
}

// ParseKeymap is NewKeymap over key names.
func ParseKeymap(rows, cols int, layout [][]string, encoders [][2]string) (*Keymap, error) {
	codes := make([][]Code, len(layout))
	for r, row := range layout {
		codes[r] = make([]Code, len(row))
		for c, name := range row {
			code, err := Parse(name)
			if err != nil {
				return nil, fmt.Errorf("keymap r%dc%d: %w", r, c, err)
			}
			codes[r][c] = code
		}
	}
	enc := make([][2]Code, len(encoders))
	for i, pair := range encoders {
		for d, name := range pair {
			code, err := Parse(name)
			if err != nil {
				return nil, fmt.Errorf("encoder map %d: %w", i, err)
			}
			enc[i][d] = code
		}
	}
	return NewKeymap(rows, cols, codes, enc)
}

// Resolve returns the code at c, or No when c is outside the map.
func (k *Keymap) Resolve(c matrix.Coord) Code {
	if k == nil {
		return No
	}
	if c.Encoder {
		if int(c.Row) >= len(k.encoders) || c.Col > 1 {
			return No
		}
		return k.encoders[c.Row][c.Col]
	}
	if int(c.Row) >= k.rows || int(c.Col) >= k.cols {
		return No
	}
	return k.layout[int(c.Row)*k.cols+int(c.Col)]
}

// Rows returns the layout as rows of codes.
func (k *Keymap) Rows() [][]Code {
	out := make([][]Code, k.rows)
	for r := range out {
		out[r] = append([]Code(nil), k.layout[r*k.cols:(r+1)*k.cols]...)
	}
	return out
}

// Encoders returns the (clockwise, counter-clockwise) code pairs.
func (k *Keymap) Encoders() [][2]Code {
	return append([][2]Code(nil), k.encoders...)
}
