package hal

import (
	"fmt"
	"sync"
)

// SwitchMatrix simulates a diode key matrix wired to row and column lines.
//
// Switch (r, c) joins row r and column c. Current only flows from the anode
// line to the cathode line, so a matrix scanned with the wrong orientation
// reads nothing.
type SwitchMatrix struct {
	mu       sync.Mutex
	rows     []*matrixLine
	cols     []*matrixLine
	closed   [][]bool
	colToRow bool
}

// NewSwitchMatrix builds a matrix with the given line names. colToRow selects
// diodes with their anode on the column side.
func NewSwitchMatrix(rowNames, colNames []string, colToRow bool) *SwitchMatrix {
	m := &SwitchMatrix{colToRow: colToRow}
	for i, name := range rowNames {
		m.rows = append(m.rows, &matrixLine{m: m, name: name, row: true, index: i})
	}
	for i, name := range colNames {
		m.cols = append(m.cols, &matrixLine{m: m, name: name, index: i})
	}
	m.closed = make([][]bool, len(rowNames))
	for i := range m.closed {
		m.closed[i] = make([]bool, len(colNames))
	}
	return m
}

// Rows returns the row lines in order.
func (m *SwitchMatrix) Rows() []GPIOPin {
	out := make([]GPIOPin, 0, len(m.rows))
	for _, l := range m.rows {
		out = append(out, l)
	}
	return out
}

// Cols returns the column lines in order.
func (m *SwitchMatrix) Cols() []GPIOPin {
	out := make([]GPIOPin, 0, len(m.cols))
	for _, l := range m.cols {
		out = append(out, l)
	}
	return out
}

// Pins returns rows followed by columns.
func (m *SwitchMatrix) Pins() []GPIOPin {
	return append(m.Rows(), m.Cols()...)
}

// Set opens or closes the switch at (row, col). Out-of-range positions are ignored.
func (m *SwitchMatrix) Set(row, col int, closed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row < 0 || row >= len(m.closed) || col < 0 || col >= len(m.closed[row]) {
		return
	}
	m.closed[row][col] = closed
}

// Closed reports whether the switch at (row, col) is closed.
func (m *SwitchMatrix) Closed(row, col int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row < 0 || row >= len(m.closed) || col < 0 || col >= len(m.closed[row]) {
		return false
	}
	return m.closed[row][col]
}

func (m *SwitchMatrix) senseLocked(l *matrixLine) bool {
	if l.row {
		for c, other := range m.cols {
			if m.closed[l.index][c] && m.conductsLocked(other, l) {
				return true
			}
		}
	} else {
		for r, other := range m.rows {
			if m.closed[r][l.index] && m.conductsLocked(other, l) {
				return true
			}
		}
	}
	return l.pull == GPIOPullUp
}

func (m *SwitchMatrix) conductsLocked(from, to *matrixLine) bool {
	if from.mode != GPIOModeOutput || !from.level {
		return false
	}
	if m.colToRow {
		return !from.row && to.row
	}
	return from.row && !to.row
}

type matrixLine struct {
	m     *SwitchMatrix
	name  string
	row   bool
	index int

	configured bool
	mode       GPIOMode
	pull       GPIOPull
	level      bool
}

func (l *matrixLine) Name() string { return l.name }

func (l *matrixLine) Caps() GPIOCaps {
	return GPIOCapInput | GPIOCapOutput | GPIOCapPullUp | GPIOCapPullDown
}

func (l *matrixLine) Configure(mode GPIOMode, pull GPIOPull) error {
	l.m.mu.Lock()
	defer l.m.mu.Unlock()

	switch mode {
	case GPIOModeInput, GPIOModeOutput:
	default:
		return fmt.Errorf("gpio: pin %s: invalid mode", l.name)
	}
	switch pull {
	case GPIOPullNone, GPIOPullUp, GPIOPullDown:
	default:
		return fmt.Errorf("gpio: pin %s: invalid pull", l.name)
	}

	l.configured = true
	l.mode = mode
	l.pull = pull
	l.level = false
	return nil
}

func (l *matrixLine) Read() (bool, error) {
	l.m.mu.Lock()
	defer l.m.mu.Unlock()
	if !l.configured {
		return false, fmt.Errorf("gpio: pin %s: not configured", l.name)
	}
	if l.mode == GPIOModeOutput {
		return l.level, nil
	}
	return l.m.senseLocked(l), nil
}

func (l *matrixLine) Write(level bool) error {
	l.m.mu.Lock()
	defer l.m.mu.Unlock()
	if !l.configured || l.mode != GPIOModeOutput {
		return fmt.Errorf("gpio: pin %s: not in output mode", l.name)
	}
	l.level = level
	return nil
}

// QuadratureEncoder simulates the two phase outputs of a rotary encoder.
//
// Turns are queued and released one quarter step per Advance call, so a
// scanner sampling once per iteration sees every intermediate state.
type QuadratureEncoder struct {
	mu      sync.Mutex
	pos     int
	pending int
	a       *encoderLine
	b       *encoderLine
}

// quarter-step levels (A, B), starting from the detent rest position.
var quadraturePhases = [4][2]bool{
	{true, true},
	{false, true},
	{false, false},
	{true, false},
}

// NewQuadratureEncoder returns an encoder resting at a detent.
func NewQuadratureEncoder(aName, bName string) *QuadratureEncoder {
	e := &QuadratureEncoder{}
	e.a = &encoderLine{e: e, name: aName, phase: 0}
	e.b = &encoderLine{e: e, name: bName, phase: 1}
	return e
}

// Pins returns the A and B phase lines.
func (e *QuadratureEncoder) Pins() (a, b GPIOPin) { return e.a, e.b }

// Turn queues detents; positive is clockwise.
func (e *QuadratureEncoder) Turn(detents int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending += detents * 4
}

// Advance moves one queued quarter step. It reports whether anything moved.
func (e *QuadratureEncoder) Advance() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch {
	case e.pending > 0:
		e.pos++
		e.pending--
	case e.pending < 0:
		e.pos--
		e.pending++
	default:
		return false
	}
	return true
}

func (e *QuadratureEncoder) levelLocked(phase int) bool {
	i := e.pos % 4
	if i < 0 {
		i += 4
	}
	return quadraturePhases[i][phase]
}

type encoderLine struct {
	e     *QuadratureEncoder
	name  string
	phase int

	configured bool
}

func (l *encoderLine) Name() string   { return l.name }
func (l *encoderLine) Caps() GPIOCaps { return GPIOCapInput | GPIOCapPullUp }

func (l *encoderLine) Configure(mode GPIOMode, pull GPIOPull) error {
	l.e.mu.Lock()
	defer l.e.mu.Unlock()
	if mode != GPIOModeInput {
		return fmt.Errorf("gpio: pin %s: only input supported", l.name)
	}
	if pull == GPIOPullDown {
		return fmt.Errorf("gpio: pin %s: pull-down unsupported", l.name)
	}
	l.configured = true
	return nil
}

func (l *encoderLine) Read() (bool, error) {
	l.e.mu.Lock()
	defer l.e.mu.Unlock()
	if !l.configured {
		return false, fmt.Errorf("gpio: pin %s: not configured for input", l.name)
	}
	return l.e.levelLocked(l.phase), nil
}

func (l *encoderLine) Write(level bool) error {
	_ = level
	return fmt.Errorf("gpio: pin %s: output unsupported", l.name)
}
