package hal

import "testing"

func configureMatrix(t *testing.T, m *SwitchMatrix, outputs, inputs []GPIOPin) {
	t.Helper()
	for _, p := range outputs {
		if err := p.Configure(GPIOModeOutput, GPIOPullNone); err != nil {
			t.Fatalf("Configure(%s): %v", p.Name(), err)
		}
	}
	for _, p := range inputs {
		if err := p.Configure(GPIOModeInput, GPIOPullDown); err != nil {
			t.Fatalf("Configure(%s): %v", p.Name(), err)
		}
	}
}

func TestSwitchMatrixColToRow(t *testing.T) {
	m := NewSwitchMatrix([]string{"R0", "R1"}, []string{"C0", "C1"}, true)
	configureMatrix(t, m, m.Cols(), m.Rows())

	m.Set(1, 0, true)
	if err := m.Cols()[0].Write(true); err != nil {
		t.Fatalf("Write: %v", err)
	}

	level, err := m.Rows()[1].Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !level {
		t.Fatal("expected R1 high through closed switch")
	}

	level, err = m.Rows()[0].Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if level {
		t.Fatal("expected R0 low")
	}
}

func TestSwitchMatrixDiodeBlocksReverse(t *testing.T) {
	m := NewSwitchMatrix([]string{"R0"}, []string{"C0"}, true)
	configureMatrix(t, m, m.Rows(), m.Cols())

	m.Set(0, 0, true)
	if err := m.Rows()[0].Write(true); err != nil {
		t.Fatalf("Write: %v", err)
	}
	level, err := m.Cols()[0].Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if level {
		t.Fatal("expected diode to block row-to-column current")
	}
}

func TestSwitchMatrixUnconfiguredRead(t *testing.T) {
	m := NewSwitchMatrix([]string{"R0"}, []string{"C0"}, true)
	if _, err := m.Rows()[0].Read(); err == nil {
		t.Fatal("expected error reading unconfigured line")
	}
	if err := m.Cols()[0].Write(true); err == nil {
		t.Fatal("expected error writing unconfigured line")
	}
}

func TestQuadratureEncoderSequence(t *testing.T) {
	e := NewQuadratureEncoder("A", "B")
	a, b := e.Pins()
	for _, p := range []GPIOPin{a, b} {
		if err := p.Configure(GPIOModeInput, GPIOPullUp); err != nil {
			t.Fatalf("Configure: %v", err)
		}
	}

	read := func() [2]bool {
		la, err := a.Read()
		if err != nil {
			t.Fatalf("Read A: %v", err)
		}
		lb, err := b.Read()
		if err != nil {
			t.Fatalf("Read B: %v", err)
		}
		return [2]bool{la, lb}
	}

	if got := read(); got != [2]bool{true, true} {
		t.Fatalf("rest = %v, want [true true]", got)
	}

	e.Turn(1)
	want := [][2]bool{{false, true}, {false, false}, {true, false}, {true, true}}
	for i, w := range want {
		if !e.Advance() {
			t.Fatalf("Advance() step %d = false, want true", i)
		}
		if got := read(); got != w {
			t.Fatalf("step %d = %v, want %v", i, got, w)
		}
	}
	if e.Advance() {
		t.Fatal("Advance() after full detent = true, want false")
	}
}

func TestPinByName(t *testing.T) {
	m := NewSwitchMatrix([]string{"ROW0"}, []string{"COL0"}, true)
	g := NewGPIO(m.Pins()...)

	if p := PinByName(g, "col0"); p == nil || p.Name() != "COL0" {
		t.Fatalf("PinByName(col0) = %v", p)
	}
	if p := PinByName(g, "missing"); p != nil {
		t.Fatalf("PinByName(missing) = %v, want nil", p)
	}
	if p := PinByName(nil, "ROW0"); p != nil {
		t.Fatal("PinByName(nil GPIO) != nil")
	}
}
