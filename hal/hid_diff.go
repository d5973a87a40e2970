package hal

import "fmt"

// keyPort presses and releases single keys, using the TinyGo USB keyboard
// keycode encoding.
type keyPort interface {
	Down(code uint16) error
	Up(code uint16) error
}

const (
	keycodeModifier = 0xE000
	keycodeConsumer = 0xE400
	keycodeKey      = 0xF000
)

// reportDiffer implements HID over a key-at-a-time port by diffing each
// report against the keys it has already pressed. Only calls that succeed
// change its state, and the first error is returned, so a failed report is
// retried in full the next time it is written.
type reportDiffer struct {
	port     keyPort
	keys     [6]byte
	mods     byte
	consumer uint16
}

func (d *reportDiffer) WriteReport(kind ReportKind, report []byte) error {
	switch kind {
	case ReportKeyboard:
		if len(report) != 8 {
			return fmt.Errorf("hid: keyboard report len %d", len(report))
		}
		return d.keyboard(report[0], report[2:8])
	case ReportConsumer:
		if len(report) != 2 {
			return fmt.Errorf("hid: consumer report len %d", len(report))
		}
		return d.consumerUsage(uint16(report[0]) | uint16(report[1])<<8)
	default:
		return ErrNotImplemented
	}
}

func (d *reportDiffer) consumerUsage(usage uint16) error {
	if d.consumer != 0 && d.consumer != usage {
		if err := d.port.Up(keycodeConsumer | d.consumer); err != nil {
			return fmt.Errorf("hid: consumer up: %w", err)
		}
		d.consumer = 0
	}
	if usage != 0 && usage != d.consumer {
		if err := d.port.Down(keycodeConsumer | usage); err != nil {
			return fmt.Errorf("hid: consumer down: %w", err)
		}
		d.consumer = usage
	}
	return nil
}

func (d *reportDiffer) keyboard(mods byte, keys []byte) error {
	var first error
	ok := func(err error) bool {
		if err != nil && first == nil {
			first = fmt.Errorf("hid: keyboard: %w", err)
		}
		return err == nil
	}

	for bit := 0; bit < 8; bit++ {
		m := byte(1) << bit
		switch {
		case mods&m != 0 && d.mods&m == 0:
			if ok(d.port.Down(keycodeModifier | uint16(m))) {
				d.mods |= m
			}
		case mods&m == 0 && d.mods&m != 0:
			if ok(d.port.Up(keycodeModifier | uint16(m))) {
				d.mods &^= m
			}
		}
	}
	for i, k := range d.keys {
		if k != 0 && !containsByte(keys, k) && ok(d.port.Up(keycodeKey|uint16(k))) {
			d.keys[i] = 0
		}
	}
	for _, k := range keys {
		if k == 0 || containsByte(d.keys[:], k) {
			continue
		}
		free := indexByte(d.keys[:], 0)
		if free < 0 {
			break
		}
		if ok(d.port.Down(keycodeKey | uint16(k))) {
			d.keys[free] = k
		}
	}
	return first
}

func containsByte(b []byte, v byte) bool { return indexByte(b, v) >= 0 }

func indexByte(b []byte, v byte) int {
	for i, x := range b {
		if x == v {
			return i
		}
	}
	return -1
}
