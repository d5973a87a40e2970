// Package report turns key events into HID boot keyboard and consumer
// control reports.
package report

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"macropad/hal"
	"macropad/kbd"
	"macropad/keys"
)

const (
	KeyboardLen = 8
	ConsumerLen = 2
	// Rollover is the number of simultaneous non-modifier keys in a boot report.
	Rollover = 6
)

var ErrNoHID = errors.New("report: nil hid")

// Writer is a kbd.Sink. It keeps the pressed-key state and writes a report
// to the HID only when its bytes change.
type Writer struct {
	hid hal.HID

	mods     uint8
	held     [Rollover]uint8
	consumer uint16

	kbLast [KeyboardLen]byte
	ccLast [ConsumerLen]byte
	kbBuf  [KeyboardLen]byte
	ccBuf  [ConsumerLen]byte

	dropped int
}

func NewWriter(hid hal.HID) (*Writer, error) {
	if hid == nil {
		return nil, ErrNoHID
	}
	return &Writer{hid: hid}, nil
}

// Dropped returns the number of presses lost to rollover.
func (w *Writer) Dropped() int { return w.dropped }

// Send applies the events in order and flushes changed reports.
func (w *Writer) Send(_ uint32, events []kbd.KeyEvent) error {
	for _, ev := range events {
		w.apply(ev)
	}
	w.keyboard(w.kbBuf[:])
	if !bytes.Equal(w.kbBuf[:], w.kbLast[:]) {
		if err := w.hid.WriteReport(hal.ReportKeyboard, w.kbBuf[:]); err != nil {
			return fmt.Errorf("report: keyboard: %w", err)
		}
		w.kbLast = w.kbBuf
	}
	binary.LittleEndian.PutUint16(w.ccBuf[:], w.consumer)
	if !bytes.Equal(w.ccBuf[:], w.ccLast[:]) {
		if err := w.hid.WriteReport(hal.ReportConsumer, w.ccBuf[:]); err != nil {
			return fmt.Errorf("report: consumer: %w", err)
		}
		w.ccLast = w.ccBuf
	}
	return nil
}

func (w *Writer) apply(ev kbd.KeyEvent) {
	code := ev.Key
	switch code.Page() {
	case keys.PageKeyboard:
		if code.IsModifier() {
			if ev.Pressed {
				w.mods |= code.ModifierBit()
			} else {
				w.mods &^= code.ModifierBit()
			}
			return
		}
		w.setHeld(uint8(code.Usage()), ev.Pressed)
	case keys.PageConsumer:
		switch {
		case ev.Pressed:
			w.consumer = code.Usage()
		case w.consumer == code.Usage():
			w.consumer = 0
		}
	}
}

func (w *Writer) setHeld(usage uint8, pressed bool) {
	free := -1
	for i, u := range w.held {
		if u == usage {
			if !pressed {
				w.held[i] = 0
			}
			return
		}
		if u == 0 && free < 0 {
			free = i
		}
	}
	if !pressed {
		return
	}
	if free < 0 {
		w.dropped++
		return
	}
	w.held[free] = usage
}

func (w *Writer) keyboard(dst []byte) {
	dst[0] = w.mods
	dst[1] = 0
	copy(dst[2:], w.held[:])
}
