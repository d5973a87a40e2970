//go:build tinygo && bootdebug

package app

import (
	"machine"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"macropad/display"
	"macropad/hal"
)

// bootStep reports the wiring stage on the serial port, the USB CDC and the
// OLED, so a board that hangs during bring-up shows where.
func bootStep(h hal.HAL, msg string) {
	if h == nil {
		return
	}
	line := "bootdiag: " + msg
	if l := h.Logger(); l != nil {
		l.WriteLineString(line)
	}
	if usb := machine.USBCDC; usb != nil {
		_, _ = usb.Write([]byte(line + "\r\n"))
	}

	d := displayer(h)
	if d == nil {
		return
	}
	w, ht := d.Size()
	display.FillRect(d, 0, 0, w, ht, display.Black)
	tinyfont.WriteLine(d, &proggy.TinySZ8pt7b, 0, 12, "macropad boot", display.White)
	tinyfont.WriteLine(d, &proggy.TinySZ8pt7b, 0, 28, msg, display.White)
	_ = d.Display()
}
