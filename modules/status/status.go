// Package status mirrors the power-save state on an LED.
package status

import (
	"macropad/hal"
	"macropad/kbd"
)

// Module drives the LED high while awake and low while suspended.
type Module struct {
	kbd.Base
	led hal.LED
}

func New(led hal.LED) *Module { return &Module{led: led} }

func (m *Module) Name() string { return "status" }

func (m *Module) OnBoot(*kbd.State) error {
	m.set(true)
	return nil
}

func (m *Module) OnSuspend(*kbd.State) error {
	m.set(false)
	return nil
}

func (m *Module) OnResume(*kbd.State) error {
	m.set(true)
	return nil
}

func (m *Module) set(on bool) {
	if m.led == nil {
		return
	}
	if on {
		m.led.High()
	} else {
		m.led.Low()
	}
}
