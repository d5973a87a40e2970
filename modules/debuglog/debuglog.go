// Package debuglog prints the events and power edges it observes.
package debuglog

import (
	"fmt"

	"macropad/hal"
	"macropad/kbd"
)

// Module logs through a hal.Logger and passes every event through untouched.
type Module struct {
	kbd.Base
	log hal.Logger
	// Phases also logs boot, suspend and resume.
	Phases bool
}

func New(log hal.Logger) *Module {
	return &Module{log: log, Phases: true}
}

func (m *Module) Name() string { return "debuglog" }

func (m *Module) OnBoot(st *kbd.State) error {
	m.phase("boot", st)
	return nil
}

func (m *Module) OnSuspend(st *kbd.State) error {
	m.phase("suspend", st)
	return nil
}

func (m *Module) OnResume(st *kbd.State) error {
	m.phase("resume", st)
	return nil
}

func (m *Module) ProcessEvent(_ *kbd.State, ev kbd.KeyEvent) (kbd.KeyEvent, error) {
	if m.log != nil {
		m.log.WriteLineString("debug: " + ev.String())
	}
	return ev, nil
}

func (m *Module) phase(name string, st *kbd.State) {
	if !m.Phases || m.log == nil {
		return
	}
	m.log.WriteLineString(fmt.Sprintf("debug: %s @%d", name, st.Tick))
}
