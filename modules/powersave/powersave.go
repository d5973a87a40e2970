// Package powersave requests suspend after a stretch of idle iterations.
package powersave

import "macropad/kbd"

// Module counts iterations without key activity in after_scan. Once the count
// reaches IdleTicks it asks the keyboard to suspend on every quiet iteration
// until the keyboard is suspended, so an overridden request is repeated. The
// keyboard itself resumes on the next key event.
type Module struct {
	kbd.Base
	idleTicks uint32
	idle      uint32
}

// New returns a module that suspends after idleTicks quiet iterations.
// Zero disables it.
func New(idleTicks uint32) *Module { return &Module{idleTicks: idleTicks} }

func (m *Module) Name() string { return "powersave" }

// Idle returns the number of consecutive quiet iterations seen.
func (m *Module) Idle() uint32 { return m.idle }

func (m *Module) AfterScan(st *kbd.State) error {
	if m.idleTicks == 0 {
		return nil
	}
	if len(st.Pending) > 0 {
		m.idle = 0
		return nil
	}
	if st.Suspended() {
		return nil
	}
	if m.idle < m.idleTicks {
		m.idle++
	}
	if m.idle >= m.idleTicks {
		st.RequestPowerSave(true)
	}
	return nil
}

func (m *Module) OnResume(*kbd.State) error {
	m.idle = 0
	return nil
}
