package kbd

import "fmt"

// Bus is the ordered module list. Registration order is execution order.
type Bus struct {
	modules []Module
}

// Register appends m. The same module may be registered more than once.
func (b *Bus) Register(m Module) {
	b.modules = append(b.modules, m)
}

// Len returns the number of registrations.
func (b *Bus) Len() int { return len(b.modules) }

// Modules returns the registrations in order.
func (b *Bus) Modules() []Module {
	return append([]Module(nil), b.modules...)
}

// Run calls phase p on every module in order and stops at the first failure.
func (b *Bus) Run(p Phase, st *State) error {
	for i, m := range b.modules {
		if err := invoke(p, i, m, st, func() error { return dispatch(p, m, st) }); err != nil {
			return err
		}
	}
	return nil
}

// Process passes ev through every module's ProcessEvent in order. A module
// returning the sentinel ends the chain: later modules never see the event.
func (b *Bus) Process(st *State, ev KeyEvent) (KeyEvent, error) {
	for i, m := range b.modules {
		m := m
		err := invoke(PhaseProcess, i, m, st, func() error {
			out, err := m.ProcessEvent(st, ev)
			if err != nil {
				return err
			}
			ev = out
			return nil
		})
		if err != nil {
			return ev.Suppress(), err
		}
		if ev.Suppressed() {
			return ev, nil
		}
	}
	return ev, nil
}

func dispatch(p Phase, m Module, st *State) error {
	switch p {
	case PhaseBoot:
		return m.OnBoot(st)
	case PhaseBeforeScan:
		return m.BeforeScan(st)
	case PhaseAfterScan:
		return m.AfterScan(st)
	case PhaseBeforeOutput:
		return m.BeforeOutput(st)
	case PhaseAfterOutput:
		return m.AfterOutput(st)
	case PhaseSuspend:
		return m.OnSuspend(st)
	case PhaseResume:
		return m.OnResume(st)
	default:
		return fmt.Errorf("phase %s has no module hook", p)
	}
}

// invoke runs fn and turns an error or panic into a *PhaseError.
func invoke(p Phase, i int, m Module, st *State, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PhaseError{Phase: p, Module: moduleName(m), Index: i, Tick: st.Tick, Panic: r}
		}
	}()
	if e := fn(); e != nil {
		return &PhaseError{Phase: p, Module: moduleName(m), Index: i, Tick: st.Tick, Err: e}
	}
	return nil
}

func moduleName(m Module) string {
	if n, ok := m.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", m)
}
