package kbd

import (
	"context"
	"fmt"

	"macropad/hal"
	"macropad/matrix"
)

// Config wires a Keyboard to its collaborators.
type Config struct {
	Sources []matrix.Source
	Keymap  Resolver
	// Sink defaults to discarding output.
	Sink   Sink
	Logger hal.Logger
}

// Keyboard is the scheduler: it owns the tick counter, the module
// registrations and the per-iteration phase sequence.
type Keyboard struct {
	bus     Bus
	sources []matrix.Source
	keymap  Resolver
	sink    Sink
	log     hal.Logger

	st      State
	scratch []matrix.Transition
	booted  bool
	halted  error
}

// New returns a keyboard with no modules registered.
func New(cfg Config) (*Keyboard, error) {
	if cfg.Keymap == nil {
		return nil, ErrNoResolver
	}
	for i, src := range cfg.Sources {
		if src == nil {
			return nil, fmt.Errorf("kbd: source %d is nil", i)
		}
	}
	k := &Keyboard{
		sources: append([]matrix.Source(nil), cfg.Sources...),
		keymap:  cfg.Keymap,
		sink:    cfg.Sink,
		log:     cfg.Logger,
	}
	if k.sink == nil {
		k.sink = discardSink{}
	}
	return k, nil
}

// Register appends a module to the hook bus. Registration closes at boot.
func (k *Keyboard) Register(m Module) error {
	if k.booted {
		return ErrBooted
	}
	if m == nil {
		return fmt.Errorf("kbd: register: nil module")
	}
	k.bus.Register(m)
	return nil
}

// Modules returns the registered modules in execution order.
func (k *Keyboard) Modules() []Module { return k.bus.Modules() }

// Tick returns the number of completed iterations (mod 2^32).
func (k *Keyboard) Tick() uint32 { return k.st.Tick }

// Suspended reports whether the keyboard is in power-save.
func (k *Keyboard) Suspended() bool { return k.st.suspended }

// Halted returns the fault that stopped the loop, if any.
func (k *Keyboard) Halted() error { return k.halted }

// SetPowerSave requests a power-save transition from outside the loop (for
// example a USB suspend). It is applied at the start of the next Step.
func (k *Keyboard) SetPowerSave(on bool) { k.st.RequestPowerSave(on) }

// Boot runs on_boot once. Later calls are no-ops.
func (k *Keyboard) Boot() error {
	if k.booted {
		return k.halted
	}
	k.booted = true
	k.logf("kbd: boot, %d modules", k.bus.Len())
	if err := k.bus.Run(PhaseBoot, &k.st); err != nil {
		return k.halt(err)
	}
	return nil
}

// Step runs one iteration. After a fault every call returns that fault.
func (k *Keyboard) Step() error {
	if !k.booted {
		if err := k.Boot(); err != nil {
			return err
		}
	}
	if k.halted != nil {
		return k.halted
	}

	if err := k.applyPowerEdge(); err != nil {
		return k.halt(err)
	}

	st := &k.st
	st.Tick++
	st.Pending = st.Pending[:0]

	if err := k.bus.Run(PhaseBeforeScan, st); err != nil {
		return k.halt(err)
	}

	k.scratch = k.scratch[:0]
	for _, src := range k.sources {
		var err error
		k.scratch, err = src.Scan(k.scratch)
		if err != nil {
			return k.halt(&PhaseError{Phase: PhaseScan, Index: -1, Tick: st.Tick, Err: err})
		}
	}
	for _, t := range k.scratch {
		ev := KeyEvent{Coord: t.Coord, Key: k.keymap.Resolve(t.Coord), Pressed: t.Pressed, Tick: st.Tick}
		if ev.Suppressed() {
			continue
		}
		out, err := k.bus.Process(st, ev)
		if err != nil {
			return k.halt(err)
		}
		if !out.Suppressed() {
			st.Pending = append(st.Pending, out)
		}
	}

	if err := k.bus.Run(PhaseAfterScan, st); err != nil {
		return k.halt(err)
	}
	if err := k.bus.Run(PhaseBeforeOutput, st); err != nil {
		return k.halt(err)
	}
	if err := k.sink.Send(st.Tick, st.Pending); err != nil {
		return k.halt(&PhaseError{Phase: PhaseOutput, Index: -1, Tick: st.Tick, Err: err})
	}
	if err := k.bus.Run(PhaseAfterOutput, st); err != nil {
		return k.halt(err)
	}

	if st.suspended && len(st.Pending) > 0 && st.request == requestNone {
		st.request = requestResume
	}
	return nil
}

// Run steps until ctx is done, until reports true for the current tick, or
// a step fails. A nil until runs forever.
func (k *Keyboard) Run(ctx context.Context, until func(tick uint32) bool) error {
	if err := k.Boot(); err != nil {
		return err
	}
	for {
		if until != nil && until(k.st.Tick) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := k.Step(); err != nil {
			return err
		}
	}
}

// applyPowerEdge fires on_suspend/on_resume exactly once per state change.
func (k *Keyboard) applyPowerEdge() error {
	st := &k.st
	req := st.request
	st.request = requestNone
	switch {
	case req == requestSuspend && !st.suspended:
		st.suspended = true
		k.logf("kbd: suspend at tick %d", st.Tick)
		return k.bus.Run(PhaseSuspend, st)
	case req == requestResume && st.suspended:
		st.suspended = false
		k.logf("kbd: resume at tick %d", st.Tick)
		return k.bus.Run(PhaseResume, st)
	}
	return nil
}

func (k *Keyboard) halt(err error) error {
	k.halted = err
	k.logf("kbd: halted: %v", err)
	return err
}

func (k *Keyboard) logf(format string, args ...any) {
	if k.log == nil {
		return
	}
	k.log.WriteLineString(fmt.Sprintf(format, args...))
}
