package kbd

import (
	"errors"
	"fmt"
)

var (
	// ErrBooted is returned when modules are registered after boot.
	ErrBooted = errors.New("kbd: already booted")
	// ErrNoResolver is returned by New without a keymap.
	ErrNoResolver = errors.New("kbd: no keymap")
)

// PhaseError is a fault inside one phase call. It ends the iteration and
// halts the loop.
type PhaseError struct {
	Phase  Phase
	Module string
	Index  int
	Tick   uint32
	Err    error
	// Panic holds the recovered value when the module panicked.
	Panic any
}

func (e *PhaseError) Error() string {
	who := e.Module
	if who == "" {
		who = "keyboard"
	}
	if e.Panic != nil {
		return fmt.Sprintf("kbd: tick %d: %s: %s panicked: %v", e.Tick, e.Phase, who, e.Panic)
	}
	return fmt.Sprintf("kbd: tick %d: %s: %s: %v", e.Tick, e.Phase, who, e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }
