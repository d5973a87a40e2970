package kbd

import (
	"fmt"

	"macropad/keys"
	"macropad/matrix"
)

// KeyEvent is one resolved key transition.
type KeyEvent struct {
	Coord   matrix.Coord
	Key     keys.Code
	Pressed bool
	Tick    uint32
}

// Suppressed reports whether e is the no-op sentinel.
func (e KeyEvent) Suppressed() bool { return e.Key == keys.No }

// Suppress returns the no-op sentinel for e. Modules return it from
// ProcessEvent to swallow an event.
func (e KeyEvent) Suppress() KeyEvent {
	e.Key = keys.No
	return e
}

func (e KeyEvent) String() string {
	dir := "up"
	if e.Pressed {
		dir = "down"
	}
	return fmt.Sprintf("%s %s %s @%d", e.Coord, e.Key, dir, e.Tick)
}

// Resolver maps coordinates to key codes.
type Resolver interface {
	Resolve(c matrix.Coord) keys.Code
}

// Sink receives the surviving events of every iteration, possibly none.
type Sink interface {
	Send(tick uint32, events []KeyEvent) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(tick uint32, events []KeyEvent) error

func (f SinkFunc) Send(tick uint32, events []KeyEvent) error { return f(tick, events) }

type discardSink struct{}

func (discardSink) Send(uint32, []KeyEvent) error { return nil }
