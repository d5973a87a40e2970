package kbd

// Phase names a point in the iteration at which modules run.
type Phase uint8

const (
	PhaseBoot Phase = iota + 1
	PhaseBeforeScan
	PhaseScan
	PhaseProcess
	PhaseAfterScan
	PhaseBeforeOutput
	PhaseOutput
	PhaseAfterOutput
	PhaseSuspend
	PhaseResume
)

func (p Phase) String() string {
	switch p {
	case PhaseBoot:
		return "on_boot"
	case PhaseBeforeScan:
		return "before_scan"
	case PhaseScan:
		return "scan"
	case PhaseProcess:
		return "process_event"
	case PhaseAfterScan:
		return "after_scan"
	case PhaseBeforeOutput:
		return "before_output"
	case PhaseOutput:
		return "output"
	case PhaseAfterOutput:
		return "after_output"
	case PhaseSuspend:
		return "on_suspend"
	case PhaseResume:
		return "on_resume"
	default:
		return "unknown"
	}
}

// Module is a participant on the hook bus. Embed Base and override only the
// phases the module needs.
type Module interface {
	OnBoot(st *State) error
	BeforeScan(st *State) error
	AfterScan(st *State) error
	BeforeOutput(st *State) error
	AfterOutput(st *State) error
	OnSuspend(st *State) error
	OnResume(st *State) error
	ProcessEvent(st *State, ev KeyEvent) (KeyEvent, error)
}

// Named modules report their name in phase errors and logs.
type Named interface {
	Name() string
}

// Base implements every phase as a no-op.
type Base struct{}

func (Base) OnBoot(*State) error       { return nil }
func (Base) BeforeScan(*State) error   { return nil }
func (Base) AfterScan(*State) error    { return nil }
func (Base) BeforeOutput(*State) error { return nil }
func (Base) AfterOutput(*State) error  { return nil }
func (Base) OnSuspend(*State) error    { return nil }
func (Base) OnResume(*State) error     { return nil }

func (Base) ProcessEvent(_ *State, ev KeyEvent) (KeyEvent, error) { return ev, nil }

// State is the scheduler context handed to every phase call.
type State struct {
	// Tick counts iterations. It wraps at overflow.
	Tick uint32
	// Pending holds the events of the current iteration that survived
	// process_event. It is reset at the start of every iteration.
	Pending []KeyEvent

	suspended bool
	request   powerRequest
}

type powerRequest uint8

const (
	requestNone powerRequest = iota
	requestSuspend
	requestResume
)

// Suspended reports whether the device is in power-save.
func (s *State) Suspended() bool { return s.suspended }

// RequestPowerSave asks for a power-save transition. It takes effect at the
// start of the next iteration; the last request wins.
func (s *State) RequestPowerSave(on bool) {
	if on {
		s.request = requestSuspend
	} else {
		s.request = requestResume
	}
}
