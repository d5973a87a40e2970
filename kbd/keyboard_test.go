package kbd

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"macropad/keys"
	"macropad/matrix"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trace struct {
	lines []string
}

func (tr *trace) add(format string, args ...any) {
	tr.lines = append(tr.lines, fmt.Sprintf(format, args...))
}

// recorder logs every phase it sees.
type recorder struct {
	Base
	name string
	tr   *trace
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) OnBoot(*State) error       { r.tr.add("%s:on_boot", r.name); return nil }
func (r *recorder) BeforeScan(*State) error   { r.tr.add("%s:before_scan", r.name); return nil }
func (r *recorder) AfterScan(*State) error    { r.tr.add("%s:after_scan", r.name); return nil }
func (r *recorder) BeforeOutput(*State) error { r.tr.add("%s:before_output", r.name); return nil }
func (r *recorder) AfterOutput(*State) error  { r.tr.add("%s:after_output", r.name); return nil }
func (r *recorder) OnSuspend(*State) error    { r.tr.add("%s:on_suspend", r.name); return nil }
func (r *recorder) OnResume(*State) error     { r.tr.add("%s:on_resume", r.name); return nil }

func (r *recorder) ProcessEvent(_ *State, ev KeyEvent) (KeyEvent, error) {
	r.tr.add("%s:process %s", r.name, ev.Key)
	return ev, nil
}

type suppressor struct {
	Base
	tr *trace
}

func (s *suppressor) Name() string { return "suppress" }

func (s *suppressor) ProcessEvent(_ *State, ev KeyEvent) (KeyEvent, error) {
	s.tr.add("suppress:process %s", ev.Key)
	return ev.Suppress(), nil
}

// scripted emits one batch of transitions per Scan call.
type scripted struct {
	tr      *trace
	batches [][]matrix.Transition
	err     error
}

func (s *scripted) Scan(dst []matrix.Transition) ([]matrix.Transition, error) {
	if s.tr != nil {
		s.tr.add("scan")
	}
	if s.err != nil {
		return dst, s.err
	}
	if len(s.batches) == 0 {
		return dst, nil
	}
	b := s.batches[0]
	s.batches = s.batches[1:]
	return append(dst, b...), nil
}

type recordingSink struct {
	tr     *trace
	events [][]KeyEvent
}

func (s *recordingSink) Send(tick uint32, events []KeyEvent) error {
	if s.tr != nil {
		s.tr.add("output %d", len(events))
	}
	s.events = append(s.events, append([]KeyEvent(nil), events...))
	return nil
}

func (s *recordingSink) all() []KeyEvent {
	var out []KeyEvent
	for _, b := range s.events {
		out = append(out, b...)
	}
	return out
}

var testKeymap = mustKeymap()

func mustKeymap() *keys.Keymap {
	k, err := keys.NewKeymap(2, 2, [][]keys.Code{{keys.N1, keys.N2}, {keys.N3, keys.No}}, [][2]keys.Code{{keys.VolumeUp, keys.VolumeDown}})
	if err != nil {
		panic(err)
	}
	return k
}

func press(r, c uint8) matrix.Transition {
	return matrix.Transition{Coord: matrix.Coord{Row: r, Col: c}, Pressed: true}
}

func release(r, c uint8) matrix.Transition {
	return matrix.Transition{Coord: matrix.Coord{Row: r, Col: c}}
}

func newTestKeyboard(t *testing.T, src matrix.Source, sink Sink, mods ...Module) *Keyboard {
	t.Helper()
	var sources []matrix.Source
	if src != nil {
		sources = append(sources, src)
	}
	k, err := New(Config{Sources: sources, Keymap: testKeymap, Sink: sink})
	require.NoError(t, err)
	for _, m := range mods {
		require.NoError(t, k.Register(m))
	}
	return k
}

func TestPhaseOrder(t *testing.T) {
	for _, n := range []int{0, 1, 3} {
		t.Run(fmt.Sprintf("%d modules", n), func(t *testing.T) {
			tr := &trace{}
			var mods []Module
			for i := 0; i < n; i++ {
				mods = append(mods, &recorder{name: fmt.Sprintf("m%d", i), tr: tr})
			}
			k := newTestKeyboard(t, &scripted{tr: tr}, &recordingSink{tr: tr}, mods...)
			require.NoError(t, k.Boot())
			tr.lines = nil

			require.NoError(t, k.Step())

			var want []string
			phase := func(name string) {
				for i := 0; i < n; i++ {
					want = append(want, fmt.Sprintf("m%d:%s", i, name))
				}
			}
			phase("before_scan")
			want = append(want, "scan")
			phase("after_scan")
			phase("before_output")
			want = append(want, "output 0")
			phase("after_output")
			assert.Equal(t, want, tr.lines)
		})
	}
}

func TestBootRunsOnce(t *testing.T) {
	tr := &trace{}
	k := newTestKeyboard(t, nil, nil, &recorder{name: "a", tr: tr})
	require.NoError(t, k.Boot())
	require.NoError(t, k.Boot())
	require.NoError(t, k.Step())
	assert.Equal(t, 1, countLines(tr, "a:on_boot"))
}

func TestStepBootsLazily(t *testing.T) {
	tr := &trace{}
	k := newTestKeyboard(t, nil, nil, &recorder{name: "a", tr: tr})
	require.NoError(t, k.Step())
	assert.Equal(t, "a:on_boot", tr.lines[0])
}

func TestProcessEventRegistrationOrder(t *testing.T) {
	tr := &trace{}
	src := &scripted{batches: [][]matrix.Transition{{press(0, 1)}}}
	sink := &recordingSink{}
	k := newTestKeyboard(t, src, sink,
		&recorder{name: "A", tr: tr},
		&recorder{name: "B", tr: tr},
		&recorder{name: "C", tr: tr},
	)
	require.NoError(t, k.Boot())
	tr.lines = nil
	require.NoError(t, k.Step())

	assert.Equal(t, []string{"A:process N2", "B:process N2", "C:process N2"}, filterPrefix(tr, "process"))
	assert.Equal(t, []KeyEvent{{Coord: matrix.Coord{Col: 1}, Key: keys.N2, Pressed: true, Tick: 1}}, sink.all())
}

func TestSuppressionStopsChain(t *testing.T) {
	tr := &trace{}
	src := &scripted{batches: [][]matrix.Transition{{press(0, 0)}}}
	sink := &recordingSink{tr: tr}
	k := newTestKeyboard(t, src, sink,
		&recorder{name: "log", tr: tr},
		&suppressor{tr: tr},
		&recorder{name: "late", tr: tr},
	)
	require.NoError(t, k.Boot())
	tr.lines = nil
	require.NoError(t, k.Step())

	assert.Equal(t, []string{"log:process N1", "suppress:process N1"}, filterPrefix(tr, "process"))
	assert.Empty(t, sink.all())
	// The phase sequence still ran in full, including output.
	assert.Equal(t, 1, countLines(tr, "late:after_output"))
	assert.Equal(t, 1, countLines(tr, "output 0"))
}

func TestLogThenSuppressScenario(t *testing.T) {
	var seen []KeyEvent
	logMod := &funcModule{process: func(ev KeyEvent) KeyEvent {
		seen = append(seen, ev)
		return ev
	}}
	src := &scripted{batches: [][]matrix.Transition{{press(1, 0)}, {release(1, 0)}}}
	sink := &recordingSink{}
	k := newTestKeyboard(t, src, sink, logMod, &suppressor{tr: &trace{}})

	require.NoError(t, k.Run(context.Background(), func(tick uint32) bool { return tick >= 2 }))

	require.Len(t, seen, 2)
	assert.Equal(t, keys.N3, seen[0].Key)
	assert.True(t, seen[0].Pressed)
	assert.Empty(t, sink.all())
}

func TestUnmappedCoordIsDropped(t *testing.T) {
	tr := &trace{}
	src := &scripted{batches: [][]matrix.Transition{{press(1, 1)}}}
	sink := &recordingSink{}
	k := newTestKeyboard(t, src, sink, &recorder{name: "a", tr: tr})
	require.NoError(t, k.Step())
	assert.Empty(t, filterPrefix(tr, "process"))
	assert.Empty(t, sink.all())
}

func TestEncoderCoordResolves(t *testing.T) {
	cw := matrix.Coord{Row: 0, Col: matrix.Clockwise, Encoder: true}
	src := &scripted{batches: [][]matrix.Transition{{{Coord: cw, Pressed: true}}}}
	sink := &recordingSink{}
	k := newTestKeyboard(t, src, sink)
	require.NoError(t, k.Step())
	require.Len(t, sink.all(), 1)
	assert.Equal(t, keys.VolumeUp, sink.all()[0].Key)
}

func TestTickIncrementsAndWraps(t *testing.T) {
	k := newTestKeyboard(t, nil, nil)
	require.NoError(t, k.Step())
	require.NoError(t, k.Step())
	assert.Equal(t, uint32(2), k.Tick())

	k.st.Tick = math.MaxUint32
	require.NoError(t, k.Step())
	assert.Equal(t, uint32(0), k.Tick())
}

func TestRunHonorsUntilAndContext(t *testing.T) {
	k := newTestKeyboard(t, nil, nil)
	require.NoError(t, k.Run(context.Background(), func(tick uint32) bool { return tick == 25 }))
	assert.Equal(t, uint32(25), k.Tick())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := k.Run(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, uint32(25), k.Tick())
}

func TestSuspendResumeEdges(t *testing.T) {
	tr := &trace{}
	k := newTestKeyboard(t, nil, nil, &recorder{name: "a", tr: tr})
	require.NoError(t, k.Boot())

	k.SetPowerSave(true)
	require.NoError(t, k.Step())
	assert.True(t, k.Suspended())

	// Repeated requests for the current state do nothing.
	k.SetPowerSave(true)
	require.NoError(t, k.Step())
	require.NoError(t, k.Step())

	k.SetPowerSave(false)
	require.NoError(t, k.Step())
	assert.False(t, k.Suspended())
	k.SetPowerSave(false)
	require.NoError(t, k.Step())

	assert.Equal(t, 1, countLines(tr, "a:on_suspend"))
	assert.Equal(t, 1, countLines(tr, "a:on_resume"))

	// on_suspend fires before the iteration's before_scan.
	idx := indexOf(tr, "a:on_suspend")
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, "a:before_scan", tr.lines[idx+1])
}

func TestKeyActivityWakes(t *testing.T) {
	tr := &trace{}
	src := &scripted{batches: [][]matrix.Transition{nil, {press(0, 0)}}}
	sink := &recordingSink{}
	k := newTestKeyboard(t, src, sink, &recorder{name: "a", tr: tr})
	k.SetPowerSave(true)

	require.NoError(t, k.Step())
	assert.True(t, k.Suspended())
	require.NoError(t, k.Step())
	// The key still went out; resume happens at the next edge.
	assert.Len(t, sink.all(), 1)
	assert.True(t, k.Suspended())
	require.NoError(t, k.Step())
	assert.False(t, k.Suspended())
	assert.Equal(t, 1, countLines(tr, "a:on_resume"))
}

func TestModuleErrorHaltsIteration(t *testing.T) {
	tr := &trace{}
	boom := errors.New("boom")
	failing := &funcModule{beforeScan: func() error { return boom }}
	sink := &recordingSink{tr: tr}
	k := newTestKeyboard(t, &scripted{tr: tr}, sink, failing, &recorder{name: "late", tr: tr})
	require.NoError(t, k.Boot())
	tr.lines = nil

	err := k.Step()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var pe *PhaseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, PhaseBeforeScan, pe.Phase)
	assert.Equal(t, 0, pe.Index)
	assert.Equal(t, uint32(1), pe.Tick)

	assert.Empty(t, tr.lines, "nothing after the failing module may run")

	// The loop stays halted.
	assert.Same(t, err, k.Step())
	assert.Equal(t, err, k.Halted())
}

func TestModulePanicBecomesPhaseError(t *testing.T) {
	mod := &funcModule{process: func(KeyEvent) KeyEvent { panic("bad key") }}
	src := &scripted{batches: [][]matrix.Transition{{press(0, 0)}}}
	sink := &recordingSink{}
	k := newTestKeyboard(t, src, sink, mod)

	err := k.Step()
	var pe *PhaseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, PhaseProcess, pe.Phase)
	assert.Equal(t, "bad key", pe.Panic)
	assert.Contains(t, err.Error(), "panicked")
	assert.Empty(t, sink.events)
}

func TestScanErrorHalts(t *testing.T) {
	broken := errors.New("line stuck")
	k := newTestKeyboard(t, &scripted{err: broken}, nil)
	err := k.Step()
	var pe *PhaseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, PhaseScan, pe.Phase)
	assert.ErrorIs(t, err, broken)
}

func TestRegisterAfterBoot(t *testing.T) {
	k := newTestKeyboard(t, nil, nil)
	require.NoError(t, k.Boot())
	assert.ErrorIs(t, k.Register(&recorder{}), ErrBooted)
}

func TestNewRequiresKeymap(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNoResolver)
}

func TestDuplicateRegistrationRunsTwice(t *testing.T) {
	tr := &trace{}
	r := &recorder{name: "dup", tr: tr}
	k := newTestKeyboard(t, nil, nil, r, r)
	require.NoError(t, k.Step())
	assert.Equal(t, 2, countLines(tr, "dup:before_scan"))
	assert.Len(t, k.Modules(), 2)
}

type funcModule struct {
	Base
	beforeScan func() error
	process    func(KeyEvent) KeyEvent
}

func (m *funcModule) BeforeScan(*State) error {
	if m.beforeScan != nil {
		return m.beforeScan()
	}
	return nil
}

func (m *funcModule) ProcessEvent(_ *State, ev KeyEvent) (KeyEvent, error) {
	if m.process != nil {
		return m.process(ev), nil
	}
	return ev, nil
}

func countLines(tr *trace, s string) int {
	n := 0
	for _, l := range tr.lines {
		if l == s {
			n++
		}
	}
	return n
}

func indexOf(tr *trace, s string) int {
	for i, l := range tr.lines {
		if l == s {
			return i
		}
	}
	return -1
}

func filterPrefix(tr *trace, phase string) []string {
	var out []string
	for _, l := range tr.lines {
		for i := 0; i < len(l); i++ {
			if l[i] == ':' {
				if len(l) > i+len(phase) && l[i+1:i+1+len(phase)] == phase {
					out = append(out, l)
				}
				break
			}
		}
	}
	return out
}
