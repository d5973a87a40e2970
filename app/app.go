// Package app builds the keyboard from a HAL and a configuration.
package app

import (
	"context"
	"fmt"

	"tinygo.org/x/drivers"

	"macropad/config"
	"macropad/display"
	"macropad/hal"
	"macropad/internal/buildinfo"
	"macropad/kbd"
	"macropad/matrix"
	"macropad/modules/debuglog"
	"macropad/modules/powersave"
	"macropad/modules/rgb"
	"macropad/modules/scroller"
	"macropad/modules/status"
	"macropad/report"
)

// Env is what a module factory may draw on.
type Env struct {
	HAL    hal.HAL
	Config config.Config
}

// Factory builds a module by name. A nil module with a nil error skips it.
type Factory func(env Env) (kbd.Module, error)

// Options extend the app with build-specific modules (metrics on the host).
type Options struct {
	Modules map[string]Factory
}

// App owns the keyboard and reports faults on the status display.
type App struct {
	h     hal.HAL
	kb    *kbd.Keyboard
	label *display.Label
	fault error
}

// New wires sources, keymap, output and modules. It does not boot the
// keyboard; the first Step does.
func New(h hal.HAL, cfg config.Config, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	bootStep(h, "matrix")
	sources, err := newSources(h.GPIO(), cfg)
	if err != nil {
		return nil, err
	}
	km, err := cfg.ParseKeymap()
	if err != nil {
		return nil, err
	}
	bootStep(h, "hid")
	sink, err := report.NewWriter(h.HID())
	if err != nil {
		return nil, err
	}
	kb, err := kbd.New(kbd.Config{Sources: sources, Keymap: km, Sink: sink, Logger: h.Logger()})
	if err != nil {
		return nil, err
	}

	a := &App{h: h, kb: kb}
	env := Env{HAL: h, Config: cfg}
	factories := a.builtins()
	for name, f := range opts.Modules {
		factories[name] = f
	}
	for _, name := range cfg.ModuleOrder() {
		bootStep(h, "module "+name)
		f, ok := factories[name]
		if !ok {
			return nil, fmt.Errorf("app: module %q is not available in this build", name)
		}
		m, err := f(env)
		if err != nil {
			return nil, fmt.Errorf("app: module %s: %w", name, err)
		}
		if m == nil {
			a.logf("app: module %s skipped", name)
			continue
		}
		if err := kb.Register(m); err != nil {
			return nil, err
		}
	}
	a.logf("app: macropad %s, %d sources, %d modules", buildinfo.Short(), len(sources), len(kb.Modules()))
	return a, nil
}

// Keyboard returns the scheduler.
func (a *App) Keyboard() *kbd.Keyboard { return a.kb }

// Label returns the scrolling label, or nil when there is no display.
func (a *App) Label() *display.Label { return a.label }

// Step runs one loop iteration. The first fault is drawn on the display;
// later calls return it again.
func (a *App) Step() error {
	if a.fault != nil {
		return a.fault
	}
	if err := a.kb.Step(); err != nil {
		a.fault = err
		a.showFault(err)
		return err
	}
	return nil
}

// Run boots the device and loops until ctx is done or a fault stops it.
// It never returns on a fault; the fault screen stays up.
func Run(ctx context.Context, h hal.HAL, cfg config.Config) {
	a, err := New(h, cfg, Options{})
	if err != nil {
		showFault(h, err)
		select {}
	}
	for ctx.Err() == nil {
		if err := a.Step(); err != nil {
			select {}
		}
	}
}

func (a *App) builtins() map[string]Factory {
	return map[string]Factory{
		config.ModuleDebugLog: func(env Env) (kbd.Module, error) {
			return debuglog.New(env.HAL.Logger()), nil
		},
		config.ModulePowerSave: func(env Env) (kbd.Module, error) {
			return powersave.New(env.Config.PowerSave.IdleTicks), nil
		},
		config.ModuleStatus: func(env Env) (kbd.Module, error) {
			return status.New(env.HAL.LED()), nil
		},
		config.ModuleRGB: func(env Env) (kbd.Module, error) {
			px := env.HAL.Pixels()
			if px == nil || px.Len() == 0 {
				return nil, nil
			}
			return rgb.New(px, rgb.Options{
				Brightness: env.Config.RGB.Brightness,
				Divisor:    env.Config.RGB.Divisor,
			})
		},
		config.ModuleScroller: a.newScroller,
	}
}

func (a *App) newScroller(env Env) (kbd.Module, error) {
	d := displayer(env.HAL)
	if d == nil {
		return nil, nil
	}
	sc := env.Config.Scroller
	var rot drivers.Rotation = drivers.Rotation0
	if env.Config.Display.Rotation == 180 {
		rot = drivers.Rotation180
	}
	label, err := display.NewLabel(display.Rotated(d, rot), sc.Text, display.LabelOptions{
		Scale: sc.Scale,
		Top:   sc.Top,
		Width: sc.ContentWidth,
	})
	if err != nil {
		return nil, err
	}
	w, h := d.Size()
	if int(w) != env.Config.Display.Width || int(h) != env.Config.Display.Height {
		a.logf("app: display is %dx%d, config says %dx%d", w, h, env.Config.Display.Width, env.Config.Display.Height)
	}
	a.label = label
	return scroller.New(label, scroller.Options{
		Divisor:      sc.Divisor,
		Step:         sc.Step,
		SurfaceWidth: int(w),
	})
}

func newSources(g hal.GPIO, cfg config.Config) ([]matrix.Source, error) {
	rows, err := pins(g, cfg.Matrix.Rows)
	if err != nil {
		return nil, err
	}
	cols, err := pins(g, cfg.Matrix.Cols)
	if err != nil {
		return nil, err
	}
	orientation, err := matrix.ParseDiodeOrientation(cfg.Matrix.DiodeOrientation)
	if err != nil {
		return nil, err
	}
	scan, err := matrix.NewScanner(rows, cols, orientation, cfg.Matrix.Debounce)
	if err != nil {
		return nil, err
	}
	sources := []matrix.Source{scan}
	for i, e := range cfg.Encoders {
		ab, err := pins(g, []string{e.A, e.B})
		if err != nil {
			return nil, err
		}
		enc, err := matrix.NewEncoder(i, ab[0], ab[1], e.Divisor)
		if err != nil {
			return nil, err
		}
		sources = append(sources, enc)
	}
	return sources, nil
}

func pins(g hal.GPIO, names []string) ([]hal.GPIOPin, error) {
	out := make([]hal.GPIOPin, len(names))
	for i, name := range names {
		p := hal.PinByName(g, name)
		if p == nil {
			return nil, fmt.Errorf("%w: no pin named %q", matrix.ErrConfig, name)
		}
		out[i] = p
	}
	return out, nil
}

func displayer(h hal.HAL) drivers.Displayer {
	disp := h.Display()
	if disp == nil {
		return nil
	}
	return disp.Displayer()
}

func (a *App) logf(format string, args ...any) {
	if l := a.h.Logger(); l != nil {
		l.WriteLineString(fmt.Sprintf(format, args...))
	}
}
