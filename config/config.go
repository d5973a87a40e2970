// Package config holds the static device configuration.
//
// The configuration is read once before the loop starts. The device build
// uses Default; the host build can load a YAML file with environment
// overrides (see Load).
package config

import (
	"errors"
	"fmt"
	"strings"

	"macropad/keys"
	"macropad/matrix"
)

// ErrInvalid marks a configuration that cannot drive the keyboard.
var ErrInvalid = errors.New("invalid config")

// Module names accepted in Config.Modules.
const (
	ModuleDebugLog  = "debuglog"
	ModulePowerSave = "powersave"
	ModuleStatus    = "status"
	ModuleRGB       = "rgb"
	ModuleScroller  = "scroller"
	ModuleMetrics   = "metrics"
)

var knownModules = []string{
	ModuleDebugLog, ModulePowerSave, ModuleStatus, ModuleRGB, ModuleScroller, ModuleMetrics,
}

type Config struct {
	Matrix    MatrixConfig    `yaml:"matrix" mapstructure:"matrix"`
	Encoders  []EncoderConfig `yaml:"encoders" mapstructure:"encoders"`
	Keymap    [][]string      `yaml:"keymap" mapstructure:"keymap"`
	Modules   []string        `yaml:"modules" mapstructure:"modules"`
	Display   DisplayConfig   `yaml:"display" mapstructure:"display"`
	Scroller  ScrollerConfig  `yaml:"scroller" mapstructure:"scroller"`
	RGB       RGBConfig       `yaml:"rgb" mapstructure:"rgb"`
	PowerSave PowerSaveConfig `yaml:"powersave" mapstructure:"powersave"`
	// Debug registers the debuglog module ahead of the others.
	Debug bool `yaml:"debug" mapstructure:"debug"`
}

type MatrixConfig struct {
	Rows             []string `yaml:"rows" mapstructure:"rows"`
	Cols             []string `yaml:"cols" mapstructure:"cols"`
	DiodeOrientation string   `yaml:"diode_orientation" mapstructure:"diode_orientation"`
	Debounce         int      `yaml:"debounce" mapstructure:"debounce"`
}

// EncoderConfig is one rotary encoder without a push button.
type EncoderConfig struct {
	A       string `yaml:"a" mapstructure:"a"`
	B       string `yaml:"b" mapstructure:"b"`
	Divisor int    `yaml:"divisor" mapstructure:"divisor"`
	CW      string `yaml:"cw" mapstructure:"cw"`
	CCW     string `yaml:"ccw" mapstructure:"ccw"`
}

type DisplayConfig struct {
	Width  int `yaml:"width" mapstructure:"width"`
	Height int `yaml:"height" mapstructure:"height"`
	// Rotation is 0 or 180 degrees.
	Rotation int `yaml:"rotation" mapstructure:"rotation"`
}

type ScrollerConfig struct {
	Text    string `yaml:"text" mapstructure:"text"`
	Divisor int    `yaml:"divisor" mapstructure:"divisor"`
	Step    int    `yaml:"step" mapstructure:"step"`
	Scale   int    `yaml:"scale" mapstructure:"scale"`
	// Top is the label's top edge; negative centres it.
	Top int `yaml:"top" mapstructure:"top"`
	// ContentWidth overrides the measured text width when positive.
	ContentWidth int `yaml:"content_width" mapstructure:"content_width"`
}

type RGBConfig struct {
	Brightness int `yaml:"brightness" mapstructure:"brightness"`
	Divisor    int `yaml:"divisor" mapstructure:"divisor"`
}

type PowerSaveConfig struct {
	// IdleTicks before suspend; 0 never suspends.
	IdleTicks uint32 `yaml:"idle_ticks" mapstructure:"idle_ticks"`
}

// DefaultText is the stock banner. The trailing blanks scroll past as the gap
// between the end of the text and its next appearance.
const DefaultText = "XIAO KMK MACROPAD" + "                                         "

// Default returns the stock 3x3 numpad with a volume encoder, a 180° OLED
// and a slow scrolling banner.
func Default() Config {
	return Config{
		Matrix: MatrixConfig{
			Rows:             []string{"A0", "A1", "A2"},
			Cols:             []string{"A3", "RX", "SCK"},
			DiodeOrientation: matrix.COL2ROW.String(),
			Debounce:         1,
		},
		Encoders: []EncoderConfig{
			{A: "MOSI", B: "MISO", Divisor: 4, CW: "VOLU", CCW: "VOLD"},
		},
		Keymap: [][]string{
			{"N7", "N8", "N9"},
			{"N4", "N5", "N6"},
			{"N1", "N2", "N3"},
		},
		Modules: []string{ModuleStatus, ModuleRGB, ModuleScroller},
		Display: DisplayConfig{Width: 128, Height: 64, Rotation: 180},
		Scroller: ScrollerConfig{
			Text:    DefaultText,
			Divisor: 60,
			Step:    15,
			Scale:   3,
			Top:     -1,
		},
		RGB: RGBConfig{Brightness: 25, Divisor: 8},
	}
}

// Validate checks c without touching hardware. Errors wrap ErrInvalid.
func (c Config) Validate() error {
	if len(c.Matrix.Rows) == 0 || len(c.Matrix.Cols) == 0 {
		return invalid("matrix needs at least one row and one column")
	}
	if len(c.Matrix.Rows) > 255 || len(c.Matrix.Cols) > 255 {
		return invalid("matrix is larger than 255x255")
	}
	if _, err := matrix.ParseDiodeOrientation(c.Matrix.DiodeOrientation); err != nil {
		return invalid("%v", err)
	}
	if c.Matrix.Debounce < 0 {
		return invalid("matrix.debounce %d is negative", c.Matrix.Debounce)
	}
	if err := uniquePins(c); err != nil {
		return err
	}
	for i, e := range c.Encoders {
		if e.Divisor < 0 || e.Divisor > 64 {
			return invalid("encoders[%d].divisor %d out of range", i, e.Divisor)
		}
	}
	if _, err := c.ParseKeymap(); err != nil {
		return invalid("%v", err)
	}
	seen := map[string]bool{}
	for _, name := range c.Modules {
		if !isKnownModule(name) {
			return invalid("unknown module %q", name)
		}
		if seen[name] {
			return invalid("module %q listed twice", name)
		}
		seen[name] = true
	}
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return invalid("display %dx%d", c.Display.Width, c.Display.Height)
	}
	if c.Display.Rotation != 0 && c.Display.Rotation != 180 {
		return invalid("display.rotation %d, want 0 or 180", c.Display.Rotation)
	}
	s := c.Scroller
	if s.Divisor < 0 || s.Step < 0 || s.Scale < 0 || s.ContentWidth < 0 {
		return invalid("scroller has a negative setting")
	}
	if c.RGB.Brightness < 0 || c.RGB.Brightness > 100 {
		return invalid("rgb.brightness %d, want 0..100", c.RGB.Brightness)
	}
	if c.RGB.Divisor < 0 {
		return invalid("rgb.divisor %d is negative", c.RGB.Divisor)
	}
	return nil
}

// ParseKeymap resolves the key names of the layout and encoder map.
func (c Config) ParseKeymap() (*keys.Keymap, error) {
	enc := make([][2]string, len(c.Encoders))
	for i, e := range c.Encoders {
		enc[i] = [2]string{orNo(e.CW), orNo(e.CCW)}
	}
	return keys.ParseKeymap(len(c.Matrix.Rows), len(c.Matrix.Cols), c.Keymap, enc)
}

// ModuleOrder returns the registration order, with debuglog first when Debug is set.
func (c Config) ModuleOrder() []string {
	out := make([]string, 0, len(c.Modules)+1)
	if c.Debug && !contains(c.Modules, ModuleDebugLog) {
		out = append(out, ModuleDebugLog)
	}
	return append(out, c.Modules...)
}

func uniquePins(c Config) error {
	seen := map[string]string{}
	check := func(pin, where string) error {
		if pin == "" {
			return invalid("%s: empty pin name", where)
		}
		key := strings.ToUpper(pin)
		if prev, ok := seen[key]; ok {
			return invalid("pin %s used by %s and %s", pin, prev, where)
		}
		seen[key] = where
		return nil
	}
	for i, p := range c.Matrix.Rows {
		if err := check(p, fmt.Sprintf("matrix.rows[%d]", i)); err != nil {
			return err
		}
	}
	for i, p := range c.Matrix.Cols {
		if err := check(p, fmt.Sprintf("matrix.cols[%d]", i)); err != nil {
			return err
		}
	}
	for i, e := range c.Encoders {
		if err := check(e.A, fmt.Sprintf("encoders[%d].a", i)); err != nil {
			return err
		}
		if err := check(e.B, fmt.Sprintf("encoders[%d].b", i)); err != nil {
			return err
		}
	}
	return nil
}

func isKnownModule(name string) bool { return contains(knownModules, name) }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func orNo(name string) string {
	if name == "" {
		return "NO"
	}
	return name
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("config: %w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
