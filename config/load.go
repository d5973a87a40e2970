//go:build !tinygo

package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment overrides, e.g. MACROPAD_SCROLLER_STEP.
const EnvPrefix = "MACROPAD"

// Load reads the YAML file at path over the defaults and applies
// environment overrides. An empty path looks for macropad.yaml in the
// working directory and falls back to the defaults when it is absent.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("macropad")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("matrix.rows", d.Matrix.Rows)
	v.SetDefault("matrix.cols", d.Matrix.Cols)
	v.SetDefault("matrix.diode_orientation", d.Matrix.DiodeOrientation)
	v.SetDefault("matrix.debounce", d.Matrix.Debounce)

	encoders := make([]map[string]any, 0, len(d.Encoders))
	for _, e := range d.Encoders {
		encoders = append(encoders, map[string]any{
			"a": e.A, "b": e.B, "divisor": e.Divisor, "cw": e.CW, "ccw": e.CCW,
		})
	}
	v.SetDefault("encoders", encoders)
	v.SetDefault("keymap", d.Keymap)
	v.SetDefault("modules", d.Modules)

	v.SetDefault("display.width", d.Display.Width)
	v.SetDefault("display.height", d.Display.Height)
	v.SetDefault("display.rotation", d.Display.Rotation)

	v.SetDefault("scroller.text", d.Scroller.Text)
	v.SetDefault("scroller.divisor", d.Scroller.Divisor)
	v.SetDefault("scroller.step", d.Scroller.Step)
	v.SetDefault("scroller.scale", d.Scroller.Scale)
	v.SetDefault("scroller.top", d.Scroller.Top)
	v.SetDefault("scroller.content_width", d.Scroller.ContentWidth)

	v.SetDefault("rgb.brightness", d.RGB.Brightness)
	v.SetDefault("rgb.divisor", d.RGB.Divisor)
	v.SetDefault("powersave.idle_ticks", d.PowerSave.IdleTicks)
	v.SetDefault("debug", d.Debug)
}

// Dump writes c as YAML.
func Dump(w io.Writer, c Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("config: dump: %w", err)
	}
	return enc.Close()
}
