//go:build !tinygo

// Command padcfg checks a macropad config file and prints what the firmware
// would run with.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"macropad/config"
	"macropad/internal/buildinfo"
)

type layout struct {
	Matrix   string     `yaml:"matrix"`
	Keys     [][]string `yaml:"keys"`
	Encoders [][]string `yaml:"encoders,omitempty"`
	Modules  []string   `yaml:"modules"`
}

func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("padcfg", flag.ContinueOnError)
	var (
		path     string
		defaults bool
		keysOnly bool
		version  bool
	)
	fs.StringVar(&path, "config", "", "Config file to check (default ./macropad.yaml if present).")
	fs.BoolVar(&defaults, "defaults", false, "Print the built-in defaults and exit.")
	fs.BoolVar(&keysOnly, "layout", false, "Print only the resolved key layout.")
	fs.BoolVar(&version, "version", false, "Print the build version.")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if version {
		_, err := fmt.Fprintln(w, buildinfo.String())
		return err
	}
	if defaults {
		return config.Dump(w, config.Default())
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if !keysOnly {
		if err := config.Dump(w, cfg); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, "---"); err != nil {
			return err
		}
	}
	l, err := resolve(cfg)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(l); err != nil {
		return err
	}
	return enc.Close()
}

func resolve(cfg config.Config) (layout, error) {
	km, err := cfg.ParseKeymap()
	if err != nil {
		return layout{}, err
	}
	l := layout{
		Matrix:  fmt.Sprintf("%dx%d %s", len(cfg.Matrix.Rows), len(cfg.Matrix.Cols), cfg.Matrix.DiodeOrientation),
		Modules: cfg.ModuleOrder(),
	}
	for _, row := range km.Rows() {
		names := make([]string, len(row))
		for i, c := range row {
			names[i] = c.String()
		}
		l.Keys = append(l.Keys, names)
	}
	for _, pair := range km.Encoders() {
		l.Encoders = append(l.Encoders, []string{pair[0].String(), pair[1].String()})
	}
	return l, nil
}
