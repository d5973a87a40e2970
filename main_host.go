//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"macropad/app"
	"macropad/config"
	"macropad/hal"
	"macropad/kbd"
	"macropad/metrics"
)

func main() {
	var (
		headless   hal.HeadlessConfig
		window     hal.WindowConfig
		configPath string
		script     string
		metricsAt  string
	)
	flag.StringVar(&configPath, "config", "", "YAML config file (default ./macropad.yaml if present).")
	flag.BoolVar(&headless.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&headless.Hz, "hz", 60, "Timer rate in headless mode.")
	flag.Uint64Var(&headless.Ticks, "ticks", 0, "Stop after N loop iterations in headless mode (0 = run forever).")
	flag.IntVar(&headless.StepBudget, "steps", 16, "Loop iterations per timer tick or frame.")
	flag.StringVar(&script, "script", "", "Headless input script, e.g. \"10:press:0,0;20:release:0,0;30:turn:1\".")
	flag.StringVar(&metricsAt, "metrics", "", "Serve Prometheus metrics on this address, e.g. :9090.")
	flag.Parse()
	window.StepBudget = headless.StepBudget

	cfg, err := config.Load(configPath)
	if err != nil {
		fatal(err)
	}
	if script != "" {
		if headless.Script, err = hal.ParseScript(script); err != nil {
			fatal(err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	opts := app.Options{Modules: map[string]app.Factory{
		config.ModuleMetrics: func(app.Env) (kbd.Module, error) { return metrics.New(reg) },
	}}
	if metricsAt != "" {
		if !slices.Contains(cfg.Modules, config.ModuleMetrics) {
			cfg.Modules = append([]string{config.ModuleMetrics}, cfg.Modules...)
		}
		go func() {
			if err := metrics.Serve(ctx, metricsAt, reg); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}()
	}

	newApp := func(h hal.HAL) (func() error, error) {
		a, err := app.New(h, cfg, opts)
		if err != nil {
			return nil, err
		}
		return a.Step, nil
	}

	if headless.Enabled {
		if err := hal.RunHeadless(ctx, newApp, headless); err != nil && !errors.Is(err, context.Canceled) {
			fatal(err)
		}
		return
	}
	if err := hal.RunWindow(newApp, window); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
