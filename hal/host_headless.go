//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled    bool
	Hz         int
	Ticks      uint64
	StepBudget int
	Script     []ScriptAction
}

// ScriptAction changes simulated input before loop iteration At (1-based).
type ScriptAction struct {
	At     uint64
	Row    int
	Col    int
	Closed bool
	Turn   int
}

// ParseScript parses "at:press:row,col", "at:release:row,col" and
// "at:turn:detents" actions separated by ';'.
func ParseScript(s string) ([]ScriptAction, error) {
	var out []ScriptAction
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Split(part, ":")
		if len(fields) != 3 {
			return nil, fmt.Errorf("script: %q: want at:action:args", part)
		}
		at, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil || at == 0 {
			return nil, fmt.Errorf("script: %q: invalid iteration %q", part, fields[0])
		}
		act := ScriptAction{At: at}
		switch fields[1] {
		case "press", "release":
			rc := strings.Split(fields[2], ",")
			if len(rc) != 2 {
				return nil, fmt.Errorf("script: %q: want row,col", part)
			}
			if act.Row, err = strconv.Atoi(rc[0]); err != nil {
				return nil, fmt.Errorf("script: %q: row: %w", part, err)
			}
			if act.Col, err = strconv.Atoi(rc[1]); err != nil {
				return nil, fmt.Errorf("script: %q: col: %w", part, err)
			}
			act.Closed = fields[1] == "press"
		case "turn":
			if act.Turn, err = strconv.Atoi(fields[2]); err != nil || act.Turn == 0 {
				return nil, fmt.Errorf("script: %q: invalid detents %q", part, fields[2])
			}
		default:
			return nil, fmt.Errorf("script: %q: unknown action %q", part, fields[1])
		}
		out = append(out, act)
	}
	return out, nil
}

// RunHeadless runs the firmware without opening a window.
//
// Each timer tick runs StepBudget loop iterations. Ticks bounds the total
// number of iterations (0 = run until ctx is done).
func RunHeadless(ctx context.Context, newApp func(HAL) (func() error, error), cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	if cfg.StepBudget <= 0 {
		cfg.StepBudget = 1
	}

	h := newHost()
	step, err := newApp(h)
	if err != nil {
		return err
	}

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	var iter uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			for i := 0; i < cfg.StepBudget; i++ {
				iter++
				h.applyScript(cfg.Script, iter)
				h.step()
				if step != nil {
					if err := step(); err != nil {
						return err
					}
				}
				if cfg.Ticks > 0 && iter >= cfg.Ticks {
					return nil
				}
			}
		}
	}
}

func (h *hostHAL) applyScript(script []ScriptAction, iter uint64) {
	for _, act := range script {
		if act.At != iter {
			continue
		}
		if act.Turn != 0 {
			h.encoder.Turn(act.Turn)
			continue
		}
		h.matrix.Set(act.Row, act.Col, act.Closed)
	}
}
