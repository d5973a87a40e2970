//go:build !tinygo

package hal

import (
	"context"
	"testing"
)

func TestParseScript(t *testing.T) {
	got, err := ParseScript("3:press:0,2; 9:release:0,2;12:turn:-1")
	if err != nil {
		t.Fatalf("ParseScript: %v", err)
	}
	want := []ScriptAction{
		{At: 3, Row: 0, Col: 2, Closed: true},
		{At: 9, Row: 0, Col: 2},
		{At: 12, Turn: -1},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("action %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseScriptErrors(t *testing.T) {
	for _, s := range []string{"x:press:0,0", "0:press:0,0", "1:hold:0,0", "1:press:0", "1:turn:0", "1:press"} {
		if _, err := ParseScript(s); err == nil {
			t.Fatalf("ParseScript(%q) err = nil, want error", s)
		}
	}
}

func TestRunHeadlessTickBudget(t *testing.T) {
	var steps int
	var closedAt int
	var h *hostHAL
	err := RunHeadless(context.Background(), func(hh HAL) (func() error, error) {
		h = hh.(*hostHAL)
		return func() error {
			steps++
			if closedAt == 0 && h.matrix.Closed(1, 1) {
				closedAt = steps
			}
			return nil
		}, nil
	}, HeadlessConfig{
		Hz:         1000,
		Ticks:      10,
		StepBudget: 4,
		Script:     []ScriptAction{{At: 5, Row: 1, Col: 1, Closed: true}},
	})
	if err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if steps != 10 {
		t.Fatalf("steps = %d, want 10", steps)
	}
	if closedAt != 5 {
		t.Fatalf("switch closed at step %d, want 5", closedAt)
	}
}
