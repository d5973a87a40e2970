package app

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"macropad/display"
	"macropad/hal"
	"macropad/kbd"
)

func (a *App) showFault(err error) { showFault(a.h, err) }

// showFault logs err and draws it over the whole status display.
func showFault(h hal.HAL, err error) {
	lines := faultLines(err)
	if l := h.Logger(); l != nil {
		for _, line := range lines {
			l.WriteLineString(line)
		}
	}

	d := displayer(h)
	if d == nil {
		return
	}
	drawLines(d, lines)
}

func faultLines(err error) []string {
	lines := []string{"macropad fault"}
	var pe *kbd.PhaseError
	if errors.As(err, &pe) {
		lines = append(lines, "phase: "+pe.Phase.String())
		if pe.Module != "" {
			lines = append(lines, "module: "+pe.Module)
		}
		lines = append(lines, fmt.Sprintf("tick: %d", pe.Tick))
		if pe.Panic != nil {
			lines = append(lines, fmt.Sprintf("panic: %v", pe.Panic))
		}
		err = pe.Err
	}
	if err == nil {
		return lines
	}
	for _, line := range strings.Split(err.Error(), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func drawLines(d drivers.Displayer, lines []string) {
	font := &proggy.TinySZ8pt7b
	fontHeight := int16(font.GetYAdvance())
	_, outboxWidth := tinyfont.LineWidth(font, "0")
	fontWidth := int16(outboxWidth)
	w, h := d.Size()
	if fontWidth <= 0 || fontHeight <= 0 || w <= 0 || h <= 0 {
		return
	}

	display.FillRect(d, 0, 0, w, h, display.Black)
	cols := w / fontWidth
	if cols <= 0 {
		cols = 1
	}

	y := int16(0)
	for _, line := range lines {
		for len(line) > 0 {
			if y+fontHeight > h {
				_ = d.Display()
				return
			}
			chunk, rest := takeRunes(line, cols)
			tinyfont.WriteLine(d, font, 0, y+fontHeight-1, chunk, display.White)
			y += fontHeight
			line = strings.TrimLeft(rest, " ")
		}
	}
	_ = d.Display()
}

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if int64(len(s)) <= int64(n) {
		return s, ""
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		if size <= 0 {
			break
		}
		i += size
		count++
	}
	if i >= len(s) {
		return s, ""
	}
	return s[:i], s[i:]
}
