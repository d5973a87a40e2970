//go:build !tinygo

package hal

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"os"
	"sync"

	"tinygo.org/x/drivers"
)

// Host pin names follow the XIAO RP2040 silkscreen so the default config
// runs unchanged on both targets.
var (
	hostRowPins = []string{"A0", "A1", "A2"}
	hostColPins = []string{"A3", "RX", "SCK"}
)

const (
	hostEncoderA = "MOSI"
	hostEncoderB = "MISO"

	hostDisplayWidth  = 128
	hostDisplayHeight = 64
)

type hostHAL struct {
	logger  *hostLogger
	led     *hostLED
	gpio    GPIO
	matrix  *SwitchMatrix
	encoder *QuadratureEncoder
	fb      *hostFramebuffer
	disp    *FramebufferDisplayer
	pixels  *hostPixels
	hid     *hostHID
}

// New returns a host HAL implementation.
func New() HAL {
	return newHost()
}

func newHost() *hostHAL {
	logger := &hostLogger{w: os.Stdout}
	led := &hostLED{logger: logger}

	m := NewSwitchMatrix(hostRowPins, hostColPins, true)
	enc := NewQuadratureEncoder(hostEncoderA, hostEncoderB)
	encA, encB := enc.Pins()
	pins := append(m.Pins(), encA, encB)

	fb := newHostFramebuffer(hostDisplayWidth, hostDisplayHeight)
	return &hostHAL{
		logger:  logger,
		led:     led,
		gpio:    newVirtualGPIO(pins),
		matrix:  m,
		encoder: enc,
		fb:      fb,
		disp:    NewFramebufferDisplayer(fb),
		pixels:  &hostPixels{colors: make([]color.RGBA, 1)},
		hid:     &hostHID{logger: logger},
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) LED() LED         { return h.led }
func (h *hostHAL) GPIO() GPIO       { return h.gpio }
func (h *hostHAL) Display() Display { return hostDisplay{d: h.disp} }
func (h *hostHAL) Pixels() Pixels   { return h.pixels }
func (h *hostHAL) HID() HID         { return h.hid }

// step runs between loop iterations on the host.
func (h *hostHAL) step() {
	h.encoder.Advance()
}

type hostDisplay struct {
	d *FramebufferDisplayer
}

func (d hostDisplay) Displayer() drivers.Displayer { return d.d }

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type hostLED struct {
	mu     sync.Mutex
	on     bool
	logger *hostLogger
}

func (l *hostLED) High() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.on {
		return
	}
	l.on = true
	l.logger.WriteLineString("led: HIGH")
}

func (l *hostLED) Low() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.on {
		return
	}
	l.on = false
	l.logger.WriteLineString("led: LOW")
}

func (l *hostLED) isOn() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.on
}

type hostPixels struct {
	mu     sync.Mutex
	colors []color.RGBA
}

func (p *hostPixels) Len() int { return len(p.colors) }

func (p *hostPixels) WriteColors(c []color.RGBA) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	copy(p.colors, c)
	return nil
}

func (p *hostPixels) snapshot() []color.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]color.RGBA(nil), p.colors...)
}

type hostHID struct {
	logger *hostLogger
}

func (h *hostHID) WriteReport(kind ReportKind, report []byte) error {
	h.logger.WriteLineString("hid: " + kind.String() + " " + hex.EncodeToString(report))
	return nil
}
