//go:build tinygo && baremetal

package hal

import (
	"fmt"
	"machine"
	"machine/usb/hid/keyboard"
)

type serialLogger struct{}

func (l *serialLogger) WriteLineString(s string) {
	machine.Serial.Write([]byte(s))
	machine.Serial.Write([]byte{'\r', '\n'})
}

func (l *serialLogger) WriteLineBytes(b []byte) {
	machine.Serial.Write(b)
	machine.Serial.Write([]byte{'\r', '\n'})
}

type pinLED struct {
	pin machine.Pin
}

func (l *pinLED) High() { l.pin.High() }
func (l *pinLED) Low()  { l.pin.Low() }

type machinePin struct {
	name       string
	pin        machine.Pin
	configured bool
	mode       GPIOMode
}

func newMachinePin(name string, pin machine.Pin) *machinePin {
	return &machinePin{name: name, pin: pin}
}

func (p *machinePin) Name() string { return p.name }

func (p *machinePin) Caps() GPIOCaps {
	return GPIOCapInput | GPIOCapOutput | GPIOCapPullUp | GPIOCapPullDown
}

func (p *machinePin) Configure(mode GPIOMode, pull GPIOPull) error {
	var cfg machine.PinConfig
	switch mode {
	case GPIOModeOutput:
		if pull != GPIOPullNone {
			return fmt.Errorf("gpio: pin %s: pull on output", p.name)
		}
		cfg.Mode = machine.PinOutput
	case GPIOModeInput:
		switch pull {
		case GPIOPullNone:
			cfg.Mode = machine.PinInput
		case GPIOPullUp:
			cfg.Mode = machine.PinInputPullup
		case GPIOPullDown:
			cfg.Mode = machine.PinInputPulldown
		default:
			return fmt.Errorf("gpio: pin %s: invalid pull", p.name)
		}
	default:
		return fmt.Errorf("gpio: pin %s: invalid mode", p.name)
	}
	p.pin.Configure(cfg)
	p.configured = true
	p.mode = mode
	return nil
}

func (p *machinePin) Read() (bool, error) {
	if !p.configured {
		return false, fmt.Errorf("gpio: pin %s: not configured", p.name)
	}
	return p.pin.Get(), nil
}

func (p *machinePin) Write(level bool) error {
	if p.mode != GPIOModeOutput {
		return fmt.Errorf("gpio: pin %s: not in output mode", p.name)
	}
	p.pin.Set(level)
	return nil
}

// usbKeyboard adapts the TinyGo USB HID keyboard to keyPort.
type usbKeyboard struct{}

func (usbKeyboard) Down(code uint16) error { return keyboard.Port().Down(keyboard.Keycode(code)) }
func (usbKeyboard) Up(code uint16) error   { return keyboard.Port().Up(keyboard.Keycode(code)) }

func newTinyGoHID() *reportDiffer {
	return &reportDiffer{port: usbKeyboard{}}
}
