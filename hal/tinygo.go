//go:build tinygo && baremetal

package hal

import (
	"image/color"
	"machine"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/ssd1306"
	"tinygo.org/x/drivers/ws2812"
)

type tinyGoHAL struct {
	logger *serialLogger
	led    *pinLED
	gpio   GPIO
	disp   Display
	pixels Pixels
	hid    HID
}

// New returns a Seeed XIAO RP2040 HAL implementation.
//
// Logging goes to the USB CDC serial port. The SSD1306 sits on I2C1
// (SDA=D4, SCL=D5) at 0x3C; the onboard NeoPixel is the RGB pixel.
func New() HAL {
	ledPin := machine.LED
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led := &pinLED{pin: ledPin}

	h := &tinyGoHAL{
		logger: &serialLogger{},
		led:    led,
		gpio:   newVirtualGPIO(xiaoPins()),
		disp:   tinyGoDisplay{},
		pixels: nullPixels{},
		hid:    newTinyGoHID(),
	}

	if d, err := initSSD1306(); err == nil {
		h.disp = tinyGoDisplay{d: d}
	} else {
		h.logger.WriteLineString("hal: display: " + err.Error())
	}
	h.pixels = initNeoPixel()
	return h
}

func (h *tinyGoHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHAL) LED() LED         { return h.led }
func (h *tinyGoHAL) GPIO() GPIO       { return h.gpio }
func (h *tinyGoHAL) Display() Display { return h.disp }
func (h *tinyGoHAL) Pixels() Pixels   { return h.pixels }
func (h *tinyGoHAL) HID() HID         { return h.hid }

func xiaoPins() []GPIOPin {
	return []GPIOPin{
		newMachinePin("A0", machine.D0),
		newMachinePin("A1", machine.D1),
		newMachinePin("A2", machine.D2),
		newMachinePin("A3", machine.D3),
		newMachinePin("TX", machine.D6),
		newMachinePin("RX", machine.D7),
		newMachinePin("SCK", machine.D8),
		newMachinePin("MISO", machine.D9),
		newMachinePin("MOSI", machine.D10),
	}
}

func initSSD1306() (drivers.Displayer, error) {
	if err := machine.I2C1.Configure(machine.I2CConfig{
		SDA:       machine.D4,
		SCL:       machine.D5,
		Frequency: 400 * machine.KHz,
	}); err != nil {
		return nil, err
	}
	dev := ssd1306.NewI2C(machine.I2C1)
	dev.Configure(ssd1306.Config{
		Width:    128,
		Height:   64,
		Address:  0x3C,
		VccState: ssd1306.SWITCHCAPVCC,
	})
	dev.ClearDisplay()
	return &dev, nil
}

func initNeoPixel() Pixels {
	// The XIAO gates NeoPixel power through GPIO11.
	pwr := machine.GPIO11
	pwr.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pwr.High()

	pin := machine.NEOPIXEL
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &neoPixels{dev: ws2812.New(pin), n: 1}
}

type tinyGoDisplay struct {
	d drivers.Displayer
}

func (d tinyGoDisplay) Displayer() drivers.Displayer { return d.d }

type neoPixels struct {
	dev ws2812.Device
	n   int
}

func (p *neoPixels) Len() int { return p.n }

func (p *neoPixels) WriteColors(c []color.RGBA) error {
	if len(c) > p.n {
		c = c[:p.n]
	}
	return p.dev.WriteColors(c)
}

type nullPixels struct{}

func (nullPixels) Len() int                         { return 0 }
func (nullPixels) WriteColors(_ []color.RGBA) error { return ErrNotImplemented }
