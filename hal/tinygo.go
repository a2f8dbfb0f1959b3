//go:build tinygo && baremetal

package hal

import (
	"machine"
	"time"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/ssd1306"

	"quartz/watch"
)

type tinyGoHAL struct {
	logger *uartLogger
	led    *pinLED
	disp   *ssd1306.Device
	btns   *pinButtons
	clk    deviceClock
	t      *tinyGoTime
	flash  Flash
}

// New returns the device HAL: SSD1306 OLED on I2C0, three case buttons
// on pulled-up GPIOs, UART0 logging and on-chip flash for the store.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})

	machine.I2C0.Configure(machine.I2CConfig{
		Frequency: 400_000,
		SDA:       machine.GP4,
		SCL:       machine.GP5,
	})
	disp := ssd1306.NewI2C(machine.I2C0)
	disp.Configure(ssd1306.Config{Width: 128, Height: 64, Address: 0x3C})
	disp.ClearDisplay()

	ledPin := machine.LED
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})

	return &tinyGoHAL{
		logger: &uartLogger{uart: uart},
		led:    &pinLED{pin: ledPin},
		disp:   &disp,
		btns: newPinButtons([3]machine.Pin{
			ButtonLight: machine.GP2,
			ButtonAlarm: machine.GP3,
			ButtonMode:  machine.GP6,
		}),
		t:     newTinyGoTime(TicksPerSecond),
		flash: newMachineFlash(),
	}
}

func (h *tinyGoHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHAL) LED() LED         { return h.led }
func (h *tinyGoHAL) Display() Display { return tinyGoDisplay{d: h.disp} }
func (h *tinyGoHAL) Buttons() Buttons { return h.btns }
func (h *tinyGoHAL) Clock() Clock     { return h.clk }
func (h *tinyGoHAL) Time() Time       { return h.t }
func (h *tinyGoHAL) Flash() Flash     { return h.flash }

type tinyGoDisplay struct {
	d *ssd1306.Device
}

func (d tinyGoDisplay) Displayer() drivers.Displayer { return d.d }

type deviceClock struct{}

// Now reads the local time. Without a battery-backed RTC this counts
// from boot; hosts with one get real wall time.
func (deviceClock) Now() watch.DateTime { return watch.FromTime(time.Now()) }

type tinyGoTime struct {
	ch chan uint64
}

func newTinyGoTime(hz int) *tinyGoTime {
	t := &tinyGoTime{ch: make(chan uint64, 16)}
	go func() {
		ticker := time.NewTicker(time.Second / time.Duration(hz))
		defer ticker.Stop()
		var seq uint64
		for range ticker.C {
			seq++
			select {
			case t.ch <- seq:
			default:
			}
		}
	}()
	return t
}

func (t *tinyGoTime) Ticks() <-chan uint64 { return t.ch }

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

type pinLED struct {
	pin machine.Pin
}

func (l *pinLED) High() { l.pin.High() }
func (l *pinLED) Low()  { l.pin.Low() }
