//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"sync"
	"time"

	"tinygo.org/x/drivers"

	"quartz/watch"
)

type hostHAL struct {
	logger *hostLogger
	led    *hostLED
	fb     *hostFramebuffer
	btns   *hostButtons
	clk    hostClock
	t      *hostTime
	flash  *hostFlash
}

// New returns a host HAL implementation: an in-memory framebuffer shown
// by the simulator window, keyboard-driven buttons, the system clock and
// a file-backed flash image.
func New() HAL {
	logger := &hostLogger{w: os.Stdout}
	return &hostHAL{
		logger: logger,
		led:    &hostLED{logger: logger},
		fb:     newHostFramebuffer(128, 64),
		btns:   newHostButtons(),
		t:      newHostTime(TicksPerSecond),
		flash:  newHostFlash(""),
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) LED() LED         { return h.led }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Buttons() Buttons { return h.btns }
func (h *hostHAL) Clock() Clock     { return h.clk }
func (h *hostHAL) Time() Time       { return h.t }
func (h *hostHAL) Flash() Flash     { return h.flash }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Displayer() drivers.Displayer { return &fbDisplayer{fb: d.fb} }

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
	if !l.on {
		l.logger.WriteLineString("backlight: ON")
	}
	l.on = true
}

func (l *hostLED) Low() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.on {
		l.logger.WriteLineString("backlight: OFF")
	}
	l.on = false
}

type hostClock struct{}

func (hostClock) Now() watch.DateTime { return watch.FromTime(time.Now()) }

type hostTime struct {
	ch   chan uint64
	once sync.Once
	hz   int
}

func newHostTime(hz int) *hostTime {
	return &hostTime{ch: make(chan uint64, 64), hz: hz}
}

func (t *hostTime) Ticks() <-chan uint64 {
	t.once.Do(func() {
		go func() {
			ticker := time.NewTicker(time.Second / time.Duration(t.hz))
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
	})
	return t.ch
}
