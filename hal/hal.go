package hal

import (
	"errors"

	"tinygo.org/x/drivers"

	"quartz/watch"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is the backlight output pin.
type LED interface {
	High()
	Low()
}

var ErrNotImplemented = errors.New("not implemented")

// TicksPerSecond is the base step rate of every backend. Faces run at a
// fraction of it (1, 4 or 8 Hz).
const TicksPerSecond = 60

// Button identifies one of the three case buttons.
type Button uint8

const (
	ButtonLight Button = iota
	ButtonAlarm
	ButtonMode
)

// ButtonEvent is a level change on a case button.
type ButtonEvent struct {
	Button  Button
	Pressed bool
}

// Buttons provides edge events plus the instantaneous level, which the
// quick-cycle repeat mode polls on every tick.
type Buttons interface {
	Events() <-chan ButtonEvent
	Down(b Button) bool
}

// Display provides the panel as a pixel sink.
type Display interface {
	Displayer() drivers.Displayer
}

// Clock reads the local wall clock.
type Clock interface {
	Now() watch.DateTime
}

// Time provides the base tick stream that drives the engine step loop.
type Time interface {
	Ticks() <-chan uint64
}

// Flash provides raw access to non-volatile memory. It is intentionally
// low-level: addresses and erase blocks only.
type Flash interface {
	SizeBytes() uint32
	EraseBlockBytes() uint32
	ReadAt(p []byte, off uint32) (int, error)
	WriteAt(p []byte, off uint32) (int, error)
	Erase(off, size uint32) error
}

// HAL is the only contact point between the watch runtime and the
// outside world.
type HAL interface {
	Logger() Logger
	LED() LED
	Display() Display
	Buttons() Buttons
	Clock() Clock
	Time() Time
	Flash() Flash
}
