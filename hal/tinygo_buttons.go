//go:build tinygo && baremetal

package hal

import (
	"machine"
	"time"
)

const buttonPollInterval = 10 * time.Millisecond

// pinButtons reads three active-low pins with internal pull-ups. Edge
// events are produced by a polling goroutine; Down reads the level
// directly so quick-cycle sees the pin, not a possibly stale event.
type pinButtons struct {
	pins [3]machine.Pin
	last [3]bool
	ch   chan ButtonEvent
}

func newPinButtons(pins [3]machine.Pin) *pinButtons {
	b := &pinButtons{pins: pins, ch: make(chan ButtonEvent, 16)}
	for _, p := range pins {
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}
	go b.poll()
	return b
}

func (b *pinButtons) Events() <-chan ButtonEvent { return b.ch }

func (b *pinButtons) Down(btn Button) bool {
	return !b.pins[btn].Get()
}

func (b *pinButtons) poll() {
	ticker := time.NewTicker(buttonPollInterval)
	defer ticker.Stop()
	for range ticker.C {
		for i := range b.pins {
			pressed := !b.pins[i].Get()
			if pressed == b.last[i] {
				continue
			}
			b.last[i] = pressed
			select {
			case b.ch <- ButtonEvent{Button: Button(i), Pressed: pressed}:
			default:
			}
		}
	}
}
