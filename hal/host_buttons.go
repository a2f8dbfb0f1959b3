//go:build !tinygo && cgo

package hal

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Key mapping: L = light, A = alarm, M = mode.
var hostButtonKeys = [...]struct {
	key ebiten.Key
	btn Button
}{
	{ebiten.KeyL, ButtonLight},
	{ebiten.KeyA, ButtonAlarm},
	{ebiten.KeyM, ButtonMode},
}

type hostButtons struct {
	mu    sync.Mutex
	level [3]bool
	ch    chan ButtonEvent
}

func newHostButtons() *hostButtons {
	return &hostButtons{ch: make(chan ButtonEvent, 16)}
}

func (b *hostButtons) Events() <-chan ButtonEvent { return b.ch }

func (b *hostButtons) Down(btn Button) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.level[btn]
}

func (b *hostButtons) poll() {
	emit := func(btn Button, pressed bool) {
		b.mu.Lock()
		b.level[btn] = pressed
		b.mu.Unlock()
		select {
		case b.ch <- ButtonEvent{Button: btn, Pressed: pressed}:
		default:
		}
	}

	for _, m := range hostButtonKeys {
		if inpututil.IsKeyJustPressed(m.key) {
			emit(m.btn, true)
		}
		if inpututil.IsKeyJustReleased(m.key) {
			emit(m.btn, false)
		}
	}
}
