//go:build !tinygo && !cgo

package hal

import (
	"errors"
	"sync"
)

func RunWindow(_ func(h HAL) func() error, _ int) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
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
	// No button input without the window backend.
}
