//go:build !tinygo && !cgo

package store

import (
	"errors"

	"quartz/hal"
	"quartz/internal/log"
)

var errLittleFSNeedsCgo = errors.New("store: littlefs requires cgo (build with CGO_ENABLED=1)")

// LittleFS wraps the C littlefs implementation and is unavailable in
// host builds without cgo; callers fall back to another backend.
type LittleFS struct{}

func NewLittleFS(flash hal.Flash, logger *log.Logger) (*LittleFS, error) {
	return nil, errLittleFSNeedsCgo
}

func (*LittleFS) Exists(name string) bool           { return false }
func (*LittleFS) Read(name string, p []byte) bool   { return false }
func (*LittleFS) Write(name string, p []byte) error { return errLittleFSNeedsCgo }
