//go:build tinygo || cgo

package store

import (
	"errors"
	"fmt"
	"io"
	"os"

	"tinygo.org/x/tinyfs/littlefs"

	"quartz/hal"
	"quartz/internal/log"
)

const flashWriteBlockBytes = 256

// LittleFS keeps records on a littlefs filesystem over raw flash: the
// on-chip flash on the device, the flash image file on the host.
type LittleFS struct {
	fs  *littlefs.LFS
	log *log.Logger
}

// NewLittleFS mounts the filesystem, formatting the flash on a first
// mount failure (fresh or corrupt media).
func NewLittleFS(flash hal.Flash, logger *log.Logger) (*LittleFS, error) {
	if flash == nil || flash.SizeBytes() == 0 {
		return nil, errors.New("store: no flash available")
	}

	fs := littlefs.New(&blockDevice{flash: flash})
	fs.Configure(&littlefs.Config{
		CacheSize:     512,
		LookaheadSize: 512,
		BlockCycles:   100,
	})

	if err := fs.Mount(); err != nil {
		logger.Info("formatting flash filesystem", "mount_err", err)
		if err := fs.Format(); err != nil {
			return nil, fmt.Errorf("format flash filesystem: %w", err)
		}
		if err := fs.Mount(); err != nil {
			return nil, fmt.Errorf("mount flash filesystem: %w", err)
		}
	}
	return &LittleFS{fs: fs, log: logger}, nil
}

func (l *LittleFS) Exists(name string) bool {
	_, err := l.fs.Stat(name)
	return err == nil
}

func (l *LittleFS) Read(name string, p []byte) bool {
	st, err := l.fs.Stat(name)
	if err != nil || st.Size() != int64(len(p)) {
		return false
	}
	f, err := l.fs.OpenFile(name, os.O_RDONLY)
	if err != nil {
		return false
	}
	defer f.Close()
	if _, err := io.ReadFull(f, p); err != nil {
		l.log.Error("record read failed", err, "name", name)
		return false
	}
	return true
}

func (l *LittleFS) Write(name string, p []byte) error {
	f, err := l.fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return fmt.Errorf("open record %q: %w", name, err)
	}
	if _, err := f.Write(p); err != nil {
		f.Close()
		return fmt.Errorf("write record %q: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close record %q: %w", name, err)
	}
	return nil
}

// blockDevice adapts raw flash to the tinyfs block-device contract.
type blockDevice struct {
	flash hal.Flash
}

func (d *blockDevice) ReadAt(p []byte, off int64) (int, error) {
	return d.flash.ReadAt(p, uint32(off))
}

func (d *blockDevice) WriteAt(p []byte, off int64) (int, error) {
	return d.flash.WriteAt(p, uint32(off))
}

func (d *blockDevice) Size() int64 { return int64(d.flash.SizeBytes()) }

func (d *blockDevice) WriteBlockSize() int64 { return flashWriteBlockBytes }

func (d *blockDevice) EraseBlockSize() int64 { return int64(d.flash.EraseBlockBytes()) }

func (d *blockDevice) EraseBlocks(start, count int64) error {
	bs := d.flash.EraseBlockBytes()
	return d.flash.Erase(uint32(start)*bs, uint32(count)*bs)
}
