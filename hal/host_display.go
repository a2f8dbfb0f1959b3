//go:build !tinygo

package hal

import (
	"image/color"
	"sync"
)

// hostFramebuffer is a 16bpp RGB565 pixel buffer the simulator window
// snapshots once per frame.
type hostFramebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	stride int
	buf    []byte
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	stride := width * 2
	return &hostFramebuffer{
		width:  width,
		height: height,
		stride: stride,
		buf:    make([]byte, stride*height),
	}
}

func (f *hostFramebuffer) snapshotRGB565(dst []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(dst, f.buf)
}

// fbDisplayer adapts the framebuffer to the pixel-sink interface the LCD
// renderer draws on.
type fbDisplayer struct {
	fb *hostFramebuffer
}

func (d *fbDisplayer) Size() (x, y int16) {
	return int16(d.fb.width), int16(d.fb.height)
}

func (d *fbDisplayer) SetPixel(x, y int16, c color.RGBA) {
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= d.fb.width || iy < 0 || iy >= d.fb.height {
		return
	}
	pixel := rgb565(c.R, c.G, c.B)
	d.fb.mu.Lock()
	off := iy*d.fb.stride + ix*2
	d.fb.buf[off] = byte(pixel)
	d.fb.buf[off+1] = byte(pixel >> 8)
	d.fb.mu.Unlock()
}

// Display is a no-op: the window reads the buffer on its own schedule.
func (d *fbDisplayer) Display() error { return nil }

func rgb565(r, g, b uint8) uint16 {
	return (uint16(r>>3)&0x1F)<<11 | (uint16(g>>2)&0x3F)<<5 | (uint16(b>>3) & 0x1F)
}

func rgb888From565(p uint16) (r, g, b uint8) {
	r = uint8((p >> 11 & 0x1F) << 3)
	g = uint8((p >> 5 & 0x3F) << 2)
	b = uint8((p & 0x1F) << 3)
	return r, g, b
}
