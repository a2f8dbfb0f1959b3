package watch

import (
	"image/color"
	"time"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
	"tinygo.org/x/tinyfont/proggy"
)

// Render geometry is laid out for a 128x64 panel; larger panels center
// the same layout at the top-left.
const (
	topOriginX   = 4
	topBaseline  = 12
	topCellPitch = 8

	bottomOriginX   = 6
	bottomBaseline  = 46
	bottomCellPitch = 16

	sleepMarkX    = 120
	sleepMarkY    = 56
	sleepMarkSize = 4
)

var (
	lcdOn  = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	lcdOff = color.RGBA{A: 0xFF}
)

var (
	topFont    tinyfont.Fonter = &proggy.TinySZ8pt7b
	bottomFont tinyfont.Fonter = &freemono.Bold12pt7b
)

// Render draws the current display state onto d and flushes it. elapsed
// is the wall time since the render loop started; it drives the sleep
// animation phase. Frames with no visible change are skipped.
func (l *LCD) Render(d drivers.Displayer, elapsed time.Duration) error {
	s := l.snapshot()

	blinkOn := false
	if s.sleepPeriod > 0 {
		blinkOn = (elapsed/(s.sleepPeriod/2))%2 == 0
	}

	l.mu.Lock()
	if !l.dirty && blinkOn == l.lastBlinkOn {
		l.mu.Unlock()
		return nil
	}
	l.dirty = false
	l.lastBlinkOn = blinkOn
	l.mu.Unlock()

	w, h := d.Size()
	fillRect(d, 0, 0, w, h, lcdOff)

	for i, c := range s.top {
		drawCell(d, topFont, topOriginX+i*topCellPitch, topBaseline, c)
	}

	bottomWidth := bottomCells
	if s.personality == PersonalityCustom {
		bottomWidth = bottomCellsCustom
	}
	for i := 0; i < bottomWidth; i++ {
		drawCell(d, bottomFont, bottomOriginX+i*bottomCellPitch, bottomBaseline, s.bottom[i])
	}

	// The colon and the decimal point share the divider between the
	// second and third bottom cells.
	dividerX := int16(bottomOriginX + 2*bottomCellPitch - 5)
	if s.colon {
		fillRect(d, dividerX, bottomBaseline-14, 2, 2, lcdOn)
		fillRect(d, dividerX, bottomBaseline-6, 2, 2, lcdOn)
	}
	if s.decimal {
		fillRect(d, dividerX, bottomBaseline-2, 2, 2, lcdOn)
	}

	if s.sleepPeriod > 0 && blinkOn {
		fillRect(d, sleepMarkX, sleepMarkY, sleepMarkSize, sleepMarkSize, lcdOn)
	}

	return d.Display()
}

func drawCell(d drivers.Displayer, font tinyfont.Fonter, x, baseline int, c byte) {
	if c == ' ' || c == 0 {
		return
	}
	tinyfont.WriteLine(d, font, int16(x), int16(baseline), string(rune(c)), lcdOn)
}

func fillRect(d drivers.Displayer, x, y, width, height int16, c color.RGBA) {
	w, h := d.Size()
	for py := y; py < y+height; py++ {
		if py < 0 || py >= h {
			continue
		}
		for px := x; px < x+width; px++ {
			if px < 0 || px >= w {
				continue
			}
			d.SetPixel(px, py, c)
		}
	}
}
