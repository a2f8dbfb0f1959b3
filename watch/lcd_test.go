package watch

import (
	"image/color"
	"testing"
	"time"
)

func bottomString(l *LCD, n int) string {
	s := l.snapshot()
	return string(s.bottom[:n])
}

func TestDisplayTextClipsToZone(t *testing.T) {
	l := NewLCD(PersonalityClassic)
	l.DisplayText(PositionTop, "MonthXYZ")
	s := l.snapshot()
	if got := string(s.top[:]); got != "Month" {
		t.Fatalf("top = %q, want %q", got, "Month")
	}
}

func TestBottomSubzones(t *testing.T) {
	l := NewLCD(PersonalityClassic)
	l.DisplayText(PositionHours, "12")
	l.DisplayText(PositionMinutes, "34")
	l.DisplayText(PositionSeconds, "St")
	if got := bottomString(l, 6); got != "1234St" {
		t.Fatalf("bottom = %q, want %q", got, "1234St")
	}
}

func TestBottomWidthByPersonality(t *testing.T) {
	classic := NewLCD(PersonalityClassic)
	classic.DisplayText(PositionBottom, "1000000")
	if got := bottomString(classic, 7); got != "100000 " {
		t.Fatalf("classic bottom = %q, want %q", got, "100000 ")
	}

	custom := NewLCD(PersonalityCustom)
	custom.DisplayText(PositionBottom, "1000000")
	if got := bottomString(custom, 7); got != "1000000" {
		t.Fatalf("custom bottom = %q, want %q", got, "1000000")
	}
}

func TestDisplayTextFallback(t *testing.T) {
	custom := NewLCD(PersonalityCustom)
	custom.DisplayTextFallback(PositionTop, "Minut", "M1")
	cs := custom.snapshot()
	if got := string(cs.top[:]); got != "Minut" {
		t.Fatalf("custom top = %q, want %q", got, "Minut")
	}

	classic := NewLCD(PersonalityClassic)
	classic.DisplayTextFallback(PositionTop, "Minut", "M1")
	ls := classic.snapshot()
	if got := string(ls.top[:2]); got != "M1" {
		t.Fatalf("classic top = %q, want %q", got, "M1")
	}
}

func TestDecimalIsNoOpOnClassic(t *testing.T) {
	l := NewLCD(PersonalityClassic)
	l.SetDecimal()
	if l.snapshot().decimal {
		t.Fatal("SetDecimal() lit the decimal on the classic personality")
	}
}

func TestSleepAnimationState(t *testing.T) {
	l := NewLCD(PersonalityCustom)
	if l.SleepAnimationRunning() {
		t.Fatal("animation running on a fresh display")
	}
	l.StartSleepAnimation(time.Second)
	if !l.SleepAnimationRunning() {
		t.Fatal("StartSleepAnimation() did not start the animation")
	}
	l.StopSleepAnimation()
	if l.SleepAnimationRunning() {
		t.Fatal("StopSleepAnimation() left the animation running")
	}
}

// fakeDisplayer records pixel writes for render tests.
type fakeDisplayer struct {
	w, h     int16
	setCalls int
	flushes  int
	lit      map[[2]int16]bool
}

func newFakeDisplayer() *fakeDisplayer {
	return &fakeDisplayer{w: 128, h: 64, lit: map[[2]int16]bool{}}
}

func (d *fakeDisplayer) Size() (int16, int16) { return d.w, d.h }

func (d *fakeDisplayer) SetPixel(x, y int16, c color.RGBA) {
	d.setCalls++
	if c.R != 0 || c.G != 0 || c.B != 0 {
		d.lit[[2]int16{x, y}] = true
	} else {
		delete(d.lit, [2]int16{x, y})
	}
}

func (d *fakeDisplayer) Display() error {
	d.flushes++
	return nil
}

func TestRenderSkipsCleanFrames(t *testing.T) {
	l := NewLCD(PersonalityCustom)
	d := newFakeDisplayer()

	if err := l.Render(d, 0); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if d.flushes != 1 {
		t.Fatalf("flushes after first render = %d, want 1", d.flushes)
	}

	if err := l.Render(d, time.Millisecond); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if d.flushes != 1 {
		t.Fatalf("clean frame was redrawn, flushes = %d", d.flushes)
	}

	l.DisplayText(PositionTop, "PROG ")
	if err := l.Render(d, 2*time.Millisecond); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if d.flushes != 2 {
		t.Fatalf("dirty frame was not redrawn, flushes = %d", d.flushes)
	}
	if len(d.lit) == 0 {
		t.Fatal("render lit no pixels for non-blank text")
	}
}

func TestRenderSleepAnimationBlinks(t *testing.T) {
	l := NewLCD(PersonalityCustom)
	d := newFakeDisplayer()
	l.StartSleepAnimation(time.Second)

	if err := l.Render(d, 0); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	on := d.flushes

	// Half a period later the phase flips, which forces a redraw.
	if err := l.Render(d, 600*time.Millisecond); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if d.flushes != on+1 {
		t.Fatalf("phase flip did not redraw, flushes = %d, want %d", d.flushes, on+1)
	}
}
