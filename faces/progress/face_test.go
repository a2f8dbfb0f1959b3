package progress

import (
	"testing"
	"time"

	"quartz/engine"
	"quartz/hal"
	"quartz/store"
	"quartz/watch"
)

type fixedClock struct {
	now watch.DateTime
}

func (c fixedClock) Now() watch.DateTime { return c.now }

type fakeTiming struct {
	rate        int
	illuminated int
}

func (t *fakeTiming) RequestRate(hz int) { t.rate = hz }
func (t *fakeTiming) Illuminate()        { t.illuminated++ }

type levelButtons struct {
	down [3]bool
}

func (b *levelButtons) Events() <-chan hal.ButtonEvent { return nil }
func (b *levelButtons) Down(btn hal.Button) bool       { return b.down[btn] }

type fakeScreen struct {
	personality watch.Personality
	texts       map[watch.Position]string
	colon       bool
	decimal     bool
	sleeping    bool
}

func newFakeScreen(p watch.Personality) *fakeScreen {
	return &fakeScreen{personality: p, texts: make(map[watch.Position]string)}
}

func (s *fakeScreen) DisplayText(pos watch.Position, text string) {
	s.texts[pos] = text
}

func (s *fakeScreen) DisplayTextFallback(pos watch.Position, text, fallback string) {
	if s.personality == watch.PersonalityCustom {
		s.texts[pos] = text
	} else {
		s.texts[pos] = fallback
	}
}

func (s *fakeScreen) Personality() watch.Personality { return s.personality }
func (s *fakeScreen) SetColon()                      { s.colon = true }
func (s *fakeScreen) ClearColon()                    { s.colon = false }

func (s *fakeScreen) SetDecimal() {
	if s.personality == watch.PersonalityCustom {
		s.decimal = true
	}
}

func (s *fakeScreen) ClearDecimal() { s.decimal = false }

func (s *fakeScreen) StartSleepAnimation(period time.Duration) { s.sleeping = true }
func (s *fakeScreen) StopSleepAnimation()                      { s.sleeping = false }
func (s *fakeScreen) SleepAnimationRunning() bool              { return s.sleeping }

func newFace(p watch.Personality, st store.Store, now watch.DateTime) (*Face, *fakeScreen, *fakeTiming, *levelButtons) {
	scr := newFakeScreen(p)
	tm := &fakeTiming{}
	btns := &levelButtons{}
	f := New(fixedClock{now}, scr, st, btns, tm, 0)
	return f, scr, tm, btns
}

func loop(f *Face, kind engine.EventKind) {
	f.Loop(engine.Event{Kind: kind})
}

var midJune = watch.DateTime{Year: 2025, Month: 6, Day: 15, Hour: 12, Minute: 30}

func TestFirstRunOpensStartEditing(t *testing.T) {
	f, _, _, _ := newFace(watch.PersonalityCustom, store.NewMem(), midJune)

	if f.page != pageEditStart || f.field != fieldYear {
		t.Fatalf("first run state = (%d, %d), want start editing at year", f.page, f.field)
	}

	wantStart := watch.DateTime{Year: 2025, Month: 1, Day: 1}
	wantEnd := watch.DateTime{Year: 2025, Month: 12, Day: 31, Hour: 23, Minute: 59}
	if f.dates.Start != wantStart || f.dates.End != wantEnd {
		t.Fatalf("default range = %+v, want current calendar year", f.dates)
	}
}

func TestStoredRangeOpensDisplay(t *testing.T) {
	st := store.NewMem()
	r := Range{
		Start: watch.DateTime{Year: 2024, Month: 3, Day: 1},
		End:   watch.DateTime{Year: 2026, Month: 3, Day: 1},
	}
	if err := st.Write(RecordName(0), EncodeRange(r)); err != nil {
		t.Fatalf("Write() = %v", err)
	}

	f, _, _, _ := newFace(watch.PersonalityCustom, st, midJune)
	if f.page != pageDisplay {
		t.Fatalf("page = %d, want display with a stored range", f.page)
	}
	if f.dates != r {
		t.Fatalf("dates = %+v, want stored %+v", f.dates, r)
	}
}

func TestCompletedCycleReturnsToDisplayAndPersists(t *testing.T) {
	st := store.NewMem()
	f, _, tm, _ := newFace(watch.PersonalityCustom, st, midJune)

	// Five field advances finish the start page...
	for i := 0; i < 5; i++ {
		loop(f, engine.EventLightButtonUp)
	}
	if f.page != pageEditEnd || f.field != fieldYear {
		t.Fatalf("state after start page = (%d, %d), want end editing at year", f.page, f.field)
	}

	// ...five more finish the end page and persist.
	for i := 0; i < 5; i++ {
		loop(f, engine.EventLightButtonUp)
	}
	if f.page != pageDisplay {
		t.Fatalf("page after full cycle = %d, want display", f.page)
	}
	if st.Writes != 1 {
		t.Fatalf("store writes after full cycle = %d, want 1", st.Writes)
	}
	if tm.rate != 1 {
		t.Fatalf("rate after full cycle = %d, want 1", tm.rate)
	}

	// A fresh instance over the same store opens straight into display.
	g, _, _, _ := newFace(watch.PersonalityCustom, st, midJune)
	if g.page != pageDisplay {
		t.Fatalf("page on relaunch = %d, want display", g.page)
	}
}

func TestDisplayBeforeStart(t *testing.T) {
	st := store.NewMem()
	r := Range{
		Start: watch.DateTime{Year: 2026, Month: 1, Day: 1},
		End:   watch.DateTime{Year: 2026, Month: 12, Day: 31},
	}
	if err := st.Write(RecordName(0), EncodeRange(r)); err != nil {
		t.Fatalf("Write() = %v", err)
	}

	f, scr, _, _ := newFace(watch.PersonalityClassic, st, midJune)
	f.Activate()

	if got := scr.texts[watch.PositionBottom]; got != "000000" {
		t.Fatalf("bottom = %q, want %q before start", got, "000000")
	}
	if !scr.colon {
		t.Fatal("colon not set for a classic percent readout")
	}
}

func TestDisplayFullToken(t *testing.T) {
	st := store.NewMem()
	r := Range{
		Start: watch.DateTime{Year: 2024, Month: 1, Day: 1},
		End:   watch.DateTime{Year: 2024, Month: 12, Day: 31},
	}
	if err := st.Write(RecordName(0), EncodeRange(r)); err != nil {
		t.Fatalf("Write() = %v", err)
	}

	f, scr, _, _ := newFace(watch.PersonalityClassic, st, midJune)
	f.Activate()
	if got := scr.texts[watch.PositionBottom]; got != "100   " {
		t.Fatalf("classic bottom = %q, want full token %q", got, "100   ")
	}
	if scr.colon {
		t.Fatal("colon still set on the classic full token")
	}

	g, gscr, _, _ := newFace(watch.PersonalityCustom, st, midJune)
	g.Activate()
	if got := gscr.texts[watch.PositionBottom]; got != "1000000" {
		t.Fatalf("custom bottom = %q, want full token %q", got, "1000000")
	}
	if !gscr.decimal {
		t.Fatal("decimal not set on the custom readout")
	}
}

func TestDisplayMidRangePercent(t *testing.T) {
	st := store.NewMem()
	r := Range{
		Start: watch.DateTime{Year: 2025, Month: 1, Day: 1},
		End:   watch.DateTime{Year: 2025, Month: 12, Day: 31, Hour: 23, Minute: 59},
	}
	if err := st.Write(RecordName(0), EncodeRange(r)); err != nil {
		t.Fatalf("Write() = %v", err)
	}

	f, scr, _, _ := newFace(watch.PersonalityCustom, st, watch.DateTime{Year: 2025, Month: 7, Day: 2, Hour: 12})
	f.Activate()

	got := scr.texts[watch.PositionBottom]
	if len(got) != 7 || got[6] != ' ' {
		t.Fatalf("custom bottom = %q, want six digits plus a trailing blank", got)
	}
	if got[0] != '4' && got[0] != '5' {
		t.Fatalf("custom bottom = %q, want roughly half elapsed", got)
	}
	if top := scr.texts[watch.PositionTop]; top != "PROG " {
		t.Fatalf("top = %q, want %q", top, "PROG ")
	}
}

func TestMinuteTopRefresh(t *testing.T) {
	st := store.NewMem()
	r := Range{
		Start: watch.DateTime{Year: 2025, Month: 1, Day: 1},
		End:   watch.DateTime{Year: 2025, Month: 12, Day: 31},
	}
	if err := st.Write(RecordName(0), EncodeRange(r)); err != nil {
		t.Fatalf("Write() = %v", err)
	}

	now := midJune
	now.Second = 30
	f, scr, _, _ := newFace(watch.PersonalityCustom, st, now)

	loop(f, engine.EventTick)
	if _, ok := scr.texts[watch.PositionTop]; ok {
		t.Fatal("mid-minute tick redrew the readout")
	}
	if !scr.sleeping {
		t.Fatal("display tick did not start the sleep animation")
	}

	now.Second = 0
	f.clock = fixedClock{now}
	loop(f, engine.EventTick)
	if _, ok := scr.texts[watch.PositionTop]; !ok {
		t.Fatal("top-of-minute tick did not redraw the readout")
	}

	// Low-energy ticks redraw regardless of the second.
	gscr := newFakeScreen(watch.PersonalityCustom)
	f.screen = gscr
	now.Second = 30
	f.clock = fixedClock{now}
	loop(f, engine.EventLowEnergyTick)
	if _, ok := gscr.texts[watch.PositionTop]; !ok {
		t.Fatal("low-energy tick did not redraw the readout")
	}
}

func TestEnterSettingsFromDisplay(t *testing.T) {
	st := store.NewMem()
	if err := st.Write(RecordName(0), EncodeRange(Range{Start: midJune, End: midJune})); err != nil {
		t.Fatalf("Write() = %v", err)
	}
	f, scr, tm, _ := newFace(watch.PersonalityCustom, st, midJune)
	f.Activate()

	loop(f, engine.EventAlarmLongPress)
	if f.page != pageEditStart || f.field != fieldYear {
		t.Fatalf("state = (%d, %d), want start editing at year", f.page, f.field)
	}
	if tm.rate != 4 {
		t.Fatalf("rate = %d, want 4 in settings", tm.rate)
	}
	if scr.decimal || scr.colon {
		t.Fatal("indicators not cleared on entering settings")
	}
}

func TestIlluminateOnlyInDisplay(t *testing.T) {
	st := store.NewMem()
	if err := st.Write(RecordName(0), EncodeRange(Range{Start: midJune, End: midJune})); err != nil {
		t.Fatalf("Write() = %v", err)
	}
	f, _, tm, _ := newFace(watch.PersonalityCustom, st, midJune)

	loop(f, engine.EventLightButtonDown)
	if tm.illuminated != 1 {
		t.Fatalf("illuminated = %d, want 1 in display mode", tm.illuminated)
	}

	loop(f, engine.EventAlarmLongPress)
	loop(f, engine.EventLightButtonDown)
	if tm.illuminated != 1 {
		t.Fatalf("illuminated = %d, want no illumination while editing", tm.illuminated)
	}
}

func TestYearIncrementWraps(t *testing.T) {
	f, _, _, _ := newFace(watch.PersonalityCustom, store.NewMem(), midJune)

	f.dates.Start.Year = 2124
	loop(f, engine.EventAlarmButtonUp)
	if f.dates.Start.Year != 2125 {
		t.Fatalf("year = %d, want 2125 at the window edge", f.dates.Start.Year)
	}
	loop(f, engine.EventAlarmButtonUp)
	if f.dates.Start.Year != 1925 {
		t.Fatalf("year = %d, want wrap to 1925 past the window", f.dates.Start.Year)
	}
	if !f.changed {
		t.Fatal("edits did not mark the dates changed")
	}
}

func TestFieldIncrementWraps(t *testing.T) {
	f, _, _, _ := newFace(watch.PersonalityCustom, store.NewMem(), midJune)
	dt := &f.dates.Start

	f.field = fieldMonth
	dt.Month = 12
	f.increment()
	if dt.Month != 1 {
		t.Fatalf("month = %d, want wrap to 1", dt.Month)
	}

	f.field = fieldDay
	dt.Month, dt.Year = 2, 2024
	dt.Day = 29
	f.increment()
	if dt.Day != 1 {
		t.Fatalf("day = %d, want wrap to 1 after Feb 29", dt.Day)
	}

	f.field = fieldHour
	dt.Hour = 23
	f.increment()
	if dt.Hour != 0 {
		t.Fatalf("hour = %d, want wrap to 0", dt.Hour)
	}

	f.field = fieldMinute
	dt.Minute = 59
	f.increment()
	if dt.Minute != 0 {
		t.Fatalf("minute = %d, want wrap to 0", dt.Minute)
	}
}

func TestEndSnapsToStart(t *testing.T) {
	f, _, _, _ := newFace(watch.PersonalityCustom, store.NewMem(), midJune)
	f.dates.Start = watch.DateTime{Year: 2025, Month: 6, Day: 15}
	f.dates.End = watch.DateTime{Year: 2025, Month: 12, Day: 20}
	f.page = pageEditEnd
	f.field = fieldMonth

	// Wrapping the end month from December to January pulls the end
	// date behind the start date.
	loop(f, engine.EventAlarmButtonUp)
	if f.dates.End != f.dates.Start {
		t.Fatalf("end = %+v, want snap to start %+v", f.dates.End, f.dates.Start)
	}
}

func TestEndInvariantAcrossEdits(t *testing.T) {
	f, _, _, _ := newFace(watch.PersonalityCustom, store.NewMem(), midJune)
	f.dates.Start = midJune
	f.dates.End = midJune
	f.page = pageEditEnd

	for _, fld := range []field{fieldYear, fieldMonth, fieldDay, fieldHour, fieldMinute} {
		f.field = fld
		for i := 0; i < 40; i++ {
			f.increment()
			if watch.Compare(f.dates.End, f.dates.Start) < 0 {
				t.Fatalf("end %+v fell before start %+v editing field %d", f.dates.End, f.dates.Start, fld)
			}
		}
	}
}

func TestStartPageSkipsEndValidation(t *testing.T) {
	f, _, _, _ := newFace(watch.PersonalityCustom, store.NewMem(), midJune)
	f.dates.Start = watch.DateTime{Year: 2025, Month: 12, Day: 1}
	f.dates.End = watch.DateTime{Year: 2025, Month: 6, Day: 1}
	f.page = pageEditStart
	f.field = fieldMinute

	// Start-page edits leave the violation in place until the page
	// transition runs the check.
	f.increment()
	if f.dates.End == f.dates.Start {
		t.Fatal("start-page edit snapped the end date early")
	}
	for f.page == pageEditStart {
		loop(f, engine.EventLightButtonUp)
	}
	if watch.Compare(f.dates.End, f.dates.Start) < 0 {
		t.Fatal("page transition did not restore the end >= start invariant")
	}
}

func TestQuickCycle(t *testing.T) {
	f, _, tm, btns := newFace(watch.PersonalityCustom, store.NewMem(), midJune)
	f.field = fieldMinute
	start := f.dates.Start

	loop(f, engine.EventAlarmLongPress)
	if !f.quick || tm.rate != 8 {
		t.Fatalf("quick = %v rate = %d, want quick cycle at 8", f.quick, tm.rate)
	}

	btns.down[hal.ButtonAlarm] = true
	loop(f, engine.EventTick)
	loop(f, engine.EventTick)
	if f.dates.Start.Minute != start.Minute+2 {
		t.Fatalf("minute = %d, want %d after two held ticks", f.dates.Start.Minute, start.Minute+2)
	}

	btns.down[hal.ButtonAlarm] = false
	loop(f, engine.EventTick)
	if f.quick {
		t.Fatal("quick cycle survived the button release")
	}
	if tm.rate != 4 {
		t.Fatalf("rate = %d, want settings rate restored", tm.rate)
	}
	if f.dates.Start.Minute != start.Minute+2 {
		t.Fatal("released tick still incremented")
	}
}

func TestQuickCycleAbortsOnFieldAdvance(t *testing.T) {
	f, _, tm, _ := newFace(watch.PersonalityCustom, store.NewMem(), midJune)
	loop(f, engine.EventAlarmLongPress)

	loop(f, engine.EventLightButtonUp)
	if f.quick {
		t.Fatal("quick cycle survived the field advance")
	}
	if tm.rate != 4 {
		t.Fatalf("rate = %d, want settings rate restored", tm.rate)
	}
	if f.field != fieldMonth {
		t.Fatalf("field = %d, want the cursor advanced", f.field)
	}
}

func TestQuickCycleAbortsOnTimeout(t *testing.T) {
	f, _, tm, _ := newFace(watch.PersonalityCustom, store.NewMem(), midJune)
	loop(f, engine.EventAlarmLongPress)

	loop(f, engine.EventTimeout)
	if f.quick || tm.rate != 4 {
		t.Fatalf("quick = %v rate = %d after timeout, want aborted at 4", f.quick, tm.rate)
	}
}

func TestReleaseIncrementExitsQuickCycleFirst(t *testing.T) {
	f, _, _, _ := newFace(watch.PersonalityCustom, store.NewMem(), midJune)
	f.field = fieldHour
	loop(f, engine.EventAlarmLongPress)

	hour := f.dates.Start.Hour
	loop(f, engine.EventAlarmButtonUp)
	if f.quick {
		t.Fatal("alarm release left quick cycle active")
	}
	if f.dates.Start.Hour != hour+1 {
		t.Fatalf("hour = %d, want one increment on release", f.dates.Start.Hour)
	}
}

func TestSettingsBlink(t *testing.T) {
	f, scr, _, _ := newFace(watch.PersonalityCustom, store.NewMem(), midJune)
	f.field = fieldMonth

	f.Loop(engine.Event{Kind: engine.EventTick, Subsecond: 1})
	if got := scr.texts[watch.PositionHours]; got != "  " {
		t.Fatalf("hours zone = %q on the odd subsecond, want blanked", got)
	}
	if got := scr.texts[watch.PositionSeconds]; got != "St" {
		t.Fatalf("corner tag = %q, want %q", got, "St")
	}

	f.Loop(engine.Event{Kind: engine.EventTick, Subsecond: 0})
	if got := scr.texts[watch.PositionBottom]; got != "0101" {
		t.Fatalf("bottom = %q on the even subsecond, want %q", got, "0101")
	}
	if got := scr.texts[watch.PositionTop]; got != "Month" {
		t.Fatalf("top = %q, want %q", got, "Month")
	}
}

func TestPersistCoalescesWrites(t *testing.T) {
	st := store.NewMem()
	f, _, _, _ := newFace(watch.PersonalityCustom, st, midJune)

	f.changed = true
	f.persist()
	if st.Writes != 1 {
		t.Fatalf("writes = %d, want 1", st.Writes)
	}
	if f.changed {
		t.Fatal("persist did not clear the changed flag")
	}

	f.changed = true
	f.persist()
	if st.Writes != 1 {
		t.Fatalf("writes = %d, want identical persist skipped", st.Writes)
	}

	f.dates.End.Minute = 7
	f.changed = true
	f.persist()
	if st.Writes != 2 {
		t.Fatalf("writes = %d, want 2 after an edit", st.Writes)
	}
}

func TestResignPersistsOnlyWhenChanged(t *testing.T) {
	st := store.NewMem()
	f, _, _, _ := newFace(watch.PersonalityCustom, st, midJune)

	f.Resign()
	if st.Writes != 0 {
		t.Fatalf("writes = %d, want none without edits", st.Writes)
	}

	f.page = pageEditStart
	f.field = fieldHour
	f.increment()
	f.Resign()
	if st.Writes != 1 {
		t.Fatalf("writes = %d, want 1 after an edit", st.Writes)
	}
}
