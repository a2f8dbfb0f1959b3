// Package progress implements a date-range progress face: it shows the
// elapsed fraction of a user-set start/end interval as a percentage with
// four decimal digits, refreshed at the top of each minute, and carries
// an edit mode for setting both endpoints field by field.
package progress

import (
	"bytes"
	"fmt"
	"time"

	"quartz/engine"
	"quartz/hal"
	"quartz/store"
	"quartz/watch"
)

type page uint8

const (
	pageDisplay page = iota
	pageEditStart
	pageEditEnd
)

type field uint8

const (
	fieldYear field = iota
	fieldMonth
	fieldDay
	fieldHour
	fieldMinute

	fieldCount = 5
)

var fieldTitles = [fieldCount]string{"Year ", "Month", "Day  ", "Hour ", "Minut"}
var fieldFallbacks = [fieldCount]string{"YR", "MO", "DA", "HR", "M1"}

// Face is one progress face instance. All state is mutated only from
// Loop and the engine lifecycle calls, which arrive on one goroutine.
type Face struct {
	clock   hal.Clock
	screen  watch.Screen
	records store.Store
	buttons hal.Buttons
	timing  engine.Timing

	index int

	page  page
	field field
	dates Range

	// changed tracks unpersisted edits; quick is the accelerated repeat
	// mode entered by holding the alarm button on an edit page.
	changed bool
	quick   bool
}

// New builds a face instance and loads its stored range. A first run
// with no stored record opens directly into start-date editing.
func New(clock hal.Clock, screen watch.Screen, records store.Store, buttons hal.Buttons, timing engine.Timing, index int) *Face {
	f := &Face{
		clock:   clock,
		screen:  screen,
		records: records,
		buttons: buttons,
		timing:  timing,
		index:   index,
	}
	if !f.load() {
		f.page = pageEditStart
		f.field = fieldYear
	}
	return f
}

// Activate implements engine.Face.
func (f *Face) Activate() {
	if f.page == pageDisplay {
		f.timing.RequestRate(1)
		f.refreshProgress()
	} else {
		f.timing.RequestRate(4)
	}
}

// Resign implements engine.Face. Pending edits are persisted here so a
// face switch or shutdown mid-edit never loses the range.
func (f *Face) Resign() {
	f.quick = false
	if f.changed {
		f.persist()
	}
}

// Loop implements engine.Face.
func (f *Face) Loop(ev engine.Event) bool {
	switch ev.Kind {
	case engine.EventActivate:
		if f.page == pageDisplay {
			f.refreshProgress()
		}

	case engine.EventTick, engine.EventLowEnergyTick:
		f.tick(ev)

	case engine.EventLightButtonDown:
		if f.page == pageDisplay {
			f.timing.Illuminate()
		}

	case engine.EventLightButtonUp:
		f.advanceField()

	case engine.EventAlarmButtonUp:
		if f.page != pageDisplay {
			f.abortQuickCycle()
			f.increment()
		}

	case engine.EventAlarmLongPress:
		if f.page == pageDisplay {
			f.enterSettings()
		} else {
			f.quick = true
			f.timing.RequestRate(8)
		}

	case engine.EventAlarmLongUp, engine.EventTimeout:
		f.abortQuickCycle()
	}

	return true
}

func (f *Face) tick(ev engine.Event) {
	if f.quick {
		// Repeat for as long as the alarm button stays physically down.
		if f.buttons != nil && f.buttons.Down(hal.ButtonAlarm) {
			f.increment()
		} else {
			f.abortQuickCycle()
		}
	}

	switch f.page {
	case pageEditStart, pageEditEnd:
		f.renderSettings(ev.Subsecond)

	case pageDisplay:
		if ev.Kind == engine.EventLowEnergyTick || f.clock.Now().Second == 0 {
			f.refreshProgress()
		}
		if f.screen.Personality() == watch.PersonalityClassic {
			// The corner zone doubles as the sleep indicator slot.
			f.screen.DisplayText(watch.PositionSeconds, "  ")
		}
		if !f.screen.SleepAnimationRunning() {
			f.screen.StartSleepAnimation(time.Second)
		}
	}
}

// enterSettings opens start-date editing from display mode.
func (f *Face) enterSettings() {
	f.page = pageEditStart
	f.field = fieldYear
	f.screen.ClearDecimal()
	f.screen.ClearColon()
	f.screen.StopSleepAnimation()
	f.timing.RequestRate(4)
}

// advanceField moves the edit cursor to the next field. Wrapping past
// the last field advances start editing to end editing, and end editing
// back to display mode with a persistence write.
func (f *Face) advanceField() {
	if f.page == pageDisplay {
		return
	}
	f.abortQuickCycle()
	f.field = (f.field + 1) % fieldCount
	if f.field != fieldYear {
		return
	}

	if f.page == pageEditStart {
		f.page = pageEditEnd
		f.validateEnd()
		return
	}

	f.page = pageDisplay
	f.persist()
	f.screen.ClearDecimal()
	f.screen.ClearColon()
	f.refreshProgress()
	f.timing.RequestRate(1)
}

func (f *Face) abortQuickCycle() {
	if !f.quick {
		return
	}
	f.quick = false
	f.timing.RequestRate(4)
}

// activeDate is the endpoint the current edit page addresses.
func (f *Face) activeDate() *watch.DateTime {
	if f.page == pageEditStart {
		return &f.dates.Start
	}
	return &f.dates.End
}

// increment applies one step to the active field, with wraparound. The
// year is kept within a century of the current year in either direction.
func (f *Face) increment() {
	dt := f.activeDate()
	f.changed = true

	switch f.field {
	case fieldYear:
		dt.Year++
		if current := f.clock.Now().Year; dt.Year > current+100 {
			dt.Year = current - 100
		}
	case fieldMonth:
		dt.Month = dt.Month%12 + 1
	case fieldDay:
		dt.Day = dt.Day%watch.DaysInMonth(dt.Month, dt.Year) + 1
	case fieldHour:
		dt.Hour = (dt.Hour + 1) % 24
	case fieldMinute:
		dt.Minute = (dt.Minute + 1) % 60
	}

	// Editing the month or day of the end date can pull it behind the
	// start date under the new day-in-month bound, so the check runs
	// after every end-date edit, not only at the page transition.
	if f.page == pageEditEnd {
		f.validateEnd()
	}
}

func (f *Face) validateEnd() {
	if watch.Compare(f.dates.End, f.dates.Start) < 0 {
		f.dates.End = f.dates.Start
		f.changed = true
	}
}

// refreshProgress recomputes the percentage and redraws display mode.
func (f *Face) refreshProgress() {
	pct := fixedPoint(f.dates.Start, f.dates.End, f.clock.Now())

	f.screen.DisplayTextFallback(watch.PositionTop, "PROG ", "PR   ")

	if pct >= fullScale {
		// A distinct full token; the six-digit form would read 00.0000.
		f.screen.DisplayTextFallback(watch.PositionBottom, "1000000", "100   ")
		if f.screen.Personality() != watch.PersonalityCustom {
			f.screen.ClearColon()
		}
	} else {
		if f.screen.Personality() != watch.PersonalityCustom {
			f.screen.SetColon()
		}
		f.screen.DisplayTextFallback(watch.PositionBottom,
			fmt.Sprintf("%06d ", pct), fmt.Sprintf("%06d", pct))
	}

	if f.screen.Personality() == watch.PersonalityCustom {
		f.screen.SetDecimal()
	}
}

// renderSettings redraws edit mode: field label on top, "St"/"En" in
// the corner, the active value below, blinking on odd subseconds.
func (f *Face) renderSettings(subsecond int) {
	f.screen.DisplayText(watch.PositionBottom, "       ")
	f.screen.DisplayTextFallback(watch.PositionTop,
		fieldTitles[f.field], fieldFallbacks[f.field])

	tag := "St"
	if f.page == pageEditEnd {
		tag = "En"
	}
	f.screen.DisplayText(watch.PositionSeconds, tag)

	dt := f.activeDate()
	var buf string
	switch {
	case f.field == fieldYear:
		f.screen.ClearColon()
		buf = fmt.Sprintf("%4d", dt.Year)
	case f.field <= fieldDay:
		f.screen.ClearColon()
		buf = fmt.Sprintf("%02d%02d", dt.Month, dt.Day)
	default:
		f.screen.SetColon()
		buf = fmt.Sprintf("%02d%02d", dt.Hour, dt.Minute)
	}
	f.screen.DisplayText(watch.PositionBottom, buf)

	if subsecond%2 == 1 && !f.quick {
		switch f.field {
		case fieldYear:
			f.screen.DisplayText(watch.PositionBottom, "    ")
		case fieldMonth, fieldHour:
			f.screen.DisplayText(watch.PositionHours, "  ")
		case fieldDay, fieldMinute:
			f.screen.DisplayText(watch.PositionMinutes, "  ")
		}
	}
}

// load restores the stored range, or synthesizes the current calendar
// year and reports false.
func (f *Face) load() bool {
	var p [RecordSize]byte
	if f.records.Read(RecordName(f.index), p[:]) {
		if r, ok := DecodeRange(p[:]); ok {
			f.dates = r
			return true
		}
	}

	year := f.clock.Now().Year
	f.dates = Range{
		Start: watch.DateTime{Year: year, Month: 1, Day: 1},
		End:   watch.DateTime{Year: year, Month: 12, Day: 31, Hour: 23, Minute: 59},
	}
	return false
}

// persist writes the range back, skipping the write when the stored
// record is already byte-identical. Write failures are not surfaced;
// the in-memory range stays authoritative for the session.
func (f *Face) persist() {
	body := EncodeRange(f.dates)

	var old [RecordSize]byte
	if f.records.Read(RecordName(f.index), old[:]) && bytes.Equal(old[:], body) {
		f.changed = false
		return
	}

	_ = f.records.Write(RecordName(f.index), body)
	f.changed = false
}
