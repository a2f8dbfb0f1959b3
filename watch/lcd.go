package watch

import (
	"sync"
	"time"
)

// Personality selects which physical segment layout is attached.
type Personality uint8

const (
	// PersonalityCustom has a seven-cell bottom line and a true decimal
	// point between the second and third cells.
	PersonalityCustom Personality = iota
	// PersonalityClassic has a six-cell bottom line and only a colon
	// between the hours and minutes cells.
	PersonalityClassic
)

// Position names a writable zone of the segment display. Hours, Minutes
// and Seconds alias pairs of cells inside the bottom line.
type Position uint8

const (
	PositionTop Position = iota
	PositionBottom
	PositionHours
	PositionMinutes
	PositionSeconds
)

const (
	topCells          = 5
	bottomCellsCustom = 7
	bottomCells       = 6
)

// Screen is the semantic display surface faces draw on. All calls are
// synchronous state updates; pixels are produced later by LCD.Render.
type Screen interface {
	DisplayText(pos Position, text string)
	DisplayTextFallback(pos Position, text, fallback string)
	Personality() Personality
	SetColon()
	ClearColon()
	SetDecimal()
	ClearDecimal()
	StartSleepAnimation(period time.Duration)
	StopSleepAnimation()
	SleepAnimationRunning() bool
}

// LCD models the segment display: two text lines, a colon, a decimal
// point and a sleep-animation tick mark. It implements Screen.
type LCD struct {
	mu sync.Mutex

	personality Personality

	top    [topCells]byte
	bottom [bottomCellsCustom]byte

	colon   bool
	decimal bool

	sleepPeriod time.Duration // zero while the animation is stopped

	// Render bookkeeping: dirty is set by every mutation, lastBlinkOn
	// remembers the sleep-animation phase of the last drawn frame.
	dirty       bool
	lastBlinkOn bool
}

// NewLCD returns a blank display with the given personality.
func NewLCD(p Personality) *LCD {
	l := &LCD{personality: p, dirty: true}
	l.clearCells()
	return l
}

func (l *LCD) clearCells() {
	for i := range l.top {
		l.top[i] = ' '
	}
	for i := range l.bottom {
		l.bottom[i] = ' '
	}
}

func (l *LCD) Personality() Personality {
	return l.personality
}

// zone returns the target cell slice for a position. The bottom line is
// six cells on the classic personality, seven on the custom one.
func (l *LCD) zone(pos Position) []byte {
	bottomWidth := bottomCells
	if l.personality == PersonalityCustom {
		bottomWidth = bottomCellsCustom
	}
	switch pos {
	case PositionTop:
		return l.top[:]
	case PositionBottom:
		return l.bottom[:bottomWidth]
	case PositionHours:
		return l.bottom[0:2]
	case PositionMinutes:
		return l.bottom[2:4]
	case PositionSeconds:
		return l.bottom[4:6]
	default:
		return nil
	}
}

// DisplayText writes text into a zone, clipped to the zone width. Cells
// past the end of a short string keep their previous contents.
func (l *LCD) DisplayText(pos Position, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cells := l.zone(pos)
	for i := 0; i < len(cells) && i < len(text); i++ {
		if cells[i] != text[i] {
			cells[i] = text[i]
			l.dirty = true
		}
	}
}

// DisplayTextFallback writes text on the custom personality and the
// reduced fallback form on the classic one.
func (l *LCD) DisplayTextFallback(pos Position, text, fallback string) {
	if l.personality == PersonalityCustom {
		l.DisplayText(pos, text)
		return
	}
	l.DisplayText(pos, fallback)
}

func (l *LCD) SetColon() {
	l.mu.Lock()
	l.dirty = l.dirty || !l.colon
	l.colon = true
	l.mu.Unlock()
}

func (l *LCD) ClearColon() {
	l.mu.Lock()
	l.dirty = l.dirty || l.colon
	l.colon = false
	l.mu.Unlock()
}

// SetDecimal lights the decimal point. No-op on personalities without one.
func (l *LCD) SetDecimal() {
	if l.personality != PersonalityCustom {
		return
	}
	l.mu.Lock()
	l.dirty = l.dirty || !l.decimal
	l.decimal = true
	l.mu.Unlock()
}

func (l *LCD) ClearDecimal() {
	l.mu.Lock()
	l.dirty = l.dirty || l.decimal
	l.decimal = false
	l.mu.Unlock()
}

// StartSleepAnimation begins blinking the tick mark with the given period.
// Starting an already running animation only updates the period.
func (l *LCD) StartSleepAnimation(period time.Duration) {
	if period <= 0 {
		return
	}
	l.mu.Lock()
	l.dirty = l.dirty || l.sleepPeriod != period
	l.sleepPeriod = period
	l.mu.Unlock()
}

func (l *LCD) StopSleepAnimation() {
	l.mu.Lock()
	l.dirty = l.dirty || l.sleepPeriod != 0
	l.sleepPeriod = 0
	l.mu.Unlock()
}

func (l *LCD) SleepAnimationRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sleepPeriod > 0
}

// snapshot copies the drawable state out under the lock.
func (l *LCD) snapshot() lcdState {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := lcdState{
		personality: l.personality,
		colon:       l.colon,
		decimal:     l.decimal,
		sleepPeriod: l.sleepPeriod,
	}
	copy(s.top[:], l.top[:])
	copy(s.bottom[:], l.bottom[:])
	return s
}

type lcdState struct {
	personality Personality
	top         [topCells]byte
	bottom      [bottomCellsCustom]byte
	colon       bool
	decimal     bool
	sleepPeriod time.Duration
}
