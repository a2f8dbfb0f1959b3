package engine

import (
	"errors"

	"quartz/hal"
	"quartz/internal/log"
)

const (
	defaultTimeoutSeconds   = 60
	defaultLowEnergySeconds = 10 * 60

	// Hold fractions of the base rate.
	longPressNumerator   = 3
	longPressDenominator = 4 // 0.75 s
	illuminateSeconds    = 3
)

var supportedRates = [...]int{1, 4, 8}

// Options tunes the engine. Zero values pick the defaults above.
type Options struct {
	BaseHz           int
	TimeoutSeconds   int
	LowEnergySeconds int
}

// Engine owns the active face and the event loop state. Step is the
// only mutator and must be called from a single goroutine.
type Engine struct {
	buttons hal.Buttons
	led     hal.LED
	log     *log.Logger
	opt     Options

	faces  []Face
	active int

	rate      int
	sinceTick int
	subsecond int

	frame          uint64
	alarmDown      bool
	alarmDownFrame uint64
	alarmLong      bool

	idleFrames  int
	timeoutSent bool
	lowEnergy   bool
	settled     bool

	ledFrames int

	started bool
}

// New builds an engine over the given faces. The first face starts
// active once Start is called.
func New(buttons hal.Buttons, led hal.LED, logger *log.Logger, opt Options, faces ...Face) (*Engine, error) {
	if len(faces) == 0 {
		return nil, errors.New("engine: no faces")
	}
	if opt.BaseHz <= 0 {
		opt.BaseHz = hal.TicksPerSecond
	}
	if opt.TimeoutSeconds <= 0 {
		opt.TimeoutSeconds = defaultTimeoutSeconds
	}
	if opt.LowEnergySeconds <= 0 {
		opt.LowEnergySeconds = defaultLowEnergySeconds
	}
	return &Engine{
		buttons: buttons,
		led:     led,
		log:     logger,
		opt:     opt,
		faces:   faces,
		rate:    1,
		settled: true,
	}, nil
}

// Start activates the first face.
func (e *Engine) Start() {
	if e.started {
		return
	}
	e.started = true
	e.activateFace()
}

// Stop resigns the active face. Faces flush pending persistence here.
func (e *Engine) Stop() {
	if !e.started {
		return
	}
	e.started = false
	e.faces[e.active].Resign()
}

// RequestRate implements Timing.
func (e *Engine) RequestRate(hz int) {
	best := supportedRates[0]
	for _, r := range supportedRates {
		if hz >= r {
			best = r
		}
	}
	if best == e.rate {
		return
	}
	e.rate = best
	e.sinceTick = 0
	e.subsecond = 0
}

// Illuminate implements Timing.
func (e *Engine) Illuminate() {
	if e.led == nil {
		return
	}
	e.led.High()
	e.ledFrames = illuminateSeconds * e.opt.BaseHz
}

// Step advances the engine by one base tick.
func (e *Engine) Step() error {
	if !e.started {
		return nil
	}
	e.frame++

	e.drainButtons()
	e.checkLongPress()
	e.advanceLED()
	e.advanceIdle()
	e.emitTick()
	return nil
}

func (e *Engine) activateFace() {
	f := e.faces[e.active]
	f.Activate()
	e.deliver(Event{Kind: EventActivate})
}

func (e *Engine) deliver(ev Event) {
	e.settled = e.faces[e.active].Loop(ev)
}

func (e *Engine) drainButtons() {
	if e.buttons == nil {
		return
	}
	for {
		select {
		case ev := <-e.buttons.Events():
			e.handleButton(ev)
		default:
			return
		}
	}
}

func (e *Engine) handleButton(ev hal.ButtonEvent) {
	e.noteActivity()

	switch ev.Button {
	case hal.ButtonLight:
		if ev.Pressed {
			e.deliver(Event{Kind: EventLightButtonDown, Subsecond: e.subsecond})
		} else {
			e.deliver(Event{Kind: EventLightButtonUp, Subsecond: e.subsecond})
		}

	case hal.ButtonAlarm:
		if ev.Pressed {
			e.alarmDown = true
			e.alarmDownFrame = e.frame
			e.deliver(Event{Kind: EventAlarmButtonDown, Subsecond: e.subsecond})
			return
		}
		wasLong := e.alarmLong
		e.alarmDown = false
		e.alarmLong = false
		if wasLong {
			e.deliver(Event{Kind: EventAlarmLongUp, Subsecond: e.subsecond})
		} else {
			e.deliver(Event{Kind: EventAlarmButtonUp, Subsecond: e.subsecond})
		}

	case hal.ButtonMode:
		if ev.Pressed {
			return
		}
		e.switchFace()
	}
}

// switchFace advances to the next face in the ring.
func (e *Engine) switchFace() {
	e.faces[e.active].Resign()
	e.active = (e.active + 1) % len(e.faces)
	e.alarmDown = false
	e.alarmLong = false
	e.log.Debug("face switch", "active", e.active)
	e.activateFace()
}

func (e *Engine) checkLongPress() {
	if !e.alarmDown || e.alarmLong {
		return
	}
	threshold := uint64(e.opt.BaseHz * longPressNumerator / longPressDenominator)
	if e.frame-e.alarmDownFrame >= threshold {
		e.alarmLong = true
		e.deliver(Event{Kind: EventAlarmLongPress, Subsecond: e.subsecond})
	}
}

func (e *Engine) advanceLED() {
	if e.ledFrames <= 0 {
		return
	}
	e.ledFrames--
	if e.ledFrames == 0 {
		e.led.Low()
	}
}

func (e *Engine) noteActivity() {
	e.idleFrames = 0
	e.timeoutSent = false
	if e.lowEnergy {
		e.lowEnergy = false
		e.log.Debug("low energy exit")
		e.activateFace()
	}
}

func (e *Engine) advanceIdle() {
	e.idleFrames++

	if !e.timeoutSent && e.idleFrames >= e.opt.TimeoutSeconds*e.opt.BaseHz {
		e.timeoutSent = true
		e.deliver(Event{Kind: EventTimeout, Subsecond: e.subsecond})
	}

	// Only a settled face may be parked in low-energy mode.
	if !e.lowEnergy && e.settled && e.idleFrames >= e.opt.LowEnergySeconds*e.opt.BaseHz {
		e.lowEnergy = true
		e.sinceTick = 0
		e.log.Debug("low energy enter")
		e.deliver(Event{Kind: EventLowEnergyTick})
	}
}

func (e *Engine) emitTick() {
	if e.lowEnergy {
		e.sinceTick++
		if e.sinceTick >= e.opt.BaseHz*60 {
			e.sinceTick = 0
			e.deliver(Event{Kind: EventLowEnergyTick})
		}
		return
	}

	e.sinceTick++
	if e.sinceTick < e.opt.BaseHz/e.rate {
		return
	}
	e.sinceTick = 0
	e.subsecond = (e.subsecond + 1) % e.rate
	e.deliver(Event{Kind: EventTick, Subsecond: e.subsecond})
}
