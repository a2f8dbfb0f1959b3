// Package app wires the hardware abstraction, the segment display
// model, the record store and the progress faces into a stepped watch
// runtime.
package app

import (
	"time"

	"quartz/engine"
	"quartz/faces/progress"
	"quartz/hal"
	"quartz/internal/log"
	"quartz/store"
	"quartz/watch"
)

// Options selects what the runtime is built from. Zero values fall back
// to one custom-personality face with the engine defaults.
type Options struct {
	Personality      watch.Personality
	Faces            int
	TimeoutSeconds   int
	LowEnergySeconds int
}

// App is one assembled watch runtime. Step drives it at the base tick
// rate; everything downstream is synchronous.
type App struct {
	lcd    *watch.LCD
	eng    *engine.Engine
	hw     hal.HAL
	log    *log.Logger
	frames uint64
}

// timingProxy breaks the construction cycle: faces need an
// engine.Timing before the engine, which needs the faces, exists.
type timingProxy struct {
	eng *engine.Engine
}

func (p *timingProxy) RequestRate(hz int) {
	if p.eng != nil {
		p.eng.RequestRate(hz)
	}
}

func (p *timingProxy) Illuminate() {
	if p.eng != nil {
		p.eng.Illuminate()
	}
}

// New assembles the runtime over the given hardware and record store.
func New(h hal.HAL, records store.Store, opt Options) *App {
	if opt.Faces <= 0 {
		opt.Faces = 1
	}

	logger := log.New(h.Logger())
	lcd := watch.NewLCD(opt.Personality)

	proxy := &timingProxy{}
	faces := make([]engine.Face, opt.Faces)
	for i := range faces {
		faces[i] = progress.New(h.Clock(), lcd, records, h.Buttons(), proxy, i)
	}

	eng, err := engine.New(h.Buttons(), h.LED(), logger, engine.Options{
		BaseHz:           hal.TicksPerSecond,
		TimeoutSeconds:   opt.TimeoutSeconds,
		LowEnergySeconds: opt.LowEnergySeconds,
	}, faces...)
	if err != nil {
		// Unreachable with at least one face; keep the runtime alive
		// rather than crash a watch over wiring.
		logger.Error("engine init", err)
		return &App{lcd: lcd, hw: h, log: logger}
	}
	proxy.eng = eng

	eng.Start()
	logger.Info("runtime up", "faces", opt.Faces)
	return &App{lcd: lcd, eng: eng, hw: h, log: logger}
}

// Step advances the runtime by one base tick and redraws the panel.
func (a *App) Step() error {
	if a.eng != nil {
		if err := a.eng.Step(); err != nil {
			return err
		}
	}
	a.frames++
	elapsed := time.Duration(a.frames) * time.Second / hal.TicksPerSecond
	if err := a.lcd.Render(a.hw.Display().Displayer(), elapsed); err != nil {
		a.log.Error("render", err)
	}
	return nil
}

// Stop resigns the active face, flushing pending edits to the store.
func (a *App) Stop() {
	if a.eng != nil {
		a.eng.Stop()
	}
}

// Run assembles the runtime and blocks, stepping on the hardware tick
// stream. This is the device entrypoint.
func Run(h hal.HAL, records store.Store, opt Options) {
	a := New(h, records, opt)
	ticks := h.Time().Ticks()
	for range ticks {
		if err := a.Step(); err != nil {
			a.log.Error("step", err)
		}
	}
}
