//go:build !tinygo

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"quartz/app"
	"quartz/config"
	"quartz/hal"
	"quartz/internal/buildinfo"
	"quartz/internal/log"
	"quartz/store"
)

func main() {
	var headless hal.HeadlessConfig
	var configPath string
	var version bool
	flag.BoolVar(&headless.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&headless.Hz, "hz", hal.TicksPerSecond, "Tick rate in headless mode.")
	flag.Uint64Var(&headless.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.StringVar(&configPath, "config", "quartz.yaml", "Path to the YAML config; created on first run.")
	flag.BoolVar(&version, "version", false, "Print the build identifier and exit.")
	flag.Parse()

	if version {
		fmt.Println(buildinfo.Full())
		return
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	opt := app.Options{
		Personality:      cfg.LCDPersonality(),
		Faces:            cfg.Faces,
		TimeoutSeconds:   cfg.TimeoutSeconds,
		LowEnergySeconds: cfg.LowEnergySeconds,
	}

	// The littlefs backend needs the HAL's flash image, so the store
	// opens inside the app constructor closure.
	var a *app.App
	newApp := func(h hal.HAL) func() error {
		records, err := openStore(cfg, h)
		if err != nil {
			// A watch with broken storage still ticks; edits just
			// don't survive the session.
			log.New(h.Logger()).Error("open store", err, "backend", cfg.Store.Backend)
			records = store.NewMem()
		}
		a = app.New(h, records, opt)
		return a.Step
	}

	if headless.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err = hal.RunHeadless(ctx, newApp, headless)
		if err == context.Canceled {
			err = nil
		}
	} else {
		err = hal.RunWindow(newApp, cfg.Scale)
	}

	// Flush pending edits before exiting, however the loop ended.
	if a != nil {
		a.Stop()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openStore(cfg *config.Config, h hal.HAL) (store.Store, error) {
	switch cfg.Store.Backend {
	case "sqlite":
		return store.NewSQLite(cfg.Store.Path)
	case "littlefs":
		return store.NewLittleFS(h.Flash(), log.New(h.Logger()))
	default:
		return store.NewDir(cfg.Store.Path)
	}
}
