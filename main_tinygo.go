//go:build tinygo

package main

import (
	"quartz/app"
	"quartz/hal"
	"quartz/internal/log"
	"quartz/store"
	"quartz/watch"
)

func main() {
	h := hal.New()
	logger := log.New(h.Logger())

	records, err := store.NewLittleFS(h.Flash(), logger)
	if err != nil {
		// Keep running with in-memory records; edits last the session.
		logger.Error("mount littlefs", err)
		app.Run(h, store.NewMem(), deviceOptions())
		return
	}
	app.Run(h, records, deviceOptions())
}

func deviceOptions() app.Options {
	return app.Options{
		Personality: watch.PersonalityCustom,
		Faces:       1,
	}
}
