//go:build !tinygo

// mkrange provisions a stored date range offline, so a watch image or a
// simulator state directory boots straight into display mode.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"quartz/faces/progress"
	"quartz/hal"
	"quartz/internal/log"
	"quartz/store"
	"quartz/watch"
)

func main() {
	var (
		startArg = flag.String("start", "", "Range start, YYYY-MM-DD or \"YYYY-MM-DD HH:MM\" (required).")
		endArg   = flag.String("end", "", "Range end, same formats (required).")
		index    = flag.Int("index", 0, "Face instance the record belongs to.")
		backend  = flag.String("store", "dir", "Store backend: dir, sqlite or littlefs.")
		path     = flag.String("path", ".quartz", "Record directory or sqlite database file.")
		flash    = flag.String("flash", "", "Flash image file for the littlefs backend ($QUARTZ_FLASH_PATH, then quartz.flash).")
		show     = flag.Bool("show", false, "Print the stored range instead of writing one.")
	)
	flag.Parse()

	records, err := openStore(*backend, *path, *flash)
	if err != nil {
		fatal(err)
	}

	name := progress.RecordName(*index)

	if *show {
		var p [progress.RecordSize]byte
		if !records.Read(name, p[:]) {
			fatal(fmt.Errorf("no record %s in %s store at %s", name, *backend, *path))
		}
		r, _ := progress.DecodeRange(p[:])
		fmt.Printf("%s: %s .. %s\n", name, formatDate(r.Start), formatDate(r.End))
		return
	}

	start, err := parseDate(*startArg)
	if err != nil {
		fatal(fmt.Errorf("-start: %w", err))
	}
	end, err := parseDate(*endArg)
	if err != nil {
		fatal(fmt.Errorf("-end: %w", err))
	}
	if watch.Compare(end, start) < 0 {
		fatal(fmt.Errorf("end %s is before start %s", formatDate(end), formatDate(start)))
	}

	r := progress.Range{Start: start, End: end}
	if err := records.Write(name, progress.EncodeRange(r)); err != nil {
		fatal(err)
	}
	fmt.Printf("wrote %s: %s .. %s\n", name, formatDate(start), formatDate(end))
}

func openStore(backend, path, flash string) (store.Store, error) {
	switch backend {
	case "dir":
		return store.NewDir(path)
	case "sqlite":
		return store.NewSQLite(path)
	case "littlefs":
		return store.NewLittleFS(hal.NewHostFlash(flash), log.New(stderrSink{}))
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

// stderrSink routes store log lines to stderr, keeping stdout for the
// range output scripts parse.
type stderrSink struct{}

func (stderrSink) WriteLineString(s string) { fmt.Fprintln(os.Stderr, s) }
func (stderrSink) WriteLineBytes(b []byte)  { fmt.Fprintln(os.Stderr, string(b)) }

func parseDate(s string) (watch.DateTime, error) {
	if s == "" {
		return watch.DateTime{}, fmt.Errorf("missing value")
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return watch.FromTime(t), nil
		}
	}
	return watch.DateTime{}, fmt.Errorf("cannot parse %q", s)
}

func formatDate(dt watch.DateTime) string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d", dt.Year, dt.Month, dt.Day, dt.Hour, dt.Minute)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "mkrange:", err)
	os.Exit(1)
}
