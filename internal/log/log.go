// Package log formats key/value log lines onto a hal.Logger sink.
package log

import (
	"fmt"

	"quartz/hal"
)

type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelError:
		return "ERROR"
	default:
		return "?"
	}
}

// Logger writes leveled lines of the form:
//
//	[LEVEL] msg key=value ...
type Logger struct {
	sink hal.Logger
	min  Level
}

// New returns a logger writing to sink at Info level. A nil sink
// discards everything.
func New(sink hal.Logger) *Logger {
	return &Logger{sink: sink, min: LevelInfo}
}

func (l *Logger) SetLevel(min Level) { l.min = min }

func (l *Logger) Debug(msg string, kv ...any) { l.write(LevelDebug, msg, kv...) }

func (l *Logger) Info(msg string, kv ...any) { l.write(LevelInfo, msg, kv...) }

func (l *Logger) Error(msg string, err error, kv ...any) {
	extended := append([]any{"err", err}, kv...)
	l.write(LevelError, msg, extended...)
}

func (l *Logger) write(level Level, msg string, kv ...any) {
	if l == nil || l.sink == nil || level < l.min {
		return
	}
	line := "[" + level.String() + "] " + msg
	// kv comes in pairs; a trailing odd key is dropped.
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		line += " " + key + "=" + fmt.Sprint(kv[i+1])
	}
	l.sink.WriteLineString(line)
}
