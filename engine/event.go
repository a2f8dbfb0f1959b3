// Package engine steps watch faces: it turns raw button levels and the
// base tick stream into the discrete events faces consume, owns the
// face-requested sampling rate, and tracks inactivity.
package engine

// EventKind is a discrete input delivered to the active face.
type EventKind uint8

const (
	EventNone EventKind = iota
	// EventActivate is delivered when a face becomes the active one and
	// when the watch wakes from low-energy mode.
	EventActivate
	// EventTick fires at the face-requested rate (1, 4 or 8 Hz).
	EventTick
	// EventLowEnergyTick replaces EventTick once per minute while the
	// watch is in low-energy mode.
	EventLowEnergyTick
	EventLightButtonDown
	EventLightButtonUp
	EventAlarmButtonDown
	// EventAlarmButtonUp is a release before the long-press threshold.
	EventAlarmButtonUp
	// EventAlarmLongPress fires once when the alarm button has been held
	// past the threshold; EventAlarmLongUp is the matching release.
	EventAlarmLongPress
	EventAlarmLongUp
	EventModeButtonUp
	// EventTimeout is delivered once after the inactivity window.
	EventTimeout
)

func (k EventKind) String() string {
	switch k {
	case EventActivate:
		return "activate"
	case EventTick:
		return "tick"
	case EventLowEnergyTick:
		return "low-energy-tick"
	case EventLightButtonDown:
		return "light-down"
	case EventLightButtonUp:
		return "light-up"
	case EventAlarmButtonDown:
		return "alarm-down"
	case EventAlarmButtonUp:
		return "alarm-up"
	case EventAlarmLongPress:
		return "alarm-long-press"
	case EventAlarmLongUp:
		return "alarm-long-up"
	case EventModeButtonUp:
		return "mode-up"
	case EventTimeout:
		return "timeout"
	default:
		return "none"
	}
}

// Event is one discrete input. Subsecond counts ticks within the current
// second at the active rate; faces use its parity for blinking.
type Event struct {
	Kind      EventKind
	Subsecond int
}

// Face is one screen of the watch. Loop's return value means "state
// fully settled, safe to enter low-power mode".
type Face interface {
	Activate()
	Loop(ev Event) bool
	Resign()
}

// Timing is the service surface the engine offers to faces.
type Timing interface {
	// RequestRate selects the tick rate in Hz; unsupported values are
	// clamped to the nearest supported one.
	RequestRate(hz int)
	// Illuminate lights the backlight for a short interval.
	Illuminate()
}
