package progress

import "quartz/watch"

// fullScale is 100.0000% in fixed point (percent times ten thousand).
const fullScale = 1_000_000

// fixedPoint returns the elapsed fraction of [start, end] at now, in
// [0, fullScale]. It clamps outside the interval and treats a
// zero-length interval as complete.
func fixedPoint(start, end, now watch.DateTime) int64 {
	s := start.LinearMinutes()
	e := end.LinearMinutes()
	n := now.LinearMinutes()

	if n <= s {
		return 0
	}
	if n >= e {
		return fullScale
	}
	// Reached only with s < n < e, so the interval is nonempty. The
	// numerator stays well inside int64 for the supported year range.
	return (n - s) * fullScale / (e - s)
}
