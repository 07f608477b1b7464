package utils

import "time"

// Stopwatch measures elapsed wall-clock time from Start.
type Stopwatch struct {
	start time.Time
}

// Start returns a running stopwatch.
func Start() Stopwatch {
	return Stopwatch{start: time.Now()}
}

// Elapsed returns the time since Start.
func (s Stopwatch) Elapsed() time.Duration {
	return time.Since(s.start)
}

// Seconds returns the time since Start in seconds.
func (s Stopwatch) Seconds() float64 {
	return DurationSeconds(s.Elapsed())
}

// DurationUS converts any time.Duration to micro-seconds as float64
func DurationUS(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1_000.0
}

// DurationSeconds converts any time.Duration to seconds as float64
func DurationSeconds(d time.Duration) float64 {
	return d.Seconds()
}
