package utils

import (
	"math"
	"testing"
	"time"
)

func TestDurationUS(t *testing.T) {
	d := 1234*time.Microsecond + 567*time.Nanosecond
	got := DurationUS(d)
	if math.Abs(got-1234.567) > 0.001 {
		t.Fatalf("want 1234.567µs, got %.3f", got)
	}
}

func TestDurationSeconds(t *testing.T) {
	got := DurationSeconds(1500 * time.Millisecond)
	if got != 1.5 {
		t.Fatalf("want 1.5s, got %f", got)
	}
}

func TestStopwatchMonotonic(t *testing.T) {
	sw := Start()
	time.Sleep(time.Millisecond)
	first := sw.Seconds()
	second := sw.Seconds()
	if first <= 0 || second < first {
		t.Fatalf("elapsed went backwards or stayed zero: %f then %f", first, second)
	}
}
