// Package report aggregates timing samples and renders them as a chart,
// a CSV file and a Prometheus textfile.
package report

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Phase names which timer produced a sample.
type Phase string

const (
	Total    Phase = "total"
	Granular Phase = "granular"
)

// Series is one labelled set of samples.
type Series struct {
	Label   string
	Phase   Phase
	Samples []float64
}

// Summary is the mean and sample standard deviation of a Series. Std is
// NaN when there is a single sample.
type Summary struct {
	Label string
	Phase Phase
	Mean  float64
	Std   float64
	N     int
}

// Table keeps series in insertion order.
type Table struct {
	series []Series
}

// Add appends a series. Adding an existing label replaces its samples in place.
func (t *Table) Add(label string, phase Phase, samples []float64) {
	s := Series{Label: label, Phase: phase, Samples: append([]float64(nil), samples...)}
	for i := range t.series {
		if t.series[i].Label == label {
			t.series[i] = s
			return
		}
	}
	t.series = append(t.series, s)
}

// Series returns the series in insertion order.
func (t *Table) Series() []Series {
	return t.series
}

// Len returns the number of series.
func (t *Table) Len() int {
	return len(t.series)
}

// Summaries computes a Summary per series, in insertion order.
func (t *Table) Summaries() []Summary {
	out := make([]Summary, len(t.series))
	for i, s := range t.series {
		out[i] = Summarize(s)
	}
	return out
}

// Summarize computes the mean and sample (n-1) standard deviation.
func Summarize(s Series) Summary {
	sum := Summary{Label: s.Label, Phase: s.Phase, N: len(s.Samples)}
	switch len(s.Samples) {
	case 0:
		sum.Mean, sum.Std = math.NaN(), math.NaN()
	case 1:
		sum.Mean, sum.Std = s.Samples[0], math.NaN()
	default:
		sum.Mean, sum.Std = stat.MeanStdDev(s.Samples, nil)
	}
	return sum
}
