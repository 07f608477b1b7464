package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// WriteCSV writes every sample as label,phase,trial,seconds.
func WriteCSV(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"label", "phase", "trial", "seconds"}); err != nil {
		return err
	}
	for _, s := range t.Series() {
		for i, v := range s.Samples {
			row := []string{s.Label, string(s.Phase), strconv.Itoa(i), strconv.FormatFloat(v, 'g', -1, 64)}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return f.Close()
}

// WriteMetrics writes the summaries as Prometheus gauges to a textfile that
// node_exporter's textfile collector can pick up.
func WriteMetrics(path string, t *Table) error {
	reg := prometheus.NewRegistry()
	mean := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "raggedbench_seconds_mean",
		Help: "Mean wall-clock seconds per trial.",
	}, []string{"backend", "phase"})
	std := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "raggedbench_seconds_stddev",
		Help: "Sample standard deviation of wall-clock seconds per trial.",
	}, []string{"backend", "phase"})
	trials := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "raggedbench_trials",
		Help: "Number of trials behind each summary.",
	}, []string{"backend", "phase"})
	reg.MustRegister(mean, std, trials)

	for _, s := range t.Summaries() {
		backend := metricLabel(s)
		phase := string(s.Phase)
		mean.WithLabelValues(backend, phase).Set(s.Mean)
		std.WithLabelValues(backend, phase).Set(s.Std)
		trials.WithLabelValues(backend, phase).Set(float64(s.N))
	}

	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

// metricLabel strips the chart-only line break suffix from granular labels.
func metricLabel(s Summary) string {
	if s.Phase == Granular {
		return strings.TrimSuffix(s.Label, GranularSuffix)
	}
	return s.Label
}

// GranularSuffix is appended to a backend label for its granular series.
const GranularSuffix = "\ngranular"
