// Package metrics records build statistics in a private prometheus registry
// that can be written to a node-exporter textfile at the end of a run.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds every build collector. It is separate from the default
// registry so that textfile output carries no go/process collectors.
var Registry = prometheus.NewRegistry()

var (
	sourcesSelected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fastllm",
			Subsystem: "build",
			Name:      "sources_selected",
			Help:      "Translation units kept by the source selector in the last run",
		},
	)

	sourcesExcluded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fastllm",
			Subsystem: "build",
			Name:      "sources_excluded",
			Help:      "Accelerated-backend translation units dropped in the last run",
		},
	)

	compileDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "fastllm",
			Subsystem: "build",
			Name:      "compile_duration_seconds",
			Help:      "Duration of single translation unit compilations",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
	)

	stepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fastllm",
			Subsystem: "build",
			Name:      "steps_total",
			Help:      "Compiler invocations by step and outcome",
		},
		[]string{"step", "result"},
	)

	failuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fastllm",
			Subsystem: "build",
			Name:      "failures_total",
			Help:      "Aborted runs by error kind",
		},
		[]string{"kind"},
	)
)

func init() {
	Registry.MustRegister(sourcesSelected, sourcesExcluded, compileDuration, stepsTotal, failuresTotal)
}

// ObserveSelection records the outcome of a source selection.
func ObserveSelection(kept, excluded int) {
	sourcesSelected.Set(float64(kept))
	sourcesExcluded.Set(float64(excluded))
}

// ObserveStep records one compile or link invocation.
func ObserveStep(step string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	stepsTotal.WithLabelValues(step, result).Inc()
	if step == "compile" && err == nil {
		compileDuration.Observe(d.Seconds())
	}
}

// ObserveFailure counts a run aborted by an error of the given kind:
// configuration, discovery, manifest, toolchain, compile, link, or build for anything else.
func ObserveFailure(kind string) { failuresTotal.WithLabelValues(kind).Inc() }

// WriteTextfile writes the registry in text exposition format to path.
// An empty path is a no-op.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, Registry)
}
