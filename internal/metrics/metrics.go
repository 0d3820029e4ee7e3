package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Generation outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeModelError  = "model_error"
	OutcomeParseError  = "parse_error"
	OutcomeConfigError = "config_error"
)

type Metrics struct {
	Generations *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
	Extractions *prometheus.CounterVec
}

// New creates the collectors and registers them with reg when it is non-nil.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studynotes",
			Name:      "generations_total",
			Help:      "Artifact generation pipelines by artifact kind and outcome.",
		}, []string{"artifact", "outcome"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "studynotes",
			Name:      "generation_duration_seconds",
			Help:      "Wall time of one build/generate/parse pipeline.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}, []string{"artifact"}),
		Extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studynotes",
			Name:      "extractions_total",
			Help:      "PDF text extractions by result.",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(m.Generations, m.Duration, m.Extractions)
	}
	return m
}

func (m *Metrics) ObserveGeneration(artifact, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Generations.WithLabelValues(artifact, outcome).Inc()
	m.Duration.WithLabelValues(artifact).Observe(d.Seconds())
}

// ObserveExtraction counts one extraction; result is "ok", "empty" or "error".
func (m *Metrics) ObserveExtraction(result string) {
	if m == nil {
		return
	}
	m.Extractions.WithLabelValues(result).Inc()
}
