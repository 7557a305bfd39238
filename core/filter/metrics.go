package filter

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of a table filter. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Commands       *prometheus.CounterVec
	FacetQueries   prometheus.Counter
	RowEvaluations prometheus.Counter
}

// NewMetrics creates and registers all metrics with the provided registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	commands := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "facets_commands_total",
		Help: "Total filter commands applied, by command type",
	}, []string{"command"})

	facetQueries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "facets_facet_queries_total",
		Help: "Total facet reachability computations",
	})

	rowEvaluations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "facets_row_evaluations_total",
		Help: "Total row visibility evaluations",
	})

	reg.MustRegister(commands, facetQueries, rowEvaluations)

	return &Metrics{
		Commands:       commands,
		FacetQueries:   facetQueries,
		RowEvaluations: rowEvaluations,
	}
}

func (m *Metrics) command(t CommandType) {
	if m != nil {
		m.Commands.WithLabelValues(string(t)).Inc()
	}
}

func (m *Metrics) facetQuery() {
	if m != nil {
		m.FacetQueries.Inc()
	}
}

func (m *Metrics) rowEvaluations(n int) {
	if m != nil && n > 0 {
		m.RowEvaluations.Add(float64(n))
	}
}
