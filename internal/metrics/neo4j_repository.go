package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	neo4jRepositoryRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockgraph",
		Subsystem: "neo4j_repository",
		Name:      "operations_total",
		Help:      "Count of graph store operations.",
	}, []string{"operation", "status"})
	neo4jRepositoryRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockgraph",
		Subsystem: "neo4j_repository",
		Name:      "operation_duration_seconds",
		Help:      "Duration of graph store operations.",
		Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"operation", "status"})
)

// Neo4jRepository tracks metrics for graph store operations.
type Neo4jRepository struct{}

// NewNeo4jRepository creates a Neo4jRepository metrics collector.
func NewNeo4jRepository() *Neo4jRepository {
	return &Neo4jRepository{}
}

// Observe records duration and status of a graph store operation.
func (m Neo4jRepository) Observe(operation string, err error, started time.Time) {
	status := statusOf(err)
	neo4jRepositoryRequestsTotal.WithLabelValues(operation, status).Inc()
	neo4jRepositoryRequestDuration.WithLabelValues(operation, status).Observe(time.Since(started).Seconds())
}
