package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var latencyBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

// Metrics provides observability for the knight module.
// Tracks lifecycle transitions and the duration of listing queries.
type Metrics struct {
	KnightsCreated   prometheus.Counter
	NicknamesChanged prometheus.Counter
	KnightsHeroified prometheus.Counter
	Conflicts        prometheus.Counter
	ListDuration     prometheus.Histogram
	CreateDuration   prometheus.Histogram
}

// New registers the knight metrics with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the knight metrics with reg. Tests pass a fresh
// prometheus.NewRegistry() so repeated construction does not panic.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		KnightsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "knights_created_total",
			Help: "Total number of knights created",
		}),
		NicknamesChanged: factory.NewCounter(prometheus.CounterOpts{
			Name: "knights_nickname_updates_total",
			Help: "Total number of successful nickname changes",
		}),
		KnightsHeroified: factory.NewCounter(prometheus.CounterOpts{
			Name: "knights_heroified_total",
			Help: "Total number of knights promoted to heroes",
		}),
		Conflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "knights_nickname_conflicts_total",
			Help: "Create or rename attempts rejected because the nickname was taken",
		}),
		ListDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "knights_list_duration_seconds",
			Help:    "Duration of knight listing queries",
			Buckets: latencyBuckets,
		}),
		CreateDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "knights_create_duration_seconds",
			Help:    "Duration of knight creation",
			Buckets: latencyBuckets,
		}),
	}
}

func (m *Metrics) IncrementCreated() {
	m.KnightsCreated.Inc()
}

func (m *Metrics) IncrementNicknameChanged() {
	m.NicknamesChanged.Inc()
}

func (m *Metrics) IncrementHeroified() {
	m.KnightsHeroified.Inc()
}

func (m *Metrics) IncrementConflict() {
	m.Conflicts.Inc()
}

// ObserveList records the duration of a listing query.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveList(start time.Time) {
	m.ListDuration.Observe(time.Since(start).Seconds())
}

// ObserveCreate records the duration of a create operation.
func (m *Metrics) ObserveCreate(start time.Time) {
	m.CreateDuration.Observe(time.Since(start).Seconds())
}
