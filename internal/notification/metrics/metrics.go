package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics covers the notification carousel. Construct once at wiring time;
// promauto registers on the default registry.
type Metrics struct {
	CarouselQueueLength  prometheus.Histogram
	MessagesAcknowledged prometheus.Counter
	DismissAllTotal      prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		CarouselQueueLength: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "praxis_carousel_queue_length",
			Help:    "Queue length at the start of each carousel presentation",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
		}),
		MessagesAcknowledged: promauto.NewCounter(prometheus.CounterOpts{
			Name: "praxis_messages_acknowledged_total",
			Help: "Total number of urgent messages acknowledged one at a time",
		}),
		DismissAllTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "praxis_messages_dismiss_all_total",
			Help: "Total number of dismiss-all batch acknowledgments",
		}),
	}
}

func (m *Metrics) ObserveQueueLength(n int) {
	m.CarouselQueueLength.Observe(float64(n))
}

func (m *Metrics) IncrementAcknowledged() {
	m.MessagesAcknowledged.Inc()
}

func (m *Metrics) IncrementDismissedAll() {
	m.DismissAllTotal.Inc()
}
