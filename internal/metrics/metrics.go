package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PayloadsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hookshot_payloads_received_total",
		Help: "Total number of webhook payloads accepted for processing, labelled by vendor.",
	}, []string{"vendor"})

	PayloadsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hookshot_payloads_dropped_total",
		Help: "Total number of payloads rejected due to a full queue.",
	})

	PayloadsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hookshot_payloads_failed_total",
		Help: "Total number of payloads that produced no event, labelled by vendor and failing stage.",
	}, []string{"vendor", "stage"})

	EventsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hookshot_events_emitted_total",
		Help: "Total number of raw events emitted, labelled by vendor and schema.",
	}, []string{"vendor", "schema"})

	SinkErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hookshot_sink_errors_total",
		Help: "Total number of event batches the sink failed to accept, labelled by vendor.",
	}, []string{"vendor"})

	PayloadProcessingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hookshot_payload_processing_duration_ms",
		Help:    "Payload-to-event conversion latency in milliseconds.",
		Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
	})

	QueueUtilization = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hookshot_queue_utilization_ratio",
		Help: "Current payload queue utilization (0–1).",
	})
)
