package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "metabridge_events_received_total",
		Help: "Total number of storefront events received, labelled by event name.",
	}, []string{"event_name"})

	EventsQueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metabridge_events_queued_total",
		Help: "Total number of events placed on the delivery queue.",
	})

	EventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metabridge_events_dropped_total",
		Help: "Total number of events rejected due to a full delivery queue.",
	})

	EventsDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "metabridge_events_delivered_total",
		Help: "Total number of events handed to a transport, labelled by transport and status.",
	}, []string{"transport", "status"})

	UserDataAttached = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metabridge_user_data_attached_total",
		Help: "Total number of events that received a matched user-data block.",
	})

	UserDataSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metabridge_user_data_skipped_total",
		Help: "Total number of events forwarded without user data because matching is off.",
	})

	MatchedFields = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "metabridge_matched_fields_per_event",
		Help:    "Number of identity fields that qualified per event.",
		Buckets: []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
	})

	SettingsReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "metabridge_settings_reloads_total",
		Help: "Total number of matching-settings reloads, labelled by outcome.",
	}, []string{"status"})

	TokenUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metabridge_access_token_updates_total",
		Help: "Total number of access-token saves through the admin endpoint.",
	})

	QueueUtilization = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "metabridge_queue_utilization_ratio",
		Help: "Current delivery queue utilization (0–1).",
	})
)
