package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "waypointx",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "waypointx",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	// planner metrics
	CalculationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "waypointx",
		Subsystem: "planner",
		Name:      "calculations_total",
		Help:      "Total route calculations by outcome",
	}, []string{"status"})

	CalculationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "waypointx",
		Subsystem: "planner",
		Name:      "calculation_duration_seconds",
		Help:      "Route calculation latency in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})

	WaypointOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "waypointx",
		Subsystem: "planner",
		Name:      "waypoint_operations_total",
		Help:      "Total waypoint mutations by action",
	}, []string{"action"})

	ActivePlans = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "waypointx",
		Subsystem: "planner",
		Name:      "active_plans",
		Help:      "Current number of live planning sessions",
	})

	EventsEmittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "waypointx",
		Subsystem: "planner",
		Name:      "events_emitted_total",
		Help:      "Total planner events observed by the event bridge",
	}, []string{"event"})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "waypointx",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})
)
