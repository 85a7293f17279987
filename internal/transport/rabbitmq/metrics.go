package rabbitmq

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tasksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orioks_requester_tasks_total",
		Help: "RPC tasks processed, by event type and outcome.",
	}, []string{"event_type", "outcome"})

	taskDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "orioks_requester_task_duration_seconds",
		Help:    "End-to-end task handling time, by event type.",
		Buckets: prometheus.DefBuckets,
	}, []string{"event_type"})
)
