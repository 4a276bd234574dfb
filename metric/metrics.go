package oxbowmetric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ExecutorLabels are vector definitions for executor-level metrics.
var ExecutorLabels = []string{"executor_id"}

var TotalTaskSlotsGauge = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "oxbow_executor_total_task_slots",
		Help: "The registered task slot capacity per executor",
	},
	ExecutorLabels,
)

var AvailableTaskSlotsGauge = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "oxbow_executor_available_task_slots",
		Help: "The currently unassigned task slots per executor",
	},
	ExecutorLabels,
)

var AvailableMemoryGauge = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "oxbow_executor_available_memory_bytes",
		Help: "The available memory reported by the last executor heartbeat",
	},
	ExecutorLabels,
)

// ExecutorLabelValues builds the label set for executor-level metrics.
func ExecutorLabelValues(executorID string) prometheus.Labels {
	return prometheus.Labels{"executor_id": executorID}
}
