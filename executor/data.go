package executor

import (
	"math"

	"github.com/oxbowdb/oxbow/oxbowpb"
)

// Data is the scheduler's mutable view of one executor's task slots.
// TotalTaskSlots is fixed at registration; AvailableTaskSlots fluctuates as
// tasks are assigned and complete, and must stay within [0, total]. Updates
// must be serialized per executor by the owner of the table holding it.
type Data struct {
	ExecutorID         string `json:"executorId"`
	TotalTaskSlots     uint32 `json:"totalTaskSlots"`
	AvailableTaskSlots uint32 `json:"availableTaskSlots"`
}

// DataChange is a transient slot delta: positive when tasks complete or
// fail and free their slots, negative when tasks are assigned.
type DataChange struct {
	ExecutorID string `json:"executorId"`
	TaskSlots  int32  `json:"taskSlots"`
}

func (d Data) Proto() *oxbowpb.ExecutorData {
	total := d.TotalTaskSlots
	available := d.AvailableTaskSlots
	return &oxbowpb.ExecutorData{
		ExecutorID: d.ExecutorID,
		Resources: []oxbowpb.ExecutorResourcePair{
			{
				Total:     &oxbowpb.ExecutorResource{TaskSlots: &total},
				Available: &oxbowpb.ExecutorResource{TaskSlots: &available},
			},
		},
	}
}

// DataFromProto decodes executor slot counters from their paired resource
// encoding, with the same last-recognized-entry-wins discipline applied to
// each side of the pair independently.
func DataFromProto(in *oxbowpb.ExecutorData) Data {
	out := Data{ExecutorID: in.ExecutorID}
	for _, pair := range in.Resources {
		if pair.Total != nil && pair.Total.TaskSlots != nil {
			out.TotalTaskSlots = *pair.Total.TaskSlots
		}
		if pair.Available != nil && pair.Available.TaskSlots != nil {
			out.AvailableTaskSlots = *pair.Available.TaskSlots
		}
	}
	return out
}

// State is a heartbeat snapshot of an executor's runtime health.
type State struct {
	AvailableMemorySize uint64 `json:"availableMemorySize"`
}

func (s State) Proto() *oxbowpb.ExecutorState {
	mem := s.AvailableMemorySize
	return &oxbowpb.ExecutorState{
		Metrics: []oxbowpb.ExecutorMetric{
			{AvailableMemory: &mem},
		},
	}
}

// StateFromProto decodes an executor health snapshot. A frame with no
// recognized memory metric decodes as unconstrained rather than as zero
// capacity: a missing metric must never starve an executor of work.
func StateFromProto(in *oxbowpb.ExecutorState) State {
	out := State{AvailableMemorySize: math.MaxUint64}
	for _, m := range in.Metrics {
		if m.AvailableMemory != nil {
			out.AvailableMemorySize = *m.AvailableMemory
		}
	}
	return out
}
