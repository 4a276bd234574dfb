package task

import (
	"fmt"

	"github.com/oxbowdb/oxbow/executor"
	"github.com/oxbowdb/oxbow/oxbowpb"
	"github.com/oxbowdb/oxbow/partition"
	"github.com/oxbowdb/oxbow/plan"
	"github.com/pkg/errors"
)

// ExecutePartition carries everything an executor needs to run one physical
// query stage over one or more of its output partitions. ShuffleLocations
// is a complete snapshot of the stage's shuffle inputs taken at dispatch
// time; the executor receives no updates if a location changes afterwards,
// and a failed fetch against a stale location is detected outside this
// core. The plan handle is shared across dispatches and must be treated as
// read-only.
type ExecutePartition struct {
	JobID        string
	StageID      uint64
	PartitionIDs []uint64

	Plan               *plan.Handle
	ShuffleLocations   map[partition.ID]executor.Metadata
	OutputPartitioning *plan.Partitioning
}

func NewExecutePartition(
	jobID string,
	stageID uint64,
	partitionIDs []uint64,
	p *plan.Handle,
	shuffleLocations map[partition.ID]executor.Metadata,
	outputPartitioning *plan.Partitioning,
) *ExecutePartition {
	return &ExecutePartition{
		JobID:              jobID,
		StageID:            stageID,
		PartitionIDs:       partitionIDs,
		Plan:               p,
		ShuffleLocations:   shuffleLocations,
		OutputPartitioning: outputPartitioning,
	}
}

// Key returns a stable label for logging and deduplication heuristics.
// It is unique only as far as job IDs are unique and callers canonicalize
// the partition index order; do not promote it to a primary key.
func (t *ExecutePartition) Key() string {
	return fmt.Sprintf("%s.%d.%v", t.JobID, t.StageID, t.PartitionIDs)
}

func (t *ExecutePartition) Proto() (*oxbowpb.ExecutePartition, error) {
	out := &oxbowpb.ExecutePartition{
		JobID:        t.JobID,
		StageID:      t.StageID,
		PartitionIDs: t.PartitionIDs,
	}
	if t.Plan != nil {
		payload, err := t.Plan.Payload()
		if err != nil {
			return nil, errors.Wrapf(err, "serialize plan of %s", t.Key())
		}
		out.Plan = payload
	}
	for id, meta := range t.ShuffleLocations {
		out.ShuffleLocations = append(out.ShuffleLocations, oxbowpb.ShuffleLocation{
			PartitionID:  id.Proto(),
			ExecutorMeta: meta.Proto(),
		})
	}
	if t.OutputPartitioning != nil {
		out.OutputPartitioning = t.OutputPartitioning.Proto()
	}
	return out, nil
}

// ExecutePartitionFromProto decodes a dispatch frame. Shuffle location
// entries must carry both the partition identity and executor metadata.
func ExecutePartitionFromProto(in *oxbowpb.ExecutePartition) (*ExecutePartition, error) {
	out := &ExecutePartition{
		JobID:        in.JobID,
		StageID:      in.StageID,
		PartitionIDs: in.PartitionIDs,
	}
	if len(in.Plan) > 0 {
		h, err := plan.HandleFromPayload(in.Plan)
		if err != nil {
			return nil, errors.Wrapf(err, "deserialize plan of %s", out.Key())
		}
		out.Plan = h
	}
	if len(in.ShuffleLocations) > 0 {
		out.ShuffleLocations = make(map[partition.ID]executor.Metadata, len(in.ShuffleLocations))
		for _, loc := range in.ShuffleLocations {
			if loc.PartitionID == nil || loc.ExecutorMeta == nil {
				return nil, errors.Errorf("incomplete shuffle location in %s", out.Key())
			}
			meta, err := executor.MetadataFromProto(loc.ExecutorMeta)
			if err != nil {
				return nil, errors.Wrapf(err, "shuffle location of %s", out.Key())
			}
			out.ShuffleLocations[partition.IDFromProto(loc.PartitionID)] = meta
		}
	}
	if in.OutputPartitioning != nil {
		p := plan.PartitioningFromProto(in.OutputPartitioning)
		out.OutputPartitioning = &p
	}
	return out, nil
}
