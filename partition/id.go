package partition

import (
	"fmt"

	"github.com/segmentio/fasthash/fnv1a"
)

// ID uniquely identifies the output partition of a query stage across the
// cluster. It is created by the scheduler when a stage is planned and never
// mutated; the scheduler is responsible for keeping job IDs unique per
// submitted query.
type ID struct {
	JobID       string `json:"jobId"`
	StageID     uint64 `json:"stageId"`
	PartitionID uint64 `json:"partitionId"`
}

func NewID(jobID string, stageID, partitionID uint64) ID {
	return ID{
		JobID:       jobID,
		StageID:     stageID,
		PartitionID: partitionID,
	}
}

// Compare orders IDs lexicographically on (job, stage, partition).
func (id ID) Compare(o ID) int {
	switch {
	case id.JobID < o.JobID:
		return -1
	case id.JobID > o.JobID:
		return 1
	}
	switch {
	case id.StageID < o.StageID:
		return -1
	case id.StageID > o.StageID:
		return 1
	}
	switch {
	case id.PartitionID < o.PartitionID:
		return -1
	case id.PartitionID > o.PartitionID:
		return 1
	}
	return 0
}

// Hash returns a stable fnv1a hash of the identity, usable for sharding
// partition tables. Not collision-proof; never a substitute for equality.
func (id ID) Hash() uint64 {
	h := fnv1a.HashString64(id.JobID)
	h = fnv1a.AddUint64(h, id.StageID)
	return fnv1a.AddUint64(h, id.PartitionID)
}

func (id ID) String() string {
	return fmt.Sprintf("%s/%d/%d", id.JobID, id.StageID, id.PartitionID)
}
