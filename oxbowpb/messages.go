package oxbowpb

import jsoniter "github.com/json-iterator/go"

// ExecutorResource is a single entry of an extensible resource list.
// Exactly one of its fields is set on a well-formed entry; entries written
// by newer peers may carry keys this reader does not know, and decode to an
// entry with no recognized field.
type ExecutorResource struct {
	TaskSlots *uint32 `json:"taskSlots,omitempty"`
}

// ExecutorSpecification describes the fixed capacity of an executor as a
// list of resource entries rather than a flat struct, so new resource kinds
// can be added without a wire-format version bump.
type ExecutorSpecification struct {
	Resources []ExecutorResource `json:"resources"`
}

type ExecutorMetadata struct {
	ID            string                 `json:"id"`
	Host          string                 `json:"host"`
	Port          uint32                 `json:"port"`
	GRPCPort      uint32                 `json:"grpcPort"`
	Specification *ExecutorSpecification `json:"specification,omitempty"`
}

// ExecutorResourcePair carries the total and currently available amount of
// one resource kind. Both sides use the same extensible entry encoding.
type ExecutorResourcePair struct {
	Total     *ExecutorResource `json:"total,omitempty"`
	Available *ExecutorResource `json:"available,omitempty"`
}

type ExecutorData struct {
	ExecutorID string                 `json:"executorId"`
	Resources  []ExecutorResourcePair `json:"resources"`
}

// ExecutorMetric is a single entry of an extensible runtime-metric list,
// with the same unknown-key tolerance as ExecutorResource.
type ExecutorMetric struct {
	AvailableMemory *uint64 `json:"availableMemory,omitempty"`
}

type ExecutorState struct {
	Metrics []ExecutorMetric `json:"metrics"`
}

type PartitionID struct {
	JobID       string `json:"jobId"`
	StageID     uint64 `json:"stageId"`
	PartitionID uint64 `json:"partitionId"`
}

type PartitionStats struct {
	NumRows    *uint64 `json:"numRows,omitempty"`
	NumBatches *uint64 `json:"numBatches,omitempty"`
	NumBytes   *uint64 `json:"numBytes,omitempty"`
}

type PartitionLocation struct {
	PartitionID    *PartitionID      `json:"partitionId,omitempty"`
	ExecutorMeta   *ExecutorMetadata `json:"executorMeta,omitempty"`
	PartitionStats *PartitionStats   `json:"partitionStats,omitempty"`
	Path           string            `json:"path"`
}

type Partitioning struct {
	Scheme     string `json:"scheme"`
	Partitions uint32 `json:"partitions"`
}

// ShuffleLocation is one entry of the shuffle-location snapshot carried in
// an ExecutePartition frame. The snapshot is a list of pairs rather than a
// map because the partition identity is a composite key.
type ShuffleLocation struct {
	PartitionID  *PartitionID      `json:"partitionId,omitempty"`
	ExecutorMeta *ExecutorMetadata `json:"executorMeta,omitempty"`
}

type ExecutePartition struct {
	JobID              string              `json:"jobId"`
	StageID            uint64              `json:"stageId"`
	PartitionIDs       []uint64            `json:"partitionIds"`
	Plan               jsoniter.RawMessage `json:"plan,omitempty"`
	ShuffleLocations   []ShuffleLocation   `json:"shuffleLocations,omitempty"`
	OutputPartitioning *Partitioning       `json:"outputPartitioning,omitempty"`
}

type ExecutePartitionResult struct {
	Path  string          `json:"path"`
	Stats *PartitionStats `json:"stats,omitempty"`
}

type FetchPartition struct {
	JobID       string `json:"jobId"`
	StageID     uint64 `json:"stageId"`
	PartitionID uint64 `json:"partitionId"`
	Path        string `json:"path"`
}

// Action is an open variant set; exactly one field is set per frame.
// Readers must reject a frame carrying no variant they recognize.
type Action struct {
	FetchPartition *FetchPartition `json:"fetchPartition,omitempty"`
}
