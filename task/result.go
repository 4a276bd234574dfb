package task

import (
	"github.com/oxbowdb/oxbow/oxbowpb"
	"github.com/oxbowdb/oxbow/partition"
)

// Result is what an executor reports back after running an
// ExecutePartition: the path its output was written to and the statistics
// of the materialized partition. The scheduler turns it into a new
// partition.Location.
type Result struct {
	path  string
	stats partition.Stats
}

func NewResult(path string, stats partition.Stats) Result {
	return Result{
		path:  path,
		stats: stats,
	}
}

// Path returns the path containing the partition's output.
func (r Result) Path() string {
	return r.path
}

// Statistics returns the summary of the materialized partition.
func (r Result) Statistics() partition.Stats {
	return r.stats
}

func (r Result) Proto() *oxbowpb.ExecutePartitionResult {
	return &oxbowpb.ExecutePartitionResult{
		Path:  r.path,
		Stats: r.stats.Proto(),
	}
}

func ResultFromProto(in *oxbowpb.ExecutePartitionResult) Result {
	out := Result{path: in.Path}
	if in.Stats != nil {
		out.stats = partition.StatsFromProto(in.Stats)
	}
	return out
}
