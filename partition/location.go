package partition

import (
	"github.com/oxbowdb/oxbow/executor"
	"github.com/oxbowdb/oxbow/oxbowpb"
	"github.com/pkg/errors"
)

// Location records where the shuffle output of one partition currently
// resides. It is written once when the partition is materialized and read
// by downstream stages; a recomputation (e.g. retry) supersedes it with a
// new Location instead of mutating it.
type Location struct {
	ID       ID                `json:"id"`
	Executor executor.Metadata `json:"executor"`
	Stats    Stats             `json:"stats"`
	Path     string            `json:"path"`
}

func (l Location) Proto() *oxbowpb.PartitionLocation {
	return &oxbowpb.PartitionLocation{
		PartitionID:    l.ID.Proto(),
		ExecutorMeta:   l.Executor.Proto(),
		PartitionStats: l.Stats.Proto(),
		Path:           l.Path,
	}
}

// LocationFromProto decodes a partition location. The partition identity
// and the executor holding the output are required nested fields.
func LocationFromProto(in *oxbowpb.PartitionLocation) (Location, error) {
	if in.PartitionID == nil {
		return Location{}, errors.New("partition location has no partition id")
	}
	if in.ExecutorMeta == nil {
		return Location{}, errors.New("partition location has no executor metadata")
	}
	meta, err := executor.MetadataFromProto(in.ExecutorMeta)
	if err != nil {
		return Location{}, err
	}
	loc := Location{
		ID:       IDFromProto(in.PartitionID),
		Executor: meta,
		Path:     in.Path,
	}
	if in.PartitionStats != nil {
		loc.Stats = StatsFromProto(in.PartitionStats)
	}
	return loc, nil
}
