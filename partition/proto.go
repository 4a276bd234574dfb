package partition

import "github.com/oxbowdb/oxbow/oxbowpb"

func (id ID) Proto() *oxbowpb.PartitionID {
	return &oxbowpb.PartitionID{
		JobID:       id.JobID,
		StageID:     id.StageID,
		PartitionID: id.PartitionID,
	}
}

func IDFromProto(in *oxbowpb.PartitionID) ID {
	return ID{
		JobID:       in.JobID,
		StageID:     in.StageID,
		PartitionID: in.PartitionID,
	}
}

func (s Stats) Proto() *oxbowpb.PartitionStats {
	return &oxbowpb.PartitionStats{
		NumRows:    cloneOpt(s.NumRows),
		NumBatches: cloneOpt(s.NumBatches),
		NumBytes:   cloneOpt(s.NumBytes),
	}
}

func StatsFromProto(in *oxbowpb.PartitionStats) Stats {
	return Stats{
		NumRows:    cloneOpt(in.NumRows),
		NumBatches: cloneOpt(in.NumBatches),
		NumBytes:   cloneOpt(in.NumBytes),
	}
}

// cloneOpt keeps decoded statistics detached from the wire frame, which may
// be pooled and reused.
func cloneOpt(v *uint64) *uint64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
