package task

import (
	"github.com/oxbowdb/oxbow/oxbowpb"
	"github.com/pkg/errors"
)

// ErrUnknownAction is returned when an action frame carries no variant this
// reader recognizes. Unlike resource entries, an action cannot be skipped:
// dropping it silently would lose work.
var ErrUnknownAction = errors.New("unknown action")

// Action is a request sent to an executor outside stage dispatch. The
// variant set is open; new kinds may be added without breaking the
// dispatch contract.
type Action interface {
	isAction()
}

// FetchPartition asks an executor to stream the bytes at Path for a
// previously completed shuffle partition. It travels between executors,
// peer to peer, not from the scheduler.
type FetchPartition struct {
	JobID       string
	StageID     uint64
	PartitionID uint64
	Path        string
}

func (FetchPartition) isAction() {}

func ActionProto(a Action) (*oxbowpb.Action, error) {
	switch v := a.(type) {
	case FetchPartition:
		return &oxbowpb.Action{
			FetchPartition: &oxbowpb.FetchPartition{
				JobID:       v.JobID,
				StageID:     v.StageID,
				PartitionID: v.PartitionID,
				Path:        v.Path,
			},
		}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownAction, "%T", a)
	}
}

func ActionFromProto(in *oxbowpb.Action) (Action, error) {
	if in.FetchPartition != nil {
		f := in.FetchPartition
		return FetchPartition{
			JobID:       f.JobID,
			StageID:     f.StageID,
			PartitionID: f.PartitionID,
			Path:        f.Path,
		}, nil
	}
	return nil, ErrUnknownAction
}
