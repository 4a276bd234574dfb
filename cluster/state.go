package cluster

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/airbloc/logger"
	"github.com/creasty/defaults"
	"github.com/oxbowdb/oxbow/coordinator"
	"github.com/oxbowdb/oxbow/executor"
	oxbowmetric "github.com/oxbowdb/oxbow/metric"
	"github.com/oxbowdb/oxbow/oxbowpb"
	"github.com/oxbowdb/oxbow/partition"
	"github.com/pkg/errors"
)

const (
	executorNs = "executors"
	stateNs    = "states"
	locationNs = "locations"
)

// State is the cluster-shared view of the scheduler: which executors exist,
// their last reported health, and where each materialized shuffle partition
// lives. Values are stored in their wire form, so everything read back goes
// through the same decode discipline as frames from the network.
type State struct {
	crd coordinator.Coordinator
	opt StateOptions
	log logger.Logger
}

type StateOptions struct {
	// LivenessTTL bounds how long an executor registration outlives its
	// last heartbeat.
	LivenessTTL time.Duration `default:"15s"`
}

func DefaultStateOptions() (o StateOptions) {
	if err := defaults.Set(&o); err != nil {
		panic(err)
	}
	return
}

func NewState(crd coordinator.Coordinator, opts ...StateOptions) *State {
	opt := DefaultStateOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	return &State{
		crd: crd,
		opt: opt,
		log: logger.New("cluster"),
	}
}

// RegisterExecutor stores an executor's metadata under a liveness-bound
// key. The registration disappears unless renewed within LivenessTTL.
func (s *State) RegisterExecutor(ctx context.Context, meta executor.Metadata) error {
	key := path.Join(executorNs, meta.ID)
	if err := s.crd.Put(ctx, key, meta.Proto(), coordinator.WithTTL(s.opt.LivenessTTL)); err != nil {
		return errors.Wrapf(err, "register executor %s", meta.ID)
	}
	s.log.Info("executor {id} registered on {host} with {slots} task slots", logger.Attrs{
		"id":    meta.ID,
		"host":  meta.Addr(),
		"slots": meta.Specification.TaskSlots,
	})
	return nil
}

// Executor returns the metadata of a registered executor.
func (s *State) Executor(ctx context.Context, executorID string) (executor.Metadata, error) {
	msg := new(oxbowpb.ExecutorMetadata)
	if err := s.crd.Get(ctx, path.Join(executorNs, executorID), msg); err != nil {
		return executor.Metadata{}, errors.Wrapf(err, "get executor %s", executorID)
	}
	return executor.MetadataFromProto(msg)
}

// Executors lists all live executors.
func (s *State) Executors(ctx context.Context) ([]executor.Metadata, error) {
	items, err := s.crd.Scan(ctx, executorNs)
	if err != nil {
		return nil, errors.Wrap(err, "scan executors")
	}
	metas := make([]executor.Metadata, 0, len(items))
	for _, item := range items {
		msg := new(oxbowpb.ExecutorMetadata)
		if err := item.Unmarshal(msg); err != nil {
			return nil, errors.Wrapf(err, "unmarshal %s", item.Key)
		}
		meta, err := executor.MetadataFromProto(msg)
		if err != nil {
			return nil, errors.Wrapf(err, "decode %s", item.Key)
		}
		metas = append(metas, meta)
	}
	return metas, nil
}

// SaveExecutorState records a heartbeat snapshot of an executor's health.
func (s *State) SaveExecutorState(ctx context.Context, executorID string, st executor.State) error {
	key := path.Join(stateNs, executorID)
	if err := s.crd.Put(ctx, key, st.Proto(), coordinator.WithTTL(s.opt.LivenessTTL)); err != nil {
		return errors.Wrapf(err, "save state of executor %s", executorID)
	}
	oxbowmetric.AvailableMemoryGauge.
		With(oxbowmetric.ExecutorLabelValues(executorID)).
		Set(float64(st.AvailableMemorySize))
	return nil
}

// ExecutorState returns the last heartbeat snapshot of an executor.
func (s *State) ExecutorState(ctx context.Context, executorID string) (executor.State, error) {
	msg := new(oxbowpb.ExecutorState)
	if err := s.crd.Get(ctx, path.Join(stateNs, executorID), msg); err != nil {
		return executor.State{}, errors.Wrapf(err, "get state of executor %s", executorID)
	}
	return executor.StateFromProto(msg), nil
}

// SavePartitionLocation records where a materialized shuffle partition
// lives. Writing a location for the same partition again (a recomputation)
// supersedes the previous one.
func (s *State) SavePartitionLocation(ctx context.Context, loc partition.Location) error {
	if err := s.crd.Put(ctx, locationKey(loc.ID), loc.Proto()); err != nil {
		return errors.Wrapf(err, "save location of %s", loc.ID)
	}
	return nil
}

// PartitionLocation returns the location of a single shuffle partition.
func (s *State) PartitionLocation(ctx context.Context, id partition.ID) (partition.Location, error) {
	msg := new(oxbowpb.PartitionLocation)
	if err := s.crd.Get(ctx, locationKey(id), msg); err != nil {
		return partition.Location{}, errors.Wrapf(err, "get location of %s", id)
	}
	return partition.LocationFromProto(msg)
}

// PartitionLocations lists the locations of all materialized partitions of
// a stage.
func (s *State) PartitionLocations(ctx context.Context, jobID string, stageID uint64) ([]partition.Location, error) {
	prefix := path.Join(locationNs, jobID, fmt.Sprintf("%020d", stageID)) + "/"
	items, err := s.crd.Scan(ctx, prefix)
	if err != nil {
		return nil, errors.Wrapf(err, "scan locations of %s/%d", jobID, stageID)
	}
	locs := make([]partition.Location, 0, len(items))
	for _, item := range items {
		msg := new(oxbowpb.PartitionLocation)
		if err := item.Unmarshal(msg); err != nil {
			return nil, errors.Wrapf(err, "unmarshal %s", item.Key)
		}
		loc, err := partition.LocationFromProto(msg)
		if err != nil {
			return nil, errors.Wrapf(err, "decode %s", item.Key)
		}
		locs = append(locs, loc)
	}
	return locs, nil
}

// WatchExecutors streams registrations and expirations of executors. The
// returned channel closes when ctx is cancelled or the coordinator closes.
func (s *State) WatchExecutors(ctx context.Context) chan ExecutorEvent {
	events := make(chan ExecutorEvent)
	watch := s.crd.Watch(ctx, executorNs)
	go func() {
		defer close(events)
		for event := range watch {
			switch event.Type {
			case coordinator.PutEvent:
				msg := new(oxbowpb.ExecutorMetadata)
				if err := event.Item.Unmarshal(msg); err != nil {
					s.log.Error("failed to unmarshal executor registration", err)
					continue
				}
				meta, err := executor.MetadataFromProto(msg)
				if err != nil {
					s.log.Error("malformed executor registration", err)
					continue
				}
				events <- ExecutorEvent{Type: ExecutorRegistered, Executor: meta}

			case coordinator.DeleteEvent:
				events <- ExecutorEvent{
					Type:       ExecutorExpired,
					ExecutorID: path.Base(event.Item.Key),
				}
			}
		}
	}()
	return events
}

// locationKey zero-pads numeric components so lexicographic key order
// matches partition.ID ordering.
func locationKey(id partition.ID) string {
	return path.Join(locationNs, id.JobID,
		fmt.Sprintf("%020d", id.StageID), fmt.Sprintf("%020d", id.PartitionID))
}

type ExecutorEventType int

const (
	ExecutorRegistered ExecutorEventType = iota
	ExecutorExpired
)

type ExecutorEvent struct {
	Type ExecutorEventType

	// Executor is set on ExecutorRegistered events.
	Executor executor.Metadata

	// ExecutorID is set on ExecutorExpired events.
	ExecutorID string
}
