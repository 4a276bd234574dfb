package cluster

import (
	"sort"
	"sync"

	"github.com/airbloc/logger"
	"github.com/oxbowdb/oxbow/executor"
	oxbowmetric "github.com/oxbowdb/oxbow/metric"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

var (
	// ErrExecutorNotFound is raised when no slot counters exist for given executor ID.
	ErrExecutorNotFound = errors.New("executor not found")

	// ErrSlotOverflow is raised when applying a slot delta would leave the
	// available count outside [0, total].
	ErrSlotOverflow = errors.New("task slot count out of range")
)

// Resources is the scheduler's table of executor task slots. All mutations
// go through it under a single lock, so the available/total invariant holds
// under concurrent task assignments and completions.
type Resources struct {
	mu        sync.Mutex
	executors map[string]executor.Data

	log logger.Logger
}

func NewResources() *Resources {
	return &Resources{
		executors: make(map[string]executor.Data),
		log:       logger.New("resources"),
	}
}

// Register adds or replaces the slot counters of an executor.
func (r *Resources) Register(d executor.Data) error {
	if d.AvailableTaskSlots > d.TotalTaskSlots {
		return errors.Wrapf(ErrSlotOverflow, "executor %s: %d available of %d total",
			d.ExecutorID, d.AvailableTaskSlots, d.TotalTaskSlots)
	}
	r.mu.Lock()
	r.executors[d.ExecutorID] = d
	r.mu.Unlock()

	labels := oxbowmetric.ExecutorLabelValues(d.ExecutorID)
	oxbowmetric.TotalTaskSlotsGauge.With(labels).Set(float64(d.TotalTaskSlots))
	oxbowmetric.AvailableTaskSlotsGauge.With(labels).Set(float64(d.AvailableTaskSlots))

	r.log.Info("executor {id} registered with {total} task slots",
		logger.Attrs{"id": d.ExecutorID, "total": d.TotalTaskSlots})
	return nil
}

// Apply applies a slot delta and returns the updated counters. A delta that
// would leave the available count outside [0, total] returns an error and
// leaves the table untouched.
func (r *Resources) Apply(c executor.DataChange) (executor.Data, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.executors[c.ExecutorID]
	if !ok {
		return executor.Data{}, errors.Wrap(ErrExecutorNotFound, c.ExecutorID)
	}
	next := int64(d.AvailableTaskSlots) + int64(c.TaskSlots)
	if next < 0 || next > int64(d.TotalTaskSlots) {
		return executor.Data{}, errors.Wrapf(ErrSlotOverflow,
			"executor %s: %d%+d of %d total", c.ExecutorID, d.AvailableTaskSlots, c.TaskSlots, d.TotalTaskSlots)
	}
	d.AvailableTaskSlots = uint32(next)
	r.executors[c.ExecutorID] = d

	oxbowmetric.AvailableTaskSlotsGauge.
		With(oxbowmetric.ExecutorLabelValues(c.ExecutorID)).
		Set(float64(d.AvailableTaskSlots))
	return d, nil
}

// Get returns the current slot counters of an executor.
func (r *Resources) Get(executorID string) (executor.Data, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.executors[executorID]
	return d, ok
}

// List returns the slot counters of all registered executors, ordered by
// executor ID.
func (r *Resources) List() []executor.Data {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := lo.Keys(r.executors)
	sort.Strings(ids)
	return lo.Map(ids, func(id string, _ int) executor.Data {
		return r.executors[id]
	})
}

// Remove deletes an executor from the table, e.g. after it is declared dead.
func (r *Resources) Remove(executorID string) {
	r.mu.Lock()
	delete(r.executors, executorID)
	r.mu.Unlock()

	labels := oxbowmetric.ExecutorLabelValues(executorID)
	oxbowmetric.TotalTaskSlotsGauge.Delete(labels)
	oxbowmetric.AvailableTaskSlotsGauge.Delete(labels)
}
