package coordinator

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
)

type localMemoryCoordinator struct {
	mu   sync.RWMutex
	data map[string]localEntry

	subsMu sync.RWMutex
	subs   []subscription
}

type localEntry struct {
	item     RawItem
	deadline time.Time
}

type subscription struct {
	prefix string
	events chan WatchEvent
	done   <-chan struct{}
}

// NewLocalMemory creates an in-process coordinator. Used in tests and
// single-process deployments.
func NewLocalMemory() Coordinator {
	return &localMemoryCoordinator{
		data: make(map[string]localEntry),
	}
}

func (lmc *localMemoryCoordinator) Get(ctx context.Context, key string, valuePtr interface{}) error {
	lmc.mu.RLock()
	e, ok := lmc.data[key]
	lmc.mu.RUnlock()

	if !ok || e.expired() {
		return ErrNotFound
	}
	return e.item.Unmarshal(valuePtr)
}

func (lmc *localMemoryCoordinator) Scan(ctx context.Context, prefix string) (results []RawItem, err error) {
	lmc.mu.RLock()
	defer lmc.mu.RUnlock()
	for key, e := range lmc.data {
		if strings.HasPrefix(key, prefix) && !e.expired() {
			results = append(results, e.item)
		}
	}
	// key order matches the etcd implementation
	sort.Slice(results, func(i, j int) bool {
		return results[i].Key < results[j].Key
	})
	return
}

func (lmc *localMemoryCoordinator) Put(ctx context.Context, key string, value interface{}, opts ...WriteOption) error {
	raw, err := jsoniter.Marshal(value)
	if err != nil {
		return err
	}
	opt := buildWriteOptions(opts)
	e := localEntry{
		item: RawItem{Key: key, Value: raw},
	}
	if opt.TTL > 0 {
		e.deadline = time.Now().Add(opt.TTL)
	}

	lmc.mu.Lock()
	lmc.data[key] = e
	lmc.mu.Unlock()

	lmc.notify(WatchEvent{Type: PutEvent, Item: e.item})
	return nil
}

func (lmc *localMemoryCoordinator) Delete(ctx context.Context, prefix string) (deleted int64, err error) {
	var removed []string

	lmc.mu.Lock()
	for key := range lmc.data {
		if strings.HasPrefix(key, prefix) {
			delete(lmc.data, key)
			removed = append(removed, key)
		}
	}
	lmc.mu.Unlock()

	for _, key := range removed {
		lmc.notify(WatchEvent{Type: DeleteEvent, Item: RawItem{Key: key}})
	}
	return int64(len(removed)), nil
}

func (lmc *localMemoryCoordinator) Watch(ctx context.Context, prefix string) chan WatchEvent {
	events := make(chan WatchEvent, 16)

	lmc.subsMu.Lock()
	lmc.subs = append(lmc.subs, subscription{
		prefix: prefix,
		events: events,
		done:   ctx.Done(),
	})
	lmc.subsMu.Unlock()
	return events
}

func (lmc *localMemoryCoordinator) notify(event WatchEvent) {
	lmc.subsMu.RLock()
	defer lmc.subsMu.RUnlock()
	for _, sub := range lmc.subs {
		if !strings.HasPrefix(event.Item.Key, sub.prefix) {
			continue
		}
		select {
		case sub.events <- event:
		case <-sub.done:
		}
	}
}

func (lmc *localMemoryCoordinator) Close() error {
	lmc.subsMu.Lock()
	defer lmc.subsMu.Unlock()
	for _, sub := range lmc.subs {
		close(sub.events)
	}
	lmc.subs = nil
	return nil
}

func (e localEntry) expired() bool {
	return !e.deadline.IsZero() && time.Now().After(e.deadline)
}
