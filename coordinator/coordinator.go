// Package coordinator provides the key-value store the scheduler keeps its
// cluster state in: executor registrations, heartbeat states and shuffle
// partition locations. The etcd implementation is used in production; the
// local-memory implementation backs tests and single-process setups.
package coordinator

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("key not found")

type Coordinator interface {
	Get(ctx context.Context, key string, valuePtr interface{}) error
	Scan(ctx context.Context, prefix string) (results []RawItem, err error)
	Put(ctx context.Context, key string, value interface{}, opts ...WriteOption) error

	// Delete removes all keys starting with given prefix,
	// returning the number of removed keys.
	Delete(ctx context.Context, prefix string) (deleted int64, err error)

	// Watch subscribes modification events of the keys starting with given prefix.
	Watch(ctx context.Context, prefix string) chan WatchEvent

	Close() error
}

type writeOptions struct {
	TTL time.Duration
}

type WriteOption func(*writeOptions)

// WithTTL makes the written key expire after given duration. Used for
// liveness-bound keys such as executor registrations.
func WithTTL(ttl time.Duration) WriteOption {
	return func(o *writeOptions) {
		o.TTL = ttl
	}
}

func buildWriteOptions(opts []WriteOption) (o writeOptions) {
	for _, apply := range opts {
		apply(&o)
	}
	return
}
