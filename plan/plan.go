package plan

import (
	"sync"

	"github.com/oxbowdb/oxbow/internal/serialization"
	"github.com/oxbowdb/oxbow/oxbowpb"
	"github.com/pkg/errors"
)

// Handle is a shared, immutable reference to a physical query plan.
// One handle may be referenced by many concurrent dispatches of the same
// stage (speculative re-execution, multiple target partitions); nothing may
// mutate the wrapped plan after construction.
type Handle struct {
	plan interface{}

	marshalOnce sync.Once
	payload     []byte
	payloadErr  error
}

// NewHandle wraps a physical plan value. The plan must be a struct value of
// a type the receiving executor also compiles in, since dispatch carries it
// by type identity.
func NewHandle(plan interface{}) *Handle {
	return &Handle{plan: plan}
}

// Plan returns the wrapped physical plan. Callers must treat it as
// read-only.
func (h *Handle) Plan() interface{} {
	return h.plan
}

// Payload returns the serialized form of the plan used for dispatch. The
// result is computed once and reused by every dispatch sharing the handle.
func (h *Handle) Payload() ([]byte, error) {
	h.marshalOnce.Do(func() {
		h.payload, h.payloadErr = serialization.SerializeStruct(h.plan)
	})
	return h.payload, h.payloadErr
}

// HandleFromPayload reconstructs a plan handle from a dispatch payload.
func HandleFromPayload(data []byte) (*Handle, error) {
	v, err := serialization.DeserializeStruct(data)
	if err != nil {
		return nil, errors.Wrap(err, "deserialize plan")
	}
	return NewHandle(v), nil
}

// Scheme is the partitioning scheme of a stage's shuffle output.
type Scheme string

const (
	RoundRobin Scheme = "roundRobin"
	Hash       Scheme = "hash"
	Unknown    Scheme = "unknown"
)

// Partitioning describes how a stage partitions its shuffle writes.
type Partitioning struct {
	Scheme     Scheme `json:"scheme"`
	Partitions uint32 `json:"partitions"`
}

func (p Partitioning) Proto() *oxbowpb.Partitioning {
	return &oxbowpb.Partitioning{
		Scheme:     string(p.Scheme),
		Partitions: p.Partitions,
	}
}

// PartitioningFromProto decodes a partitioning. A scheme written by a newer
// peer decodes as Unknown rather than failing.
func PartitioningFromProto(in *oxbowpb.Partitioning) Partitioning {
	scheme := Scheme(in.Scheme)
	switch scheme {
	case RoundRobin, Hash:
	default:
		scheme = Unknown
	}
	return Partitioning{
		Scheme:     scheme,
		Partitions: in.Partitions,
	}
}
