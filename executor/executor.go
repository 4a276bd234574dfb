package executor

import (
	"fmt"

	"github.com/oxbowdb/oxbow/oxbowpb"
	"github.com/pkg/errors"
)

// ErrNoSpecification is returned when an executor metadata frame arrives
// without its specification. The specification is a required nested field;
// defaulting it would silently register an executor with zero capacity.
var ErrNoSpecification = errors.New("executor metadata has no specification")

// Specification is the invariant capacity of an executor, fixed at
// registration. On the wire it is a list of tagged resource entries so new
// resource kinds can be introduced without breaking older peers.
type Specification struct {
	TaskSlots uint32 `json:"taskSlots"`
}

func (s Specification) Proto() *oxbowpb.ExecutorSpecification {
	slots := s.TaskSlots
	return &oxbowpb.ExecutorSpecification{
		Resources: []oxbowpb.ExecutorResource{
			{TaskSlots: &slots},
		},
	}
}

// SpecificationFromProto decodes a specification from its wire form.
// Unrecognized resource entries are skipped and the last recognized task
// slot entry wins; a frame with no recognized entry yields zero slots, so
// no capacity is ever assumed.
func SpecificationFromProto(in *oxbowpb.ExecutorSpecification) Specification {
	var out Specification
	for _, r := range in.Resources {
		if r.TaskSlots != nil {
			out.TaskSlots = *r.TaskSlots
		}
	}
	return out
}

// Metadata identifies a single executor and how to reach it. It is written
// once at registration; a changed address implies a new registration.
type Metadata struct {
	ID            string        `json:"id"`
	Host          string        `json:"host"`
	Port          uint16        `json:"port"`
	GRPCPort      uint16        `json:"grpcPort"`
	Specification Specification `json:"specification"`
}

// Addr returns the executor's shuffle-read address.
func (m Metadata) Addr() string {
	return fmt.Sprintf("%s:%d", m.Host, m.Port)
}

// GRPCAddr returns the executor's control-plane address.
func (m Metadata) GRPCAddr() string {
	return fmt.Sprintf("%s:%d", m.Host, m.GRPCPort)
}

func (m Metadata) Proto() *oxbowpb.ExecutorMetadata {
	return &oxbowpb.ExecutorMetadata{
		ID:            m.ID,
		Host:          m.Host,
		Port:          uint32(m.Port),
		GRPCPort:      uint32(m.GRPCPort),
		Specification: m.Specification.Proto(),
	}
}

// MetadataFromProto decodes executor metadata. A frame without a
// specification violates the protocol and fails the decode.
func MetadataFromProto(in *oxbowpb.ExecutorMetadata) (Metadata, error) {
	if in.Specification == nil {
		return Metadata{}, errors.Wrapf(ErrNoSpecification, "executor %s", in.ID)
	}
	return Metadata{
		ID:            in.ID,
		Host:          in.Host,
		Port:          uint16(in.Port),
		GRPCPort:      uint16(in.GRPCPort),
		Specification: SpecificationFromProto(in.Specification),
	}, nil
}
