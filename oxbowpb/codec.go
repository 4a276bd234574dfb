package oxbowpb

import (
	fmt "fmt"

	jsoniter "github.com/json-iterator/go"
	"google.golang.org/grpc/encoding"
	proto "google.golang.org/protobuf/proto"
)

// Name is the name registered for the scheduler codec.
const Name = "oxbow"

func init() {
	encoding.RegisterCodec(codec{})
}

// codec marshals scheduler wire messages with jsoniter, falling back to
// protobuf for foreign message types sharing the connection.
type codec struct{}

func (codec) Marshal(v any) ([]byte, error) {
	if vv, ok := v.(proto.Message); ok {
		return proto.Marshal(vv)
	}
	return jsoniter.Marshal(v)
}

func (codec) Unmarshal(data []byte, v any) error {
	if vv, ok := v.(proto.Message); ok {
		return proto.Unmarshal(data, vv)
	}
	if err := jsoniter.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %T: %w", v, err)
	}
	return nil
}

func (codec) String() string {
	return Name
}

func (codec) Name() string {
	return Name
}
