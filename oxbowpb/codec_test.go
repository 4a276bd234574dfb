package oxbowpb

import (
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

func TestCodec_Registered(t *testing.T) {
	c := encoding.GetCodec(Name)
	require.NotNil(t, c)
	require.Equal(t, Name, c.Name())
}

func TestCodec_RoundTrip(t *testing.T) {
	slots := uint32(4)
	in := &ExecutorMetadata{
		ID:       "exec-1",
		Host:     "10.0.0.7",
		Port:     50550,
		GRPCPort: 50551,
		Specification: &ExecutorSpecification{
			Resources: []ExecutorResource{{TaskSlots: &slots}},
		},
	}

	data, err := codec{}.Marshal(in)
	require.NoError(t, err)

	out := new(ExecutorMetadata)
	require.NoError(t, codec{}.Unmarshal(data, out))
	require.Equal(t, in, out)
}

func TestCodec_UnknownFieldsIgnored(t *testing.T) {
	// frame written by a newer peer with fields this reader does not know
	data := []byte(`{
		"id": "exec-1",
		"host": "10.0.0.7",
		"port": 50550,
		"grpcPort": 50551,
		"rack": "r12",
		"specification": {"resources": [{"taskSlots": 4}, {"gpuSlots": 1}]}
	}`)

	out := new(ExecutorMetadata)
	require.NoError(t, codec{}.Unmarshal(data, out))
	require.Equal(t, "exec-1", out.ID)
	require.NotNil(t, out.Specification)
	require.Len(t, out.Specification.Resources, 2)
	require.NotNil(t, out.Specification.Resources[0].TaskSlots)
	require.Equal(t, uint32(4), *out.Specification.Resources[0].TaskSlots)

	// the unrecognized entry decodes with no recognized tag set
	require.Nil(t, out.Specification.Resources[1].TaskSlots)
}
