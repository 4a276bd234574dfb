package partition

import (
	"testing"

	"github.com/apache/arrow/go/v13/arrow"
	"github.com/apache/arrow/go/v13/arrow/array"
	"github.com/apache/arrow/go/v13/arrow/memory"
	"github.com/stretchr/testify/require"
)

func TestStats_ColumnarSchema(t *testing.T) {
	field := StatsStructField()
	require.Equal(t, "partition_stats", field.Name)
	require.False(t, field.Nullable)

	st := field.Type.(*arrow.StructType)
	require.Equal(t, 3, len(st.Fields()))
	for i, name := range []string{"num_rows", "num_batches", "num_bytes"} {
		require.Equal(t, name, st.Field(i).Name)
		require.Equal(t, arrow.PrimitiveTypes.Uint64, st.Field(i).Type)
		require.False(t, st.Field(i).Nullable)
	}
}

func TestStats_ColumnarRoundTrip(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	s := StatsOf(10, 2, 1024)
	sa := s.ToColumnar(mem)
	defer sa.Release()

	require.Equal(t, 1, sa.Len())
	require.True(t, s.Equal(StatsFromColumnar(sa)))
}

func TestStats_ColumnarAbsentFields(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	sa := Stats{}.ToColumnar(mem)
	defer sa.Release()

	// every child column reports an explicit null at row 0
	for i := 0; i < 3; i++ {
		col := sa.Field(i).(*array.Uint64)
		require.True(t, col.IsNull(0), "column %d", i)
	}

	// absent counters survive the round trip as absent
	decoded := StatsFromColumnar(sa)
	require.Nil(t, decoded.NumRows)
	require.Nil(t, decoded.NumBatches)
	require.Nil(t, decoded.NumBytes)
}

func TestStatsFromColumnar_WrongSchemaPanics(t *testing.T) {
	mem := memory.NewGoAllocator()

	b := array.NewStructBuilder(mem, arrow.StructOf(
		arrow.Field{Name: "something_else", Type: arrow.PrimitiveTypes.Uint64},
	))
	defer b.Release()
	b.Append(true)
	b.FieldBuilder(0).(*array.Uint64Builder).Append(1)

	sa := b.NewStructArray()
	defer sa.Release()

	require.Panics(t, func() { StatsFromColumnar(sa) })
}
