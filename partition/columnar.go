package partition

import (
	"fmt"

	"github.com/apache/arrow/go/v13/arrow"
	"github.com/apache/arrow/go/v13/arrow/array"
	"github.com/apache/arrow/go/v13/arrow/memory"
)

// The columnar embedding of Stats: one non-nullable struct field named
// partition_stats with three uint64 children in this exact order. Consumers
// embedding statistics into a larger batch must use this schema as-is.
const StructFieldName = "partition_stats"

func statsFields() []arrow.Field {
	return []arrow.Field{
		{Name: "num_rows", Type: arrow.PrimitiveTypes.Uint64},
		{Name: "num_batches", Type: arrow.PrimitiveTypes.Uint64},
		{Name: "num_bytes", Type: arrow.PrimitiveTypes.Uint64},
	}
}

// StatsStructType returns the arrow type of the columnar embedding.
func StatsStructType() *arrow.StructType {
	return arrow.StructOf(statsFields()...)
}

// StatsStructField returns the embedding as a field of a larger schema.
func StatsStructField() arrow.Field {
	return arrow.Field{Name: StructFieldName, Type: StatsStructType()}
}

// ToColumnar encodes the statistics as a single-row struct array, writing
// an explicit null for each absent counter. The caller owns the returned
// array and must Release it.
func (s Stats) ToColumnar(mem memory.Allocator) *array.Struct {
	b := array.NewStructBuilder(mem, StatsStructType())
	defer b.Release()

	b.Append(true)
	appendOpt(b.FieldBuilder(0).(*array.Uint64Builder), s.NumRows)
	appendOpt(b.FieldBuilder(1).(*array.Uint64Builder), s.NumBatches)
	appendOpt(b.FieldBuilder(2).(*array.Uint64Builder), s.NumBytes)
	return b.NewStructArray()
}

func appendOpt(b *array.Uint64Builder, v *uint64) {
	if v == nil {
		b.AppendNull()
		return
	}
	b.Append(*v)
}

// StatsFromColumnar reads statistics back from a struct array produced by
// ToColumnar, honoring the validity bitmap so that counters absent at
// encode time stay absent. This path only ever consumes ToColumnar output;
// a missing or mistyped column is a programming error and panics.
func StatsFromColumnar(sa *array.Struct) Stats {
	return Stats{
		NumRows:    columnValue(sa, "num_rows"),
		NumBatches: columnValue(sa, "num_batches"),
		NumBytes:   columnValue(sa, "num_bytes"),
	}
}

func columnValue(sa *array.Struct, name string) *uint64 {
	st := sa.DataType().(*arrow.StructType)
	idx, ok := st.FieldIdx(name)
	if !ok {
		panic(fmt.Sprintf("partition: stats struct array has no column %q", name))
	}
	col, ok := sa.Field(idx).(*array.Uint64)
	if !ok {
		panic(fmt.Sprintf("partition: stats column %q is %s, want uint64", name, sa.Field(idx).DataType()))
	}
	if col.IsNull(0) {
		return nil
	}
	v := col.Value(0)
	return &v
}
