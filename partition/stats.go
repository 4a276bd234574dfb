package partition

import "fmt"

// Stats summarizes a materialized partition. Each counter is independently
// optional: nil means the executor did not measure it, which is distinct
// from a measured zero. Immutable once produced.
type Stats struct {
	NumRows    *uint64 `json:"numRows,omitempty"`
	NumBatches *uint64 `json:"numBatches,omitempty"`
	NumBytes   *uint64 `json:"numBytes,omitempty"`
}

func NewStats(numRows, numBatches, numBytes *uint64) Stats {
	return Stats{
		NumRows:    numRows,
		NumBatches: numBatches,
		NumBytes:   numBytes,
	}
}

// StatsOf builds fully populated statistics.
func StatsOf(numRows, numBatches, numBytes uint64) Stats {
	return Stats{
		NumRows:    &numRows,
		NumBatches: &numBatches,
		NumBytes:   &numBytes,
	}
}

func (s Stats) Equal(o Stats) bool {
	return eqOpt(s.NumRows, o.NumRows) &&
		eqOpt(s.NumBatches, o.NumBatches) &&
		eqOpt(s.NumBytes, o.NumBytes)
}

func eqOpt(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (s Stats) String() string {
	return fmt.Sprintf("numBatches=%s, numRows=%s, numBytes=%s",
		fmtOpt(s.NumBatches), fmtOpt(s.NumRows), fmtOpt(s.NumBytes))
}

func fmtOpt(v *uint64) string {
	if v == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *v)
}
