// Package records defines the row type shared by parsers, transformers and
// sinks. A Record maps a column name to its cell value; a nil value is the
// missing marker.
package records

import (
	"math"
	"time"
)

// Record is a single row keyed by column name.
//
// Cell values are one of: nil (missing), string, float64 or time.Time.
type Record map[string]any

// Clone returns a shallow copy of r. Cell values are immutable, so a shallow
// copy is enough to detach the row from its source.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// IsMissing reports whether v counts as a missing cell. NaN floats are treated
// as missing so numeric coercion and missingness checks agree.
func IsMissing(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(t)
	case time.Time:
		return t.IsZero()
	}
	return false
}

// Equal reports whether two cell values are identical. Missing values compare
// equal to each other.
func Equal(a, b any) bool {
	am, bm := IsMissing(a), IsMissing(b)
	if am || bm {
		return am && bm
	}
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		return ok && x == y
	case float64:
		y, ok := b.(float64)
		return ok && x == y
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	}
	return a == b
}
