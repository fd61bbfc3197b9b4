// Package builtin contains the stock dataset transformers.
package builtin

import (
	"encoding/binary"
	"math"
	"strings"
	"time"

	"github.com/zeebo/xxh3"

	"jobetl/internal/dataset"
	"jobetl/pkg/records"
)

// DeDup drops rows that duplicate an earlier row. Rows are compared on Keys,
// or on every column when Keys is empty; missing cells compare equal.
//
// Policy is "keep-first" (default) or "keep-last". Survivors keep their
// relative input order.
type DeDup struct {
	Keys   []string
	Policy string
}

// Apply returns ds with duplicates removed. When nothing is dropped the
// input is returned unchanged.
func (d DeDup) Apply(ds *dataset.Dataset) *dataset.Dataset {
	if ds.Len() < 2 {
		return ds
	}
	keys := d.Keys
	if len(keys) == 0 {
		keys = ds.Names()
	}
	keepLast := strings.EqualFold(strings.TrimSpace(d.Policy), "keep-last")

	n := ds.Len()
	order := make([]int, n)
	for i := range order {
		order[i] = i
		if keepLast {
			order[i] = n - 1 - i
		}
	}

	// Buckets hold indexes of rows already kept under each hash.
	buckets := make(map[uint64][]int, n)
	keep := make([]bool, n)
	dropped := 0
	h := xxh3.New()
	var buf [8]byte

	for _, i := range order {
		row := ds.Rows[i]
		h.Reset()
		for _, k := range keys {
			writeCell(h, row[k], buf[:])
		}
		sum := h.Sum64()

		dup := false
		for _, j := range buckets[sum] {
			if sameOn(row, ds.Rows[j], keys) {
				dup = true
				break
			}
		}
		if dup {
			dropped++
			continue
		}
		buckets[sum] = append(buckets[sum], i)
		keep[i] = true
	}

	if dropped == 0 {
		return ds
	}
	out := &dataset.Dataset{Columns: ds.Columns, Rows: make([]records.Record, 0, n-dropped)}
	for i, r := range ds.Rows {
		if keep[i] {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// writeCell feeds a type tag and the value bytes to h. The tag keeps "1" and
// 1.0 apart; the trailing separator keeps ("ab","c") apart from ("a","bc").
func writeCell(h *xxh3.Hasher, v any, buf []byte) {
	if records.IsMissing(v) {
		_, _ = h.Write([]byte{0})
		return
	}
	switch t := v.(type) {
	case string:
		_, _ = h.Write([]byte{1})
		_, _ = h.WriteString(t)
	case float64:
		_, _ = h.Write([]byte{2})
		if t == 0 {
			t = 0 // fold -0
		}
		binary.LittleEndian.PutUint64(buf, math.Float64bits(t))
		_, _ = h.Write(buf)
	case time.Time:
		_, _ = h.Write([]byte{3})
		binary.LittleEndian.PutUint64(buf, uint64(t.UnixNano()))
		_, _ = h.Write(buf)
	default:
		_, _ = h.Write([]byte{4})
	}
	_, _ = h.Write([]byte{0xff})
}

func sameOn(a, b records.Record, keys []string) bool {
	for _, k := range keys {
		if !records.Equal(a[k], b[k]) {
			return false
		}
	}
	return true
}
