package transformer

import (
	"reflect"
	"testing"

	"jobetl/internal/dataset"
)

// tag appends name to the "trail" cell of every row so tests can observe
// call order.
func tag(name string) Transformer {
	return Func(func(ds *dataset.Dataset) *dataset.Dataset {
		for _, r := range ds.Rows {
			s, _ := r["trail"].(string)
			r["trail"] = s + name
		}
		return ds
	})
}

func newDS(n int) *dataset.Dataset {
	ds := dataset.New([]string{"trail"})
	for i := 0; i < n; i++ {
		_ = ds.Append([]any{""})
	}
	return ds
}

func TestChain_Order(t *testing.T) {
	t.Parallel()

	out := Chain{tag("a"), tag("b"), tag("c")}.Apply(newDS(2))
	for i, r := range out.Rows {
		if r["trail"] != "abc" {
			t.Fatalf("row %d trail = %v, want abc", i, r["trail"])
		}
	}
}

func TestChain_Empty(t *testing.T) {
	t.Parallel()

	in := newDS(1)
	if out := (Chain{}).Apply(in); out != in {
		t.Fatalf("empty chain should return its input")
	}
}

func TestChain_Replaces(t *testing.T) {
	t.Parallel()

	drop := Func(func(ds *dataset.Dataset) *dataset.Dataset { return ds.Head(1) })
	out := Chain{drop, tag("x")}.Apply(newDS(3))
	if out.Len() != 1 {
		t.Fatalf("len = %d, want 1", out.Len())
	}
	if !reflect.DeepEqual(out.Names(), []string{"trail"}) {
		t.Fatalf("columns = %v", out.Names())
	}
}
