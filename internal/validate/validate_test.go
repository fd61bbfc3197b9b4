package validate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"

	"jobetl/internal/dataset"
	"jobetl/internal/etlerr"
)

func quiet() Validator {
	v := Defaults()
	v.Logger = log.New(io.Discard, "", 0)
	return v
}

// mkRows builds n rows over header; missing lists the cells (row, col) that
// should hold nil.
func mkRows(tb testing.TB, header []string, n int, missing func(row, col int) bool) *dataset.Dataset {
	tb.Helper()
	d := dataset.New(header)
	for i := 0; i < n; i++ {
		vals := make([]any, len(header))
		for j := range header {
			if missing != nil && missing(i, j) {
				continue
			}
			vals[j] = fmt.Sprintf("r%dc%d", i, j)
		}
		if err := d.Append(vals); err != nil {
			tb.Fatalf("Append: %v", err)
		}
	}
	return d
}

var vacancyHeader = []string{"job_title", "organization", "country"}

func TestRaw_RowCounts(t *testing.T) {
	t.Parallel()

	v := quiet()
	for n := 1; n < DefaultMinRows; n++ {
		err := v.Raw(mkRows(t, vacancyHeader, n, nil))
		if !errors.Is(err, etlerr.ErrInsufficientRows) {
			t.Fatalf("rows=%d: err = %v, want ErrInsufficientRows", n, err)
		}
	}
	for _, n := range []int{10, 11, 500} {
		if err := v.Raw(mkRows(t, vacancyHeader, n, nil)); err != nil {
			t.Fatalf("rows=%d: unexpected error %v", n, err)
		}
	}
}

func TestRaw_Empty(t *testing.T) {
	t.Parallel()

	err := quiet().Raw(dataset.New(vacancyHeader))
	if !errors.Is(err, etlerr.ErrEmptyDataset) {
		t.Fatalf("err = %v, want ErrEmptyDataset", err)
	}
}

func TestRaw_MissingColumnsWarnOnly(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	v := Defaults()
	v.Logger = log.New(&buf, "", 0)

	if err := v.Raw(mkRows(t, []string{"job_title", "salary"}, 12, nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "organization") || !strings.Contains(buf.String(), "country") {
		t.Fatalf("warning does not name missing columns: %q", buf.String())
	}
}

func TestTransformed_MissingnessBoundary(t *testing.T) {
	t.Parallel()

	v := quiet()
	header := []string{"a", "b", "c", "d"}
	tests := []struct {
		name    string
		missing func(row, col int) bool
		wantErr bool
	}{
		{"none", nil, false},
		// 2 of 4 columns in every row: exactly 50%.
		{"exactly half", func(_, col int) bool { return col < 2 }, false},
		// 2 of 4 columns plus one extra cell: just over 50%.
		{"just over half", func(row, col int) bool { return col < 2 || (row == 0 && col == 2) }, true},
		// 60%: rows 0..5 of 10 missing everywhere.
		{"sixty percent", func(row, _ int) bool { return row < 6 }, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := v.Transformed(mkRows(t, header, 10, tt.missing))
			if tt.wantErr && !errors.Is(err, etlerr.ErrExcessiveMissingness) {
				t.Fatalf("err = %v, want ErrExcessiveMissingness", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestTransformed_Empty(t *testing.T) {
	t.Parallel()

	if err := quiet().Transformed(dataset.New(nil)); !errors.Is(err, etlerr.ErrEmptyDataset) {
		t.Fatalf("err = %v, want ErrEmptyDataset", err)
	}
}

func TestLoaded(t *testing.T) {
	t.Parallel()

	v := quiet()
	if err := v.Loaded(mkRows(t, vacancyHeader, 1, nil)); err != nil {
		t.Fatalf("single row should load: %v", err)
	}
	if err := v.Loaded(dataset.New(vacancyHeader)); !errors.Is(err, etlerr.ErrEmptyDataset) {
		t.Fatalf("err = %v, want ErrEmptyDataset", err)
	}
}
