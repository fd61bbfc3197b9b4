package builtin

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"jobetl/internal/dataset"
	"jobetl/internal/schema"
	"jobetl/pkg/records"
)

func raw(t *testing.T, header []string, rows ...[]any) *dataset.Dataset {
	t.Helper()
	ds := dataset.New(header)
	for _, r := range rows {
		if err := ds.Append(r); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	return ds
}

func TestCoerce_Types(t *testing.T) {
	t.Parallel()

	in := raw(t, []string{"job_type", "salary", "date_added", "extra"},
		[]any{"Permanent", "30000", "2016-05-03", "x"},
		[]any{"Contract", "£30k", "not a date", nil},
		[]any{nil, " 12.5 ", "2016-05-03 10:20:30", "y"},
		[]any{"Permanent", "NaN", nil, "z"},
	)
	c := Coerce{Rules: schema.Schema{
		{Column: "job_type", Type: dataset.Text},
		{Column: "job_type", Type: dataset.Category},
		{Column: "salary", Type: dataset.Numeric},
		{Column: "date_added", Type: dataset.Timestamp},
		{Column: "absent", Type: dataset.Numeric},
	}}
	out := c.Apply(in)

	want := []records.Record{
		{"job_type": "Permanent", "salary": 30000.0, "date_added": time.Date(2016, 5, 3, 0, 0, 0, 0, time.UTC), "extra": "x"},
		{"job_type": "Contract", "salary": nil, "date_added": nil, "extra": nil},
		{"job_type": nil, "salary": 12.5, "date_added": time.Date(2016, 5, 3, 10, 20, 30, 0, time.UTC), "extra": "y"},
		{"job_type": "Permanent", "salary": nil, "date_added": nil, "extra": "z"},
	}
	if diff := cmp.Diff(want, out.Rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}

	types := map[string]dataset.ColumnType{}
	for _, col := range out.Columns {
		types[col.Name] = col.Type
	}
	wantTypes := map[string]dataset.ColumnType{
		"job_type": dataset.Category, "salary": dataset.Numeric,
		"date_added": dataset.Timestamp, "extra": dataset.Raw,
	}
	if diff := cmp.Diff(wantTypes, types); diff != "" {
		t.Fatalf("types mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Contract", "Permanent"}, out.Column("job_type").Categories); diff != "" {
		t.Fatalf("categories mismatch (-want +got):\n%s", diff)
	}
	if out.HasColumn("absent") {
		t.Fatalf("absent column must not be created")
	}

	// The input is left untouched.
	if in.Rows[0]["salary"] != "30000" || in.Columns[1].Type != dataset.Raw {
		t.Fatalf("input mutated: %+v", in.Rows[0])
	}
}

func TestToNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   any
		want any
	}{
		{"48000", 48000.0},
		{" -1.5e3 ", -1500.0},
		{"0x10p0", nil},
		{"-0X1p4", nil},
		{"+0x1", nil},
		{"0", 0.0},
		{"0.5", 0.5},
		{"competitive", nil},
		{"", nil},
		{12.0, 12.0},
		{nil, nil},
	}
	for _, tt := range tests {
		if got := toNumber(tt.in); got != tt.want {
			t.Errorf("toNumber(%#v) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestCoerce_Idempotent(t *testing.T) {
	t.Parallel()

	in := raw(t, []string{"country", "has_expired", "salary", "date_added"},
		[]any{"UK", "No", "100", "01/31/2017"},
		[]any{nil, "Yes", "abc", "2017-01-31T08:00:00"},
		[]any{"FR", "No", nil, ""},
	)
	c := Coerce{Rules: schema.Vacancies()}
	once := c.Apply(in)
	twice := c.Apply(once)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("second pass changed the dataset (-once +twice):\n%s", diff)
	}
}

func TestCoerce_NonStringCellsToText(t *testing.T) {
	t.Parallel()

	ds := &dataset.Dataset{
		Columns: []dataset.Column{{Name: "v", Type: dataset.Numeric}},
		Rows:    []records.Record{{"v": 2.5}, {"v": nil}},
	}
	out := Coerce{Rules: schema.Schema{{Column: "v", Type: dataset.Text}}}.Apply(ds)
	if out.Rows[0]["v"] != "2.5" || out.Rows[1]["v"] != nil {
		t.Fatalf("rows = %v", out.Rows)
	}
}

func TestCoerce_CustomLayouts(t *testing.T) {
	t.Parallel()

	ds := raw(t, []string{"d"}, []any{"13.08.2018"}, []any{"2018-08-13"})
	out := Coerce{
		Rules:   schema.Schema{{Column: "d", Type: dataset.Timestamp}},
		Layouts: []string{"02.01.2006"},
	}.Apply(ds)

	if got, ok := out.Rows[0]["d"].(time.Time); !ok || !got.Equal(time.Date(2018, 8, 13, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("d = %v", out.Rows[0]["d"])
	}
	if out.Rows[1]["d"] != nil {
		t.Fatalf("layout outside the list should become missing, got %v", out.Rows[1]["d"])
	}
}
