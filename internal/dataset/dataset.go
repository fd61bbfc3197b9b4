// Package dataset holds the in-memory tabular model passed between pipeline
// stages: an ordered column list plus rows keyed by column name.
package dataset

import (
	"fmt"

	"jobetl/pkg/records"
)

// ColumnType is the logical type of a column.
type ColumnType string

const (
	// Raw columns come straight from the CSV parser: string or nil cells.
	Raw       ColumnType = "raw"
	Text      ColumnType = "text"
	Category  ColumnType = "category"
	Numeric   ColumnType = "numeric"
	Timestamp ColumnType = "timestamp"
)

// Valid reports whether t is one of the known column types.
func (t ColumnType) Valid() bool {
	switch t {
	case Raw, Text, Category, Numeric, Timestamp:
		return true
	}
	return false
}

// Column describes one column of a Dataset.
type Column struct {
	Name string
	Type ColumnType

	// Categories lists the sorted distinct values of a category column.
	Categories []string
}

// Dataset is an ordered sequence of rows sharing one column set.
type Dataset struct {
	Columns []Column
	Rows    []records.Record
}

// New returns an empty dataset with raw columns named by header.
func New(header []string) *Dataset {
	cols := make([]Column, len(header))
	for i, h := range header {
		cols[i] = Column{Name: h, Type: Raw}
	}
	return &Dataset{Columns: cols}
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// Width returns the number of columns.
func (d *Dataset) Width() int {
	if d == nil {
		return 0
	}
	return len(d.Columns)
}

// Empty reports whether the dataset has no rows or no columns.
func (d *Dataset) Empty() bool { return d.Len() == 0 || d.Width() == 0 }

// Names returns the column names in order.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = c.Name
	}
	return out
}

// Column returns a pointer to the named column, or nil.
func (d *Dataset) Column(name string) *Column {
	for i := range d.Columns {
		if d.Columns[i].Name == name {
			return &d.Columns[i]
		}
	}
	return nil
}

// HasColumn reports whether the dataset has a column called name.
func (d *Dataset) HasColumn(name string) bool { return d.Column(name) != nil }

// Append adds a row given as column-ordered values. Short rows are padded
// with missing cells; long rows are an error.
func (d *Dataset) Append(values []any) error {
	if len(values) > len(d.Columns) {
		return fmt.Errorf("dataset: row has %d values, want at most %d", len(values), len(d.Columns))
	}
	r := make(records.Record, len(d.Columns))
	for i, c := range d.Columns {
		if i < len(values) {
			r[c.Name] = values[i]
		} else {
			r[c.Name] = nil
		}
	}
	d.Rows = append(d.Rows, r)
	return nil
}

// Values returns row i as a slice aligned with Columns.
func (d *Dataset) Values(i int) []any {
	row := d.Rows[i]
	out := make([]any, len(d.Columns))
	for j, c := range d.Columns {
		out[j] = row[c.Name]
	}
	return out
}

// MissingCells counts cells holding the missing marker.
func (d *Dataset) MissingCells() int {
	n := 0
	for _, r := range d.Rows {
		for _, c := range d.Columns {
			if records.IsMissing(r[c.Name]) {
				n++
			}
		}
	}
	return n
}

// MissingPct returns missing cells as a percentage of all cells. An empty
// dataset reports 0.
func (d *Dataset) MissingPct() float64 {
	total := d.Len() * d.Width()
	if total == 0 {
		return 0
	}
	return float64(d.MissingCells()) / float64(total) * 100
}

// Head returns a dataset sharing d's columns and its first n rows. n <= 0
// yields no rows; n beyond Len yields all rows.
func (d *Dataset) Head(n int) *Dataset {
	if n < 0 {
		n = 0
	}
	if n > d.Len() {
		n = d.Len()
	}
	return &Dataset{Columns: d.Columns, Rows: d.Rows[:n]}
}

// Clone deep-copies the column list and every row.
func (d *Dataset) Clone() *Dataset {
	cols := make([]Column, len(d.Columns))
	for i, c := range d.Columns {
		cols[i] = c
		if c.Categories != nil {
			cols[i].Categories = append([]string(nil), c.Categories...)
		}
	}
	rows := make([]records.Record, len(d.Rows))
	for i, r := range d.Rows {
		rows[i] = r.Clone()
	}
	return &Dataset{Columns: cols, Rows: rows}
}
