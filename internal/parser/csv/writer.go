package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"jobetl/internal/dataset"
	"jobetl/internal/fsutil"
)

// TimeLayout is used when writing timestamp cells.
const TimeLayout = "2006-01-02 15:04:05"

// Write emits ds as comma separated text: a header line, then one line per
// row. Missing cells are written empty.
func Write(w io.Writer, ds *dataset.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.Names()); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	line := make([]string, ds.Width())
	for i := range ds.Rows {
		for j, v := range ds.Values(i) {
			line[j] = FormatCell(v)
		}
		// A lone empty field would be a blank line, which readers skip.
		if len(line) == 1 && line[0] == "" {
			cw.Flush()
			if err := cw.Error(); err != nil {
				return fmt.Errorf("csv: write row %d: %w", i, err)
			}
			if _, err := io.WriteString(w, "\"\"\n"); err != nil {
				return fmt.Errorf("csv: write row %d: %w", i, err)
			}
			continue
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("csv: write row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv: flush: %w", err)
	}
	return nil
}

// WriteFile writes ds to path atomically.
func WriteFile(path string, ds *dataset.Dataset) error {
	return fsutil.WriteAtomic(path, func(w io.Writer) error { return Write(w, ds) })
}

// FormatCell renders a cell value as text.
func FormatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format(TimeLayout)
	default:
		return fmt.Sprint(t)
	}
}
