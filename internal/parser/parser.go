// Package parser defines the contract between raw byte streams and the
// tabular dataset model.
package parser

import (
	"io"

	"jobetl/internal/dataset"
)

// Stats summarizes one Parse call.
type Stats struct {
	Rows    int // data rows kept
	Skipped int // malformed lines dropped
	Padded  int // short lines padded with missing cells
}

// Parser reads one tabular document from r.
type Parser interface {
	Parse(r io.Reader) (*dataset.Dataset, Stats, error)
}
