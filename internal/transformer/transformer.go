// Package transformer composes dataset-to-dataset steps.
package transformer

import "jobetl/internal/dataset"

// Transformer maps one dataset to another. Implementations may return their
// input when there is nothing to change.
type Transformer interface {
	Apply(ds *dataset.Dataset) *dataset.Dataset
}

// Func adapts a plain function to Transformer.
type Func func(*dataset.Dataset) *dataset.Dataset

func (f Func) Apply(ds *dataset.Dataset) *dataset.Dataset { return f(ds) }

// Chain is an ordered list of transformers.
type Chain []Transformer

func (c Chain) Apply(in *dataset.Dataset) *dataset.Dataset {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}
