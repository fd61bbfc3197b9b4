// Package schema declares which columns are coerced to which logical type.
//
// A Schema is an ordered rule list rather than a map: the vacancy dataset
// coerces job_type and sector to text first and to category afterwards, and
// that order has to survive configuration round-trips.
package schema

import (
	"fmt"

	"jobetl/internal/dataset"
)

// Rule coerces one column to one type.
type Rule struct {
	Column string             `json:"column" yaml:"column"`
	Type   dataset.ColumnType `json:"type" yaml:"type"`
}

// Schema is an ordered list of coercion rules.
type Schema []Rule

// Validate rejects rules with an empty column or an unknown type.
func (s Schema) Validate() error {
	for i, r := range s {
		if r.Column == "" {
			return fmt.Errorf("schema[%d]: column must not be empty", i)
		}
		if !r.Type.Valid() || r.Type == dataset.Raw {
			return fmt.Errorf("schema[%d]: unsupported type %q for column %q", i, r.Type, r.Column)
		}
	}
	return nil
}

// Vacancies is the schema of the job postings dataset.
func Vacancies() Schema {
	var s Schema
	for _, c := range []string{
		"country", "country_code", "job_board", "job_title", "job_type",
		"location", "organization", "page_url", "sector", "uniq_id",
	} {
		s = append(s, Rule{Column: c, Type: dataset.Text})
	}
	for _, c := range []string{"has_expired", "job_type", "sector"} {
		s = append(s, Rule{Column: c, Type: dataset.Category})
	}
	s = append(s,
		Rule{Column: "salary", Type: dataset.Numeric},
		Rule{Column: "date_added", Type: dataset.Timestamp},
	)
	return s
}
