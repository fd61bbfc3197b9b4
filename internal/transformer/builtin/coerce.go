package builtin

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"jobetl/internal/dataset"
	"jobetl/internal/schema"
)

// DefaultLayouts are tried in order when coercing text to a timestamp.
var DefaultLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"02.01.2006",
}

// Coerce applies schema rules in order. Columns absent from the dataset are
// skipped. Values that cannot be parsed as numbers or timestamps become
// missing. Applying Coerce to its own output changes nothing.
type Coerce struct {
	Rules schema.Schema

	// Layouts overrides DefaultLayouts when non-empty.
	Layouts []string
}

// Apply returns a coerced copy of ds.
func (c Coerce) Apply(ds *dataset.Dataset) *dataset.Dataset {
	out := ds.Clone()
	layouts := c.Layouts
	if len(layouts) == 0 {
		layouts = DefaultLayouts
	}

	for _, rule := range c.Rules {
		col := out.Column(rule.Column)
		if col == nil {
			continue
		}
		name := col.Name
		switch rule.Type {
		case dataset.Text, dataset.Category:
			for _, r := range out.Rows {
				r[name] = toText(r[name])
			}
		case dataset.Numeric:
			for _, r := range out.Rows {
				r[name] = toNumber(r[name])
			}
		case dataset.Timestamp:
			for _, r := range out.Rows {
				r[name] = toTime(r[name], layouts)
			}
		default:
			continue
		}
		col.Type = rule.Type
		col.Categories = nil
		if rule.Type == dataset.Category {
			col.Categories = categories(out, name)
		}
	}
	return out
}

func categories(ds *dataset.Dataset, name string) []string {
	set := map[string]struct{}{}
	for _, r := range ds.Rows {
		if s, ok := r[name].(string); ok {
			set[s] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func toText(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return t
	case float64:
		if math.IsNaN(t) {
			return nil
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		if t.IsZero() {
			return nil
		}
		return t.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(t)
	}
}

func toNumber(v any) any {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) {
			return nil
		}
		return t
	case string:
		s := strings.TrimSpace(t)
		if isHexLiteral(s) {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) {
			return nil
		}
		return f
	}
	return nil
}

// isHexLiteral reports whether s is a Go hex float such as "0x1p4", which
// ParseFloat accepts but spreadsheet exports never mean as a number.
func isHexLiteral(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

func toTime(v any, layouts []string) any {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return nil
		}
		return t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		for _, l := range layouts {
			if ts, err := time.ParseInLocation(l, s, time.UTC); err == nil {
				return ts
			}
		}
	}
	return nil
}
