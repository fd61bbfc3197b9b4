// Package csv reads delimited text into a dataset.Dataset. It is lenient the
// way real-world exports need: over-long lines are skipped and counted, short
// lines are padded with missing cells, and well-known NA tokens become the
// missing marker.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"jobetl/internal/dataset"
	"jobetl/internal/parser"
)

// DefaultNAValues are the cell spellings read as missing.
var DefaultNAValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// Options configures the parser. The zero value parses comma separated UTF-8
// without trimming.
type Options struct {
	// Comma is the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimLeadingSpace drops spaces that follow a delimiter.
	TrimLeadingSpace bool

	// Encoding names the input character set ("utf-8", "windows-1250", ...).
	// Empty means UTF-8 with an optional BOM.
	Encoding string

	// NAValues replaces DefaultNAValues when non-nil.
	NAValues []string

	// MaxLoggedErrors caps how many skipped lines are logged individually.
	// Zero means 10.
	MaxLoggedErrors int

	Logger *log.Logger
}

// Stats is the per-parse summary.
type Stats = parser.Stats

var _ parser.Parser = (*Parser)(nil)

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct {
	opt Options
	na  map[string]struct{}
}

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser {
	if opt.Comma == 0 {
		opt.Comma = ','
	}
	if opt.MaxLoggedErrors <= 0 {
		opt.MaxLoggedErrors = 10
	}
	if opt.Logger == nil {
		opt.Logger = log.Default()
	}
	vals := opt.NAValues
	if vals == nil {
		vals = DefaultNAValues
	}
	na := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		na[v] = struct{}{}
	}
	return &Parser{opt: opt, na: na}
}

// Parse reads a header line followed by data lines. A missing or unreadable
// header is an error; data lines with more fields than the header are
// skipped. I/O errors
// from r abort the parse.
func (p *Parser) Parse(r io.Reader) (*dataset.Dataset, Stats, error) {
	var st Stats

	dec, err := decoder(r, p.opt.Encoding)
	if err != nil {
		return nil, st, err
	}

	cr := csv.NewReader(dec)
	cr.Comma = p.opt.Comma
	cr.TrimLeadingSpace = p.opt.TrimLeadingSpace
	// A bare quote inside an unquoted field is kept as a literal character.
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, st, fmt.Errorf("csv: no header line")
		}
		return nil, st, fmt.Errorf("csv: read header: %w", err)
	}
	ds := dataset.New(NormalizeHeaders(header))
	width := ds.Width()

	logged := 0
	skip := func(line int, reason string) {
		st.Skipped++
		if logged < p.opt.MaxLoggedErrors {
			p.opt.Logger.Printf("csv: skip line=%d reason=%s", line, reason)
			logged++
		}
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				skip(pe.StartLine, pe.Err.Error())
				continue
			}
			return nil, st, fmt.Errorf("csv: read: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if len(rec) > width {
			skip(line, fmt.Sprintf("expected %d fields, saw %d", width, len(rec)))
			continue
		}
		if len(rec) < width {
			st.Padded++
		}

		vals := make([]any, len(rec))
		for i, f := range rec {
			if _, ok := p.na[f]; ok {
				vals[i] = nil
				continue
			}
			vals[i] = strings.Clone(f)
		}
		if err := ds.Append(vals); err != nil {
			return nil, st, fmt.Errorf("csv: line %d: %w", line, err)
		}
	}

	st.Rows = ds.Len()
	if st.Skipped > logged {
		p.opt.Logger.Printf("csv: skipped %d more malformed lines", st.Skipped-logged)
	}
	return ds, st, nil
}

// NormalizeHeaders trims, strips a leading BOM, NFC-normalizes and
// de-duplicates header names. Blank names become "Unnamed: <i>" and repeats
// gain ".1", ".2", ... suffixes.
func NormalizeHeaders(in []string) []string {
	in = StripHeaderBOM(append([]string(nil), in...))
	out := make([]string, len(in))
	seen := make(map[string]int, len(in))
	for i, h := range in {
		h = norm.NFC.String(strings.TrimSpace(h))
		if h == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		base := h
		for n := seen[base]; ; n++ {
			if _, dup := seen[h]; !dup {
				seen[base] = n
				break
			}
			h = base + "." + strconv.Itoa(n+1)
		}
		seen[h] = 0
		out[i] = h
	}
	return out
}
