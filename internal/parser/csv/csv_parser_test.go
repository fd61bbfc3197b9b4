package csv_test

import (
	"bytes"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"

	"jobetl/internal/dataset"
	pcsv "jobetl/internal/parser/csv"
	"jobetl/pkg/records"
)

func quiet() *log.Logger { return log.New(io.Discard, "", 0) }

func TestParse_Lenient(t *testing.T) {
	t.Parallel()

	in := "\ufeffjob_title, salary,country\n" +
		"Dev, 100,UK\n" +
		"QA,NA,\n" +
		"Ops,1,2,3\n" +
		"PM\n" +
		"X,ba\"d,Y\n" +
		"Last,5,FR\n"

	p := pcsv.NewParser(pcsv.Options{TrimLeadingSpace: true, Logger: quiet()})
	ds, st, err := p.Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if diff := cmp.Diff([]string{"job_title", "salary", "country"}, ds.Names()); diff != "" {
		t.Fatalf("header mismatch (-want +got):\n%s", diff)
	}
	want := []records.Record{
		{"job_title": "Dev", "salary": "100", "country": "UK"},
		{"job_title": "QA", "salary": nil, "country": nil},
		{"job_title": "PM", "salary": nil, "country": nil},
		{"job_title": "X", "salary": "ba\"d", "country": "Y"},
		{"job_title": "Last", "salary": "5", "country": "FR"},
	}
	if diff := cmp.Diff(want, ds.Rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	if st != (pcsv.Stats{Rows: 5, Skipped: 1, Padded: 1}) {
		t.Fatalf("stats = %+v", st)
	}
	for _, c := range ds.Columns {
		if c.Type != dataset.Raw {
			t.Fatalf("column %s type = %s, want raw", c.Name, c.Type)
		}
	}
}

func TestParse_BareQuoteIsLiteral(t *testing.T) {
	t.Parallel()

	in := "job_title,organization,country\nMonitor 27\" tech,Acme,US\nDev,Beta,UK\n"
	ds, st, err := pcsv.NewParser(pcsv.Options{TrimLeadingSpace: true, Logger: quiet()}).Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if st.Rows != 2 || st.Skipped != 0 {
		t.Fatalf("stats = %+v, want 2 rows and none skipped", st)
	}
	if got := ds.Rows[0]["job_title"]; got != `Monitor 27" tech` {
		t.Fatalf("job_title = %q", got)
	}
}

func TestParse_NoTrimKeepsSpaces(t *testing.T) {
	t.Parallel()

	ds, _, err := pcsv.NewParser(pcsv.Options{Logger: quiet()}).Parse(strings.NewReader("a,b\nx, y\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := ds.Rows[0]["b"]; got != " y" {
		t.Fatalf("b = %q, want %q", got, " y")
	}
}

func TestParse_Delimiter(t *testing.T) {
	t.Parallel()

	ds, _, err := pcsv.NewParser(pcsv.Options{Comma: ';', Logger: quiet()}).Parse(strings.NewReader("a;b\n1;2,5\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := ds.Rows[0]["b"]; got != "2,5" {
		t.Fatalf("b = %v", got)
	}
}

func TestParse_CustomNAValues(t *testing.T) {
	t.Parallel()

	p := pcsv.NewParser(pcsv.Options{NAValues: []string{"-"}, Logger: quiet()})
	ds, _, err := p.Parse(strings.NewReader("a,b,c\n-,NA,\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := records.Record{"a": nil, "b": "NA", "c": ""}
	if diff := cmp.Diff(want, ds.Rows[0]); diff != "" {
		t.Fatalf("row mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Encoding(t *testing.T) {
	t.Parallel()

	in := []byte("n\xe1zev\nPraha\n")
	ds, _, err := pcsv.NewParser(pcsv.Options{Encoding: "windows-1250", Logger: quiet()}).Parse(bytes.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !ds.HasColumn("název") {
		t.Fatalf("decoded header = %v", ds.Names())
	}

	if _, _, err := pcsv.NewParser(pcsv.Options{Encoding: "klingon"}).Parse(bytes.NewReader(in)); err == nil {
		t.Fatalf("expected error for unknown encoding")
	}
}

func TestParse_HeaderErrors(t *testing.T) {
	t.Parallel()

	if _, _, err := pcsv.NewParser(pcsv.Options{}).Parse(strings.NewReader("")); err == nil {
		t.Fatalf("expected error for empty input")
	}

	boom := errors.New("boom")
	r := io.MultiReader(strings.NewReader("a,b\n1,2\n"), iotest.ErrReader(boom))
	if _, _, err := pcsv.NewParser(pcsv.Options{Logger: quiet()}).Parse(r); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestParse_HeaderOnly(t *testing.T) {
	t.Parallel()

	ds, st, err := pcsv.NewParser(pcsv.Options{}).Parse(strings.NewReader("a,b\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !ds.Empty() || ds.Width() != 2 || st.Rows != 0 {
		t.Fatalf("ds = %+v stats = %+v", ds, st)
	}
}

func TestParse_LogsAreCapped(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := pcsv.NewParser(pcsv.Options{MaxLoggedErrors: 1, Logger: log.New(&buf, "", 0)})
	_, st, err := p.Parse(strings.NewReader("a\n1,2\n3,4\n5,6\nok\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if st.Skipped != 3 || st.Rows != 1 {
		t.Fatalf("stats = %+v", st)
	}
	out := buf.String()
	if strings.Count(out, "csv: skip line=") != 1 || !strings.Contains(out, "skipped 2 more") {
		t.Fatalf("unexpected log output:\n%s", out)
	}
}

func TestNormalizeHeaders(t *testing.T) {
	t.Parallel()

	got := pcsv.NormalizeHeaders([]string{"\ufeff a ", "a", "", "Cafe\u0301", "a"})
	want := []string{"a", "a.1", "Unnamed: 2", "Caf\u00e9", "a.2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("headers mismatch (-want +got):\n%s", diff)
	}
}
