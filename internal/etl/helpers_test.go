package etl

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"jobetl/internal/datasource/httpds"
	"jobetl/internal/dataset"
	"jobetl/internal/parser/csv"
	"jobetl/internal/validate"
)

// vacanciesCSV has 12 data rows: "Analyst" appears twice verbatim and the
// recruiter's salary is not a number.
const vacanciesCSV = `job_title,organization,country,salary,date_added
Data Engineer,Acme,UK,55000,2024-01-05
Analyst,Globex,US,48000,2024-01-06
Recruiter,Initech,DE,competitive,2024-01-07
Designer,Umbrella,FR,41000,2024-01-08
Developer,Hooli,UK,62000,2024-01-09
Tester,Acme,US,39000,2024-01-10
Support,Globex,IE,30000,2024-01-11
Manager,Initech,UK,70000,2024-01-12
Architect,Umbrella,NL,80000,2024-01-13
Analyst,Globex,US,48000,2024-01-06
Writer,Hooli,ES,35000,2024-01-14
Ops, Acme,PL,45000,2024-01-15
`

// sparseCSV has 10 distinct rows with 3 of 5 cells empty: 60% missing.
const sparseCSV = `job_title,organization,country,salary,date_added
a,x,,,
b,x,,,
c,x,,,
d,x,,,
e,x,,,
f,x,,,
g,x,,,
h,x,,,
i,x,,,
j,x,,,
`

func quiet() *log.Logger { return log.New(io.Discard, "", 0) }

func writeFile(t *testing.T, path, body string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// serveCSV starts a server answering every request with body.
func serveCSV(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newExtractor() *Extractor {
	return &Extractor{
		SourceKind: "http",
		Client:     httpds.NewClient(httpds.Config{Timeout: 5 * time.Second}),
		Validator:  validate.Defaults(),
		Logger:     quiet(),
	}
}

func newTransformer() *Transformer {
	return &Transformer{Validator: validate.Defaults(), Logger: quiet()}
}

// transformed parses body and runs the default chain over it.
func transformed(t *testing.T, body string) *dataset.Dataset {
	t.Helper()
	ds, _, err := csv.NewParser(csv.Options{TrimLeadingSpace: true, Logger: quiet()}).Parse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return newTransformer().Apply(ds)
}
