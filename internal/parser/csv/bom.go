package csv

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const utf8BOM = "\uFEFF"

// StripHeaderBOM removes a UTF-8 BOM from the first header cell if present.
func StripHeaderBOM(headers []string) []string {
	if len(headers) == 0 {
		return headers
	}
	headers[0] = strings.TrimPrefix(headers[0], utf8BOM)
	return headers
}

// decoder wraps r so it yields UTF-8. An empty name accepts UTF-8 and honors
// a UTF-8 or UTF-16 BOM.
func decoder(r io.Reader, name string) (io.Reader, error) {
	if name == "" || strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())), nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("csv: unknown encoding %q: %w", name, err)
	}
	return transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder())), nil
}
