// Package datasource turns a source locator into something that can be
// opened for reading.
package datasource

import (
	"context"
	"fmt"
	"io"
	"strings"

	"jobetl/internal/datasource/file"
	"jobetl/internal/datasource/httpds"
)

// Source opens a byte stream.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Source kinds accepted by Resolve.
const (
	KindGDrive = "gdrive"
	KindHTTP   = "http"
	KindFile   = "file"
)

// Resolve maps (kind, locator) to a Source. With an empty kind the locator
// decides: http(s) URLs are fetched as-is, "file://" paths are read locally,
// anything else is taken as a Google Drive file id.
func Resolve(kind, locator string, client *httpds.Client) (Source, error) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return nil, fmt.Errorf("datasource: locator must not be empty")
	}

	if kind == "" || kind == KindGDrive {
		switch {
		case isURL(locator):
			kind = KindHTTP
		case strings.HasPrefix(locator, "file://"):
			kind = KindFile
		default:
			kind = KindGDrive
		}
	}

	switch kind {
	case KindGDrive:
		return httpds.NewSource(client, httpds.DriveURL(locator)), nil
	case KindHTTP:
		if !isURL(locator) {
			return nil, fmt.Errorf("datasource: %q is not an http(s) URL", locator)
		}
		return httpds.NewSource(client, locator), nil
	case KindFile:
		return file.NewLocal(strings.TrimPrefix(locator, "file://")), nil
	default:
		return nil, fmt.Errorf("datasource: unsupported kind %q", kind)
	}
}

func isURL(s string) bool {
	l := strings.ToLower(s)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}
