package httpds

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

// driveDownloadURL is the direct-download endpoint for a Google Drive file id.
const driveDownloadURL = "https://drive.google.com/uc?export=download&id="

// DriveURL returns the direct-download URL for a Google Drive file id.
func DriveURL(fileID string) string {
	return driveDownloadURL + url.QueryEscape(fileID)
}

// ErrHTMLResponse is returned when a CSV was expected but the server sent an
// HTML page, which is what Drive does for private files and for files too
// large to scan for viruses.
var ErrHTMLResponse = errors.New("httpds: server returned an HTML page instead of CSV")

// Source streams one URL. It implements datasource.Source.
type Source struct {
	client *Client
	url    string
}

// NewSource returns a Source for rawURL fetched through c.
func NewSource(c *Client, rawURL string) *Source { return &Source{client: c, url: rawURL} }

// URL returns the URL the source fetches.
func (s *Source) URL() string { return s.url }

// Open performs the GET and returns the body. HTML bodies are rejected with
// ErrHTMLResponse.
func (s *Source) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := s.client.Get(ctx, s.url, http.Header{"Accept": []string{"text/csv, text/plain, */*"}})
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(resp.Body)
	if isHTML(resp.Header.Get("Content-Type"), br) {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w (GET %s)", ErrHTMLResponse, s.url)
	}
	return readCloser{Reader: br, Closer: resp.Body}, nil
}

func isHTML(contentType string, br *bufio.Reader) bool {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil && mt == "text/html" {
		return true
	}
	head, _ := br.Peek(512)
	sniff := strings.ToLower(strings.TrimSpace(string(head)))
	return strings.HasPrefix(sniff, "<!doctype html") || strings.HasPrefix(sniff, "<html")
}

type readCloser struct {
	io.Reader
	io.Closer
}
