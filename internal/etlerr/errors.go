// Package etlerr defines the stable error kinds surfaced by the pipeline.
//
// Stages wrap one of the sentinels below together with the underlying cause,
// e.g. fmt.Errorf("%w: %w", etlerr.ErrFetch, err), so callers can branch with
// errors.Is while the message still carries the detail.
package etlerr

import "errors"

var (
	// ErrFetch: the remote resource was unreachable or could not be parsed.
	ErrFetch = errors.New("fetch error")
	// ErrRead: a local artifact could not be read back.
	ErrRead = errors.New("read error")
	// ErrEmptyDataset: the dataset has no rows or no columns.
	ErrEmptyDataset = errors.New("empty dataset")
	// ErrInsufficientRows: fewer rows than the configured minimum.
	ErrInsufficientRows = errors.New("insufficient rows")
	// ErrExcessiveMissingness: the share of missing cells exceeds the limit.
	ErrExcessiveMissingness = errors.New("excessive missingness")
	// ErrSinkUnavailable: credentials or a connection for the relational sink
	// are missing.
	ErrSinkUnavailable = errors.New("sink unavailable")
	// ErrWrite: a local filesystem write failed.
	ErrWrite = errors.New("write error")
)

// Kind is a short, stable identifier for an error class.
type Kind string

const (
	KindFetch                Kind = "fetch_error"
	KindRead                 Kind = "read_error"
	KindEmptyDataset         Kind = "empty_dataset"
	KindInsufficientRows     Kind = "insufficient_rows"
	KindExcessiveMissingness Kind = "excessive_missingness"
	KindSinkUnavailable      Kind = "sink_unavailable"
	KindWrite                Kind = "write_error"
	KindUnknown              Kind = "unknown"
)

var kinds = []struct {
	err  error
	kind Kind
}{
	// Validation kinds first: a validation failure wrapped inside a stage error
	// should be reported as such.
	{ErrEmptyDataset, KindEmptyDataset},
	{ErrInsufficientRows, KindInsufficientRows},
	{ErrExcessiveMissingness, KindExcessiveMissingness},
	{ErrSinkUnavailable, KindSinkUnavailable},
	{ErrFetch, KindFetch},
	{ErrRead, KindRead},
	{ErrWrite, KindWrite},
}

// KindOf returns the Kind of err, or KindUnknown when err carries none of the
// sentinels. KindOf(nil) returns "".
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUnknown
}
