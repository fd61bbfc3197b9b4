package storage

import (
	"context"
	"fmt"
	"log"
	"time"
)

// CopyFn abstracts a backend's bulk insert capability. Implementations insert
// the provided rows (aligned to columns) and return the number of rows
// written.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// LoadBatches splits rows into batches of batchSize and calls copyFn for
// each. It returns the total reported by copyFn and the first error.
//
// Cancellation is checked between batches. Progress is logged on each
// successful flush.
func LoadBatches(
	ctx context.Context,
	columns []string,
	rows [][]any,
	batchSize int,
	copyFn CopyFn,
) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return 0, fmt.Errorf("copyFn must not be nil")
	}

	var (
		total   int64
		batches int64
		start   = time.Now()
	)
	for lo := 0; lo < len(rows); lo += batchSize {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		hi := min(lo+batchSize, len(rows))

		n, err := copyFn(ctx, columns, rows[lo:hi])
		total += n
		if err != nil {
			log.Printf("loader: COPY failed after=%d total=%d err=%v", n, total, err)
			return total, err
		}
		batches++
		log.Printf("loader: batch #%d inserted=%d total_inserted=%d elapsed=%s",
			batches, n, total, time.Since(start).Truncate(time.Millisecond))
	}
	return total, nil
}
