package store

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNoData means an aggregate had nothing to aggregate over.
	ErrNoData = errors.New("no data")

	// ErrUnavailable means the store is failing fast instead of running the
	// query, for example while the circuit breaker is open.
	ErrUnavailable = errors.New("analytics store unavailable")
)

// withContextErr puts ctx's error in err's chain once ctx has ended. The
// driver reports a cancelled statement as its own error (pq code 57014),
// which does not match context.Canceled or context.DeadlineExceeded.
func withContextErr(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		return fmt.Errorf("%w: %w", ctxErr, err)
	}
	return err
}
