package audit

import (
	"context"
	"errors"

	"url-policy-sync/core/reconcile"
)

// Recorder persists reconciliation results.
type Recorder interface {
	Record(ctx context.Context, result *reconcile.Result) error
}

// Multi fans a result out to several recorders. Nil entries are skipped and
// every recorder runs even when an earlier one fails.
type Multi []Recorder

// Record implements Recorder.
func (m Multi) Record(ctx context.Context, result *reconcile.Result) error {
	var errs []error
	for _, r := range m {
		if r == nil {
			continue
		}
		if err := r.Record(ctx, result); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
