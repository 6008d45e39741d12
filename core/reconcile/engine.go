package reconcile

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Reconcile adds the desired entries missing from the remote list.
//
// The pipeline is sequential: fetch, diff, then write unless the diff is
// empty or opts.DryRun is set. Every outcome, including failures, is
// reported through the returned Result; there is no separate error.
func Reconcile(ctx context.Context, spec *Spec, desired NormalizedSet, opts Options) Result {
	log := spec.logger()
	log.Info("Starting reconciliation",
		zap.Bool("dry_run", opts.DryRun),
		zap.Int("desired", desired.Len()),
		zap.Int("duplicates_dropped", desired.Duplicates()),
	)

	plan, err := BuildPlan(ctx, spec, desired)
	if err != nil {
		log.Error("Failed to fetch remote list", zap.Error(err))
		return failed(newResult(spec, opts), fmt.Errorf("failed to fetch %s: %w", spec.Adapter.Name(), err))
	}

	return ApplyPlan(ctx, spec, plan, opts)
}

func newResult(spec *Spec, opts Options) Result {
	return Result{
		Operation: spec.operation(),
		RunID:     opts.RunID,
		Target:    spec.Adapter.Name(),
		DryRun:    opts.DryRun,
		Timestamp: time.Now().UTC(),
	}
}
