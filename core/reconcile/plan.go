package reconcile

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"url-policy-sync/core/transport"

	"go.uber.org/zap"
)

// BuildPlan fetches the remote list and computes the entries to add.
// It does NOT write anything; use ApplyPlan for that.
func BuildPlan(ctx context.Context, spec *Spec, desired NormalizedSet) (*Plan, error) {
	log := spec.logger()

	existing, err := spec.Adapter.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if existing.ShapeErr != nil {
		log.Warn("Remote list could not be parsed; treating it as empty", zap.Error(existing.ShapeErr))
	}

	added := desired.Difference(existing.Entries)
	merged := append(existing.Entries.Entries(), added...)

	log.Info("Computed reconciliation plan",
		zap.Int("desired", desired.Len()),
		zap.Int("existing", existing.Entries.Len()),
		zap.Int("added", len(added)),
	)

	return &Plan{
		Existing: existing,
		Desired:  desired,
		Added:    added,
		Merged:   merged,
	}, nil
}

// ApplyPlan writes plan.Merged through the adapter and classifies the outcome.
// A dry-run or empty plan never reaches the adapter.
func ApplyPlan(ctx context.Context, spec *Spec, plan *Plan, opts Options) Result {
	log := spec.logger()
	result := newResult(spec, opts)
	result.ExistingCount = plan.ExistingCount()

	if len(plan.Added) == 0 {
		return noChange(result, "All URLs already exist")
	}
	if opts.DryRun {
		return dryRun(result, plan)
	}

	log.Info("Updating remote list",
		zap.Int("from", plan.ExistingCount()),
		zap.Int("to", len(plan.Merged)),
	)

	resp, err := spec.Adapter.Write(ctx, plan.Existing, plan.Merged)
	if err != nil {
		log.Error("Update failed", zap.Error(err))
		return failed(result, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNoContent:
		result.Status = StatusUpdated
		result.Message = fmt.Sprintf("%s updated successfully", spec.Adapter.Name())
		result.Added = plan.Added
		result.FinalCount = plan.FinalCount()
		log.Info("Remote list updated", zap.Int("added", len(plan.Added)))
		return result

	case isAlreadyPresent(spec.Adapter, resp):
		log.Info("Remote reports entries already present", zap.Int("status", resp.StatusCode))
		return noChange(result, "Remote reports all URLs already exist")

	default:
		log.Error("Update rejected", zap.Int("status", resp.StatusCode), zap.String("body", resp.Excerpt()))
		result.Status = StatusError
		result.Message = fmt.Sprintf("API returned status %d", resp.StatusCode)
		result.HTTPStatus = resp.StatusCode
		result.ErrorBody = resp.Excerpt()
		return result
	}
}

func isAlreadyPresent(adapter Adapter, resp *transport.Response) bool {
	if resp.StatusCode < 400 {
		return false
	}
	classifier, ok := adapter.(ConflictClassifier)
	return ok && classifier.AlreadyPresent(resp)
}

func noChange(result Result, message string) Result {
	result.Status = StatusNoChange
	result.Message = message
	result.Added = []string{}
	result.FinalCount = result.ExistingCount
	return result
}

func dryRun(result Result, plan *Plan) Result {
	result.Status = StatusDryRun
	result.Message = "Dry-run completed successfully"
	result.Added = plan.Added
	result.FinalCount = plan.FinalCount()
	return result
}

// failed converts err into an error result, keeping the HTTP status and body
// excerpt of application errors.
func failed(result Result, err error) Result {
	result.Status = StatusError
	result.Message = err.Error()
	result.Added = nil
	result.FinalCount = 0

	var appErr *transport.ApplicationError
	if errors.As(err, &appErr) {
		result.HTTPStatus = appErr.StatusCode
		result.ErrorBody = appErr.Excerpt()
	}
	return result
}
