package reconcile

import (
	"go.uber.org/zap"
)

// Status is the terminal state of one reconciliation call.
type Status string

const (
	// StatusNoChange means every desired entry already exists remotely.
	StatusNoChange Status = "no_change"
	// StatusDryRun means entries are missing but no write was issued.
	StatusDryRun Status = "dry_run"
	// StatusUpdated means the merged list was written successfully.
	StatusUpdated Status = "updated"
	// StatusError means the fetch or the write failed.
	StatusError Status = "error"
)

// PolicyList is the current state of a remote list, fetched fresh for every
// reconciliation and discarded afterwards.
type PolicyList struct {
	// Target is the adapter name the list was read from.
	Target string

	// Entries are the normalized remote entries.
	Entries NormalizedSet

	// Carrier is the snapshot echoed back on update.
	Carrier Carrier

	// ShapeErr is set when the response could not be read and the list was
	// treated as empty.
	ShapeErr error
}

// Spec bundles the adapter and collaborators of a reconciliation.
type Spec struct {
	// Adapter provides resource-specific read and write logic.
	Adapter Adapter

	// Operation labels results, e.g. "bulk_update_denylist".
	// Defaults to "bulk_update_" + Adapter.Name().
	Operation string

	// Logger receives progress logs. Nil disables logging.
	Logger *zap.Logger
}

func (s *Spec) operation() string {
	if s.Operation != "" {
		return s.Operation
	}
	return "bulk_update_" + s.Adapter.Name()
}

func (s *Spec) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger.With(zap.String("target", s.Adapter.Name()))
}

// Options controls one reconciliation call.
type Options struct {
	// DryRun computes the delta without issuing the write.
	DryRun bool

	// RunID correlates the result with logs and audit records.
	RunID string
}

// Plan is the computed delta between desired and existing entries.
type Plan struct {
	// Existing is the fetched remote state.
	Existing *PolicyList

	// Desired is the normalized caller input.
	Desired NormalizedSet

	// Added are the desired entries missing remotely, in desired order.
	Added []string

	// Merged is Existing followed by Added: the full list to write.
	Merged []string
}

// ExistingCount returns the number of remote entries.
func (p *Plan) ExistingCount() int {
	return p.Existing.Entries.Len()
}

// FinalCount returns the number of entries after the write.
func (p *Plan) FinalCount() int {
	return p.ExistingCount() + len(p.Added)
}
