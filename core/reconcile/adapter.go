package reconcile

import (
	"context"

	"url-policy-sync/core/transport"
)

// Adapter defines the resource-specific part of a reconciliation.
// Each adapter knows how to read one remote list (denylist, allowlist, URL
// category) and how to submit its replacement.
type Adapter interface {
	// Name returns the unique target name (e.g., "denylist", "category:CUSTOM_01").
	Name() string

	// Fetch reads the current remote state. Transport failures and HTTP errors
	// are returned as errors; unreadable shapes yield an empty PolicyList with
	// ShapeErr set.
	Fetch(ctx context.Context) (*PolicyList, error)

	// Write replaces the remote list with merged, echoing back every other
	// field of list.Carrier. The response is returned unclassified; an error
	// means no response was obtained.
	Write(ctx context.Context, list *PolicyList, merged []string) (*transport.Response, error)
}

// ConflictClassifier is implemented by adapters whose remote rejects a write
// with an "already exists" style error when entries are present. Such a
// rejection is reported as StatusNoChange.
type ConflictClassifier interface {
	AlreadyPresent(resp *transport.Response) bool
}
