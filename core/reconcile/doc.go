// Package reconcile adds missing URL entries to a remote policy list.
//
// A reconciliation fetches the current list, normalizes both sides with
// case-insensitive comparison, and writes back the existing entries followed
// by the missing ones. It never removes or reorders remote entries.
//
// # Architecture
//
// 1. Normalize: cleans caller input into a NormalizedSet (trimmed, no blanks,
//    no comments, first occurrence wins).
//
// 2. Adapter: resource-specific read and write logic. Adapters use
//    ExtractList to read either a bare array or an object carrying the list,
//    and echo the Carrier back on write so unrelated fields are preserved.
//
// 3. BuildPlan / ApplyPlan: compute the delta, then write it unless the
//    delta is empty or the call is a dry run.
//
// # Usage Example
//
//	spec := &reconcile.Spec{Adapter: policy.NewDenylist(client), Logger: log}
//	result := reconcile.Reconcile(ctx, spec, reconcile.Normalize(lines), reconcile.Options{DryRun: true})
//	if result.Failed() {
//	    os.Exit(1)
//	}
//
// Every outcome is a Result, including fetch and write failures.
package reconcile
