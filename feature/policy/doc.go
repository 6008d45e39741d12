// Package policy implements the remote URL lists and the operations on them.
//
// # Targets
//
// ParseTarget accepts "deny"/"denylist", "allow"/"allowlist" and
// "category:<ID>". Unknown names are a *ValidationError and never reach the
// network.
//
// # Resources
//
//   - Denylist: /security/advanced/blacklistUrls, a bare array or an object
//     with "blacklistUrls". Written back in the shape it was read in.
//   - Allowlist: /security, the whole security object is echoed back with
//     only the list field replaced (allowlistUrls, allowlist_urls or
//     whitelistUrls).
//   - Category: /urlCategories/<ID>, the category object is echoed back with
//     "urls" replaced. A duplicate-item rejection counts as no change.
//
// # Service
//
// Service.Reconcile runs core/reconcile for one target, serializes writes per
// target, optionally activates the change and records the result.
// ReconcileMany runs independent targets concurrently.
//
// # HTTP
//
//	GET  /lists/:target
//	POST /lists/:target/reconcile   {"urls": [...], "dry_run": false}
//	POST /activate
package policy
