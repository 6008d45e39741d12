// Package metrics exposes Prometheus collectors for remote API calls and
// reconciliation outcomes.
//
// The collectors live on a private registry so tests and multiple server
// instances never clash with the global default registry. The start command
// serves them on /metrics.
package metrics
