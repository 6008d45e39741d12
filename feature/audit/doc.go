// Package audit records reconciliation results.
//
// History stores every result in the runs table (MySQL or SQLite through
// GORM) and serves it on GET /runs. Archive uploads each result as JSON to
// object storage under <prefix>/<target>/<timestamp>-<run_id>.json.
// Multi combines both.
package audit
