package reconcile

import (
	"encoding/json"
	"time"
)

// Result is the outcome record of one reconciliation call. It is built once
// and not modified by the engine afterwards.
type Result struct {
	Operation     string    `json:"operation"`
	RunID         string    `json:"run_id"`
	Target        string    `json:"target"`
	Status        Status    `json:"status"`
	Message       string    `json:"message"`
	DryRun        bool      `json:"dry_run"`
	ExistingCount int       `json:"existing_count"`
	Added         []string  `json:"added"`
	FinalCount    int       `json:"final_count"`
	HTTPStatus    int       `json:"http_status"`
	ErrorBody     string    `json:"error_body"`
	Activation    string    `json:"activation"`
	Timestamp     time.Time `json:"timestamp"`
}

// Failed reports whether the result carries status error.
func (r Result) Failed() bool {
	return r.Status == StatusError
}

// AddedCount returns the number of added (or would-be added) entries.
func (r Result) AddedCount() int {
	return len(r.Added)
}

// record is the stable flat shape parsed by downstream automation.
// Dry-run results report would_add/would_add_count instead of added/added_count,
// and counts are omitted on error.
type record struct {
	Operation     string    `json:"operation,omitempty" yaml:"operation,omitempty"`
	RunID         string    `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Target        string    `json:"target,omitempty" yaml:"target,omitempty"`
	Status        Status    `json:"status" yaml:"status"`
	Message       string    `json:"message" yaml:"message"`
	ExistingCount *int      `json:"existing_count,omitempty" yaml:"existing_count,omitempty"`
	AddedCount    *int      `json:"added_count,omitempty" yaml:"added_count,omitempty"`
	Added         *[]string `json:"added,omitempty" yaml:"added,omitempty"`
	WouldAddCount *int      `json:"would_add_count,omitempty" yaml:"would_add_count,omitempty"`
	WouldAdd      *[]string `json:"would_add,omitempty" yaml:"would_add,omitempty"`
	FinalCount    *int      `json:"final_count,omitempty" yaml:"final_count,omitempty"`
	HTTPStatus    int       `json:"http_status,omitempty" yaml:"http_status,omitempty"`
	ErrorBody     string    `json:"error_body,omitempty" yaml:"error_body,omitempty"`
	Activation    string    `json:"activation,omitempty" yaml:"activation,omitempty"`
	Timestamp     string    `json:"timestamp" yaml:"timestamp"`
}

func (r Result) record() record {
	rec := record{
		Operation:  r.Operation,
		RunID:      r.RunID,
		Target:     r.Target,
		Status:     r.Status,
		Message:    r.Message,
		HTTPStatus: r.HTTPStatus,
		ErrorBody:  r.ErrorBody,
		Activation: r.Activation,
		Timestamp:  r.Timestamp.Format(time.RFC3339),
	}

	if r.Status == StatusError {
		return rec
	}

	added := r.Added
	if added == nil {
		added = []string{}
	}
	existing, count, final := r.ExistingCount, len(added), r.FinalCount

	rec.ExistingCount = &existing
	rec.FinalCount = &final
	if r.Status == StatusDryRun {
		rec.WouldAddCount = &count
		rec.WouldAdd = &added
	} else {
		rec.AddedCount = &count
		rec.Added = &added
	}
	return rec
}

// MarshalJSON renders the flat result record.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.record())
}

// MarshalYAML renders the same record as MarshalJSON.
func (r Result) MarshalYAML() (any, error) {
	return r.record(), nil
}
