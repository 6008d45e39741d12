package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"url-policy-sync/core/database"
	"url-policy-sync/core/reconcile"

	"gorm.io/gorm"
)

// DefaultListLimit is the number of runs returned when no limit is given.
const DefaultListLimit = 50

// MaxListLimit caps a single history page.
const MaxListLimit = 500

// Run is one stored reconciliation result.
type Run struct {
	ID            string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	Operation     string    `gorm:"column:operation;size:128" json:"operation"`
	Target        string    `gorm:"column:target;size:128;index" json:"target"`
	Status        string    `gorm:"column:status;size:16;index" json:"status"`
	DryRun        bool      `gorm:"column:dry_run" json:"dry_run"`
	ExistingCount int       `gorm:"column:existing_count" json:"existing_count"`
	AddedCount    int       `gorm:"column:added_count" json:"added_count"`
	FinalCount    int       `gorm:"column:final_count" json:"final_count"`
	HTTPStatus    int       `gorm:"column:http_status" json:"http_status,omitempty"`
	Message       string    `gorm:"column:message;type:text" json:"message"`
	Activation    string    `gorm:"column:activation;size:255" json:"activation,omitempty"`
	Added         string    `gorm:"column:added;type:text" json:"-"`
	CreatedAt     time.Time `gorm:"column:created_at;index" json:"created_at"`
}

// TableName overrides the table name.
func (Run) TableName() string {
	return "runs"
}

// AddedURLs decodes the stored added entries.
func (r Run) AddedURLs() []string {
	out := []string{}
	if r.Added != "" {
		_ = json.Unmarshal([]byte(r.Added), &out)
	}
	return out
}

// runColumns are required by Verify.
var runColumns = []string{
	"id", "operation", "target", "status", "dry_run", "existing_count",
	"added_count", "final_count", "http_status", "message", "activation", "added", "created_at",
}

// History stores results in the runs table.
type History struct {
	db *gorm.DB
}

// NewHistory creates a History on db.
func NewHistory(db *gorm.DB) *History {
	return &History{db: db}
}

// Migrate creates or updates the runs table.
func (h *History) Migrate() error {
	if err := h.db.AutoMigrate(&Run{}); err != nil {
		return fmt.Errorf("failed to migrate runs table: %w", err)
	}
	return nil
}

// Verify checks that the runs table has every column History writes.
func (h *History) Verify() error {
	missing, err := database.MissingColumns(h.db, Run{}.TableName(), runColumns)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("runs table is missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Record implements Recorder.
func (h *History) Record(ctx context.Context, result *reconcile.Result) error {
	return h.Save(ctx, newRun(result))
}

// Save inserts a run.
func (h *History) Save(ctx context.Context, run *Run) error {
	if err := h.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}
	return nil
}

// List returns the most recent runs first. target filters when non-empty.
func (h *History) List(ctx context.Context, target string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	query := h.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if target != "" {
		query = query.Where("target = ?", target)
	}

	var runs []Run
	if err := query.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

func newRun(result *reconcile.Result) *Run {
	added, _ := json.Marshal(result.Added)
	if result.Added == nil {
		added = []byte("[]")
	}

	created := result.Timestamp
	if created.IsZero() {
		created = time.Now().UTC()
	}

	return &Run{
		ID:            result.RunID,
		Operation:     result.Operation,
		Target:        result.Target,
		Status:        string(result.Status),
		DryRun:        result.DryRun,
		ExistingCount: result.ExistingCount,
		AddedCount:    result.AddedCount(),
		FinalCount:    result.FinalCount,
		HTTPStatus:    result.HTTPStatus,
		Message:       result.Message,
		Activation:    result.Activation,
		Added:         string(added),
		CreatedAt:     created,
	}
}
