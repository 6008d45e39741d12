package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"url-policy-sync/core/database"
	"url-policy-sync/core/reconcile"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// setupMockDB creates a mock GORM DB for testing.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func setupSQLite(t *testing.T) *History {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	h := NewHistory(db)
	require.NoError(t, h.Migrate())
	return h
}

func sampleResult(runID, target string, status reconcile.Status, at time.Time) *reconcile.Result {
	return &reconcile.Result{
		Operation:     "bulk_update_" + target,
		RunID:         runID,
		Target:        target,
		Status:        status,
		Message:       "ok",
		ExistingCount: 2,
		Added:         []string{"z.com"},
		FinalCount:    3,
		Timestamp:     at,
	}
}

func TestHistory_RecordMySQL(t *testing.T) {
	db, mock := setupMockDB(t)
	h := NewHistory(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `runs`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := h.Record(context.Background(), sampleResult("run-1", "denylist", reconcile.StatusUpdated, time.Now()))
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistory_RecordFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	h := NewHistory(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `runs`").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := h.Record(context.Background(), sampleResult("run-1", "denylist", reconcile.StatusUpdated, time.Now()))
	assert.ErrorContains(t, err, "failed to save run run-1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistory_ListMySQL(t *testing.T) {
	db, mock := setupMockDB(t)
	h := NewHistory(db)

	rows := sqlmock.NewRows([]string{"id", "target", "status", "added", "created_at"}).
		AddRow("run-2", "allowlist", "no_change", "[]", time.Now()).
		AddRow("run-1", "denylist", "updated", `["z.com"]`, time.Now().Add(-time.Hour))
	mock.ExpectQuery("SELECT \\* FROM `runs` WHERE target = \\?").WillReturnRows(rows)

	runs, err := h.List(context.Background(), "denylist", 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, []string{"z.com"}, runs[1].AddedURLs())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistory_SQLite(t *testing.T) {
	h := setupSQLite(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, h.Record(ctx, sampleResult("run-1", "denylist", reconcile.StatusUpdated, base)))
	require.NoError(t, h.Record(ctx, sampleResult("run-2", "allowlist", reconcile.StatusDryRun, base.Add(time.Minute))))
	require.NoError(t, h.Record(ctx, sampleResult("run-3", "denylist", reconcile.StatusNoChange, base.Add(2*time.Minute))))

	t.Run("Most Recent First", func(t *testing.T) {
		runs, err := h.List(ctx, "", 0)
		require.NoError(t, err)
		require.Len(t, runs, 3)
		assert.Equal(t, "run-3", runs[0].ID)
		assert.Equal(t, "run-1", runs[2].ID)
		assert.Equal(t, 1, runs[2].AddedCount)
	})

	t.Run("Target Filter And Limit", func(t *testing.T) {
		runs, err := h.List(ctx, "denylist", 1)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, "run-3", runs[0].ID)
	})

	t.Run("Verify", func(t *testing.T) {
		assert.NoError(t, h.Verify())
	})
}

func TestHistory_VerifyMissingTable(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	err = NewHistory(db).Verify()
	assert.ErrorContains(t, err, "runs table is missing columns")
}

func TestNewRun(t *testing.T) {
	run := newRun(&reconcile.Result{RunID: "r", Target: "allowlist", Status: reconcile.StatusError, HTTPStatus: 400})

	assert.Equal(t, "[]", run.Added)
	assert.Equal(t, "error", run.Status)
	assert.Equal(t, 400, run.HTTPStatus)
	assert.False(t, run.CreatedAt.IsZero())
}
