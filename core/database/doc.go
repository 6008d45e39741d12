// Package database handles database connections and schema inspection.
//
// It wraps GORM to open MySQL or SQLite connections from the application
// configuration. The run history of the audit feature is stored here.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns read the live schema so a deployment
// that disables auto-migration can still fail fast on a missing column.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("Database unavailable", zap.Error(err))
//	}
//
//	missing, err := database.MissingColumns(db, "runs", []string{"id", "status"})
package database
