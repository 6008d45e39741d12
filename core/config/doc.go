// Package config provides configuration management for url-policy-sync.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file. Defaults come from `default` struct tags.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Remote: policy API endpoint, credentials, timeout and retry policy
//   - Sync: activation, history and archive switches
//   - Database: MySQL or SQLite connection details
//   - Storage: S3/MinIO credentials and bucket settings
//   - Log: Logging level, format and optional file
//
// The legacy ZIA_CLOUD, ZIA_SESSION_ID, ZIA_API_TOKEN and ZIA_BASE_URL
// variables are honored when the REMOTE_* names are unset.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
