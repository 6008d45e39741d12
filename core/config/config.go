package config

import (
	"reflect"
	"strings"

	"url-policy-sync/core/database"
	"url-policy-sync/core/logger"
	"url-policy-sync/core/server"
	"url-policy-sync/core/storage"
	"url-policy-sync/core/transport"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Remote holds the policy API endpoint, credentials and retry policy.
	Remote transport.Config `mapstructure:"remote"`
	// Sync holds reconciliation behaviour.
	Sync SyncConfig `mapstructure:"sync"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
}

// SyncConfig controls what happens around a reconciliation.
type SyncConfig struct {
	// Activate submits pending changes after a successful update.
	Activate bool `mapstructure:"activate" default:"false"`
	// History stores every result in the database.
	History bool `mapstructure:"history" default:"false"`
	// Archive uploads every result to object storage.
	Archive bool `mapstructure:"archive" default:"false"`
	// ArchivePrefix is the object key prefix of archived results.
	ArchivePrefix string `mapstructure:"archive_prefix" default:"runs"`
	// Concurrency bounds how many targets are reconciled at once.
	Concurrency int `mapstructure:"concurrency" default:"4" validate:"min=1,max=32"`
}

// legacyEnv maps keys to the environment names used by earlier deployments.
var legacyEnv = map[string]string{
	"remote.cloud":      "ZIA_CLOUD",
	"remote.session_id": "ZIA_SESSION_ID",
	"remote.api_token":  "ZIA_API_TOKEN",
	"remote.base_url":   "ZIA_BASE_URL",
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." || path == "" {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		if err := v.BindEnv(key, strings.ToUpper(strings.ReplaceAll(key, ".", "_")), legacy); err != nil {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
