package cmd

import (
	"context"
	"errors"
	"fmt"

	"url-policy-sync/core/config"
	"url-policy-sync/core/database"
	"url-policy-sync/core/logger"
	"url-policy-sync/core/metrics"
	"url-policy-sync/core/storage"
	"url-policy-sync/core/transport"
	"url-policy-sync/feature/audit"
	"url-policy-sync/feature/policy"

	"go.uber.org/zap"
)

// errNoCredentials is returned when neither a session nor a token is set.
var errNoCredentials = errors.New("no remote credentials: set REMOTE_SESSION_ID (or ZIA_SESSION_ID) or REMOTE_API_TOKEN")

// application holds the components shared by the commands.
type application struct {
	cfg     *config.Config
	log     *zap.Logger
	metrics *metrics.Metrics
	client  *transport.Transport
	store   storage.Client
	history *audit.History
	service *policy.Service
	sources *policy.Sources
}

// bootstrap loads the configuration and wires every component.
// Optional components (database, storage) that fail are logged and skipped.
func bootstrap(ctx context.Context) (*application, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(log)

	app := &application{cfg: cfg, log: log, metrics: metrics.New()}

	app.client = transport.New(cfg.Remote,
		transport.WithLogger(log.Named("transport")),
		transport.WithMetrics(app.metrics),
	)
	log.Debug("Remote API", zap.String("endpoint", cfg.Remote.Endpoint()))

	if store, err := storage.NewClient(cfg.Storage); err != nil {
		log.Warn("Object storage unavailable", zap.Error(err))
	} else {
		app.store = store
	}
	app.sources = policy.NewSources(app.store, cfg.Storage.Bucket)

	var recorders audit.Multi
	if cfg.Sync.History {
		if history, err := openHistory(cfg.Database); err != nil {
			log.Warn("Run history disabled", zap.Error(err))
		} else {
			app.history = history
			recorders = append(recorders, history)
		}
	}
	if cfg.Sync.Archive && app.store != nil {
		if err := storage.EnsureBucket(ctx, app.store, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			log.Warn("Result archive disabled", zap.Error(err))
		} else {
			recorders = append(recorders, audit.NewArchive(app.store, cfg.Storage.Bucket, cfg.Sync.ArchivePrefix))
		}
	}

	opts := policy.Options{
		Activate:    cfg.Sync.Activate,
		Concurrency: cfg.Sync.Concurrency,
		Metrics:     app.metrics,
	}
	if len(recorders) > 0 {
		opts.Recorder = recorders
	}
	app.service = policy.NewService(app.client, log, opts)

	return app, nil
}

// requireCredentials fails commands that talk to the remote API without
// credentials.
func (a *application) requireCredentials() error {
	if a.cfg.Remote.Authenticator() == nil {
		return errNoCredentials
	}
	return nil
}

// openHistory connects to the database and prepares the runs table.
func openHistory(cfg database.Config) (*audit.History, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	history := audit.NewHistory(db)
	if cfg.AutoMigrate {
		err = history.Migrate()
	} else {
		err = history.Verify()
	}
	if err != nil {
		return nil, err
	}
	return history, nil
}

func (a *application) close() {
	_ = a.log.Sync()
}
