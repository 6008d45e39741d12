package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"url-policy-sync/core/loader"
	"url-policy-sync/core/logger"
	"url-policy-sync/core/middleware/auth"
	"url-policy-sync/core/middleware/rayid"
	"url-policy-sync/feature/audit"
	"url-policy-sync/feature/policy"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "url-policy-sync/docs/swagger"
)

// @title URL Policy Sync API
// @version 1.0
// @description Reconciles URL denylists, allowlists and URL categories of a cloud security policy.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the HTTP API server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer app.close()
		logg := app.log

		if err := app.requireCredentials(); err != nil {
			logg.Warn("Remote calls will be rejected", zap.Error(err))
		}

		server := newServer(app)

		go func() {
			logg.Info("Starting server", zap.String("port", app.cfg.Server.Port))
			if err := server.Listen(app.cfg.Server.Address()); err != nil {
				logg.Error("Server stopped", zap.Error(err))
				stop()
			}
		}()

		<-ctx.Done()
		logg.Info("Shutting down server...")
		return server.ShutdownWithTimeout(10 * time.Second)
	},
}

// publicPaths are served without an API key.
var publicPaths = []string{"/healthz", "/metrics", "/swagger"}

// newServer builds the fiber app with middleware and features.
func newServer(app *application) *fiber.App {
	logg := app.log

	server := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             app.cfg.Server.BodyLimit(),
	})

	// RayID first so every later log line carries it
	server.Use(rayid.New())

	server.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		start := time.Now()
		err := c.Next()
		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
		}
		if err != nil {
			l.Error("Request error", append(fields, zap.Error(err))...)
			return err
		}
		l.Info("Request", fields...)
		return nil
	})

	server.Use(auth.New(auth.Config{ApiKey: app.cfg.Server.ApiKey, Public: publicPaths}))
	if !app.cfg.Server.Protected() {
		logg.Warn("SERVER_API_KEY is empty; the API is not protected")
	}

	server.Get("/swagger/*", swagger.HandlerDefault)
	server.Get("/metrics", adaptor.HTTPHandler(app.metrics.Handler()))
	server.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	mgr := loader.NewManager()
	mgr.Register(policy.NewFeature(app.service, logg))
	mgr.Register(audit.NewFeature(app.history, logg, policy.CanonicalTarget))

	if err := mgr.LoadAll(server); err != nil {
		logg.Fatal("Failed to load features", zap.Error(err))
	}
	for _, f := range mgr.Features() {
		logg.Debug("Feature", zap.String("name", f.Name()), zap.Bool("enabled", f.IsEnabled()))
	}

	return server
}

func init() {
	RootCmd.AddCommand(startCmd)
}
