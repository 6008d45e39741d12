package audit

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	history *History
	handler *Handler
}

// NewFeature creates the audit feature. A nil history disables it.
func NewFeature(history *History, logger *zap.Logger, target TargetFunc) *Feature {
	f := &Feature{history: history}
	if history != nil {
		f.handler = NewHandler(history, logger, target)
	}
	return f
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "audit"
}

// IsEnabled reports whether a history database is available.
func (f *Feature) IsEnabled() bool {
	return f.history != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
