package audit

import (
	"url-policy-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RunView is the API representation of a stored run.
type RunView struct {
	Run
	AddedURLs []string `json:"added"`
}

// TargetFunc maps a user supplied target name to the name runs are stored
// under. It rejects unknown names.
type TargetFunc func(name string) (string, error)

// Handler serves the run history.
type Handler struct {
	history *History
	logger  *zap.Logger
	target  TargetFunc
}

// NewHandler creates a new HTTP handler. A nil target func uses filter
// values as given.
func NewHandler(history *History, logger *zap.Logger, target TargetFunc) *Handler {
	return &Handler{history: history, logger: logger, target: target}
}

// RegisterRoutes registers the audit routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/runs", h.HandleListRuns)
}

// HandleListRuns returns recent reconciliation runs.
// @Summary List Runs
// @Description Returns stored reconciliation results, most recent first.
// @Tags audit
// @Produce json
// @Param limit query int false "Maximum number of runs (default 50, max 500)"
// @Param target query string false "Only runs of this target"
// @Success 200 {array} audit.RunView
// @Failure 422 {object} map[string]string "Invalid target"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /runs [get]
func (h *Handler) HandleListRuns(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	target := c.Query("target")
	if target != "" && h.target != nil {
		canonical, err := h.target(target)
		if err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		}
		target = canonical
	}

	runs, err := h.history.List(c.UserContext(), target, c.QueryInt("limit", DefaultListLimit))
	if err != nil {
		l.Error("Failed to list runs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	views := make([]RunView, 0, len(runs))
	for _, run := range runs {
		views = append(views, RunView{Run: run, AddedURLs: run.AddedURLs()})
	}
	return c.JSON(views)
}
