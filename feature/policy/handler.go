package policy

import (
	"errors"

	"url-policy-sync/core/logger"
	"url-policy-sync/core/reconcile"
	"url-policy-sync/core/transport"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ReconcileRequest is the body of a reconcile call.
type ReconcileRequest struct {
	URLs   []string `json:"urls" validate:"required,min=1,max=100000"`
	DryRun bool     `json:"dry_run"`
}

// Handler handles HTTP requests for policy lists.
type Handler struct {
	service  *Service
	logger   *zap.Logger
	validate *validator.Validate
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger, validate: validator.New()}
}

// RegisterRoutes registers the policy routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/lists")
	group.Get("/:target", h.HandleList)
	group.Post("/:target/reconcile", h.HandleReconcile)
	app.Post("/activate", h.HandleActivate)
}

// HandleList returns the current entries of a remote list.
// @Summary Get Remote List
// @Description Fetches the current URLs of the denylist, the allowlist or a URL category.
// @Tags policy
// @Produce json
// @Param target path string true "deny, allow or category:<ID>"
// @Success 200 {object} policy.Listing
// @Failure 422 {object} map[string]string "Invalid target"
// @Failure 502 {object} map[string]interface{} "Remote API failure"
// @Router /lists/{target} [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	target, err := ParseTarget(c.Params("target"))
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	listing, err := h.service.List(c.UserContext(), target)
	if err != nil {
		l.Error("List failed", zap.String("target", target.String()), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(remoteError(err))
	}

	return c.JSON(listing)
}

// HandleReconcile adds URLs to a remote list.
// @Summary Reconcile Remote List
// @Description Adds the submitted URLs missing from the list. Existing entries are never removed. With dry_run the delta is reported without writing.
// @Tags policy
// @Accept json
// @Produce json
// @Param target path string true "deny, allow or category:<ID>"
// @Param request body policy.ReconcileRequest true "URLs to add"
// @Success 200 {object} map[string]interface{} "Reconciliation result"
// @Failure 422 {object} map[string]string "Validation error"
// @Failure 502 {object} map[string]interface{} "Reconciliation result with status error"
// @Router /lists/{target}/reconcile [post]
func (h *Handler) HandleReconcile(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	target, err := ParseTarget(c.Params("target"))
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	var req ReconcileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid request body", "details": err.Error()})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid request body", "details": err.Error()})
	}

	l.Info("Reconciling list", zap.String("target", target.String()), zap.Int("submitted", len(req.URLs)), zap.Bool("dry_run", req.DryRun))
	result := h.service.Reconcile(c.UserContext(), target, req.URLs, req.DryRun)

	status := fiber.StatusOK
	if result.Failed() {
		status = fiber.StatusBadGateway
	}
	return c.Status(status).JSON(result)
}

// HandleActivate submits pending policy changes.
// @Summary Activate Changes
// @Description Activates pending configuration changes on the remote side.
// @Tags policy
// @Produce json
// @Success 200 {object} policy.Activation
// @Failure 502 {object} map[string]interface{} "Remote API failure"
// @Router /activate [post]
func (h *Handler) HandleActivate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	activation, err := h.service.Activate(c.UserContext())
	if err != nil {
		l.Error("Activation failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(remoteError(err))
	}
	return c.JSON(activation)
}

// remoteError describes a failed remote call, keeping the status and body
// excerpt of application errors.
func remoteError(err error) fiber.Map {
	body := fiber.Map{"status": reconcile.StatusError, "error": err.Error()}

	var appErr *transport.ApplicationError
	if errors.As(err, &appErr) {
		body["http_status"] = appErr.StatusCode
		body["error_body"] = appErr.Excerpt()
	}
	return body
}
