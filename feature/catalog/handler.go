package catalog

import (
	"context"
	"strconv"
	"time"

	"catalog-sync/core/errors"
	"catalog-sync/core/logger"
	"catalog-sync/core/syncengine"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	service     *Service
	syncTimeout time.Duration
}

// NewHandler creates a new HTTP handler. syncTimeout bounds a sync request, 0 means no bound.
func NewHandler(service *Service, syncTimeout time.Duration) *Handler {
	return &Handler{service: service, syncTimeout: syncTimeout}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/sync/runs", h.HandleListRuns)
	app.Get("/sync/runs/:id", h.HandleGetRun)
	app.Post("/sync/:kind", h.HandleSync)
	app.Get("/records/:kind/:id", h.HandleGetRecord)
	app.Get("/categories/:vocabulary", h.HandleListCategories)
	app.Get("/media/:name", h.HandleGetMedia)
}

// HandleSync runs a synchronization of one kind.
// @Summary Synchronize a kind
// @Description Fetches every configured page of the kind and upserts each item. Item failures are reported, not fatal.
// @Tags sync
// @Produce json
// @Param kind path string true "Kind (character, location, episode)"
// @Param strict query bool false "Fail the run on the first failed page"
// @Param concurrency query int false "Pages fetched in parallel"
// @Success 200 {object} syncengine.Report "Sync report"
// @Failure 400 {object} map[string]string "Unknown kind or invalid configuration"
// @Failure 409 {object} map[string]string "A sync of this kind is already running"
// @Failure 502 {object} syncengine.Report "Catalog unreachable"
// @Failure 504 {object} syncengine.Report "Sync timed out"
// @Router /sync/{kind} [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	kind := c.Params("kind")
	l := logger.WithRayID(h.service.logger, c)

	ctx := c.UserContext()
	if h.syncTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.syncTimeout)
		defer cancel()
	}

	report, err := h.service.Sync(ctx, kind, syncengine.Options{
		Strict:      c.QueryBool("strict"),
		Concurrency: c.QueryInt("concurrency"),
	})
	if err == nil {
		return c.JSON(report)
	}

	status := statusFor(err)
	l.Error("Sync request failed", zap.String("kind", kind), zap.Int("status", status), zap.Error(err))
	if report != nil {
		return c.Status(status).JSON(report)
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// HandleListRuns lists recent sync runs.
// @Summary List sync runs
// @Description Returns the most recent sync runs, newest first.
// @Tags sync
// @Produce json
// @Param kind query string false "Only runs of this kind"
// @Param limit query int false "Maximum number of runs (default 20, max 200)"
// @Success 200 {array} models.SyncRun "Sync runs"
// @Failure 400 {object} map[string]string "Unknown kind"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/runs [get]
func (h *Handler) HandleListRuns(c *fiber.Ctx) error {
	runs, err := h.service.Runs(c.UserContext(), c.Query("kind"), c.QueryInt("limit"))
	if err != nil {
		return h.fail(c, "List runs failed", err)
	}
	return c.JSON(runs)
}

// HandleGetRun returns one sync run.
// @Summary Get sync run
// @Description Returns the persisted report of a sync run by its run id.
// @Tags sync
// @Produce json
// @Param id path string true "Run id"
// @Success 200 {object} models.SyncRun "Sync run"
// @Failure 404 {object} map[string]string "Run not found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/runs/{id} [get]
func (h *Handler) HandleGetRun(c *fiber.Ctx) error {
	run, err := h.service.Run(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, "Get run failed", err)
	}
	if run == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "run not found"})
	}
	return c.JSON(run)
}

// HandleListCategories lists the categories of a vocabulary.
// @Summary List categories
// @Description Returns every category of a vocabulary ordered by name.
// @Tags categories
// @Produce json
// @Param vocabulary path string true "Vocabulary (e.g. 'character_species')"
// @Success 200 {array} models.Category "Categories"
// @Failure 400 {object} map[string]string "Unknown vocabulary"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /categories/{vocabulary} [get]
func (h *Handler) HandleListCategories(c *fiber.Ctx) error {
	categories, err := h.service.Categories(c.UserContext(), c.Params("vocabulary"))
	if err != nil {
		return h.fail(c, "List categories failed", err)
	}
	return c.JSON(categories)
}

// HandleGetRecord returns one stored record.
// @Summary Get record
// @Description Returns a synchronized record with its category names and media.
// @Tags records
// @Produce json
// @Param kind path string true "Kind (character, location, episode)"
// @Param id path int true "Catalog id"
// @Success 200 {object} store.RecordView "Record"
// @Failure 400 {object} map[string]string "Unknown kind or invalid id"
// @Failure 404 {object} map[string]string "Record not found"
// @Router /records/{kind}/{id} [get]
func (h *Handler) HandleGetRecord(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id must be an integer"})
	}

	record, err := h.service.Record(c.UserContext(), c.Params("kind"), id)
	if err != nil {
		return h.fail(c, "Get record failed", err)
	}
	if record == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "record not found"})
	}
	return c.JSON(record)
}

// HandleGetMedia streams a stored image.
// @Summary Get media
// @Description Streams the stored content of a media asset by its logical name.
// @Tags media
// @Produce octet-stream
// @Param name path string true "Logical name (e.g. 'rick-sanchez')"
// @Success 200 {file} binary "Media content"
// @Failure 404 {object} map[string]string "Media not found"
// @Router /media/{name} [get]
func (h *Handler) HandleGetMedia(c *fiber.Ctx) error {
	asset, content, err := h.service.Media(c.UserContext(), c.Params("name"))
	if err != nil {
		return h.fail(c, "Get media failed", err)
	}
	if asset == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "media not found"})
	}

	if asset.ContentType != "" {
		c.Set(fiber.HeaderContentType, asset.ContentType)
	}
	return c.SendStream(content, int(asset.Size))
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	status := statusFor(err)
	logger.WithRayID(h.service.logger, c).Error(msg, zap.Int("status", status), zap.Error(err))
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func statusFor(err error) int {
	switch errors.Classify(err) {
	case errors.CategoryConflict:
		return fiber.StatusConflict
	case errors.CategoryConfiguration, errors.CategoryValidation:
		return fiber.StatusBadRequest
	case errors.CategoryTransport:
		return fiber.StatusBadGateway
	case errors.CategoryCancellation:
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusInternalServerError
	}
}
