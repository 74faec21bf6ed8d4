package admin

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	adminapp "github.com/sngm3741/ku-toilet-map/web/internal/admin/application"
	"github.com/sngm3741/ku-toilet-map/web/internal/interfaces/http/common"
	publicapp "github.com/sngm3741/ku-toilet-map/web/internal/public/application"
)

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger     zerolog.Logger
	moderation *adminapp.ModerationService
	catalog    *publicapp.CatalogService
	failures   publicapp.SubmissionFailureReader
}

// Config provides dependencies for Handler. Failures may be nil when no
// submission log is configured.
type Config struct {
	Logger     zerolog.Logger
	Moderation *adminapp.ModerationService
	Catalog    *publicapp.CatalogService
	Failures   publicapp.SubmissionFailureReader
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:     cfg.Logger.With().Str("component", "admin_http").Logger(),
		moderation: cfg.Moderation,
		catalog:    cfg.Catalog,
		failures:   cfg.Failures,
	}
}

// Register mounts admin routes onto router. Every route requires the administrator.
func (h *Handler) Register(r chi.Router) {
	r.Use(common.RequireAdmin(h.logger))

	r.Get("/reviews", h.reviewListHandler())
	r.Post("/reviews/{id}/delete-confirmation", h.reviewDeleteConfirmationHandler())
	r.Delete("/reviews/{id}", h.reviewDeleteHandler())
	r.Get("/submissions/failures", h.submissionFailuresHandler())
	r.Post("/catalog/refresh", h.catalogRefreshHandler())
}
