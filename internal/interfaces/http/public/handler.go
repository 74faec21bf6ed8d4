package public

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/sngm3741/ku-toilet-map/web/internal/interfaces/http/common"
	publicapp "github.com/sngm3741/ku-toilet-map/web/internal/public/application"
	"github.com/sngm3741/ku-toilet-map/web/internal/session"
)

const defaultPhotoTimeout = 10 * time.Second

// Handler は公開エンドポイントをアプリケーションサービスへ繋ぐ。
type Handler struct {
	logger       zerolog.Logger
	catalog      *publicapp.CatalogService
	submissions  *publicapp.ReviewSubmissionService
	sessions     *session.CookieStore
	identity     session.IdentityProvider
	httpClient   *http.Client
	photoTimeout time.Duration
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger       zerolog.Logger
	Catalog      *publicapp.CatalogService
	Submissions  *publicapp.ReviewSubmissionService
	Sessions     *session.CookieStore
	Identity     session.IdentityProvider
	HTTPClient   *http.Client
	PhotoTimeout time.Duration
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	timeout := cfg.PhotoTimeout
	if timeout <= 0 {
		timeout = defaultPhotoTimeout
	}
	return &Handler{
		logger:       cfg.Logger.With().Str("component", "public_http").Logger(),
		catalog:      cfg.Catalog,
		submissions:  cfg.Submissions,
		sessions:     cfg.Sessions,
		identity:     cfg.Identity,
		httpClient:   client,
		photoTimeout: timeout,
	}
}

// Register mounts all public routes onto the router. Session loading is expected
// to run upstream of r (common.SessionMiddleware).
func (h *Handler) Register(r chi.Router) {
	requireUser := common.RequireUser(h.logger)

	r.Get("/restrooms", h.restroomListHandler())
	r.Get("/restrooms/markers", h.markerListHandler())
	r.Get("/restrooms/{id}", h.restroomDetailHandler())
	r.Post("/restrooms/{id}/reviews", h.reviewCreateHandler())
	r.Get("/photos", h.photoProxyHandler())
	r.Get("/photos/placeholder.svg", h.placeholderHandler())
	r.Post("/ui/transition", h.transitionHandler())

	r.Post("/auth/google", h.googleSignInHandler())
	r.Post("/auth/logout", h.logoutHandler())
	r.Get("/auth/me", h.sessionHandler())
	r.With(requireUser).Get("/me/reviews", h.myReviewsHandler())
}
