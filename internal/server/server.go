package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/sync/errgroup"

	adminapp "github.com/sngm3741/ku-toilet-map/web/internal/admin/application"
	"github.com/sngm3741/ku-toilet-map/web/internal/config"
	"github.com/sngm3741/ku-toilet-map/web/internal/infrastructure/backend"
	mongodoc "github.com/sngm3741/ku-toilet-map/web/internal/infrastructure/mongo"
	"github.com/sngm3741/ku-toilet-map/web/internal/infrastructure/observability"
	adminhttp "github.com/sngm3741/ku-toilet-map/web/internal/interfaces/http/admin"
	commonhttp "github.com/sngm3741/ku-toilet-map/web/internal/interfaces/http/common"
	publichttp "github.com/sngm3741/ku-toilet-map/web/internal/interfaces/http/public"
	publicapp "github.com/sngm3741/ku-toilet-map/web/internal/public/application"
	"github.com/sngm3741/ku-toilet-map/web/internal/session"
)

// Server は HTTP サーバーのライフサイクルを管理し、Public/Admin の各ハンドラへ依存注入するコンポジションルート。
type Server struct {
	logger          zerolog.Logger
	client          *mongo.Client
	submissionLog   *mongodoc.SubmissionLogRepository
	catalog         *publicapp.CatalogService
	sessions        *session.CookieStore
	publicHandler   *publichttp.Handler
	adminHandler    *adminhttp.Handler
	addr            string
	allowedOrigins  []string
	refreshInterval time.Duration
}

// New は Config と（任意の）Mongo クライアントからサービスとハンドラを組み立てる。
// client が nil の場合、投稿ログは記録しない。
func New(cfg config.Config, logger zerolog.Logger, client *mongo.Client) (*Server, error) {
	codec, err := session.NewCodec(cfg.SessionSecret)
	if err != nil {
		return nil, fmt.Errorf("session codec: %w", err)
	}
	upstream := backend.NewClient(cfg.UpstreamURL, cfg.UpstreamTimeout)

	srv := &Server{
		logger:          logger,
		client:          client,
		sessions:        session.NewCookieStore(codec, cfg.SessionCookieSecure),
		addr:            cfg.Addr,
		allowedOrigins:  append([]string(nil), cfg.AllowedOrigins...),
		refreshInterval: cfg.CatalogRefreshInterval,
	}

	var (
		submissionLog publicapp.SubmissionLog = publicapp.NopSubmissionLog{}
		failures      publicapp.SubmissionFailureReader
	)
	if client != nil {
		srv.submissionLog = mongodoc.NewSubmissionLogRepository(client.Database(cfg.MongoDatabase), cfg.SubmissionLogCollection)
		submissionLog = srv.submissionLog
		failures = srv.submissionLog
	}

	book := publicapp.NewReviewBook()
	srv.catalog = publicapp.NewCatalogService(upstream, book, logger)
	submissions := publicapp.NewReviewSubmissionService(srv.catalog, book, upstream, submissionLog, logger)
	moderation := adminapp.NewModerationService(upstream, codec, book, adminapp.DefaultConfirmationTTL, logger)

	srv.publicHandler = publichttp.NewHandler(publichttp.Config{
		Logger:       logger,
		Catalog:      srv.catalog,
		Submissions:  submissions,
		Sessions:     srv.sessions,
		Identity:     upstream,
		HTTPClient:   &http.Client{},
		PhotoTimeout: cfg.PhotoProxyTimeout,
	})
	srv.adminHandler = adminhttp.NewHandler(adminhttp.Config{
		Logger:     logger,
		Moderation: moderation,
		Catalog:    srv.catalog,
		Failures:   failures,
	})
	return srv, nil
}

// Catalog exposes the catalog service for startup loading and tests.
func (s *Server) Catalog() *publicapp.CatalogService {
	return s.catalog
}

// Handler はルーティングとミドルウェアを組み立てる。
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(observability.RequestLogger(s.logger))
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())
	router.Route("/api", func(r chi.Router) {
		r.Use(commonhttp.SessionMiddleware(s.sessions))
		s.publicHandler.Register(r)
		r.Route("/admin", s.adminHandler.Register)
	})
	return router
}

// Run は初回のカタログ読み込み後、HTTP サーバー・定期リフレッシュ・シグナル待ちを
// 一つの errgroup で動かす。どれかが終了すると全体を停止する。
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if s.submissionLog != nil {
		indexCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := s.submissionLog.EnsureIndexes(indexCtx); err != nil {
			s.logger.Warn().Err(err).Msg("投稿ログのインデックス作成に失敗")
		}
		cancel()
	}

	if err := s.catalog.Load(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("初回のカタログ読み込みに失敗。空の一覧で起動します")
	}

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		s.logger.Info().Str("addr", s.addr).Msg("HTTP サーバー起動")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		return s.catalog.RunRefresher(groupCtx, s.refreshInterval)
	})
	group.Go(func() error {
		return waitForShutdown(groupCtx, httpServer, s.logger)
	})

	err := group.Wait()
	s.shutdown(context.Background())
	return err
}

// waitForShutdown はシグナル受信またはグループの終了を待ち、graceful shutdown を行う。
func waitForShutdown(ctx context.Context, httpServer *http.Server, logger zerolog.Logger) error {
	<-ctx.Done()
	logger.Info().Msg("サーバー停止処理を開始します")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// shutdown は MongoDB クライアントをタイムアウト付きで切断する。
func (s *Server) shutdown(ctx context.Context) {
	if s.client == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("MongoDB 切断時にエラー")
	}
}

// withCORS は許可されたオリジン情報をもとに CORS ヘッダーを付与するミドルウェアを返す。
// セッションは Cookie なので、明示的に許可されたオリジンにのみ credentials を許す。
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			listed := originAllowed(origin, allowed)
			if origin == "" || (!allowAll && len(allowed) > 0 && !listed) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Max-Age", "300")
			if len(allowed) > 0 && listed {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// originAllowed は指定された Origin が許可リストに含まれるか判定する。
func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler はカタログの読み込み状況と、設定されていれば MongoDB の疎通を返す。
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{
			"status":    "ok",
			"time":      time.Now().Format(time.RFC3339),
			"restrooms": len(s.catalog.Snapshot()),
		}
		if loadedAt := s.catalog.LoadedAt(); !loadedAt.IsZero() {
			payload["catalogLoadedAt"] = loadedAt.Format(time.RFC3339)
		}

		if s.client != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
				payload["status"] = "degraded"
				payload["error"] = err.Error()
				commonhttp.WriteJSON(s.logger, w, http.StatusServiceUnavailable, payload)
				return
			}
		}
		commonhttp.WriteJSON(s.logger, w, http.StatusOK, payload)
	}
}
