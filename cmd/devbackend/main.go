package main

import (
	"context"
	"errors"
	"flag"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sngm3741/ku-toilet-map/web/internal/config"
	"github.com/sngm3741/ku-toilet-map/web/internal/devbackend"
	"github.com/sngm3741/ku-toilet-map/web/internal/infrastructure/observability"
)

type options struct {
	addr        string
	seedReviews int
	randomSeed  int64
}

func parseFlags(defaultAddr string) options {
	var opts options
	flag.StringVar(&opts.addr, "addr", defaultAddr, "listen address")
	flag.IntVar(&opts.seedReviews, "seed-reviews", 24, "number of random reviews to seed")
	flag.Int64Var(&opts.randomSeed, "random-seed", time.Now().UnixNano(), "random seed for generated reviews")
	flag.Parse()
	return opts
}

// devbackend はローカル開発用に上流 API を模したサーバーを起動する。
func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatal().Err(err).Msg("環境変数の読み込みに失敗しました")
	}
	opts := parseFlags(config.DevBackendAddr())
	logger := observability.InitLogger("ku-toilet-map-devbackend", "development")

	store := devbackend.NewSeededStore()
	rng := rand.New(rand.NewSource(opts.randomSeed))
	store.AddReviews(devbackend.RandomReviews(opts.seedReviews, rng, time.Now())...)

	httpServer := &http.Server{
		Addr:              opts.addr,
		Handler:           devbackend.NewServer(store, logger).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info().
		Str("addr", opts.addr).
		Int("reviews", opts.seedReviews).
		Str("adminToken", devbackend.AdminToken).
		Str("studentToken", devbackend.StudentToken).
		Msg("開発用バックエンド起動")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("サーバーが異常終了")
	}
}

