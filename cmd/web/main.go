package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/ku-toilet-map/web/internal/config"
	"github.com/sngm3741/ku-toilet-map/web/internal/infrastructure/observability"
	"github.com/sngm3741/ku-toilet-map/web/internal/server"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatal().Err(err).Msg("環境変数の読み込みに失敗しました")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("設定の読み込みに失敗しました")
	}
	logger := observability.InitLogger(cfg.ServiceName, cfg.Env)

	var client *mongo.Client
	if cfg.MongoURI != "" {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnectTimeout)
		clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
		client, err = mongo.Connect(ctx, clientOptions)
		cancel()
		if err != nil {
			logger.Fatal().Err(err).Msg("MongoDB 接続に失敗しました")
		}
	} else {
		logger.Info().Msg("MONGO_URI が未設定のため投稿ログは記録しません")
	}

	app, err := server.New(cfg, logger, client)
	if err != nil {
		logger.Fatal().Err(err).Msg("サーバーの初期化に失敗しました")
	}
	if err := app.Run(context.Background()); err != nil {
		logger.Error().Err(err).Msg("サーバーが異常終了")
		os.Exit(1)
	}
}
