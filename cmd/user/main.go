// ユーザーサービスのエントリポイント。
// ユーザーの1件取得・全件取得をREST、GraphQL、APIドキュメントの3つの経路で公開する。
package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nao1215/userapi/internal/config"
	"github.com/nao1215/userapi/internal/user"
	"github.com/nao1215/userapi/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("ロガーの初期化に失敗: %v", err)
	}
	defer func() { _ = logger.Sync(zl) }()

	// ストレージ接続 → ルート登録 → リッスン開始の順に初期化する
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := user.OpenStore(ctx, cfg.DatabaseURL, zl)
	cancel()
	if err != nil {
		zl.Fatal("データベースへの接続に失敗", zap.Error(err))
	}
	defer store.Close()

	server, err := user.NewServer(store, user.WithLogger(zl))
	if err != nil {
		zl.Fatal("ユーザーサーバーの初期化に失敗", zap.Error(err))
	}

	zl.Info("ユーザーサービスを起動します", zap.String("addr", cfg.Addr()))
	if err := server.Run(cfg.Addr()); err != nil {
		zl.Fatal("ユーザーサービスの起動に失敗", zap.Error(err))
	}
}
