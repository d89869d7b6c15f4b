package main

import (
	"context"
	"log"

	"tuono/internal/config"
	"tuono/internal/server"
)

func main() {
	// 設定を読み込む
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}
	logger := cfg.NewLogger()

	// サーバーを作成
	srv, err := server.New(cfg, server.WithLogger(logger))
	if err != nil {
		logger.WithError(err).Fatal("サーバーの作成に失敗しました")
	}

	// サーバーを起動
	if err := srv.Start(context.Background()); err != nil {
		logger.WithError(err).Fatal("サーバーの起動に失敗しました")
	}
}
