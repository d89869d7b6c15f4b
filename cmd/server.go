// Package main はtuonoデモサーバーコマンドの実装です
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"

	"tuono/internal/config"
	"tuono/internal/server"
)

func main() {
	// コマンドラインオプション
	var (
		configPath = flag.String("config", "", "YAML設定ファイルのパス")
		host       = flag.String("host", "", "サーバーのホスト (デフォルト: 0.0.0.0)")
		port       = flag.Int("port", 0, "サーバーのポート (デフォルト: 3007)")
		assetsDir  = flag.String("assets", "", "/assets を配信するディレクトリ (デフォルト: src/dist/assets)")
		publicDir  = flag.String("public", "", "その他のパスを配信するディレクトリ (デフォルト: public)")
		help       = flag.Bool("help", false, "ヘルプを表示")
	)

	flag.Parse()

	// ヘルプ表示
	if *help {
		fmt.Println("tuono demo server")
		fmt.Println()
		fmt.Println("使用方法:")
		fmt.Println("  server [オプション]")
		fmt.Println()
		fmt.Println("オプション:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	// 設定を読み込む
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	// コマンドラインオプションで設定を上書き
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *assetsDir != "" {
		cfg.Static.AssetsDir = *assetsDir
	}
	if *publicDir != "" {
		cfg.Static.PublicDir = *publicDir
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("設定が不正です: %v", err)
	}

	logger := cfg.NewLogger()

	srv, err := server.New(cfg, server.WithLogger(logger))
	if err != nil {
		logger.WithError(err).Fatal("サーバーの作成に失敗しました")
	}

	// サーバーを起動
	logger.WithFields(logrus.Fields{
		"addr":   cfg.ServerAddress(),
		"assets": cfg.Static.AssetsDir,
		"public": cfg.Static.PublicDir,
	}).Info("tuono サーバーを起動します")
	if err := srv.Start(context.Background()); err != nil {
		logger.WithError(err).Fatal("サーバーの起動に失敗しました")
	}
}
