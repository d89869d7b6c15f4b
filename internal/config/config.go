package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// デフォルト値
const (
	DefaultHost        = "0.0.0.0"
	DefaultPort        = 3007
	DefaultAssetsDir   = "src/dist/assets"
	DefaultPublicDir   = "public"
	DefaultTitle       = "Tuono - Astro React Askama"
	DefaultDescription = "The react / rust fullstack framework"
	DefaultOpsPrefix   = "/_ops"
)

// envPrefix は設定を上書きする環境変数の接頭辞
const envPrefix = "TUONO_"

// Config はアプリケーション全体の設定を保持する構造体
type Config struct {
	Server ServerConfig `yaml:"server"`
	Static StaticConfig `yaml:"static"`
	Page   PageConfig   `yaml:"page"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig はHTTPサーバーの設定
type ServerConfig struct {
	Host string `yaml:"host"` // リッスンするホスト
	Port int    `yaml:"port"` // リッスンするポート番号

	// タイムアウト設定
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // 読み込みタイムアウト
	WriteTimeout    time.Duration `yaml:"write_timeout"`    // 書き込みタイムアウト
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // シャットダウン待ち時間

	// 運用エンドポイント (live/ready/metrics) のプレフィックス。空なら無効
	OpsPrefix string `yaml:"ops_prefix"`
}

// StaticConfig は静的ファイル配信の設定
type StaticConfig struct {
	AssetsDir string `yaml:"assets_dir"` // /assets 以下を配信するディレクトリ
	PublicDir string `yaml:"public_dir"` // それ以外のパスを配信するディレクトリ
}

// PageConfig はトップページに埋め込む値
type PageConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// LogConfig はログ出力の設定
type LogConfig struct {
	Level  string `yaml:"level"`  // logrus のレベル名
	Format string `yaml:"format"` // "text" または "json"
}

// Default はデフォルト設定を返す
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    0,
			ShutdownTimeout: 5 * time.Second,
			OpsPrefix:       DefaultOpsPrefix,
		},
		Static: StaticConfig{
			AssetsDir: DefaultAssetsDir,
			PublicDir: DefaultPublicDir,
		},
		Page: PageConfig{
			Title:       DefaultTitle,
			Description: DefaultDescription,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load は設定を読み込む
// デフォルト値 → YAMLファイル(path が空でなければ) → .env → 環境変数 の順に上書きする
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	// .env は存在しなくてもよい
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, ".envの読み込みに失敗")
	}

	cfg.applyEnv()

	// 設定の検証
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return cfg, nil
}

// loadFile はYAMLファイルで設定を上書きする
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "設定ファイルを開けません: %s", path)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Wrapf(err, "設定ファイルの解析に失敗: %s", path)
	}
	return nil
}

// applyEnv は環境変数で設定を上書きする
func (c *Config) applyEnv() {
	c.Server.Host = getEnvOrDefault(envPrefix+"SERVER_HOST", c.Server.Host)
	c.Server.Port = getEnvAsIntOrDefault(envPrefix+"PORT", c.Server.Port)
	c.Static.AssetsDir = getEnvOrDefault(envPrefix+"ASSETS_DIR", c.Static.AssetsDir)
	c.Static.PublicDir = getEnvOrDefault(envPrefix+"PUBLIC_DIR", c.Static.PublicDir)
	c.Page.Title = getEnvOrDefault(envPrefix+"PAGE_TITLE", c.Page.Title)
	c.Page.Description = getEnvOrDefault(envPrefix+"PAGE_DESCRIPTION", c.Page.Description)
	c.Log.Level = getEnvOrDefault(envPrefix+"LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnvOrDefault(envPrefix+"LOG_FORMAT", c.Log.Format)
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	// ポート0はテスト用にランダムポートとして許可する
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("無効なポート番号: %d", c.Server.Port)
	}
	if c.Static.AssetsDir == "" {
		return errors.New("assets_dir が空です")
	}
	if c.Static.PublicDir == "" {
		return errors.New("public_dir が空です")
	}
	if c.Page.Title == "" {
		return errors.New("ページタイトルが空です")
	}
	if c.Server.OpsPrefix != "" && (c.Server.OpsPrefix[0] != '/' || c.Server.OpsPrefix == "/") {
		return fmt.Errorf("無効な ops_prefix: %q", c.Server.OpsPrefix)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "無効なログレベル")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("無効なログフォーマット: %q", c.Log.Format)
	}

	return nil
}

// ServerAddress はサーバーのリッスンアドレスを返す
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// NewLogger は設定に従ったロガーを作成する
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	if level, err := logrus.ParseLevel(c.Log.Level); err == nil {
		logger.SetLevel(level)
	}
	if c.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

// getEnvOrDefault は環境変数を取得し、設定されていない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault は環境変数を整数として取得し、設定されていない場合はデフォルト値を返す
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
