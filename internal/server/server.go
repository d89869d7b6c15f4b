package server

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"tuono/internal/config"
	"tuono/internal/render"
)

const defaultShutdownTimeout = 5 * time.Second

// Server はHTTPサーバーを管理する構造体
type Server struct {
	config     *config.Config
	logger     *logrus.Logger
	renderer   *render.Renderer
	router     *gin.Engine
	httpServer *http.Server
	listener   net.Listener

	registry *prometheus.Registry
	metrics  *metrics

	assets *staticDir
	public *staticDir
}

// Option は Server の生成時オプション
type Option func(*Server)

// WithLogger はロガーを差し替える
func WithLogger(logger *logrus.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRenderer はテンプレートの Renderer を差し替える
func WithRenderer(r *render.Renderer) Option {
	return func(s *Server) {
		s.renderer = r
	}
}

// New は新しいServerインスタンスを作成する
// テンプレートの解析に失敗した場合はエラーを返す
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		config:   cfg,
		registry: prometheus.NewRegistry(),
		assets:   newStaticDir(cfg.Static.AssetsDir),
		public:   newStaticDir(cfg.Static.PublicDir),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = cfg.NewLogger()
	}
	if s.renderer == nil {
		r, err := render.New()
		if err != nil {
			return nil, err
		}
		s.renderer = r
	}

	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	s.metrics = newMetrics(s.registry)

	s.router = gin.New()
	s.httpServer = &http.Server{
		Addr:         cfg.ServerAddress(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	s.setupRoutes()
	return s, nil
}

// setupRoutes はHTTPルートを設定する
func (s *Server) setupRoutes() {
	// recovery はログとメトリクスの内側に置き、panicしたリクエストも記録されるようにする
	s.router.Use(
		requestID(),
		s.requestLogger(),
		s.metrics.middleware(),
		s.recovery(),
		secure.New(secure.Config{
			FrameDeny:          true,
			ContentTypeNosniff: true,
			BrowserXssFilter:   true,
			ReferrerPolicy:     "strict-origin-when-cross-origin",
		}),
	)

	// トップページ
	s.router.GET("/", s.handleIndex)
	s.router.HEAD("/", s.handleIndex)

	// APIエンドポイント
	s.router.GET("/api/data", s.handleData)

	// 運用エンドポイント
	if prefix := s.config.Server.OpsPrefix; prefix != "" {
		s.setupOpsRoutes(s.router.Group(prefix))
	}

	// ビルド済みアセット。見つからなければ public にはフォールバックしない
	assets := s.router.Group("/assets")
	assets.GET("", s.handleAssetsRoot)
	assets.HEAD("", s.handleAssetsRoot)
	assets.GET("/*filepath", s.handleAssets)
	assets.HEAD("/*filepath", s.handleAssets)

	// その他のパスは public から配信する
	s.router.NoRoute(s.handlePublic)
}

// Handler はルーティング済みの http.Handler を返す
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr はリッスン中のアドレスを返す
// Listen 前は設定上のアドレスを返す
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// Listen はソケットをバインドする
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return errors.Wrapf(err, "%s のリッスンに失敗", s.httpServer.Addr)
	}
	s.listener = ln
	return nil
}

// Start はソケットをバインドしてサーバーを起動する
// バインドに失敗した場合はすぐにエラーを返す
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

// Serve は Listen 済みのソケットでリクエストを処理する
// コンテキストのキャンセルかシグナルでグレースフルに停止する
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		return errors.New("Listen が呼ばれていません")
	}

	// シャットダウン用のチャンネル
	shutdownCh := make(chan error, 1)

	// サーバーを別ゴルーチンで起動
	go func() {
		s.logger.WithField("addr", s.Addr()).Info("HTTPサーバーを起動しています")
		if err := s.httpServer.Serve(s.listener); err != nil && err != http.ErrServerClosed {
			shutdownCh <- errors.Wrap(err, "サーバーの実行に失敗")
		}
	}()

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// コンテキストかシグナルを待つ
	select {
	case <-ctx.Done():
		s.logger.Info("コンテキストがキャンセルされました")
	case sig := <-sigCh:
		s.logger.WithField("signal", sig.String()).Info("シグナルを受信しました")
	case err := <-shutdownCh:
		return err
	}

	// グレースフルシャットダウン
	return s.Shutdown()
}

// Shutdown はサーバーをグレースフルにシャットダウンする
func (s *Server) Shutdown() error {
	s.logger.Info("サーバーをシャットダウンしています...")

	timeout := s.config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "サーバーのシャットダウンに失敗")
	}

	s.logger.Info("サーバーが正常にシャットダウンされました")
	return nil
}
