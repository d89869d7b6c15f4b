package server

import (
	"github.com/gin-gonic/gin"
	"github.com/heptiolabs/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ゴルーチン数がこれを超えたら liveness を失敗させる
const maxGoroutines = 10000

// setupOpsRoutes は live/ready/metrics エンドポイントを設定する
func (s *Server) setupOpsRoutes(ops *gin.RouterGroup) {
	health := healthcheck.NewMetricsHandler(s.registry, metricsNamespace)
	health.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(maxGoroutines))
	health.AddReadinessCheck("assets-dir", s.assets.check)
	health.AddReadinessCheck("public-dir", s.public.check)

	ops.GET("/live", gin.WrapF(health.LiveEndpoint))
	ops.GET("/ready", gin.WrapF(health.ReadyEndpoint))
	ops.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
}
