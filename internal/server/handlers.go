package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tuono/internal/render"
)

// DataResponse は /api/data のレスポンス
type DataResponse struct {
	Subtitle string `json:"subtitle"`
}

// handleIndex はトップページを描画する
func (s *Server) handleIndex(c *gin.Context) {
	// リクエスト毎に作成する
	page := render.Page{
		Title:       s.config.Page.Title,
		Description: s.config.Page.Description,
	}

	body, err := s.renderer.Render(page)
	if err != nil {
		s.metrics.renders.WithLabelValues("error").Inc()
		s.logger.WithError(err).WithField("request_id", c.GetString(requestIDKey)).
			Error("トップページの描画に失敗しました")
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	s.metrics.renders.WithLabelValues("ok").Inc()
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}

// handleData はページの説明文をJSONで返す
func (s *Server) handleData(c *gin.Context) {
	c.JSON(http.StatusOK, DataResponse{
		Subtitle: s.config.Page.Description,
	})
}
