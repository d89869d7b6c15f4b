package server

import (
	"net/http"
	"os"
	"path"

	"github.com/gin-gonic/gin"
)

// staticDir はディスク上のディレクトリからファイルを配信する
type staticDir struct {
	root       string
	fs         http.FileSystem
	fileServer http.Handler
}

// newStaticDir は root 以下を配信する staticDir を作成する
func newStaticDir(root string) *staticDir {
	fs := http.Dir(root)
	return &staticDir{
		root:       root,
		fs:         fs,
		fileServer: http.FileServer(fs),
	}
}

// exists は name が配信可能なファイルかどうかを返す
// ディレクトリは index.html を含む場合のみ配信可能とする
func (d *staticDir) exists(name string) bool {
	name = path.Clean("/" + name)

	f, err := d.fs.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false
	}
	if !info.IsDir() {
		return true
	}

	index, err := d.fs.Open(path.Join(name, "index.html"))
	if err != nil {
		return false
	}
	defer index.Close()

	indexInfo, err := index.Stat()
	return err == nil && !indexInfo.IsDir()
}

// check はディレクトリが存在するか確認する (readiness用)
func (d *staticDir) check() error {
	info, err := os.Stat(d.root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &os.PathError{Op: "stat", Path: d.root, Err: os.ErrInvalid}
	}
	return nil
}

// serve は name のファイルを返す。存在しなければ404
func (d *staticDir) serve(c *gin.Context, name string, headers map[string]string) {
	if !d.exists(name) {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	for k, v := range headers {
		c.Header(k, v)
	}

	// ファイルサーバー用にパスを書き換えたリクエストを作る
	req := c.Request.Clone(c.Request.Context())
	req.URL.Path = name
	req.URL.RawPath = ""

	d.fileServer.ServeHTTP(c.Writer, req)
}

// assetHeaders はビルド成果物に付けるヘッダー
var assetHeaders = map[string]string{
	"Cache-Control": "public, max-age=3600", // ブラウザに1時間キャッシュさせる
}

// handleAssets は /assets 以下をアセットディレクトリから配信する
func (s *Server) handleAssets(c *gin.Context) {
	s.assets.serve(c, c.Param("filepath"), assetHeaders)
}

// handleAssetsRoot は末尾スラッシュのない /assets をリダイレクトせずに404にする
func (s *Server) handleAssetsRoot(c *gin.Context) {
	c.AbortWithStatus(http.StatusNotFound)
}

// handlePublic はルートに一致しなかったパスを public ディレクトリから配信する
func (s *Server) handlePublic(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	s.public.serve(c, c.Request.URL.Path, nil)
}
