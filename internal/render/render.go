// Package render はトップページのHTMLテンプレートを描画します。
//
// テンプレートはバイナリに埋め込まれ、起動時に一度だけ解析されます。
// 解析に失敗した場合は起動時のエラーとして扱います。
package render

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

// IndexTemplate は埋め込みテンプレートのうちトップページのもの
const IndexTemplate = "index.html"

// Page はトップページに差し込む値
// リクエスト毎に作成し、描画後は破棄する
type Page struct {
	Title       string
	Description string
}

// Renderer は解析済みのテンプレートを保持する
// 状態を変更しないので複数のゴルーチンから同時に使える
type Renderer struct {
	tmpl *template.Template
}

// New は埋め込みテンプレートを解析して Renderer を作成する
func New() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "テンプレートの解析に失敗")
	}
	return NewFromTemplate(tmpl)
}

// NewFromTemplate は解析済みのテンプレートから Renderer を作成する
func NewFromTemplate(tmpl *template.Template) (*Renderer, error) {
	if tmpl.Lookup(IndexTemplate) == nil {
		return nil, errors.Errorf("テンプレート %s が見つかりません", IndexTemplate)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// MustNew は New と同じだが、失敗した場合は panic する
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Render はページを描画してHTMLを返す
func (r *Renderer) Render(p Page) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, IndexTemplate, p); err != nil {
		return nil, errors.Wrap(err, "テンプレートの描画に失敗")
	}
	return buf.Bytes(), nil
}
