// Package pipeline 串联组稿、分页与输出：project → layout.Document → layout.Result → 文件字节。
package pipeline

import (
	"fmt"

	"github.com/ByLCY/codedoc/layout"
	"github.com/ByLCY/codedoc/project"
	"github.com/ByLCY/codedoc/renderer"
	canvasrenderer "github.com/ByLCY/codedoc/renderer/canvas"
	docxrenderer "github.com/ByLCY/codedoc/renderer/docx"
)

// Pipeline 持有一次渲染所需的全部参数，可被并发使用。
type Pipeline struct {
	Compose   project.ComposeOptions
	Build     layout.BuildOptions
	renderers map[string]renderer.Renderer
}

// New 使用内置的 PDF 与 DOCX 输出端创建流水线。
func New(compose project.ComposeOptions, build layout.BuildOptions, pdfOpts canvasrenderer.Options) *Pipeline {
	return &Pipeline{
		Compose: compose,
		Build:   build,
		renderers: map[string]renderer.Renderer{
			renderer.PDF.Name:  canvasrenderer.NewRendererWithOptions(pdfOpts),
			renderer.DOCX.Name: docxrenderer.NewRenderer(),
		},
	}
}

// Default 使用默认版式。
func Default() *Pipeline {
	return New(project.DefaultComposeOptions(), layout.DefaultOptions(), canvasrenderer.Options{})
}

// Layout 将项目组稿并分页。
func (p *Pipeline) Layout(proj *project.Project) (*layout.Result, error) {
	doc, err := project.Compose(proj, p.Compose)
	if err != nil {
		return nil, err
	}
	return layout.Build(doc, p.Build)
}

// Render 组稿、分页并输出为指定格式，同时返回分页结果供调试使用。
func (p *Pipeline) Render(proj *project.Project, format renderer.Format) ([]byte, *layout.Result, error) {
	r, ok := p.renderers[format.Name]
	if !ok {
		return nil, nil, fmt.Errorf("%w: 不支持的输出格式 %q", layout.ErrInvalidArgument, format.Name)
	}
	res, err := p.Layout(proj)
	if err != nil {
		return nil, nil, err
	}
	data, err := r.Render(res)
	if err != nil {
		return nil, res, err
	}
	return data, res, nil
}
