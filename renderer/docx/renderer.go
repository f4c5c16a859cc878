// Package docxrenderer 将分页结果写成 Word 文档，每个布局页之间插入分页符，保持与 PDF 输出相同的页边界。
package docxrenderer

import (
	"bytes"
	"math"
	"strconv"

	"github.com/fumiama/go-docx"

	"github.com/ByLCY/codedoc/layout"
	"github.com/ByLCY/codedoc/renderer"
)

// Renderer 输出 .docx。无状态，可并发使用。
type Renderer struct{}

var _ renderer.Renderer = Renderer{}

func NewRenderer() Renderer { return Renderer{} }

func (Renderer) Render(result *layout.Result) ([]byte, error) {
	if err := renderer.CheckResult(result); err != nil {
		return nil, err
	}
	w := docx.New().WithDefaultTheme()
	for i, page := range result.Pages {
		if i > 0 {
			w.AddParagraph().AddPageBreaks()
		}
		for _, line := range page.Lines {
			addLine(w, page, line)
		}
		if page.Footer != nil {
			// 页脚的 X 是居中锚点，改用段落居中
			footer := *page.Footer
			footer.X = page.Margin.Left
			addLine(w, page, footer).Justification("center")
		}
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, layout.IOFailure("写入 DOCX", err)
	}
	return buf.Bytes(), nil
}

// monoFont 为代码行使用的等宽字体名。
const monoFont = "Courier New"

// addLine 写出一行。相对左页边距的水平偏移转为段落左缩进，文本保留首尾空白。
func addLine(w *docx.Docx, page layout.Page, line layout.RenderedLine) *docx.Paragraph {
	para := w.AddParagraph()
	if indent := twips(line.X - page.Margin.Left); indent > 0 {
		if para.Properties == nil {
			para.Properties = &docx.ParagraphProperties{}
		}
		para.Properties.Ind = &docx.Ind{Left: indent}
	}
	if line.Text == "" {
		return para
	}
	run := para.AddText(line.Text).Size(halfPoints(line.Font.Size))
	for _, child := range run.Children {
		if t, ok := child.(*docx.Text); ok {
			t.XMLSpace = "preserve"
		}
	}
	switch {
	case line.Font.Family == layout.FamilyMono:
		run.Font(monoFont, monoFont, monoFont, "default")
	case line.Kind == layout.KindHeading || line.Font.Family == layout.FamilySerifBold:
		run.Bold()
	}
	return para
}

// twips 将 mm 换算为 1/20 磅。
func twips(mm float64) int {
	return int(math.Round(layout.MM(mm).ToPT() * 20))
}

// halfPoints 将 mm 字号换算为 Word 使用的半磅值。
func halfPoints(sizeMM float64) string {
	hp := int(math.Round(layout.MM(sizeMM).ToPT() * 2))
	if hp < 2 {
		hp = 2
	}
	return strconv.Itoa(hp)
}
