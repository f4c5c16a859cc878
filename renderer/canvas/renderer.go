package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/codedoc/fonts"
	"github.com/ByLCY/codedoc/layout"
	"github.com/ByLCY/codedoc/renderer"
)

// Renderer draws paginated layout results into a PDF via github.com/tdewolff/canvas.
type Renderer struct {
	fontBlobs map[string][]byte // injected fonts by family name
	textColor color.Color

	fontMu       sync.Mutex
	fontFamilies map[string]*canvas.FontFamily
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the canvas renderer.
type Options struct {
	// Fonts overrides the built-in TTF data per family (layout.FamilySerif, ...).
	Fonts map[string][]byte
	// TextColor 为 nil 时使用默认的深灰色。
	TextColor *layout.Color
}

// NewRenderer creates a renderer using the built-in Latin Modern fonts.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a renderer with injected fonts.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		fontBlobs:    map[string][]byte{},
		textColor:    colorFromLayout(layout.Color{R: 30, G: 30, B: 30}),
		fontFamilies: map[string]*canvas.FontFamily{},
	}
	for name, data := range opts.Fonts {
		if name == "" || len(data) == 0 {
			continue
		}
		r.fontBlobs[name] = data
	}
	if opts.TextColor != nil {
		r.textColor = colorFromLayout(*opts.TextColor)
	}
	return r
}

// Render renders the whole page set into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if err := renderer.CheckResult(result); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := r.render(&buf, result); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) render(w io.Writer, result *layout.Result) error {
	sink := &trackingWriter{w: w}
	first := result.Pages[0]
	writer := pdf.New(sink, first.Width, first.Height, nil)
	r.applyMeta(writer, result.Meta)

	faces := map[layout.FontRef]*canvas.FontFace{}
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		if err := r.drawPage(ctx, page, faces); err != nil {
			return err
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return layout.IOFailure("写入 PDF", err)
	}
	if sink.err != nil {
		return layout.IOFailure("写入 PDF", sink.err)
	}
	return nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	creator := meta.Creator
	if creator == "" {
		creator = "codedoc"
	}
	writer.SetInfo(meta.Title, meta.Subject, strings.Join(meta.Keywords, ", "), meta.Author, creator)
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page, faces map[layout.FontRef]*canvas.FontFace) error {
	for _, line := range page.Lines {
		if err := r.drawLine(ctx, line, canvas.Left, faces); err != nil {
			return err
		}
	}
	if page.Footer != nil {
		if err := r.drawLine(ctx, *page.Footer, canvas.Center, faces); err != nil {
			return err
		}
	}
	return nil
}

// drawLine 在行顶部加上字体上升部得到基线位置。
func (r *Renderer) drawLine(ctx *canvas.Context, line layout.RenderedLine, align canvas.TextAlign, faces map[layout.FontRef]*canvas.FontFace) error {
	if line.Text == "" {
		return nil
	}
	face, ok := faces[line.Font]
	if !ok {
		var err error
		face, err = r.fontFace(line.Font)
		if err != nil {
			return err
		}
		faces[line.Font] = face
	}
	baseline := line.Y + face.Metrics().Ascent
	ctx.DrawText(line.X, baseline, canvas.NewTextLine(face, line.Text, align))
	return nil
}

// fontFace 创建字体面：布局中的字号为 mm，canvas 的字体面使用 pt。
func (r *Renderer) fontFace(font layout.FontRef) (*canvas.FontFace, error) {
	family, err := r.ensureFontFamily(font.Family)
	if err != nil {
		return nil, err
	}
	return family.Face(toPt(font.Size), r.textColor, canvas.FontRegular, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(name string) (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[name]; ok {
		return family, nil
	}
	data, err := r.loadFontBytes(name)
	if err != nil {
		// 未知字体族退回正文字体
		if name == layout.FamilySerif {
			return nil, err
		}
		data, err = r.loadFontBytes(layout.FamilySerif)
		if err != nil {
			return nil, err
		}
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", name, err)
	}
	r.fontFamilies[name] = family
	return family, nil
}

func (r *Renderer) loadFontBytes(name string) ([]byte, error) {
	if blob, ok := r.fontBlobs[name]; ok {
		return blob, nil
	}
	return fonts.Load(name)
}

// trackingWriter 记录第一次写入错误，避免底层库吞掉 I/O 失败。
type trackingWriter struct {
	w   io.Writer
	err error
}

func (t *trackingWriter) Write(p []byte) (int, error) {
	if t.err != nil {
		return 0, t.err
	}
	n, err := t.w.Write(p)
	if err != nil {
		t.err = err
	}
	return n, err
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }
