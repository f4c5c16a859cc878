package layout

import (
	"strconv"
	"strings"
)

// Build 按文档顺序把内容块放置到固定尺寸的页面上，返回分页结果。
// 所有块先统一校验，任一块不合法时直接返回错误，不会产生部分结果。
// 空文档输出一张空白页。
func Build(doc Document, opts BuildOptions) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	collector := newPageCollector(opts)
	for i, block := range doc.Blocks {
		if err := layoutBlock(block, collector, opts.Styles); err != nil {
			return nil, wrapBlockErr(i, err)
		}
	}

	return &Result{
		Pages: collector.pages(),
		Meta:  doc.Meta,
	}, nil
}

// layoutBlock 根据块类型调用 place/skip。
func layoutBlock(block Block, pc *pageCollector, styles StyleSheet) error {
	if block.Kind == KindSpacer {
		pc.skip(block.Height)
		return nil
	}
	lines, err := block.Lines()
	if err != nil {
		return err
	}
	var style TextStyle
	switch block.Kind {
	case KindHeading:
		style = styles.heading(block.Level)
	case KindParagraph:
		style = styles.Paragraph
	case KindPreformatted:
		style = styles.Code
	}
	for _, text := range lines {
		pc.place(RenderedLine{
			Text:       text,
			Kind:       block.Kind,
			Font:       style.Font,
			X:          pc.margin.Left + style.Indent,
			LineHeight: style.LineHeight,
		})
	}
	return nil
}

type pageAccumulator struct {
	lines     []RenderedLine
	cursorY   float64
	remaining float64
	// touched 表示本页已有行或空白占用了纵向预算
	touched bool
}

type pageCollector struct {
	width   float64
	height  float64
	margin  Margin
	usable  float64
	footer  FooterOptions
	accs    []*pageAccumulator
	current int
}

func newPageCollector(opts BuildOptions) *pageCollector {
	pc := &pageCollector{
		width:  opts.PageWidth,
		height: opts.PageHeight,
		margin: opts.Margin,
		usable: opts.usableHeight(),
		footer: opts.Footer,
	}
	if pc.footer.Font.Size <= 0 {
		pc.footer.Font = opts.Styles.Paragraph.Font
	}
	pc.newPage()
	return pc
}

func (pc *pageCollector) newPage() *pageAccumulator {
	acc := &pageAccumulator{
		cursorY:   pc.margin.Top,
		remaining: pc.usable,
	}
	pc.accs = append(pc.accs, acc)
	pc.current = len(pc.accs) - 1
	return acc
}

func (pc *pageCollector) curr() *pageAccumulator {
	return pc.accs[pc.current]
}

// place 放置一行：剩余高度不足时先换页。空白页上即使放不下也直接放置，避免无限换页。
func (pc *pageCollector) place(line RenderedLine) {
	acc := pc.curr()
	if acc.remaining < line.LineHeight && acc.touched {
		acc = pc.newPage()
	}
	line.Y = acc.cursorY
	acc.lines = append(acc.lines, line)
	acc.consume(line.LineHeight)
}

// skip 消耗空白高度，不产生行；空白不会跨页拆分。
func (pc *pageCollector) skip(height float64) {
	if height <= 0 {
		return
	}
	acc := pc.curr()
	if height > acc.remaining && acc.touched {
		acc = pc.newPage()
	}
	acc.consume(height)
}

func (acc *pageAccumulator) consume(height float64) {
	acc.cursorY += height
	acc.remaining -= height
	if acc.remaining < 0 {
		acc.remaining = 0
	}
	acc.touched = true
}

func (pc *pageCollector) pages() []Page {
	out := make([]Page, len(pc.accs))
	total := strconv.Itoa(len(pc.accs))
	for i, acc := range pc.accs {
		out[i] = Page{
			Number:    i + 1,
			Width:     pc.width,
			Height:    pc.height,
			Margin:    pc.margin,
			Lines:     acc.lines,
			Remaining: acc.remaining,
		}
		if pc.footer.Text != "" {
			out[i].Footer = pc.footerLine(i+1, total)
		}
	}
	return out
}

// footerLine 在内容区域下方的保留区内垂直居中放置页脚。
func (pc *pageCollector) footerLine(page int, total string) *RenderedLine {
	text := strings.NewReplacer("{page}", strconv.Itoa(page), "{pages}", total).Replace(pc.footer.Text)
	lineHeight := pc.footer.Font.Size * 1.2
	top := pc.margin.Top + pc.usable
	y := top + (pc.height-top-lineHeight)/2
	if y < top {
		y = top
	}
	return &RenderedLine{
		Text:       text,
		Kind:       KindParagraph,
		Font:       pc.footer.Font,
		X:          pc.margin.Left + (pc.width-pc.margin.Left-pc.margin.Right)/2,
		Y:          y,
		LineHeight: lineHeight,
	}
}
