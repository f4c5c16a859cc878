package layout

import "math"

// BuildOptions 配置分页所需的页面几何与样式。尺寸单位均为 mm。
type BuildOptions struct {
	PageWidth  float64
	PageHeight float64
	Margin     Margin
	Styles     StyleSheet
	Footer     FooterOptions
}

// TextStyle 描述一类块使用的字体、行高与左缩进。
type TextStyle struct {
	Font       FontRef `json:"font"`
	LineHeight float64 `json:"lineHeight"`
	Indent     float64 `json:"indent"`
}

// StyleSheet 为每种块类型提供样式，标题按级别区分。
type StyleSheet struct {
	Heading1  TextStyle `json:"heading1"`
	Heading2  TextStyle `json:"heading2"`
	Heading3  TextStyle `json:"heading3"`
	Paragraph TextStyle `json:"paragraph"`
	Code      TextStyle `json:"code"`
}

// FooterOptions 配置页脚。Text 中的 {page} 与 {pages} 会被替换为当前页码与总页数；
// Text 为空表示不输出页脚。
type FooterOptions struct {
	Text   string
	Height float64
	Font   FontRef
}

// DefaultOptions 返回 US Letter、上下 72pt、左右 36pt 的默认版式，样式沿用常见的报告字号。
func DefaultOptions() BuildOptions {
	w, h, _ := PageSize("letter", false)
	return BuildOptions{
		PageWidth:  w,
		PageHeight: h,
		Margin: Margin{
			Top:    Pt(72).ToMM(),
			Right:  Pt(36).ToMM(),
			Bottom: Pt(72).ToMM(),
			Left:   Pt(36).ToMM(),
		},
		Styles: DefaultStyles(),
	}
}

// DefaultStyles 返回默认样式表。
func DefaultStyles() StyleSheet {
	style := func(family string, size, leading, indent float64) TextStyle {
		return TextStyle{
			Font:       FontRef{Family: family, Size: Pt(size).ToMM()},
			LineHeight: Pt(leading).ToMM(),
			Indent:     Pt(indent).ToMM(),
		}
	}
	return StyleSheet{
		Heading1:  style(FamilySerifBold, 18, 22, 0),
		Heading2:  style(FamilySerifBold, 14, 18, 0),
		Heading3:  style(FamilySerifBold, 12, 14, 0),
		Paragraph: style(FamilySerif, 10, 12, 0),
		Code:      style(FamilyMono, 8, 8, 10),
	}
}

func (o BuildOptions) usableHeight() float64 {
	return o.PageHeight - o.Margin.Top - o.bottomReserve()
}

// bottomReserve 为内容区域底部的保留高度：max(下边距, 页脚高度)。
func (o BuildOptions) bottomReserve() float64 {
	if o.Footer.Text != "" && o.Footer.Height > o.Margin.Bottom {
		return o.Footer.Height
	}
	return o.Margin.Bottom
}

// Validate 检查页面几何与样式是否可用于分页。
func (o BuildOptions) Validate() error {
	if !positive(o.PageWidth) || !positive(o.PageHeight) {
		return invalidf("页面尺寸必须为正数：%gx%g", o.PageWidth, o.PageHeight)
	}
	for _, m := range []float64{o.Margin.Top, o.Margin.Right, o.Margin.Bottom, o.Margin.Left} {
		if m < 0 || math.IsNaN(m) {
			return invalidf("页边距不能为负：%+v", o.Margin)
		}
	}
	if o.Margin.Left+o.Margin.Right >= o.PageWidth {
		return invalidf("左右边距之和超过页面宽度")
	}
	if !positive(o.usableHeight()) {
		return invalidf("页面没有可用的内容高度")
	}
	for name, s := range map[string]TextStyle{
		"heading1":  o.Styles.Heading1,
		"heading2":  o.Styles.Heading2,
		"heading3":  o.Styles.Heading3,
		"paragraph": o.Styles.Paragraph,
		"code":      o.Styles.Code,
	} {
		if !positive(s.LineHeight) || !positive(s.Font.Size) {
			return invalidf("样式 %s 的字号与行高必须为正数", name)
		}
		if s.Indent < 0 {
			return invalidf("样式 %s 的缩进不能为负", name)
		}
	}
	if o.Footer.Text != "" && o.Footer.Height < 0 {
		return invalidf("页脚高度不能为负")
	}
	return nil
}

func (s StyleSheet) heading(level int) TextStyle {
	switch level {
	case 1:
		return s.Heading1
	case 2:
		return s.Heading2
	default:
		return s.Heading3
	}
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
