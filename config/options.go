package config

import (
	"fmt"
	"strings"

	"github.com/ByLCY/codedoc/binding"
	"github.com/ByLCY/codedoc/layout"
	"github.com/ByLCY/codedoc/project"
)

// BuildOptions 将页面与样式配置转换为排版参数（mm）。
func (c *Config) BuildOptions() (layout.BuildOptions, error) {
	var opts layout.BuildOptions
	w, h, err := c.pageSize()
	if err != nil {
		return opts, err
	}
	opts.PageWidth, opts.PageHeight = w, h

	m := c.Page.Margin
	for _, it := range []struct {
		name string
		raw  string
		dst  *float64
	}{
		{"page.margin.top", m.Top, &opts.Margin.Top},
		{"page.margin.right", m.Right, &opts.Margin.Right},
		{"page.margin.bottom", m.Bottom, &opts.Margin.Bottom},
		{"page.margin.left", m.Left, &opts.Margin.Left},
	} {
		if *it.dst, err = lengthMM(it.name, it.raw); err != nil {
			return opts, err
		}
	}

	s := c.Styles
	for _, it := range []struct {
		name string
		cfg  StyleConfig
		dst  *layout.TextStyle
	}{
		{"styles.heading1", s.Heading1, &opts.Styles.Heading1},
		{"styles.heading2", s.Heading2, &opts.Styles.Heading2},
		{"styles.heading3", s.Heading3, &opts.Styles.Heading3},
		{"styles.paragraph", s.Paragraph, &opts.Styles.Paragraph},
		{"styles.code", s.Code, &opts.Styles.Code},
	} {
		if *it.dst, err = textStyle(it.name, it.cfg); err != nil {
			return opts, err
		}
	}

	if f := c.Page.Footer; f.Text != "" {
		opts.Footer.Text = f.Text
		if opts.Footer.Height, err = lengthMM("page.footer.height", f.Height); err != nil {
			return opts, err
		}
		size, err := layout.ParseLength(f.Size)
		if err != nil {
			return opts, fmt.Errorf("page.footer.size: %w", err)
		}
		opts.Footer.Font = layout.FontRef{Family: layout.FamilySerif, Size: size.ToMM()}
	}
	return opts, opts.Validate()
}

// TextColor 解析正文颜色，未配置时返回 nil。
func (c *Config) TextColor() (*layout.Color, error) {
	if c.Page.TextColor == "" {
		return nil, nil
	}
	col, err := layout.ParseColor(c.Page.TextColor)
	if err != nil {
		return nil, fmt.Errorf("page.text_color: %w", err)
	}
	return &col, nil
}

// ComposeOptions 返回组稿参数。
func (c *Config) ComposeOptions() (project.ComposeOptions, error) {
	spacer, err := lengthMM("compose.spacer", c.Compose.Spacer)
	if err != nil {
		return project.ComposeOptions{}, err
	}
	if c.Compose.MaxLineLength <= 0 {
		return project.ComposeOptions{}, fmt.Errorf("%w: compose.max_line_length 必须为正数", layout.ErrInvalidArgument)
	}
	return project.ComposeOptions{
		MaxLineLength: c.Compose.MaxLineLength,
		TabWidth:      c.Compose.TabWidth,
		SpacerHeight:  spacer,
	}, nil
}

// PromptTemplate 返回分析提示词模板；自定义模板必须引用 ${code}。
func (c *Config) PromptTemplate() (string, error) {
	if c.Generator.Template == "" {
		return binding.DefaultTemplate, nil
	}
	if err := binding.Require(c.Generator.Template, "code"); err != nil {
		return "", fmt.Errorf("generator.template: %w", err)
	}
	return c.Generator.Template, nil
}

func (c *Config) pageSize() (float64, float64, error) {
	if c.Page.Width != "" || c.Page.Height != "" {
		w, err := lengthMM("page.width", c.Page.Width)
		if err != nil {
			return 0, 0, err
		}
		h, err := lengthMM("page.height", c.Page.Height)
		if err != nil {
			return 0, 0, err
		}
		if c.Page.Landscape {
			w, h = h, w
		}
		return w, h, nil
	}
	return layout.PageSize(c.Page.Size, c.Page.Landscape)
}

func textStyle(name string, sc StyleConfig) (layout.TextStyle, error) {
	var ts layout.TextStyle
	size, err := layout.ParseLength(sc.Size)
	if err != nil {
		return ts, fmt.Errorf("%s.size: %w", name, err)
	}
	leading, err := layout.ParseLineHeight(sc.Leading)
	if err != nil {
		return ts, fmt.Errorf("%s.leading: %w", name, err)
	}
	indent := 0.0
	if strings.TrimSpace(sc.Indent) != "" {
		if indent, err = lengthMM(name+".indent", sc.Indent); err != nil {
			return ts, err
		}
	}
	family := sc.Family
	if family == "" {
		family = layout.FamilySerif
	}
	ts.Font = layout.FontRef{Family: family, Size: size.ToMM()}
	ts.LineHeight = leading.ResolveMM(size)
	ts.Indent = indent
	return ts, nil
}

func lengthMM(name, raw string) (float64, error) {
	l, err := layout.ParseLength(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return l.ToMM(), nil
}
