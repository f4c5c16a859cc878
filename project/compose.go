package project

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/ByLCY/codedoc/layout"
)

// ComposeOptions 控制报告转换为内容块时的细节。
type ComposeOptions struct {
	// MaxLineLength 是代码与输出块的折行宽度（字符数）。
	MaxLineLength int
	// TabWidth 为制表符展开的列宽，0 表示不展开。
	TabWidth int
	// SpacerHeight 为各分组之后的空白高度（mm）。
	SpacerHeight float64
}

// DefaultComposeOptions 65 字符折行，分组间距 10pt。
func DefaultComposeOptions() ComposeOptions {
	return ComposeOptions{
		MaxLineLength: 65,
		TabWidth:      4,
		SpacerHeight:  layout.Pt(10).ToMM(),
	}
}

var fieldLabels = map[string]string{
	"interpreter":  "Interpreter Version",
	"compiler":     "Compiler",
	"framework":    "Framework",
	"build-system": "Build System",
	"os":           "Operating System",
}

// FieldLabel 返回字段在文档中显示的名称。
func FieldLabel(key string) string {
	if label, ok := fieldLabels[strings.ToLower(key)]; ok {
		return label
	}
	words := strings.FieldsFunc(key, func(r rune) bool { return r == '-' || r == '_' })
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// Compose 将项目转换为可排版的文档。版本与各分组严格按添加顺序输出。
// 项目自带折行宽度时优先于 opts.MaxLineLength。
func Compose(p *Project, opts ComposeOptions) (layout.Document, error) {
	var doc layout.Document
	if err := p.Validate(); err != nil {
		return doc, err
	}
	if p.MaxLineLength > 0 {
		opts.MaxLineLength = p.MaxLineLength
	}
	if opts.MaxLineLength <= 0 {
		return doc, fmt.Errorf("%w: 折行宽度必须为正数，实际 %d", layout.ErrInvalidArgument, opts.MaxLineLength)
	}
	if opts.SpacerHeight < 0 {
		return doc, fmt.Errorf("%w: 间距不能为负数", layout.ErrInvalidArgument)
	}

	doc.Meta = layout.DocumentMeta{
		Title:   p.Title,
		Author:  p.Author,
		Subject: "Code documentation",
	}
	for _, v := range p.Versions {
		doc.Meta.Keywords = append(doc.Meta.Keywords, v.Name)
	}

	c := composer{doc: &doc, opts: opts}
	for _, v := range p.Versions {
		c.version(v)
	}
	return doc, doc.Validate()
}

type composer struct {
	doc  *layout.Document
	opts ComposeOptions
}

func (c *composer) spacer() { c.doc.Append(layout.Spacer(c.opts.SpacerHeight)) }

func (c *composer) pre(text string) {
	c.doc.Append(layout.Preformatted(c.clean(text), c.opts.MaxLineLength))
}

func (c *composer) para(text string) {
	c.doc.Append(layout.Paragraph(normalizeText(text, 0)))
}

func (c *composer) clean(text string) string {
	return normalizeText(text, c.opts.TabWidth)
}

func (c *composer) version(v *Version) {
	c.doc.Append(layout.Heading("App Version: "+normalizeText(v.Name, 0), 1))

	if len(v.Fields) > 0 {
		for _, f := range v.Fields {
			c.para(FieldLabel(f.Key) + ": " + f.Value)
		}
		c.spacer()
	}

	if len(v.Notes) > 0 {
		c.doc.Append(layout.Heading("Notes:", 2))
		for _, note := range v.Notes {
			c.para("- " + note)
		}
		c.spacer()
	}

	c.numbered("Test Results:", "Test Result", v.TestResults)
	c.numbered("Terminal Outputs:", "Terminal Output", v.TerminalOutputs)

	if len(v.Code) > 0 {
		c.doc.Append(layout.Heading("Code Sections:", 2))
		for i, cs := range v.Code {
			c.doc.Append(layout.Heading(fmt.Sprintf("Code Section %d - %s:", i+1, cs.File), 3))
			c.pre(cs.Code)
			c.spacer()
		}
	}

	if len(v.Suggestions) > 0 {
		c.doc.Append(layout.Heading("AI Code Suggestions:", 2))
		for _, s := range v.Suggestions {
			c.doc.Append(layout.Heading(fmt.Sprintf("AI Suggestion for %s:", s.File), 3))
			c.pre(s.Text)
			c.spacer()
		}
	}

	if len(v.Attachments) > 0 {
		c.doc.Append(v.Attachments...)
		c.spacer()
	}
}

// numbered 输出带编号子标题的代码类分组，如 "Terminal Output 1:"。
func (c *composer) numbered(title, item string, texts []string) {
	if len(texts) == 0 {
		return
	}
	c.doc.Append(layout.Heading(title, 2))
	for i, text := range texts {
		c.doc.Append(layout.Heading(fmt.Sprintf("%s %d:", item, i+1), 3))
		c.pre(text)
		c.spacer()
	}
}

// normalizeText 统一换行符为 \n，做 NFC 规范化，并按列展开制表符。
func normalizeText(text string, tabWidth int) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = norm.NFC.String(text)
	if tabWidth <= 0 || !strings.Contains(text, "\t") {
		return text
	}
	var sb strings.Builder
	col := 0
	for _, r := range text {
		switch r {
		case '\t':
			n := tabWidth - col%tabWidth
			sb.WriteString(strings.Repeat(" ", n))
			col += n
		case '\n':
			sb.WriteRune(r)
			col = 0
		default:
			sb.WriteRune(r)
			col++
		}
	}
	return sb.String()
}
