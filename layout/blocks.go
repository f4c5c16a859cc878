package layout

import (
	"math"
	"strings"
)

// BlockKind 标识内容块的类型。
type BlockKind string

const (
	KindHeading      BlockKind = "heading"
	KindParagraph    BlockKind = "paragraph"
	KindPreformatted BlockKind = "preformatted"
	KindSpacer       BlockKind = "spacer"
)

// Block 是排版引擎消费的内容单元，按 Kind 区分有效字段：
//   - heading：Text + Level(1..3)
//   - paragraph：Text，内嵌换行拆成多行，不做折行
//   - preformatted：Text + MaxLineLength，等宽按字符数硬折行
//   - spacer：Height（mm），只占纵向空间
type Block struct {
	Kind          BlockKind `json:"kind"`
	Text          string    `json:"text,omitempty"`
	Level         int       `json:"level,omitempty"`
	MaxLineLength int       `json:"maxLineLength,omitempty"`
	Height        float64   `json:"height,omitempty"`
}

// Heading 创建标题块，level 取 1、2、3。
func Heading(text string, level int) Block {
	return Block{Kind: KindHeading, Text: text, Level: level}
}

// Paragraph 创建正文块。
func Paragraph(text string) Block {
	return Block{Kind: KindParagraph, Text: text}
}

// Preformatted 创建等宽预排版块。
func Preformatted(text string, maxLineLength int) Block {
	return Block{Kind: KindPreformatted, Text: text, MaxLineLength: maxLineLength}
}

// Spacer 创建空白块，height 单位为 mm。
func Spacer(height float64) Block {
	return Block{Kind: KindSpacer, Height: height}
}

// Validate 检查块是否满足类型约定。
func (b Block) Validate() error {
	switch b.Kind {
	case KindHeading:
		if b.Level < 1 || b.Level > 3 {
			return invalidf("标题级别必须为 1..3，实际为 %d", b.Level)
		}
	case KindParagraph:
	case KindPreformatted:
		if b.MaxLineLength <= 0 {
			return invalidf("预排版块的最大行长必须大于 0，实际为 %d", b.MaxLineLength)
		}
	case KindSpacer:
		if b.Height < 0 || math.IsNaN(b.Height) || math.IsInf(b.Height, 0) {
			return invalidf("空白块高度不合法：%g", b.Height)
		}
	default:
		return invalidf("未知的块类型 %q", b.Kind)
	}
	return nil
}

// Lines 返回块展开后的逻辑行，顺序与排版时放置的顺序一致；spacer 没有行。
func (b Block) Lines() ([]string, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	switch b.Kind {
	case KindHeading:
		return []string{b.Text}, nil
	case KindParagraph:
		return splitLogicalLines(b.Text), nil
	case KindPreformatted:
		return WrapFixed(b.Text, b.MaxLineLength)
	default:
		return nil, nil
	}
}

// Document 是有序的内容块列表，插入顺序即渲染顺序。
// 由调用方每次渲染时新建，排版期间不会被修改。
type Document struct {
	Meta   DocumentMeta `json:"meta"`
	Blocks []Block      `json:"blocks"`
}

// Append 追加内容块并返回文档本身，便于链式构建。
func (d *Document) Append(blocks ...Block) *Document {
	d.Blocks = append(d.Blocks, blocks...)
	return d
}

// Validate 依次检查所有块，返回第一个错误（附带块序号）。
func (d Document) Validate() error {
	for i, b := range d.Blocks {
		if err := b.Validate(); err != nil {
			return wrapBlockErr(i, err)
		}
	}
	return nil
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}

func splitLogicalLines(text string) []string {
	return strings.Split(text, "\n")
}
