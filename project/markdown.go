package project

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/ByLCY/codedoc/layout"
)

// ImportMarkdown 将 Markdown 笔记转换为内容块：
// 标题转为 Heading（4 级以下并入 3 级），段落与列表项转为 Paragraph，代码块转为 Preformatted，分隔线转为 Spacer。
func ImportMarkdown(src []byte, maxLineLength int) ([]layout.Block, error) {
	if maxLineLength <= 0 {
		return nil, fmt.Errorf("%w: 折行宽度必须为正数，实际 %d", layout.ErrInvalidArgument, maxLineLength)
	}
	src = []byte(normalizeText(string(src), 0))
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var blocks []layout.Block
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		blocks = appendMarkdownNode(blocks, n, src, maxLineLength, "")
	}
	return blocks, nil
}

func appendMarkdownNode(blocks []layout.Block, n ast.Node, src []byte, maxLineLength int, bullet string) []layout.Block {
	switch node := n.(type) {
	case *ast.Heading:
		level := node.Level
		if level > 3 {
			level = 3
		}
		return append(blocks, layout.Heading(inlineText(node, src), level))
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return append(blocks, layout.Preformatted(codeText(n, src), maxLineLength))
	case *ast.ThematicBreak:
		return append(blocks, layout.Spacer(layout.Pt(10).ToMM()))
	case *ast.List:
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			marker := "- "
			if node.IsOrdered() {
				marker = strconv.Itoa(node.Start+countPrev(item)) + ". "
			}
			for c := item.FirstChild(); c != nil; c = c.NextSibling() {
				blocks = appendMarkdownNode(blocks, c, src, maxLineLength, bullet+marker)
				marker = ""
			}
		}
		return blocks
	case *ast.Blockquote:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			blocks = appendMarkdownNode(blocks, c, src, maxLineLength, bullet+"> ")
		}
		return blocks
	default:
		t := inlineText(n, src)
		if t == "" {
			return blocks
		}
		return append(blocks, layout.Paragraph(bullet+t))
	}
}

// inlineText 拼接节点内的文本，保留软换行与硬换行。
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			buf.WriteString(inlineText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}

func codeText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return strings.TrimRight(buf.String(), "\n")
}

func countPrev(item ast.Node) int {
	n := 0
	for p := item.PreviousSibling(); p != nil; p = p.PreviousSibling() {
		n++
	}
	return n
}
