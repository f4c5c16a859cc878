// Package project 保存代码文档报告的数据：版本、字段、笔记、测试结果、终端输出、代码与生成的建议。
// Project 由调用方持有，不做内部加锁；需要跨 goroutine 共享时由调用方串行化访问。
package project

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ByLCY/codedoc/layout"
)

// ErrNotFound 表示版本、代码文件或建议不存在。
var ErrNotFound = errors.New("not found")

// Project 是一份报告的全部内容，版本按添加顺序输出。
type Project struct {
	Title    string     `json:"title"`
	Author   string     `json:"author,omitempty"`
	Versions []*Version `json:"versions"`

	// MaxLineLength 为报告自带的折行宽度，0 表示使用排版默认值。
	MaxLineLength int `json:"maxLineLength,omitempty"`
}

// New 创建空项目。
func New(title string) *Project {
	return &Project{Title: title}
}

// AddVersion 添加版本；同名版本已存在时直接返回已有版本。
func (p *Project) AddVersion(name string) (*Version, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: 版本名不能为空", layout.ErrInvalidArgument)
	}
	if v := p.Version(name); v != nil {
		return v, nil
	}
	v := &Version{Name: name}
	p.Versions = append(p.Versions, v)
	return v, nil
}

// Version 按名称查找版本，不存在时返回 nil。
func (p *Project) Version(name string) *Version {
	for _, v := range p.Versions {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// MustVersion 与 Version 相同，但不存在时返回 ErrNotFound。
func (p *Project) MustVersion(name string) (*Version, error) {
	if v := p.Version(name); v != nil {
		return v, nil
	}
	return nil, fmt.Errorf("%w: 版本 %q", ErrNotFound, name)
}

// Validate 检查项目结构，主要用于从 JSON 等外部输入解码得到的项目：
// 版本与建议不能为 nil，版本名、字段名和文件名不能为空或重复，附加块必须合法。
func (p *Project) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: 项目为空", layout.ErrInvalidArgument)
	}
	if p.MaxLineLength < 0 {
		return fmt.Errorf("%w: maxLineLength 不能为负数", layout.ErrInvalidArgument)
	}
	seen := map[string]bool{}
	for i, v := range p.Versions {
		if v == nil {
			return fmt.Errorf("%w: 第 %d 个版本为空", layout.ErrInvalidArgument, i+1)
		}
		name := strings.TrimSpace(v.Name)
		if name == "" {
			return fmt.Errorf("%w: 第 %d 个版本缺少名称", layout.ErrInvalidArgument, i+1)
		}
		if seen[name] {
			return fmt.Errorf("%w: 版本 %q 重复", layout.ErrInvalidArgument, name)
		}
		seen[name] = true
		if err := v.validate(); err != nil {
			return fmt.Errorf("版本 %q: %w", name, err)
		}
	}
	return nil
}

func (v *Version) validate() error {
	for _, f := range v.Fields {
		if strings.TrimSpace(f.Key) == "" {
			return fmt.Errorf("%w: 字段名不能为空", layout.ErrInvalidArgument)
		}
	}
	files := map[string]bool{}
	for _, c := range v.Code {
		if err := uniqueName(files, c.File, "代码文件"); err != nil {
			return err
		}
	}
	suggested := map[string]bool{}
	for i, s := range v.Suggestions {
		if s == nil {
			return fmt.Errorf("%w: 第 %d 条建议为空", layout.ErrInvalidArgument, i+1)
		}
		if err := uniqueName(suggested, s.File, "建议文件"); err != nil {
			return err
		}
		switch s.Decision {
		case "", DecisionPending, DecisionAccepted, DecisionRejected:
		default:
			return fmt.Errorf("%w: 未知的审阅结论 %q", layout.ErrInvalidArgument, s.Decision)
		}
		if s.Failed && s.Decision == DecisionAccepted {
			return fmt.Errorf("%w: 文件 %q 的建议生成失败，不能为已采纳", layout.ErrInvalidArgument, s.File)
		}
	}
	for _, b := range v.Attachments {
		if err := b.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func uniqueName(seen map[string]bool, name, what string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: %s名不能为空", layout.ErrInvalidArgument, what)
	}
	if seen[name] {
		return fmt.Errorf("%w: %s %q 重复", layout.ErrInvalidArgument, what, name)
	}
	seen[name] = true
	return nil
}

// Field 是版本的一项键值信息，例如解释器或编译器版本。
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// CodeSection 是一个源文件的内容。
type CodeSection struct {
	File string `json:"file"`
	Code string `json:"code"`
}

// Version 保存单个应用版本的文档内容。
type Version struct {
	Name            string         `json:"name"`
	Fields          []Field        `json:"fields,omitempty"`
	Notes           []string       `json:"notes,omitempty"`
	TestResults     []string       `json:"testResults,omitempty"`
	TerminalOutputs []string       `json:"terminalOutputs,omitempty"`
	Code            []CodeSection  `json:"code,omitempty"`
	Suggestions     []*Suggestion  `json:"suggestions,omitempty"`
	Attachments     []layout.Block `json:"attachments,omitempty"`
}

// SetField 设置字段；同名字段保持原位置并覆盖值。
func (v *Version) SetField(key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: 字段名不能为空", layout.ErrInvalidArgument)
	}
	for i := range v.Fields {
		if v.Fields[i].Key == key {
			v.Fields[i].Value = value
			return nil
		}
	}
	v.Fields = append(v.Fields, Field{Key: key, Value: value})
	return nil
}

func (v *Version) AddNote(text string)           { v.Notes = append(v.Notes, text) }
func (v *Version) AddTestResult(text string)     { v.TestResults = append(v.TestResults, text) }
func (v *Version) AddTerminalOutput(text string) { v.TerminalOutputs = append(v.TerminalOutputs, text) }

// AddCode 添加或替换同名文件的代码，替换时保持原顺序。
func (v *Version) AddCode(file, code string) error {
	file = strings.TrimSpace(file)
	if file == "" {
		return fmt.Errorf("%w: 文件名不能为空", layout.ErrInvalidArgument)
	}
	for i := range v.Code {
		if v.Code[i].File == file {
			v.Code[i].Code = code
			return nil
		}
	}
	v.Code = append(v.Code, CodeSection{File: file, Code: code})
	return nil
}

// CodeFor 返回文件的代码。
func (v *Version) CodeFor(file string) (string, bool) {
	for _, c := range v.Code {
		if c.File == file {
			return c.Code, true
		}
	}
	return "", false
}

// Attach 追加一组已排版的块（例如从 Markdown 导入的笔记）。
func (v *Version) Attach(blocks ...layout.Block) {
	v.Attachments = append(v.Attachments, blocks...)
}
