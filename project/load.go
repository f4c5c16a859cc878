package project

import (
	"fmt"
	"io"
	"io/fs"
	"strconv"

	"github.com/ByLCY/codedoc/dsl"
	"github.com/ByLCY/codedoc/layout"
)

// LoadOptions 控制报告源文件的加载。
type LoadOptions struct {
	// Files 用于解析 notes-file 引用的相对路径，为空时 notes-file 报错。
	Files fs.FS
	// MaxLineLength 为导入 Markdown 笔记时代码块的折行宽度，0 表示 65；报告自带 max-line-length 时以报告为准。
	MaxLineLength int
}

// Load 解析报告源文件并构建项目。
func Load(r io.Reader, opts LoadOptions) (*Project, error) {
	rep, err := dsl.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: 解析报告失败: %w", layout.ErrInvalidArgument, err)
	}
	return FromReport(rep, opts)
}

// FromReport 将已解析的报告转换为项目。
func FromReport(rep *dsl.Report, opts LoadOptions) (*Project, error) {
	if rep == nil {
		return nil, fmt.Errorf("%w: 报告为空", layout.ErrInvalidArgument)
	}
	p := New(string(rep.Title))
	for _, f := range rep.Body.Fields() {
		switch f.Key {
		case "author":
			p.Author = f.Value.Text()
		case "max-line-length":
			n, err := strconv.Atoi(f.Value.Text())
			if err != nil || n <= 0 {
				return nil, posErr(f.Pos.Line, "max-line-length 必须为正整数: %q", f.Value.Text())
			}
			p.MaxLineLength = n
		default:
			return nil, posErr(f.Pos.Line, "未知的报告字段 %q", f.Key)
		}
	}
	if p.MaxLineLength > 0 {
		opts.MaxLineLength = p.MaxLineLength
	}
	if opts.MaxLineLength <= 0 {
		opts.MaxLineLength = DefaultComposeOptions().MaxLineLength
	}

	for _, cmd := range rep.Body.Commands() {
		if cmd.Name != "version" {
			return nil, posErr(cmd.Pos.Line, "报告顶层只允许 version，实际 %q", cmd.Name)
		}
		args, err := stringArgs(cmd, 1, 1)
		if err != nil {
			return nil, err
		}
		if cmd.Block == nil {
			return nil, posErr(cmd.Pos.Line, "version %q 缺少内容块", args[0])
		}
		v, err := p.AddVersion(args[0])
		if err != nil {
			return nil, posErr(cmd.Pos.Line, "%v", err)
		}
		if err := loadVersion(v, cmd.Block, opts); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func loadVersion(v *Version, block *dsl.Block, opts LoadOptions) error {
	for _, st := range block.Statements {
		if f := st.Field; f != nil {
			if err := v.SetField(f.Key, f.Value.Text()); err != nil {
				return posErr(f.Pos.Line, "%v", err)
			}
			continue
		}
		if err := applyCommand(v, st.Command, opts); err != nil {
			return err
		}
	}
	return nil
}

func applyCommand(v *Version, cmd *dsl.Command, opts LoadOptions) error {
	if cmd.Block != nil {
		return posErr(cmd.Pos.Line, "%s 不接受内容块", cmd.Name)
	}
	switch cmd.Name {
	case "note", "test", "terminal":
		args, err := stringArgs(cmd, 1, 1)
		if err != nil {
			return err
		}
		switch cmd.Name {
		case "note":
			v.AddNote(args[0])
		case "test":
			v.AddTestResult(args[0])
		default:
			v.AddTerminalOutput(args[0])
		}
	case "code":
		args, err := stringArgs(cmd, 2, 2)
		if err != nil {
			return err
		}
		if err := v.AddCode(args[0], args[1]); err != nil {
			return posErr(cmd.Pos.Line, "%v", err)
		}
	case "suggestion":
		return applySuggestion(v, cmd)
	case "notes-file":
		args, err := stringArgs(cmd, 1, 1)
		if err != nil {
			return err
		}
		if opts.Files == nil {
			return posErr(cmd.Pos.Line, "notes-file %q: 未提供文件系统", args[0])
		}
		data, err := fs.ReadFile(opts.Files, args[0])
		if err != nil {
			return fmt.Errorf("第 %d 行: %w", cmd.Pos.Line, layout.IOFailure("读取 "+args[0], err))
		}
		blocks, err := ImportMarkdown(data, opts.MaxLineLength)
		if err != nil {
			return posErr(cmd.Pos.Line, "%v", err)
		}
		v.Attach(blocks...)
	default:
		return posErr(cmd.Pos.Line, "未知的命令 %q", cmd.Name)
	}
	return nil
}

// applySuggestion 处理 `suggestion "file" "text" [accepted|rejected|pending] [failed]`。
func applySuggestion(v *Version, cmd *dsl.Command) error {
	if len(cmd.Args) < 2 || !cmd.Args[0].IsString() || !cmd.Args[1].IsString() {
		return posErr(cmd.Pos.Line, "suggestion 需要文件名与建议文本")
	}
	decision := DecisionPending
	failed := false
	for _, arg := range cmd.Args[2:] {
		if arg.IsString() {
			return posErr(arg.Pos.Line, "suggestion 多余的字符串参数 %q", arg.Value)
		}
		if arg.Value == "failed" {
			failed = true
			continue
		}
		d, err := ParseDecision(arg.Value)
		if err != nil {
			return posErr(arg.Pos.Line, "%v", err)
		}
		decision = d
	}
	v.SetSuggestion(cmd.Args[0].Value, cmd.Args[1].Value, failed)
	if err := v.Review(cmd.Args[0].Value, decision); err != nil {
		return posErr(cmd.Pos.Line, "%v", err)
	}
	return nil
}

func stringArgs(cmd *dsl.Command, lo, hi int) ([]string, error) {
	if len(cmd.Args) < lo || len(cmd.Args) > hi {
		return nil, posErr(cmd.Pos.Line, "%s 需要 %d 个字符串参数，实际 %d 个", cmd.Name, lo, len(cmd.Args))
	}
	out := make([]string, 0, len(cmd.Args))
	for _, arg := range cmd.Args {
		if !arg.IsString() {
			return nil, posErr(arg.Pos.Line, "%s 的参数必须是字符串，实际 %q", cmd.Name, arg.Raw)
		}
		out = append(out, arg.Value)
	}
	return out, nil
}

func posErr(line int, format string, args ...any) error {
	return fmt.Errorf("%w: 第 %d 行: %s", layout.ErrInvalidArgument, line, fmt.Sprintf(format, args...))
}
