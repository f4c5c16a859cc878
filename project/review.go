package project

import (
	"fmt"
	"strings"

	"github.com/ByLCY/codedoc/layout"
)

// Decision 是对生成建议的审阅结论。
type Decision string

const (
	DecisionPending  Decision = "pending"
	DecisionAccepted Decision = "accepted"
	DecisionRejected Decision = "rejected"
)

// ParseDecision 解析审阅结论，兼容表单中的 "Apply AI Suggestion" / "Keep Original"。
func ParseDecision(s string) (Decision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending", "":
		return DecisionPending, nil
	case "accepted", "accept", "apply", "apply ai suggestion":
		return DecisionAccepted, nil
	case "rejected", "reject", "keep", "keep original":
		return DecisionRejected, nil
	default:
		return "", fmt.Errorf("%w: 未知的审阅结论 %q", layout.ErrInvalidArgument, s)
	}
}

// Suggestion 是针对某个文件生成的建议文本。
// Failed 为 true 时 Text 为占位错误信息，不能被采纳。
type Suggestion struct {
	File     string   `json:"file"`
	Text     string   `json:"text"`
	Decision Decision `json:"decision"`
	Failed   bool     `json:"failed,omitempty"`
}

// SetSuggestion 记录文件的建议，覆盖旧建议并重置为待审阅。
func (v *Version) SetSuggestion(file, text string, failed bool) *Suggestion {
	if s := v.Suggestion(file); s != nil {
		s.Text, s.Failed, s.Decision = text, failed, DecisionPending
		return s
	}
	s := &Suggestion{File: file, Text: text, Decision: DecisionPending, Failed: failed}
	v.Suggestions = append(v.Suggestions, s)
	return s
}

// Suggestion 返回文件的建议，不存在时返回 nil。
func (v *Version) Suggestion(file string) *Suggestion {
	for _, s := range v.Suggestions {
		if s.File == file {
			return s
		}
	}
	return nil
}

// Review 记录审阅结论。
func (v *Version) Review(file string, decision Decision) error {
	s := v.Suggestion(file)
	if s == nil {
		return fmt.Errorf("%w: 文件 %q 没有建议", ErrNotFound, file)
	}
	switch decision {
	case DecisionPending, DecisionRejected:
	case DecisionAccepted:
		if s.Failed {
			return fmt.Errorf("%w: 文件 %q 的建议生成失败，不能采纳", layout.ErrInvalidArgument, file)
		}
	default:
		return fmt.Errorf("%w: 未知的审阅结论 %q", layout.ErrInvalidArgument, decision)
	}
	s.Decision = decision
	return nil
}

// Finalize 将已采纳的建议写回对应文件的代码，返回被替换的文件列表。
func (v *Version) Finalize() []string {
	var applied []string
	for _, s := range v.Suggestions {
		if s.Decision != DecisionAccepted || s.Failed {
			continue
		}
		if !v.replaceCode(s.File, s.Text) {
			continue
		}
		applied = append(applied, s.File)
	}
	return applied
}

// replaceCode 替换已存在文件的代码，文件不存在时返回 false。
func (v *Version) replaceCode(file, code string) bool {
	for i := range v.Code {
		if v.Code[i].File == file {
			v.Code[i].Code = code
			return true
		}
	}
	return false
}

// Pending 返回尚未审阅的建议文件。
func (v *Version) Pending() []string {
	var out []string
	for _, s := range v.Suggestions {
		// 外部输入省略 decision 时视为待审阅
		if s.Decision == DecisionPending || s.Decision == "" {
			out = append(out, s.File)
		}
	}
	return out
}
