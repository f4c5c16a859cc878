package generate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ByLCY/codedoc/binding"
	"github.com/ByLCY/codedoc/layout"
	"github.com/ByLCY/codedoc/project"
)

// AnalyzeOptions 配置一次版本分析。
type AnalyzeOptions struct {
	Prompt string
	// Template 为空时使用 binding.DefaultTemplate。
	Template string
	Logger   *zap.Logger
}

// Summary 汇总一次分析的结果。
type Summary struct {
	Generated []string `json:"generated"`
	Failed    []string `json:"failed"`
}

// Analyze 对版本中的每个代码文件按顺序调用一次生成服务，结果作为待审阅建议写入版本。
// 单个文件失败时写入占位文本并继续；context 取消时立即返回。
func Analyze(ctx context.Context, gen Generator, v *project.Version, opts AnalyzeOptions) (Summary, error) {
	var sum Summary
	if gen == nil || v == nil {
		return sum, fmt.Errorf("%w: 缺少生成器或版本", layout.ErrInvalidArgument)
	}
	template := opts.Template
	if template == "" {
		template = binding.DefaultTemplate
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	for _, cs := range v.Code {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		prompt := binding.Interpolate(template, binding.AnalysisData(v.Name, cs.File, cs.Code, opts.Prompt))
		text, err := gen.GenerateText(ctx, Request{Prompt: prompt, Code: cs.Code, File: cs.File})
		if err != nil && ctx.Err() != nil {
			return sum, ctx.Err()
		}
		out, failed := Resolve(text, err)
		v.SetSuggestion(cs.File, out, failed)
		if failed {
			sum.Failed = append(sum.Failed, cs.File)
			log.Warn("code analysis failed",
				zap.String("version", v.Name),
				zap.String("file", cs.File),
				zap.Error(err))
			continue
		}
		sum.Generated = append(sum.Generated, cs.File)
		log.Debug("code analysis done",
			zap.String("version", v.Name),
			zap.String("file", cs.File),
			zap.Int("chars", len(out)))
	}
	return sum, nil
}
