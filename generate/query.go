package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ByLCY/codedoc/binding"
	"github.com/ByLCY/codedoc/layout"
	"github.com/ByLCY/codedoc/project"
)

// QueryOptions 配置一次自由提问。
type QueryOptions struct {
	Prompt string
	// Project 非空时提示词中的 ${...} 按项目数据替换。
	Project *project.Project
	// IncludeContext 把项目已保存的版本内容以 JSON 形式放在问题之前。
	IncludeContext bool
	Logger         *zap.Logger
}

// Answer 是一次提问的结果；Failed 时 Text 为占位文本。
type Answer struct {
	Text   string `json:"text"`
	Failed bool   `json:"failed"`
}

// Query 向生成服务发送一次与具体代码文件无关的提问，结果不写入项目。
func Query(ctx context.Context, gen Generator, opts QueryOptions) (Answer, error) {
	if gen == nil {
		return Answer{}, fmt.Errorf("%w: 缺少生成器", layout.ErrInvalidArgument)
	}
	if strings.TrimSpace(opts.Prompt) == "" {
		return Answer{}, fmt.Errorf("%w: 问题不能为空", layout.ErrInvalidArgument)
	}
	if opts.IncludeContext && opts.Project == nil {
		return Answer{}, fmt.Errorf("%w: 附带上下文需要项目", layout.ErrInvalidArgument)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	prompt := opts.Prompt
	if opts.Project != nil {
		data := opts.Project.TemplateData()
		prompt = binding.Interpolate(prompt, data)
		if opts.IncludeContext {
			ctxJSON, err := json.MarshalIndent(data["versions"], "", "  ")
			if err != nil {
				return Answer{}, err
			}
			prompt = "Context:\n" + string(ctxJSON) + "\n\nQuery:\n" + prompt
		}
	}

	text, err := gen.GenerateText(ctx, Request{Prompt: prompt})
	if err != nil && ctx.Err() != nil {
		return Answer{}, ctx.Err()
	}
	out, failed := Resolve(text, err)
	if failed {
		log.Warn("query failed", zap.Error(err))
	} else {
		log.Debug("query done", zap.Int("chars", len(out)))
	}
	return Answer{Text: out, Failed: failed}, nil
}
