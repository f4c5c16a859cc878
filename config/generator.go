package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/ByLCY/codedoc/generate"
)

// NewGenerator 根据配置创建生成服务；provider 为 none 时返回 nil。
func (c *Config) NewGenerator(ctx context.Context) (generate.Generator, error) {
	g := c.Generator
	switch strings.ToLower(g.Provider) {
	case "none", "":
		return nil, nil
	case "gemini":
		gem, err := generate.NewGemini(ctx, generate.GeminiOptions{APIKey: g.APIKey, Model: g.Model, BaseURL: g.BaseURL})
		if err != nil {
			return nil, err
		}
		return gem, nil
	case "endpoint":
		if g.Endpoint == "" {
			return nil, fmt.Errorf("generator.endpoint is required for provider endpoint")
		}
		return generate.NewEndpoint(g.Endpoint, g.APIKey, c.GeneratorTimeout()), nil
	default:
		return nil, fmt.Errorf("unknown generator provider %q", g.Provider)
	}
}
