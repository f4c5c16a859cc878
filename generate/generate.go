// Package generate 封装代码分析所用的文本生成服务。每次调用都是一次同步请求，不做重试。
package generate

import (
	"context"
	"errors"
	"fmt"
)

// 生成失败时写入文档的占位文本。
const (
	PlaceholderConnect = "Error: Could not connect to the API."
	PlaceholderParse   = "Error: Could not parse the API response."
)

// ErrMalformedResponse 表示服务有响应，但无法从中取出文本。
var ErrMalformedResponse = errors.New("malformed response")

// Request 是一次生成请求。Prompt 为已替换模板后的完整提示词。
type Request struct {
	Prompt string
	Code   string
	File   string
}

// Generator 根据提示词生成文本。
type Generator interface {
	GenerateText(ctx context.Context, req Request) (string, error)
}

// GeneratorFunc 将普通函数适配为 Generator。
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

func (f GeneratorFunc) GenerateText(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// RemoteCallError 表示服务返回了非成功状态。
type RemoteCallError struct {
	StatusCode int
	Message    string
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("remote call failed (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// Resolve 将一次调用的结果转换为写入文档的文本；failed 表示写入的是占位文本。
func Resolve(text string, err error) (string, bool) {
	switch {
	case err == nil:
		return text, false
	case errors.Is(err, ErrMalformedResponse):
		return PlaceholderParse, true
	default:
		return PlaceholderConnect, true
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
