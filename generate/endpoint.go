package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Endpoint 向固定 URL 发送 JSON 请求 {"prompt","code","file"}，期望响应 {"text": "..."}。
type Endpoint struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

// NewEndpoint 创建 HTTP 生成器；apiKey 非空时以 Bearer 方式发送。
func NewEndpoint(url, apiKey string, timeout time.Duration) *Endpoint {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Endpoint{
		url:        url,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type endpointRequest struct {
	Prompt string `json:"prompt"`
	Code   string `json:"code,omitempty"`
	File   string `json:"file,omitempty"`
}

type endpointResponse struct {
	Text *string `json:"text"`
}

func (e *Endpoint) GenerateText(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(endpointRequest{Prompt: req.Prompt, Code: req.Code, File: req.File})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("generate endpoint: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &RemoteCallError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	var out endpointResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrMalformedResponse, err)
	}
	if out.Text == nil {
		return "", fmt.Errorf("%w: response has no text field", ErrMalformedResponse)
	}
	return *out.Text, nil
}

// Close releases idle connections.
func (e *Endpoint) Close() {
	e.httpClient.CloseIdleConnections()
}
