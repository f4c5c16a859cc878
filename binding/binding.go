// Package binding 负责分析提示词模板的占位符替换。
package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultTemplate 为代码分析请求的默认提示词：先给出代码，再给出用户问题。
const DefaultTemplate = "Given the following code:\n\n${code}\n\n${prompt}"

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// AnalysisData 组装一次代码分析可用的模板变量。
func AnalysisData(version, file, code, prompt string) map[string]any {
	return map[string]any{
		"version": version,
		"file":    file,
		"code":    code,
		"prompt":  prompt,
	}
}

// Interpolate 将模板中的 ${path.to.value} 替换为 data 中的值，支持 [i] 下标。
// 路径无法解析时保留原占位符。替换结果不会被再次展开，代码中出现的 ${...} 原样保留。
func Interpolate(template string, data any) string {
	if data == nil {
		return template
	}
	return exprPattern.ReplaceAllStringFunc(template, func(match string) string {
		path := strings.TrimSpace(match[2 : len(match)-1])
		if path == "" {
			return match
		}
		if val, ok := resolvePath(data, path); ok {
			return fmt.Sprint(val)
		}
		return match
	})
}

// Placeholders 按出现顺序返回模板引用的路径（去重）。
func Placeholders(template string) []string {
	seen := map[string]bool{}
	var out []string
	for _, groups := range exprPattern.FindAllStringSubmatch(template, -1) {
		path := strings.TrimSpace(groups[1])
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true
		out = append(out, path)
	}
	return out
}

// Require 检查模板至少引用了给定的路径。
func Require(template string, paths ...string) error {
	have := map[string]bool{}
	for _, p := range Placeholders(template) {
		have[p] = true
	}
	var missing []string
	for _, p := range paths {
		if !have[p] {
			missing = append(missing, "${"+p+"}")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("模板缺少占位符: %s", strings.Join(missing, ", "))
	}
	return nil
}

func resolvePath(data any, path string) (any, bool) {
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, indexes, ok := parseSegment(segment)
		if !ok {
			return nil, false
		}
		if name != "" {
			if current, ok = descendMap(current, name); !ok {
				return nil, false
			}
		}
		for _, idx := range indexes {
			if current, ok = descendSlice(current, idx); !ok {
				return nil, false
			}
		}
	}
	return current, true
}

// parseSegment 拆分 "name[0][1]" 形式的路径段。
func parseSegment(segment string) (string, []int, bool) {
	i := strings.IndexByte(segment, '[')
	if i == -1 {
		return segment, nil, true
	}
	name, rest := segment[:i], segment[i:]
	var indexes []int
	for rest != "" {
		end := strings.IndexByte(rest, ']')
		if rest[0] != '[' || end == -1 {
			return "", nil, false
		}
		idx, err := strconv.Atoi(rest[1:end])
		if err != nil {
			return "", nil, false
		}
		indexes = append(indexes, idx)
		rest = rest[end+1:]
	}
	return name, indexes, true
}

func descendMap(current any, key string) (any, bool) {
	switch c := current.(type) {
	case map[string]any:
		val, ok := c[key]
		return val, ok
	case map[string]string:
		val, ok := c[key]
		return val, ok
	default:
		return nil, false
	}
}

func descendSlice(current any, idx int) (any, bool) {
	switch c := current.(type) {
	case []any:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	case []string:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	default:
		return nil, false
	}
}
