package renderer

import (
	"fmt"
	"strings"

	"github.com/ByLCY/codedoc/layout"
)

// Renderer 将分页结果一次性序列化为最终文件（PDF、DOCX 等）。
// 页序、页内行序与水平偏移保持不变；失败时不返回任何字节。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// Format 描述一种输出格式的文件扩展名与 MIME 类型。
type Format struct {
	Name        string
	Extension   string
	ContentType string
}

var (
	PDF  = Format{Name: "pdf", Extension: ".pdf", ContentType: "application/pdf"}
	DOCX = Format{Name: "docx", Extension: ".docx", ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document"}
)

// ParseFormat 解析格式名，空字符串视为 pdf。
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "pdf":
		return PDF, nil
	case "docx", "word":
		return DOCX, nil
	default:
		return Format{}, fmt.Errorf("%w: 不支持的输出格式 %q", layout.ErrInvalidArgument, name)
	}
}

// CheckResult 校验分页结果可以被输出端消费。
func CheckResult(result *layout.Result) error {
	if result == nil {
		return fmt.Errorf("%w: 渲染结果为空", layout.ErrInvalidArgument)
	}
	if len(result.Pages) == 0 {
		return fmt.Errorf("%w: 缺少可渲染的页面", layout.ErrInvalidArgument)
	}
	return nil
}
