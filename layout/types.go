package layout

import (
	"strconv"
	"strings"
)

// 该文件定义分页结果，供排版、输出端与调试 JSON 共用。坐标与尺寸单位均为 mm，原点在页面左上角。

// Result 保存分页后的页面序列与文档元信息。
type Result struct {
	Pages []Page       `json:"pages"`
	Meta  DocumentMeta `json:"meta"`
}

// Page 记录页面尺寸、边距、已放置的行以及剩余的纵向预算。
type Page struct {
	Number    int            `json:"number"`
	Width     float64        `json:"width"`
	Height    float64        `json:"height"`
	Margin    Margin         `json:"margin"`
	Lines     []RenderedLine `json:"lines"`
	Remaining float64        `json:"remaining"`
	// Footer 为页脚文本（已替换页码占位符），X 为水平居中锚点；未配置页脚时为空。
	Footer *RenderedLine `json:"footer,omitempty"`
}

// Margin 以毫米为单位。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Font family names understood by the output sinks.
const (
	FamilySerif     = "serif"
	FamilySerifBold = "serif-bold"
	FamilyMono      = "mono"
)

// FontRef 描述字体族与字号（mm）。
type FontRef struct {
	Family string  `json:"family"`
	Size   float64 `json:"size"`
}

// RenderedLine 表示已经确定页面与坐标的一行文本。Y 为行顶部位置。
type RenderedLine struct {
	Text       string    `json:"text"`
	Kind       BlockKind `json:"kind"`
	Font       FontRef   `json:"font"`
	X          float64   `json:"x"`
	Y          float64   `json:"y"`
	LineHeight float64   `json:"lineHeight"`
}

// Texts 按页序、页内顺序返回所有行文本（不含页脚）。
func (r *Result) Texts() []string {
	if r == nil {
		return nil
	}
	var out []string
	for _, p := range r.Pages {
		for _, ln := range p.Lines {
			out = append(out, ln.Text)
		}
	}
	return out
}

// Color 为 8 位 RGB 颜色，零值表示使用输出端默认色。
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// ParseColor 解析 "#RRGGBB" 或 "RRGGBB"。
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return Color{}, invalidf("颜色格式错误: %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, invalidf("颜色格式错误: %q", s)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}
