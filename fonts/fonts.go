// Package fonts 提供输出端使用的内置字体字节，来自 Latin Modern 字体族。
package fonts

import (
	"fmt"

	"github.com/go-fonts/latin-modern/lmmono10regular"
	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10regular"

	"github.com/ByLCY/codedoc/layout"
)

// 初始化后只读，可被并发渲染共享。
var builtin = map[string][]byte{
	layout.FamilySerif:     lmroman10regular.TTF,
	layout.FamilySerifBold: lmroman10bold.TTF,
	layout.FamilyMono:      lmmono10regular.TTF,
}

// Load 返回字体族对应的 TTF 数据。
func Load(family string) ([]byte, error) {
	data, ok := builtin[family]
	if !ok || len(data) == 0 {
		return nil, fmt.Errorf("未知的内置字体族 %q", family)
	}
	return data, nil
}

// Families 返回所有内置字体族名称。
func Families() []string {
	return []string{layout.FamilySerif, layout.FamilySerifBold, layout.FamilyMono}
}
