package config

import (
	"fmt"
	"os"
	"slices"

	"github.com/ByLCY/codedoc/fonts"
	"github.com/ByLCY/codedoc/layout"
)

// FontFiles 读取 fonts 中配置的 TTF 文件，返回字体族到字节数据的映射。
func (c *Config) FontFiles() (map[string][]byte, error) {
	if len(c.Fonts) == 0 {
		return nil, nil
	}
	out := make(map[string][]byte, len(c.Fonts))
	for family, path := range c.Fonts {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, layout.IOFailure(fmt.Sprintf("读取字体 %s (%s)", family, path), err)
		}
		out[family] = data
	}
	return out, nil
}

// checkFamilies 要求每个样式使用内置字体族或 fonts 中声明的字体族。
func (c *Config) checkFamilies() error {
	known := fonts.Families()
	styles := map[string]StyleConfig{
		"styles.heading1":  c.Styles.Heading1,
		"styles.heading2":  c.Styles.Heading2,
		"styles.heading3":  c.Styles.Heading3,
		"styles.paragraph": c.Styles.Paragraph,
		"styles.code":      c.Styles.Code,
	}
	for name, sc := range styles {
		if sc.Family == "" || slices.Contains(known, sc.Family) {
			continue
		}
		if _, ok := c.Fonts[sc.Family]; ok {
			continue
		}
		return fmt.Errorf("%s.family: 未知的字体族 %q，可选 %v 或在 fonts 中声明", name, sc.Family, known)
	}
	return nil
}
