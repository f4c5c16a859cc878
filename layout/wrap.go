package layout

import "unicode/utf8"

// WrapFixed 将等宽文本按字符数硬折行。
// 先按换行符切分（空行保留为空字符串），再把超过 maxLineLength 的行切成等长片段，
// 最后一段可以更短。不识别单词边界：日志与代码允许在任意位置断开。
// 空输入返回单个空行；相同 maxLineLength 下对结果再次折行不会产生变化。
func WrapFixed(text string, maxLineLength int) ([]string, error) {
	if maxLineLength < 1 {
		return nil, invalidf("最大行长必须 >= 1，实际为 %d", maxLineLength)
	}
	units := splitLogicalLines(text)
	out := make([]string, 0, len(units))
	for _, unit := range units {
		out = appendChunks(out, unit, maxLineLength)
	}
	return out, nil
}

func appendChunks(out []string, unit string, n int) []string {
	if utf8.RuneCountInString(unit) <= n {
		return append(out, unit)
	}
	count := 0
	start := 0
	for i := range unit {
		if count == n {
			out = append(out, unit[start:i])
			start = i
			count = 0
		}
		count++
	}
	return append(out, unit[start:])
}
