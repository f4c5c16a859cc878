package layout

import (
	"encoding/json"
	"io"
	"os"
)

// EncodeDebugJSON 将分页结果编码为缩进 JSON，便于核对每页的行与剩余高度。
func EncodeDebugJSON(res *Result, w io.Writer) error {
	if res == nil {
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return IOFailure("编码调试 JSON", err)
	}
	return nil
}

// WriteDebugJSON 将分页结果写入 path。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return IOFailure("创建调试文件", err)
	}
	if err := EncodeDebugJSON(res, f); err != nil {
		f.Close()
		return err
	}
	return IOFailure("关闭调试文件", f.Close())
}
