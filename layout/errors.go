package layout

import (
	"errors"
	"fmt"
)

// 渲染链路的错误分类，调用方使用 errors.Is 判断。
var (
	// ErrInvalidArgument 表示块数据或排版参数不合法（调用方编程错误），不会被静默修正。
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrIOFailure 表示输出端无法产出字节流。
	ErrIOFailure = errors.New("io failure")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// IOFailure 将底层写入错误包装为 ErrIOFailure，供输出端实现使用。
func IOFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrIOFailure, op, err)
}

func wrapBlockErr(index int, err error) error {
	return fmt.Errorf("第 %d 个内容块: %w", index+1, err)
}
