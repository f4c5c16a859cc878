package layout

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

var wrapSamples = []string{
	"",
	"a",
	"hello world",
	strings.Repeat("x", 200),
	"line one\n\nline three",
	"\n",
	"trailing newline\n",
	"tabs\tand   spaces  ",
	"héllo wörld ünïcode 日本語のテキスト",
	"Traceback (most recent call last):\n  File \"main.py\", line 3, in <module>\n    main()\nZeroDivisionError: division by zero",
}

// TestWrapFixed200CharsAt65 验证 200 个字符按 65 折行得到 65/65/65/5 四行。
func TestWrapFixed200CharsAt65(t *testing.T) {
	lines, err := WrapFixed(strings.Repeat("a", 200), 65)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got []int
	for _, ln := range lines {
		got = append(got, len(ln))
	}
	if diff := cmp.Diff([]int{65, 65, 65, 5}, got); diff != "" {
		t.Fatalf("行长不符 (-want +got):\n%s", diff)
	}
}

func TestWrapFixedEmptyInput(t *testing.T) {
	lines, err := WrapFixed("", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{""}, lines); diff != "" {
		t.Fatalf("空输入应得到单个空行 (-want +got):\n%s", diff)
	}
}

func TestWrapFixedKeepsBlankLines(t *testing.T) {
	lines, err := WrapFixed("abcdef\n\ngh", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"abcd", "ef", "", "gh"}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestWrapFixedCountsRunes(t *testing.T) {
	lines, err := WrapFixed("日本語のテキスト", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"日本語", "のテキ", "スト"}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestWrapFixedRejectsNonPositiveLength(t *testing.T) {
	for _, n := range []int{0, -1, -65} {
		if _, err := WrapFixed("abc", n); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("n=%d 应返回 ErrInvalidArgument，实际: %v", n, err)
		}
	}
}

// TestWrapFixedReconstructs 验证：按原始行消费片段并拼接，再用换行连接，可还原原文。
func TestWrapFixedReconstructs(t *testing.T) {
	for _, text := range wrapSamples {
		for n := 1; n <= 12; n++ {
			lines, err := WrapFixed(text, n)
			if err != nil {
				t.Fatalf("n=%d: %v", n, err)
			}
			var rebuilt []string
			cursor := 0
			for _, unit := range strings.Split(text, "\n") {
				count := (utf8.RuneCountInString(unit) + n - 1) / n
				if count == 0 {
					count = 1
				}
				if cursor+count > len(lines) {
					t.Fatalf("n=%d text=%q: 片段数量不足", n, text)
				}
				rebuilt = append(rebuilt, strings.Join(lines[cursor:cursor+count], ""))
				cursor += count
			}
			if cursor != len(lines) {
				t.Fatalf("n=%d text=%q: 多出 %d 个片段", n, text, len(lines)-cursor)
			}
			if got := strings.Join(rebuilt, "\n"); got != text {
				t.Fatalf("n=%d 还原失败: got=%q want=%q", n, got, text)
			}
		}
	}
}

// TestWrapFixedIdempotent 验证每行不超过 n，且对单行再次折行不变。
func TestWrapFixedIdempotent(t *testing.T) {
	for _, text := range wrapSamples {
		for n := 1; n <= 12; n++ {
			lines, err := WrapFixed(text, n)
			if err != nil {
				t.Fatalf("n=%d: %v", n, err)
			}
			for _, ln := range lines {
				if c := utf8.RuneCountInString(ln); c > n {
					t.Fatalf("n=%d 行 %q 长度 %d 超限", n, ln, c)
				}
				again, err := WrapFixed(ln, n)
				if err != nil {
					t.Fatalf("n=%d: %v", n, err)
				}
				if len(again) != 1 || again[0] != ln {
					t.Fatalf("n=%d 对 %q 再次折行发生变化: %q", n, ln, again)
				}
			}
		}
	}
}
