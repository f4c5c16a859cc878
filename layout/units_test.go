package layout

import (
	"errors"
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 8, 10, 12, 14.4, 72, 1000}
	for _, pt := range samples {
		back := Length{Value: Pt(pt).ToMM(), Unit: UnitMM}.ToPT()
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt back=%g diff=%g", pt, back, diff)
		}
	}
}

func TestParseLength(t *testing.T) {
	cases := map[string]float64{
		"25.4mm": 25.4,
		"2.54cm": 25.4,
		"1in":    25.4,
		"72pt":   72 * PtToMm,
		" 12 ":   12,
		"36 PT":  36 * PtToMm,
	}
	for in, want := range cases {
		l, err := ParseLength(in)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if got := l.ToMM(); math.Abs(got-want) > 1e-9 {
			t.Fatalf("%q 转 mm 期望 %g，实际 %g", in, want, got)
		}
	}
	for _, bad := range []string{"", "abc", "12px"} {
		if _, err := ParseLength(bad); err == nil {
			t.Fatalf("%q 应解析失败", bad)
		}
	}
}

// TestLineHeightResolve 验证行高解析：倍数与绝对值两种语义。
func TestLineHeightResolve(t *testing.T) {
	fontSize := Pt(10)
	spec, err := ParseLineHeight("1.2x")
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if got, want := spec.ResolveMM(fontSize), 12*PtToMm; math.Abs(got-want) > 1e-9 {
		t.Fatalf("1.2x 解析错误: got=%g want=%g", got, want)
	}
	spec, err = ParseLineHeight("14pt")
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if spec.Kind != LineHeightAbsolute {
		t.Fatalf("14pt 应为绝对行高")
	}
	if got, want := spec.ResolveMM(fontSize), 14*PtToMm; math.Abs(got-want) > 1e-9 {
		t.Fatalf("14pt 解析错误: got=%g want=%g", got, want)
	}
	if _, err := ParseLineHeight("0x"); err == nil {
		t.Fatalf("0x 应解析失败")
	}
}

func TestPageSize(t *testing.T) {
	w, h, err := PageSize("Letter", false)
	if err != nil || w != 215.9 || h != 279.4 {
		t.Fatalf("letter 尺寸错误: %g x %g (%v)", w, h, err)
	}
	w, h, err = PageSize("a4", true)
	if err != nil || w != 297 || h != 210 {
		t.Fatalf("A4 横向尺寸错误: %g x %g (%v)", w, h, err)
	}
	if _, _, err := PageSize("B5", false); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("未知纸张应返回 ErrInvalidArgument，实际: %v", err)
	}
}
