package layout

import (
	"math"
	"testing"
)

// TestPtPxRoundTrip 验证 pt↔px 换算的往返精度（允许极小的浮点误差）。
func TestPtPxRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		back := pt * PtToPx * PxToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→px→pt 往返误差过大: in=%gpt back=%g diff=%g", pt, back, diff)
		}
	}
}

// TestParseLength 覆盖常见单位的解析与换算。
func TestParseLength(t *testing.T) {
	tests := []struct {
		in        string
		reference float64
		want      float64
		unit      Unit
	}{
		{"48px", 0, 48, UnitPX},
		{"36pt", 0, 48, UnitPT},
		{"5%", 1080, 54, UnitPercent},
		{" 12 ", 0, 12, UnitNone},
		{"abc", 0, 0, UnitNone},
		{"", 0, 0, UnitNone},
	}
	for _, tt := range tests {
		l := ParseLength(tt.in)
		if l.Unit != tt.unit {
			t.Fatalf("ParseLength(%q) unit=%v want %v", tt.in, l.Unit, tt.unit)
		}
		if got := l.Px(tt.reference); math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("ParseLength(%q).Px(%g) = %g, want %g", tt.in, tt.reference, got, tt.want)
		}
	}
}

// TestLineHeightResolve 验证行高解析：倍数与绝对值两种语义。
func TestLineHeightResolve(t *testing.T) {
	spec, ok := ParseLineHeight("1.5x")
	if !ok || spec.Kind != LineHeightFactor {
		t.Fatalf("1.5x 应解析为倍数: %+v ok=%v", spec, ok)
	}
	if got := spec.Resolve(40); math.Abs(got-60) > 1e-9 {
		t.Fatalf("1.5x 行高错误: got=%g want=60", got)
	}

	spec, ok = ParseLineHeight("30pt")
	if !ok || spec.Kind != LineHeightAbsolute {
		t.Fatalf("30pt 应解析为绝对值: %+v ok=%v", spec, ok)
	}
	if got := spec.Resolve(40); math.Abs(got-40) > 1e-9 {
		t.Fatalf("30pt 行高错误: got=%g want=40", got)
	}

	for _, bad := range []string{"", "0x", "-1x", "0px", "zz"} {
		if _, ok := ParseLineHeight(bad); ok {
			t.Fatalf("%q 不应被接受", bad)
		}
	}

	var zero LineHeightSpec
	if got := zero.Resolve(10); math.Abs(got-12) > 1e-9 {
		t.Fatalf("默认行高应为 1.2x: got=%g", got)
	}
}
