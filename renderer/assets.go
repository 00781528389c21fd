package renderer

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/ByLCY/placard/layout"
)

// Background fit modes.
const (
	FitFill    = "fill"
	FitFit     = "fit"
	FitStretch = "stretch"
)

// ResolvePath 把卡片中的相对路径解析到 baseDir 下。
func ResolvePath(baseDir, src string) (string, error) {
	if src == "" {
		return "", fmt.Errorf("资源路径为空")
	}
	if filepath.IsAbs(src) {
		return src, nil
	}
	if baseDir == "" {
		return "", fmt.Errorf("未指定资源目录时不允许使用相对路径：%s", src)
	}
	return filepath.Join(baseDir, src), nil
}

// LoadBackground 读取背景图片并按 fit 缩放到 width×height 像素。
func LoadBackground(baseDir string, bg layout.Background, width, height int) (image.Image, error) {
	path, err := ResolvePath(baseDir, bg.Image)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("读取背景图片 %s 失败: %w", bg.Image, err)
	}
	return FitImage(img, width, height, bg.Fit), nil
}

// FitImage 将图片缩放到目标尺寸。fill 居中裁剪铺满，fit 等比缩放后居中留透明边，stretch 直接拉伸。
func FitImage(img image.Image, width, height int, fit string) image.Image {
	switch strings.ToLower(fit) {
	case FitStretch:
		return imaging.Resize(img, width, height, imaging.Lanczos)
	case FitFit:
		scaled := imaging.Fit(img, width, height, imaging.Lanczos)
		return imaging.PasteCenter(imaging.New(width, height, color.NRGBA{}), scaled)
	default:
		return imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)
	}
}

// NRGBA 转换为标准库颜色。
func NRGBA(c layout.Color) color.NRGBA {
	return color.NRGBA{R: clamp8(c.R), G: clamp8(c.G), B: clamp8(c.B), A: clamp8(c.A)}
}

func clamp8(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}

// OutlineOffsets 返回绘制描边时文字需要偏移的位置：半径为 width 的一圈，共 16 个方向。
func OutlineOffsets(width float64) [][2]float64 {
	if width <= 0 {
		return nil
	}
	const steps = 16
	out := make([][2]float64, 0, steps)
	for i := 0; i < steps; i++ {
		angle := 2 * math.Pi * float64(i) / steps
		out = append(out, [2]float64{width * math.Cos(angle), width * math.Sin(angle)})
	}
	return out
}
