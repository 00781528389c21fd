package renderer

import (
	"fmt"
	"strings"

	"github.com/ByLCY/placard/layout"
)

// Format 是输出文件格式。
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatPDF  Format = "pdf"
)

// Renderer 将场景输出为最终文件，例如 PNG 图像或 PDF。
// 渲染器同时也是 layout.Measurer，保证排版与绘制使用同一套字体度量。
type Renderer interface {
	layout.Measurer
	Render(scene *layout.Scene, format Format) ([]byte, error)
}

// ParseFormat 解析格式名称，接受 jpg 作为 jpeg 的别名。
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("不支持的输出格式：%s", s)
	}
}

// Ext 返回格式对应的文件扩展名。
func (f Format) Ext() string {
	if f == FormatJPEG {
		return ".jpg"
	}
	return "." + string(f)
}
