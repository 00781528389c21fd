// Package raster 使用 fogleman/gg 与 freetype 绘制位图卡片，不依赖矢量后端。
package raster

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"image/png"
	"log/slog"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/ByLCY/placard/fonts"
	"github.com/ByLCY/placard/layout"
	"github.com/ByLCY/placard/renderer"
)

// Renderer draws scenes into PNG or JPEG images.
type Renderer struct {
	baseDir    string
	quality    int
	registered map[string]string
	loader     *renderer.FontLoader
	logger     *slog.Logger

	mu    sync.Mutex // truetype faces 不是并发安全的，测量与绘制都需持锁
	fonts map[string]*truetype.Font
	faces map[string]font.Face
}

var _ renderer.Renderer = (*Renderer)(nil)

type Option func(*Renderer)

// WithJPEGQuality 设置 JPEG 输出质量（1-100）。
func WithJPEGQuality(q int) Option {
	return func(r *Renderer) {
		if q > 0 && q <= 100 {
			r.quality = q
		}
	}
}

// WithFonts 注册按名称引用的字体文件（名称 -> TTF 路径）。
func WithFonts(registered map[string]string) Option {
	return func(r *Renderer) {
		r.registered = registered
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func New(baseDir string, opts ...Option) *Renderer {
	r := &Renderer{
		baseDir: baseDir,
		quality: 90,
		logger:  slog.New(slog.DiscardHandler),
		fonts:   map[string]*truetype.Font{},
		faces:   map[string]font.Face{},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.loader = renderer.NewFontLoader(baseDir, r.registered)
	return r
}

// MeasureText implements layout.Measurer.
func (r *Renderer) MeasureText(text string, res layout.FontResource) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := &font.Drawer{Face: r.face(res)}
	return float64(d.MeasureString(text)) / 64
}

func (r *Renderer) Render(scene *layout.Scene, format renderer.Format) ([]byte, error) {
	if scene == nil {
		return nil, fmt.Errorf("渲染场景为空")
	}
	w, h := int(scene.Width), int(scene.Height)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("画布尺寸无效：%vx%v", scene.Width, scene.Height)
	}
	if format != renderer.FormatPNG && format != renderer.FormatJPEG {
		return nil, fmt.Errorf("raster 后端不支持输出格式：%s", format)
	}

	dc := gg.NewContext(w, h)
	dc.SetColor(renderer.NRGBA(scene.Background.Color))
	dc.Clear()
	if scene.Background.Image != "" {
		img, err := renderer.LoadBackground(r.baseDir, scene.Background, w, h)
		if err != nil {
			return nil, err
		}
		dc.DrawImage(img, 0, 0)
	}

	r.mu.Lock()
	for _, tb := range scene.Texts {
		r.drawTextBox(dc, tb)
	}
	r.mu.Unlock()

	var buf bytes.Buffer
	var err error
	if format == renderer.FormatJPEG {
		err = jpeg.Encode(&buf, dc.Image(), &jpeg.Options{Quality: r.quality})
	} else {
		err = png.Encode(&buf, dc.Image())
	}
	if err != nil {
		return nil, fmt.Errorf("编码 %s 失败: %w", format, err)
	}
	return buf.Bytes(), nil
}

// drawTextBox 在 (X, Ys[i]) 处绘制每一行，Ys 为行的垂直中心。
func (r *Renderer) drawTextBox(dc *gg.Context, tb layout.TextBox) {
	face := r.face(tb.Font)
	dc.SetFontFace(face)
	// 基线 = 行中心 + (ascent - descent) / 2，与 canvas 后端一致
	metrics := face.Metrics()
	shift := float64(metrics.Ascent-metrics.Descent) / 64 / 2
	ax := 0.5
	switch strings.ToLower(tb.Align) {
	case "left", "start":
		ax = 0
	case "right", "end":
		ax = 1
	}
	for i, line := range tb.Lines {
		if i >= len(tb.Ys) {
			break
		}
		y := tb.Ys[i] + shift
		if tb.Outline != nil {
			dc.SetColor(renderer.NRGBA(*tb.Outline))
			for _, off := range renderer.OutlineOffsets(tb.OutlineWidth) {
				dc.DrawStringAnchored(line.Content, tb.X+off[0], y+off[1], ax, 0)
			}
		}
		dc.SetColor(renderer.NRGBA(tb.Color))
		dc.DrawStringAnchored(line.Content, tb.X, y, ax, 0)
	}
}

// face 返回缓存的字体面；调用方需持有 mu。字体无法加载时依次回退到默认字体与 basicfont。
func (r *Renderer) face(res layout.FontResource) font.Face {
	key := fmt.Sprintf("%s|%s|%g", res.Src, res.Style, res.Size)
	if f, ok := r.faces[key]; ok {
		return f
	}
	var face font.Face = basicfont.Face7x13
	f, err := r.parse(res.Src)
	if err != nil {
		r.logger.Warn("font unavailable, using default", "font", res.Name, "src", res.Src, "error", err)
		f, err = r.parse(fonts.Default)
	}
	if err != nil {
		r.logger.Error("default font unavailable, using basicfont", "error", err)
	} else {
		// DPI 72 时 1pt 等于 1px
		face = truetype.NewFace(f, &truetype.Options{Size: res.Size, DPI: 72, Hinting: font.HintingNone})
	}
	r.faces[key] = face
	return face
}

func (r *Renderer) parse(src string) (*truetype.Font, error) {
	if f, ok := r.fonts[src]; ok {
		return f, nil
	}
	data, err := r.loader.Load(src)
	if err != nil {
		return nil, err
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("解析字体 %s 失败: %w", src, err)
	}
	r.fonts[src] = f
	return f, nil
}
