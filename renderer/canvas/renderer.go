package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"log/slog"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/placard/fonts"
	"github.com/ByLCY/placard/layout"
	"github.com/ByLCY/placard/renderer"
)

// 画布单位为 mm，这里约定 1 个画布单位对应 1px，因此字号（px）需换算成 pt 传给字体系统。
const mmToPt = 72.0 / 25.4

// Renderer draws scenes via github.com/tdewolff/canvas.
type Renderer struct {
	baseDir string
	fonts   *renderer.FontLoader
	logger  *slog.Logger

	fontMu         sync.Mutex
	fontFamilies   map[string]*fontFamilyEntry
	fallbackFamily *canvas.FontFamily
}

var _ renderer.Renderer = (*Renderer)(nil)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Fonts   map[string]string // 注册字体：名称 -> TTF 路径，卡片中以名称引用
	Logger  *slog.Logger
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving assets.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with registered fonts and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Renderer{
		baseDir:      opts.BaseDir,
		fonts:        renderer.NewFontLoader(opts.BaseDir, opts.Fonts),
		logger:       logger,
		fontFamilies: map[string]*fontFamilyEntry{},
	}
}

// MeasureText implements layout.Measurer.
// 默认字体也无法加载时返回 0 并记录错误，此时排版会把整段文字放在一行。
func (r *Renderer) MeasureText(text string, font layout.FontResource) float64 {
	face, err := r.fontFace(font, layout.Color{A: 255})
	if err != nil {
		r.logger.Error("failed to load font for measuring", "font", font.Name, "src", font.Src, "error", err)
		return 0
	}
	return face.TextWidth(text)
}

// Render 输出 PNG、JPEG 或单页 PDF。
func (r *Renderer) Render(scene *layout.Scene, format renderer.Format) ([]byte, error) {
	if scene == nil {
		return nil, fmt.Errorf("渲染场景为空")
	}
	if scene.Width <= 0 || scene.Height <= 0 {
		return nil, fmt.Errorf("画布尺寸无效：%vx%v", scene.Width, scene.Height)
	}

	c := canvas.New(scene.Width, scene.Height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点
	if err := r.drawScene(ctx, scene); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch format {
	case renderer.FormatPDF:
		writer := pdf.New(&buf, scene.Width, scene.Height, nil)
		keywords := strings.Join(scene.Meta.Keywords, ", ")
		writer.SetInfo(scene.Meta.Title, scene.Meta.Subject, keywords, scene.Meta.Author, scene.Meta.Creator)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 PDF 失败: %w", err)
		}
	case renderer.FormatPNG, renderer.FormatJPEG:
		img := rasterizer.Draw(c, canvas.DPMM(1.0), canvas.DefaultColorSpace)
		if err := encodeImage(&buf, img, format); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("不支持的输出格式：%s", format)
	}
	return buf.Bytes(), nil
}

func encodeImage(buf *bytes.Buffer, img image.Image, format renderer.Format) error {
	var err error
	if format == renderer.FormatJPEG {
		err = jpeg.Encode(buf, img, &jpeg.Options{Quality: 92})
	} else {
		err = png.Encode(buf, img)
	}
	if err != nil {
		return fmt.Errorf("编码 %s 失败: %w", format, err)
	}
	return nil
}

func (r *Renderer) drawScene(ctx *canvas.Context, scene *layout.Scene) error {
	ctx.SetFillColor(colorFromLayout(scene.Background.Color))
	ctx.DrawPath(0, 0, canvas.Rectangle(scene.Width, scene.Height))

	if scene.Background.Image != "" {
		img, err := renderer.LoadBackground(r.baseDir, scene.Background, int(scene.Width), int(scene.Height))
		if err != nil {
			return err
		}
		ctx.DrawImage(0, 0, img, canvas.DPMM(1.0))
	}

	for _, tb := range scene.Texts {
		if err := r.drawTextBox(ctx, tb); err != nil {
			return err
		}
	}
	return nil
}

// drawTextBox 在 (X, Ys[i]) 处绘制每一行，Ys 为行的垂直中心。
func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox) error {
	face, err := r.fontFace(tb.Font, tb.Color)
	if err != nil {
		return err
	}
	var outline *canvas.FontFace
	if tb.Outline != nil && tb.OutlineWidth > 0 {
		if outline, err = r.fontFace(tb.Font, *tb.Outline); err != nil {
			return err
		}
	}

	var textAlign canvas.TextAlign
	switch strings.ToLower(tb.Align) {
	case "left", "start":
		textAlign = canvas.Left
	case "right", "end":
		textAlign = canvas.Right
	default:
		textAlign = canvas.Center
	}

	// 基线 = 行中心 + (ascent - descent) / 2
	metrics := face.Metrics()
	shift := (metrics.Ascent - metrics.Descent) / 2
	for i, line := range tb.Lines {
		if i >= len(tb.Ys) {
			break
		}
		baseline := tb.Ys[i] + shift
		if outline != nil {
			ring := canvas.NewTextLine(outline, line.Content, textAlign)
			for _, off := range renderer.OutlineOffsets(tb.OutlineWidth) {
				ctx.DrawText(tb.X+off[0], baseline+off[1], ring)
			}
		}
		ctx.DrawText(tb.X, baseline, canvas.NewTextLine(face, line.Content, textAlign))
	}
	return nil
}

func (r *Renderer) fontFace(font layout.FontResource, col layout.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(font.Size*mmToPt, colorFromLayout(col), style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.FontResource) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	familyName := font.Name
	if familyName == "" {
		familyName = "Body"
	}
	family := canvas.NewFontFamily(familyName)

	if err := r.loadFontIntoFamily(family, font, style); err != nil {
		r.logger.Warn("font unavailable, using default", "font", font.Name, "src", font.Src, "error", err)
		fallback, fbErr := r.fallback()
		if fbErr != nil {
			return nil, canvas.FontRegular, err
		}
		r.fontFamilies[key] = &fontFamilyEntry{family: fallback, style: canvas.FontRegular}
		return fallback, canvas.FontRegular, nil
	}

	r.fontFamilies[key] = &fontFamilyEntry{family: family, style: style}
	return family, style, nil
}

func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, font layout.FontResource, style canvas.FontStyle) error {
	data, err := r.fonts.Load(font.Src)
	if err != nil {
		return err
	}
	return family.LoadFont(data, 0, style)
}

// fallback 在字体加载失败时使用内置默认字体，调用方需持有 fontMu。
func (r *Renderer) fallback() (*canvas.FontFamily, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, nil
	}
	data, err := fonts.Load(fonts.Default)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily("placard-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, err
	}
	r.fallbackFamily = family
	return family, nil
}

func parseFontStyle(style string) canvas.FontStyle {
	if style == "" {
		return canvas.FontRegular
	}
	s := strings.ToLower(style)
	var result canvas.FontStyle
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	default:
		result = canvas.FontRegular
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font layout.FontResource) string {
	return fmt.Sprintf("%s|%s|%s", font.Name, font.Src, font.Style)
}

func colorFromLayout(c layout.Color) color.Color {
	return renderer.NRGBA(c)
}
