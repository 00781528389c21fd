package canvasrenderer

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/gobold"

	"github.com/ByLCY/placard/layout"
	"github.com/ByLCY/placard/renderer"
)

var body = layout.FontResource{Name: "Body", Src: "embed:goregular", Size: 32}

func TestMeasureTextGrowsWithContent(t *testing.T) {
	r := NewRenderer("")
	short := r.MeasureText("hello", body)
	long := r.MeasureText("hello world", body)
	if short <= 0 || long <= short {
		t.Fatalf("expected positive growing widths, got %v then %v", short, long)
	}
	if again := r.MeasureText("hello", body); again != short {
		t.Fatalf("measurement must be deterministic: %v vs %v", short, again)
	}

	bigger := body
	bigger.Size = 64
	if w := r.MeasureText("hello", bigger); w <= short*1.9 || w >= short*2.1 {
		t.Fatalf("doubling size should double width: %v vs %v", short, w)
	}
}

func TestMeasureTextFallsBackOnMissingFont(t *testing.T) {
	r := NewRenderer(t.TempDir())
	missing := layout.FontResource{Name: "Ghost", Src: "ghost.ttf", Size: 32}
	if got, want := r.MeasureText("hello", missing), r.MeasureText("hello", body); got != want {
		t.Fatalf("missing font should fall back to default: %v vs %v", got, want)
	}
}

func TestBareEmbeddedFontName(t *testing.T) {
	r := NewRenderer("")
	bare := layout.FontResource{Name: "Display", Src: "gobold", Size: 32}
	prefixed := layout.FontResource{Name: "Display", Src: "embed:gobold", Size: 32}
	got, want := r.MeasureText("hello world", bare), r.MeasureText("hello world", prefixed)
	if got != want {
		t.Fatalf("gobold should resolve like embed:gobold: %v vs %v", got, want)
	}
	if got == r.MeasureText("hello world", body) {
		t.Fatalf("bare gobold must not fall back to goregular")
	}
}

func TestRegisteredFont(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bold.ttf")
	if err := os.WriteFile(path, gobold.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	r := NewRendererWithOptions(Options{Fonts: map[string]string{"Poster": path}})
	poster := layout.FontResource{Name: "Poster", Src: "Poster", Size: 32}
	bold := layout.FontResource{Name: "Bold", Src: "embed:gobold", Size: 32}
	if got, want := r.MeasureText("hello", poster), r.MeasureText("hello", bold); got != want {
		t.Fatalf("registered font should measure like its file: %v vs %v", got, want)
	}
}

func TestMissingFontIsLogged(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithOptions(Options{
		BaseDir: t.TempDir(),
		Fonts:   map[string]string{"Gone": "gone.ttf"},
		Logger:  slog.New(slog.NewTextHandler(&buf, nil)),
	})
	r.MeasureText("hello", layout.FontResource{Name: "Gone", Src: "Gone", Size: 32})
	if out := buf.String(); !strings.Contains(out, "font unavailable") || !strings.Contains(out, "Gone") {
		t.Fatalf("expected fallback warning, got %q", out)
	}
}

func TestTypesetWithRenderer(t *testing.T) {
	r := NewRenderer("")
	limit := r.MeasureText("hello world again", body)
	res, err := layout.Typeset(layout.Request{
		Text:         "hello world again",
		Font:         body,
		MaxLineWidth: limit,
		LineHeight:   40,
	}, r)
	if err != nil {
		t.Fatalf("Typeset error: %v", err)
	}
	// 整句宽度恰好等于上限，按严格小于规则会被拒绝
	got := res.Contents()
	if len(got) != 2 || got[0] != "hello world" || got[1] != "again" {
		t.Fatalf("unexpected lines %q", got)
	}
	if res.Lines[1].Width <= 0 || res.BlockHeight != 80 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func scene(width, height float64) *layout.Scene {
	return &layout.Scene{
		Width:      width,
		Height:     height,
		Background: layout.Background{Color: layout.Color{R: 255, G: 255, B: 255, A: 255}},
		Texts: []layout.TextBox{{
			Lines:        []layout.TextLine{{Content: "Hi"}},
			X:            width / 2,
			Ys:           []float64{height / 2},
			LineHeight:   40,
			Font:         body,
			Color:        layout.Color{A: 255},
			Outline:      &layout.Color{R: 255, A: 255},
			OutlineWidth: 2,
		}},
		Meta: layout.Meta{Title: "test", Creator: "placard"},
	}
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	return img
}

func near(c color.Color, r, g, b uint8) bool {
	cr, cg, cb, _ := c.RGBA()
	diff := func(a uint32, want uint8) bool {
		d := int(a>>8) - int(want)
		return d > -8 && d < 8
	}
	return diff(cr, r) && diff(cg, g) && diff(cb, b)
}

func TestRenderPNG(t *testing.T) {
	r := NewRenderer("")
	data, err := r.Render(scene(200, 100), renderer.FormatPNG)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	img := decodePNG(t, data)
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Fatalf("unexpected bounds %v", b)
	}
	if !near(img.At(2, 2), 255, 255, 255) {
		t.Fatalf("corner should be background white, got %v", img.At(2, 2))
	}
}

func TestRenderPDF(t *testing.T) {
	data, err := NewRenderer("").Render(scene(300, 300), renderer.FormatPDF)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestRenderBackgroundImage(t *testing.T) {
	dir := t.TempDir()
	red := image.NewNRGBA(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			red.Set(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	f, err := os.Create(filepath.Join(dir, "bg.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, red); err != nil {
		t.Fatal(err)
	}
	f.Close()

	s := scene(100, 100)
	s.Texts = nil
	s.Background.Image = "bg.png"
	data, err := NewRenderer(dir).Render(s, renderer.FormatPNG)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if img := decodePNG(t, data); !near(img.At(50, 50), 255, 0, 0) {
		t.Fatalf("background image should cover canvas, got %v", img.At(50, 50))
	}

	s.Background.Image = "missing.png"
	if _, err := NewRenderer(dir).Render(s, renderer.FormatPNG); err == nil {
		t.Fatalf("expected error for missing background image")
	}
}

func TestRenderErrors(t *testing.T) {
	r := NewRenderer("")
	if _, err := r.Render(nil, renderer.FormatPNG); err == nil {
		t.Fatalf("expected error for nil scene")
	}
	if _, err := r.Render(&layout.Scene{}, renderer.FormatPNG); err == nil {
		t.Fatalf("expected error for empty canvas")
	}
	if _, err := r.Render(scene(10, 10), renderer.Format("gif")); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}
