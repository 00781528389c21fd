package raster

import (
	"bytes"
	"image"
	"image/png"
	"math"
	"testing"

	"github.com/ByLCY/placard/layout"
	"github.com/ByLCY/placard/renderer"
	canvasrenderer "github.com/ByLCY/placard/renderer/canvas"
)

// 两个后端对同一场景应给出一致的测量与垂直位置
func TestBackendsAgree(t *testing.T) {
	backends := map[string]renderer.Renderer{
		"canvas": canvasrenderer.NewRenderer(""),
		"raster": New(""),
	}
	font := layout.FontResource{Name: "Display", Src: "gobold", Size: 32}

	widths := map[string]float64{}
	for name, r := range backends {
		bare := r.MeasureText("hello world", font)
		prefixed := r.MeasureText("hello world", layout.FontResource{Name: "Display", Src: "embed:gobold", Size: 32})
		if bare != prefixed {
			t.Fatalf("%s: gobold %v vs embed:gobold %v", name, bare, prefixed)
		}
		widths[name] = bare
	}
	if d := math.Abs(widths["canvas"] - widths["raster"]); d > 1 {
		t.Fatalf("backends measure differently: %v", widths)
	}

	centers := map[string]float64{}
	for name, r := range backends {
		data, err := r.Render(inkScene(), renderer.FormatPNG)
		if err != nil {
			t.Fatalf("%s: Render error: %v", name, err)
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("%s: decode: %v", name, err)
		}
		c, ok := inkCenterY(img)
		if !ok {
			t.Fatalf("%s: no ink found", name)
		}
		centers[name] = c
	}
	if d := math.Abs(centers["canvas"] - centers["raster"]); d > 2 {
		t.Fatalf("line centers differ between backends: %v", centers)
	}
	if d := math.Abs(centers["raster"] - 100); d > 3 {
		t.Fatalf("ink should be centered on the line anchor, got %v", centers["raster"])
	}
}

func inkScene() *layout.Scene {
	return &layout.Scene{
		Width:      200,
		Height:     200,
		Background: layout.Background{Color: layout.Color{R: 255, G: 255, B: 255, A: 255}},
		Texts: []layout.TextBox{{
			Lines:      []layout.TextLine{{Content: "HHHH"}},
			X:          100,
			Ys:         []float64{100},
			LineHeight: 48,
			Font:       layout.FontResource{Src: "embed:goregular", Size: 40},
			Color:      layout.Color{A: 255},
			Align:      "center",
		}},
	}
}

func inkCenterY(img image.Image) (float64, bool) {
	b := img.Bounds()
	top, bottom := -1, -1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, _, _, _ := img.At(x, y).RGBA()
			if r>>8 < 128 {
				if top < 0 {
					top = y
				}
				bottom = y
				break
			}
		}
	}
	if top < 0 {
		return 0, false
	}
	return float64(top+bottom) / 2, true
}
