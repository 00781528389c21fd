package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ByLCY/placard/card"
	"github.com/ByLCY/placard/config"
	"github.com/ByLCY/placard/layout"
	"github.com/ByLCY/placard/renderer"
	canvasrenderer "github.com/ByLCY/placard/renderer/canvas"
	"github.com/ByLCY/placard/renderer/raster"
	"github.com/ByLCY/placard/translate"
)

// newRenderer creates the backend; registered maps font names used in cards to TTF paths.
func newRenderer(backend, baseDir string, registered map[string]string) (renderer.Renderer, error) {
	switch strings.ToLower(backend) {
	case "", "canvas":
		return canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
			BaseDir: baseDir,
			Fonts:   registered,
			Logger:  logger,
		}), nil
	case "raster":
		return raster.New(baseDir, raster.WithFonts(registered), raster.WithLogger(logger)), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (canvas or raster)", backend)
	}
}

func newTranslationService(c *config.Config) (*translate.Service, error) {
	opts := []translate.GoogleOption{translate.WithClientLogger(logger)}
	if c.Translator.Endpoint != "" {
		opts = append(opts, translate.WithEndpoint(c.Translator.Endpoint))
	}
	if c.Translator.RetryMax != nil {
		opts = append(opts, translate.WithRetryMax(*c.Translator.RetryMax))
	}
	if c.Translator.Timeout > 0 {
		opts = append(opts, translate.WithTimeout(c.Translator.Timeout))
	}
	client, err := translate.NewGoogleClient(opts...)
	if err != nil {
		return nil, err
	}
	return translate.NewService(client, translate.WithLogger(logger)), nil
}

// adhocDefinition builds a single-block card from config defaults.
func adhocDefinition(c *config.Config, text, lang string) (*card.Definition, error) {
	bg, err := card.ParseColor(c.Background)
	if err != nil {
		return nil, err
	}
	fg, err := card.ParseColor(c.Color)
	if err != nil {
		return nil, err
	}
	lineHeight := c.LineHeight
	if lineHeight <= 0 {
		lineHeight = layout.DefaultLineHeightFactor
	}
	return &card.Definition{
		Name:       "adhoc",
		Width:      c.Width,
		Height:     c.Height,
		Padding:    c.Padding,
		Background: layout.Background{Color: bg},
		Translate:  card.TranslateSpec{Target: lang},
		Blocks: []card.Block{{
			Kind:       card.BlockText,
			Items:      []string{text},
			Font:       layout.FontResource{Name: "Body", Src: c.Font, Size: c.FontSize},
			LineHeight: c.FontSize * lineHeight,
			Color:      fg,
			Align:      "center",
		}},
		Meta: layout.Meta{Title: text, Creator: "placard"},
	}, nil
}

// parseData accepts inline JSON or @path to a JSON file.
func parseData(v string) (any, error) {
	if v == "" {
		return nil, nil
	}
	b := []byte(v)
	if path, ok := strings.CutPrefix(v, "@"); ok {
		var err error
		if b, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("failed to read data file: %w", err)
		}
	}
	var data any
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("failed to parse data JSON: %w", err)
	}
	return data, nil
}
