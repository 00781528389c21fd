package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/k1LoW/errors"
	"github.com/spf13/cobra"

	"github.com/ByLCY/placard/card"
	"github.com/ByLCY/placard/dsl"
	"github.com/ByLCY/placard/layout"
	"github.com/ByLCY/placard/renderer"
)

var (
	text        string
	lang        string
	data        string
	out         string
	format      string
	backend     string
	debugPath   string
	noTranslate bool
)

var renderCmd = &cobra.Command{
	Use:   "render [CARD_FILE]",
	Short: "render a card to PNG, JPEG or PDF",
	Long:  `render a card file, or an ad-hoc card built from --text, to PNG, JPEG or PDF.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			err = errors.WithStack(err)
		}()
		ctx := cmd.Context()

		def, baseDir, err := loadDefinition(args)
		if err != nil {
			return err
		}
		if lang != "" {
			def.Translate.Target = lang
		}

		be := backend
		if be == "" {
			be = cfg.Backend
		}
		r, err := newRenderer(be, baseDir, cfg.Fonts)
		if err != nil {
			return err
		}
		opts := []card.Option{card.WithLogger(logger)}
		if !noTranslate {
			svc, err := newTranslationService(cfg)
			if err != nil {
				return err
			}
			opts = append(opts, card.WithTranslator(svc))
		}
		scene, err := card.NewComposer(r, opts...).Compose(ctx, def)
		if err != nil {
			return err
		}
		if debugPath != "" {
			if err := layout.WriteDebugJSON(scene, debugPath); err != nil {
				return err
			}
		}

		f, path, err := resolveOutput(out, format)
		if err != nil {
			return err
		}
		b, err := r.Render(scene, f)
		if err != nil {
			return err
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		if err := os.WriteFile(path, b, 0o644); err != nil {
			return err
		}
		logger.Info("rendered card", "path", path, "backend", be, "lines", countLines(scene))
		cmd.Println(color.GreenString("rendered %s", path))
		return nil
	},
}

func loadDefinition(args []string) (*card.Definition, string, error) {
	if len(args) == 0 {
		if strings.TrimSpace(text) == "" {
			return nil, "", fmt.Errorf("either CARD_FILE or --text is required")
		}
		def, err := adhocDefinition(cfg, text, cfg.Language)
		return def, ".", err
	}
	doc, err := dsl.ParseFile(args[0])
	if err != nil {
		return nil, "", err
	}
	d, err := parseData(data)
	if err != nil {
		return nil, "", err
	}
	def, err := card.Build(doc, d)
	if err != nil {
		return nil, "", err
	}
	return def, filepath.Dir(args[0]), nil
}

// resolveOutput picks the format from --format, then from the --out extension, and
// names the file card-<uuid> when --out is empty.
func resolveOutput(out, format string) (renderer.Format, string, error) {
	spec := format
	if spec == "" && out != "" {
		spec = filepath.Ext(out)
	}
	f, err := renderer.ParseFormat(spec)
	if err != nil {
		return "", "", err
	}
	if out == "" {
		out = "card-" + uuid.NewString() + f.Ext()
	}
	return f, out, nil
}

func countLines(scene *layout.Scene) int {
	n := 0
	for _, tb := range scene.Texts {
		n += len(tb.Lines)
	}
	return n
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&text, "text", "t", "", "text for an ad-hoc card")
	renderCmd.Flags().StringVarP(&lang, "lang", "l", "", "target language name or code")
	renderCmd.Flags().StringVarP(&data, "data", "d", "", "JSON data bound to the card (or @file.json)")
	renderCmd.Flags().StringVarP(&out, "out", "o", "", "output file (default card-<uuid>.png)")
	renderCmd.Flags().StringVarP(&format, "format", "f", "", "output format: png, jpeg or pdf")
	renderCmd.Flags().StringVarP(&backend, "backend", "b", "", "rendering backend: canvas or raster")
	renderCmd.Flags().StringVarP(&debugPath, "debug", "", "", "write the composed scene as JSON")
	renderCmd.Flags().BoolVarP(&noTranslate, "no-translate", "", false, "skip translation")
}
