package card

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ByLCY/placard/layout"
	"github.com/ByLCY/placard/translate"
)

// Composer 负责把卡片描述翻译、排版并定位为可渲染的场景。
type Composer struct {
	measurer   layout.Measurer
	translator *translate.Service
	logger     *slog.Logger
}

type Option func(*Composer)

// WithTranslator 设置翻译服务；未设置时忽略卡片中的 translate 声明。
func WithTranslator(s *translate.Service) Option {
	return func(c *Composer) {
		c.translator = s
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Composer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewComposer(measurer layout.Measurer, opts ...Option) *Composer {
	c := &Composer{
		measurer: measurer,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type typesetBlock struct {
	block  Block
	result layout.Result
}

// Compose 生成场景。所有文本块按顺序堆叠，整体在画布内垂直居中；每个块保留自己的行高。
func (c *Composer) Compose(ctx context.Context, def *Definition) (*layout.Scene, error) {
	if def == nil {
		return nil, fmt.Errorf("卡片描述为空")
	}
	if c.measurer == nil {
		return nil, fmt.Errorf("未配置文字测量后端")
	}

	meta := def.Meta
	blocks := def.Blocks
	if code, ok := c.targetCode(def.Translate); ok {
		blocks = c.translateBlocks(ctx, blocks, def.Translate, code)
		if tag, err := translate.LanguageTag(code); err == nil {
			meta.Language = tag.String()
		}
	}

	width := def.ContentWidth()
	typeset := make([]typesetBlock, 0, len(blocks))
	total := 0.0
	for i, b := range blocks {
		res, err := c.typesetBlock(b, width)
		if err != nil {
			return nil, fmt.Errorf("第 %d 个文本块排版失败: %w", i+1, err)
		}
		if len(res.Lines) == 0 {
			continue
		}
		typeset = append(typeset, typesetBlock{block: b, result: res})
		total += res.BlockHeight
	}

	scene := &layout.Scene{
		Width:      def.Width,
		Height:     def.Height,
		Background: def.Background,
		Meta:       meta,
	}
	offset := (def.Height - total) / 2
	for _, tb := range typeset {
		ys := tb.result.Place(tb.result.BlockHeight)
		for i := range ys {
			ys[i] += offset
		}
		offset += tb.result.BlockHeight

		scene.Texts = append(scene.Texts, layout.TextBox{
			Lines:        tb.result.Lines,
			X:            anchorX(tb.block.Align, def),
			Ys:           ys,
			LineHeight:   tb.result.LineHeight,
			Font:         tb.block.Font,
			Color:        tb.block.Color,
			Outline:      tb.block.Outline,
			OutlineWidth: tb.block.OutlineWidth,
			Align:        tb.block.Align,
		})
	}
	c.logger.Debug("scene composed", "card", def.Name, "blocks", len(scene.Texts), "height", total)
	return scene, nil
}

// typesetBlock 排版单个块；要点列表逐条排版后拼接为一个结果。
func (c *Composer) typesetBlock(b Block, width float64) (layout.Result, error) {
	out := layout.Result{LineHeight: b.LineHeight}
	for _, item := range b.Items {
		text := item
		if b.Kind == BlockPoints && b.Bullet != "" {
			text = b.Bullet + " " + item
		}
		res, err := layout.Typeset(layout.Request{
			Text:         text,
			Font:         b.Font,
			MaxLineWidth: width,
			LineHeight:   b.LineHeight,
		}, c.measurer)
		if err != nil {
			return layout.Result{}, err
		}
		out.Lines = append(out.Lines, res.Lines...)
		out.BlockHeight += res.BlockHeight
	}
	return out, nil
}

func (c *Composer) targetCode(spec TranslateSpec) (string, bool) {
	if c.translator == nil || strings.TrimSpace(spec.Target) == "" {
		return "", false
	}
	name, code := translate.Resolve(spec.Target)
	if code == translate.English {
		// 目标为英文（或无法识别而回退为英文）时不翻译
		c.logger.Debug("skip translation", "target", spec.Target, "resolved", name)
		return "", false
	}
	return code, true
}

func (c *Composer) translateBlocks(ctx context.Context, blocks []Block, spec TranslateSpec, code string) []Block {
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		b.Items = append([]string(nil), b.Items...)
		switch b.Kind {
		case BlockPoints:
			b.Items = c.translator.BatchTranslate(ctx, b.Items, code, spec.Source)
		default:
			for j, item := range b.Items {
				res := c.translator.Smart(ctx, item, code)
				if !res.Success {
					c.logger.Warn("translation kept original text", "block", i+1, "error", res.Err)
				}
				b.Items[j] = res.Translated
			}
		}
		out[i] = b
	}
	return out
}

func anchorX(align string, def *Definition) float64 {
	switch align {
	case "left":
		return def.Padding
	case "right":
		return def.Width - def.Padding
	default:
		return def.Width / 2
	}
}
