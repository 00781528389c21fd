package card

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/placard/binding"
	"github.com/ByLCY/placard/dsl"
	"github.com/ByLCY/placard/fonts"
	"github.com/ByLCY/placard/layout"
)

const (
	defaultFontName = "Body"
	defaultFontSize = 48.0
	defaultPadding  = 60.0
	defaultBullet   = "•"
)

var (
	defaultTextColor  = layout.Color{R: 30, G: 30, B: 30, A: 255}
	defaultBackground = layout.Color{R: 255, G: 255, B: 255, A: 255}
)

// canvasPresets 记录常用社交媒体尺寸（px）。
var canvasPresets = map[string][2]float64{
	"square":    {1080, 1080},
	"portrait":  {1080, 1350},
	"story":     {1080, 1920},
	"landscape": {1200, 630},
}

// Style 用于描述可继承的文本样式。
type Style struct {
	Name    string
	Extends string
	Props   map[string]string
}

type resourceSet struct {
	fonts  map[string]layout.FontResource
	colors map[string]layout.Color
	styles map[string]Style
}

// Build 根据卡片 AST 与绑定数据生成卡片描述。
func Build(doc *dsl.Document, data any) (*Definition, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	res, err := collectResources(doc)
	if err != nil {
		return nil, err
	}
	section := firstCanvas(doc)
	if section == nil {
		return nil, fmt.Errorf("卡片中缺少 canvas 段落")
	}
	width, height, err := resolveCanvasSize(section.Spec)
	if err != nil {
		return nil, err
	}

	def := &Definition{
		Name:       doc.Name,
		Width:      width,
		Height:     height,
		Padding:    resolvePadding(section.Spec.Params, width),
		Background: layout.Background{Color: defaultBackground},
		Meta:       collectMeta(doc, data),
	}
	if section.Block == nil {
		return nil, fmt.Errorf("canvas 段落缺少内容")
	}
	if err := processCanvas(section.Block, def, res, data); err != nil {
		return nil, err
	}
	return def, nil
}

// processCanvas 依次处理 canvas 内的命令：background、translate、text、points。
func processCanvas(block *dsl.Block, def *Definition, res resourceSet, data any) error {
	for _, stmt := range block.Statements {
		if stmt.Command == nil {
			continue
		}
		cmd := stmt.Command
		switch cmd.Name {
		case "background":
			def.Background = parseBackground(cmd, res, def.Background)
		case "translate":
			def.Translate = parseTranslate(cmd)
		case "text":
			b, err := composeBlock(cmd, BlockText, def, res, data)
			if err != nil {
				return err
			}
			def.Blocks = append(def.Blocks, b)
		case "points":
			b, err := composeBlock(cmd, BlockPoints, def, res, data)
			if err != nil {
				return err
			}
			def.Blocks = append(def.Blocks, b)
		default:
			// 其余命令暂未实现，忽略即可
			continue
		}
	}
	return nil
}

func composeBlock(cmd *dsl.Command, kind BlockKind, def *Definition, res resourceSet, data any) (Block, error) {
	style, attrs := parseArgs(cmd.Args, true)
	if style != "" {
		_, isStyle := res.styles[style]
		_, isFont := res.fonts[style]
		if !isStyle && !isFont {
			return Block{}, fmt.Errorf("%s 引用的 style %s 未定义", cmd.Name, style)
		}
	}
	attrs = mergeStyleAttributes(style, attrs, res.styles)

	fontName := attrs["font"]
	if fontName == "" {
		fontName = style
	}
	font := resolveFontResource(fontName, res)
	font.Size = defaultFontSize
	if v := attrs["size"]; v != "" {
		if size := layout.ParseLength(v).Px(def.Width); size > 0 {
			font.Size = size
		}
	}
	lineHeight := layout.LineHeightSpec{Kind: layout.LineHeightFactor, Factor: layout.DefaultLineHeightFactor}
	if spec, ok := layout.ParseLineHeight(attrs["line-height"]); ok {
		lineHeight = spec
	}

	b := Block{
		Kind:       kind,
		Font:       font,
		LineHeight: lineHeight.Resolve(font.Size),
		Color:      resolveColor(attrs["color"], res, defaultTextColor),
		Align:      normalizeAlign(attrs["align"]),
	}
	if v := attrs["outline"]; v != "" {
		c := resolveColor(v, res, layout.Color{A: 255})
		b.Outline = &c
		b.OutlineWidth = 2
	}
	if v := attrs["outline-width"]; v != "" {
		b.OutlineWidth = layout.ParseLength(v).Px(font.Size)
	}

	items := extractItems(cmd.Block)
	for i := range items {
		items[i] = binding.Interpolate(items[i], data)
	}
	switch kind {
	case BlockText:
		b.Items = []string{strings.Join(items, " ")}
	case BlockPoints:
		b.Items = items
		b.Bullet = defaultBullet
		if v, ok := attrs["bullet"]; ok {
			b.Bullet = v
		}
	}
	return b, nil
}

func parseBackground(cmd *dsl.Command, res resourceSet, current layout.Background) layout.Background {
	bg := current
	_, attrs := parseArgs(cmd.Args, false)
	if len(cmd.Args) == 1 {
		attrs["color"] = cmd.Args[0].Value
	}
	if cmd.Block != nil {
		for _, stmt := range cmd.Block.Statements {
			if stmt.Assignment == nil {
				continue
			}
			attrs[stmt.Assignment.Key] = valueToString(stmt.Assignment.Value)
		}
	}
	if v := attrs["color"]; v != "" {
		bg.Color = resolveColor(v, res, bg.Color)
	}
	if v := attrs["image"]; v != "" {
		bg.Image = v
	}
	if v := strings.ToLower(attrs["fit"]); v != "" {
		bg.Fit = v
	}
	return bg
}

func parseTranslate(cmd *dsl.Command) TranslateSpec {
	spec := TranslateSpec{}
	if len(cmd.Args) > 0 {
		spec.Target = cmd.Args[0].Value
	}
	if cmd.Block != nil {
		for _, stmt := range cmd.Block.Statements {
			if stmt.Assignment == nil {
				continue
			}
			switch stmt.Assignment.Key {
			case "target":
				spec.Target = valueToString(stmt.Assignment.Value)
			case "source":
				spec.Source = valueToString(stmt.Assignment.Value)
			}
		}
	}
	return spec
}

func collectResources(doc *dsl.Document) (resourceSet, error) {
	res := resourceSet{
		fonts:  map[string]layout.FontResource{},
		colors: map[string]layout.Color{},
		styles: map[string]Style{},
	}
	rawStyles := map[string]Style{}

	for _, section := range doc.Sections {
		if section.Resources == nil || section.Resources.Block == nil {
			continue
		}
		for _, stmt := range section.Resources.Block.Statements {
			if stmt.Command == nil {
				continue
			}
			switch stmt.Command.Name {
			case "font":
				font := parseFontResource(stmt.Command)
				if font.Name != "" {
					res.fonts[font.Name] = font
				}
			case "color":
				name, value := parseColorResource(stmt.Command)
				if name == "" || value == "" {
					continue
				}
				if c, err := parseColor(value); err == nil {
					res.colors[name] = c
				}
			case "style":
				style := parseStyleResource(stmt.Command)
				if style.Name != "" {
					rawStyles[style.Name] = style
				}
			}
		}
	}

	if _, ok := res.fonts[defaultFontName]; !ok {
		res.fonts[defaultFontName] = layout.FontResource{
			Name: defaultFontName,
			Src:  "embed:" + fonts.Default,
		}
	}

	resolved, err := resolveStyles(rawStyles)
	if err != nil {
		return res, err
	}
	res.styles = resolved
	return res, nil
}

func collectMeta(doc *dsl.Document, data any) layout.Meta {
	meta := layout.Meta{
		Title:   doc.Name,
		Creator: "placard",
	}
	for _, section := range doc.Sections {
		if section.Meta == nil || section.Meta.Block == nil {
			continue
		}
		for _, stmt := range section.Meta.Block.Statements {
			if stmt.Assignment == nil {
				continue
			}
			val := stmt.Assignment.Value
			switch strings.ToLower(stmt.Assignment.Key) {
			case "title":
				meta.Title = binding.Interpolate(valueToString(val), data)
			case "author":
				meta.Author = valueToString(val)
			case "subject":
				meta.Subject = valueToString(val)
			case "creator":
				meta.Creator = valueToString(val)
			case "keywords":
				meta.Keywords = valueToStringSlice(val)
			}
		}
	}
	return meta
}

func parseFontResource(cmd *dsl.Command) layout.FontResource {
	if len(cmd.Args) == 0 {
		return layout.FontResource{}
	}
	font := layout.FontResource{Name: cmd.Args[0].Value}
	if cmd.Block == nil {
		return font
	}
	for _, stmt := range cmd.Block.Statements {
		if stmt.Assignment == nil || stmt.Assignment.Value.String == nil {
			continue
		}
		switch stmt.Assignment.Key {
		case "src":
			font.Src = string(*stmt.Assignment.Value.String)
		case "style":
			font.Style = string(*stmt.Assignment.Value.String)
		}
	}
	return font
}

func parseStyleResource(cmd *dsl.Command) Style {
	if len(cmd.Args) == 0 {
		return Style{}
	}
	style := Style{
		Name:  cmd.Args[0].Value,
		Props: map[string]string{},
	}
	if len(cmd.Args) >= 3 && strings.EqualFold(cmd.Args[1].Value, "extends") {
		style.Extends = cmd.Args[2].Value
	}
	if cmd.Block == nil {
		return style
	}
	for _, stmt := range cmd.Block.Statements {
		if stmt.Assignment == nil {
			continue
		}
		if val := valueToString(stmt.Assignment.Value); val != "" {
			style.Props[stmt.Assignment.Key] = val
		}
	}
	return style
}

func resolveStyles(styles map[string]Style) (map[string]Style, error) {
	resolved := map[string]Style{}
	visiting := map[string]bool{}

	var dfs func(name string) (Style, error)
	dfs = func(name string) (Style, error) {
		if style, ok := resolved[name]; ok {
			return style, nil
		}
		style, ok := styles[name]
		if !ok {
			return Style{}, fmt.Errorf("style %s 未定义", name)
		}
		if visiting[name] {
			return Style{}, fmt.Errorf("style 继承存在循环：%s", name)
		}
		visiting[name] = true

		props := map[string]string{}
		if style.Extends != "" {
			parent, err := dfs(style.Extends)
			if err != nil {
				return Style{}, err
			}
			for k, v := range parent.Props {
				props[k] = v
			}
		}
		for k, v := range style.Props {
			props[k] = v
		}
		style.Props = props
		resolved[name] = style
		delete(visiting, name)
		return style, nil
	}

	for name := range styles {
		if _, err := dfs(name); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

func parseColorResource(cmd *dsl.Command) (string, string) {
	if len(cmd.Args) == 0 {
		return "", ""
	}
	name := cmd.Args[0].Value
	value := ""
	if len(cmd.Args) > 1 {
		value = cmd.Args[len(cmd.Args)-1].Value
	}
	return name, value
}

func resolveCanvasSize(spec dsl.CanvasSpec) (float64, float64, error) {
	size := strings.ToLower(spec.Size)
	if preset, ok := canvasPresets[size]; ok {
		return preset[0], preset[1], nil
	}
	w, h, ok := strings.Cut(size, "x")
	if !ok {
		return 0, 0, fmt.Errorf("暂不支持的画布尺寸：%s", spec.Size)
	}
	width, errW := strconv.ParseFloat(w, 64)
	height, errH := strconv.ParseFloat(h, 64)
	if errW != nil || errH != nil || width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("画布尺寸无效：%s", spec.Size)
	}
	return width, height, nil
}

func resolvePadding(params []*dsl.Lexeme, width float64) float64 {
	for i := 0; i+1 < len(params); i++ {
		if params[i].Value == "padding" {
			if p := layout.ParseLength(params[i+1].Value).Px(width); p >= 0 {
				return p
			}
		}
	}
	return defaultPadding
}

func firstCanvas(doc *dsl.Document) *dsl.CanvasSection {
	for _, section := range doc.Sections {
		if section.Canvas != nil {
			return section.Canvas
		}
	}
	return nil
}

// parseArgs 把 `[style] key value key value ...` 形式的参数拆成样式名与属性表。
// 参数个数为奇数时第一个 Ident 视为样式名。
func parseArgs(args []*dsl.Lexeme, allowStyle bool) (string, map[string]string) {
	result := map[string]string{}
	if len(args) == 0 {
		return "", result
	}

	cursor := 0
	var style string
	if allowStyle && args[0].Type == "Ident" && len(args)%2 == 1 {
		style = args[0].Value
		cursor = 1
	}
	for cursor < len(args)-1 {
		result[args[cursor].Value] = args[cursor+1].Value
		cursor += 2
	}
	return style, result
}

func mergeStyleAttributes(style string, inline map[string]string, styles map[string]Style) map[string]string {
	out := make(map[string]string)
	if s, ok := styles[style]; ok {
		for k, v := range s.Props {
			out[k] = v
		}
	}
	for k, v := range inline {
		out[k] = v
	}
	return out
}

func extractItems(block *dsl.Block) []string {
	if block == nil {
		return nil
	}
	var items []string
	for _, stmt := range block.Statements {
		if stmt.Text != nil {
			items = append(items, string(stmt.Text.Value))
		}
	}
	return items
}

func resolveFontResource(name string, res resourceSet) layout.FontResource {
	if font, ok := res.fonts[name]; ok {
		return font
	}
	return res.fonts[defaultFontName]
}

func normalizeAlign(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "left", "start":
		return "left"
	case "right", "end":
		return "right"
	default:
		return "center"
	}
}

func resolveColor(value string, res resourceSet, fallback layout.Color) layout.Color {
	if value == "" {
		return fallback
	}
	if c, ok := res.colors[value]; ok {
		return c
	}
	if c, err := parseColor(value); err == nil {
		return c
	}
	return fallback
}

// ParseColor 解析 #RGB、#RRGGBB 与 #RRGGBBAA 形式的颜色。
func ParseColor(value string) (layout.Color, error) {
	return parseColor(value)
}

func parseColor(value string) (layout.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return layout.Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return layout.Color{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
	}
	return layout.Color{
		R: int(v >> 24 & 0xff),
		G: int(v >> 16 & 0xff),
		B: int(v >> 8 & 0xff),
		A: int(v & 0xff),
	}, nil
}

func valueToString(val *dsl.Value) string {
	if val == nil {
		return ""
	}
	switch {
	case val.String != nil:
		return string(*val.String)
	case val.Number != nil:
		return *val.Number
	case val.Color != nil:
		return *val.Color
	case val.Expr != nil:
		var builder strings.Builder
		for _, part := range val.Expr.Parts {
			builder.WriteString(part.Value)
		}
		return builder.String()
	default:
		return ""
	}
}

func valueToStringSlice(val *dsl.Value) []string {
	if val == nil {
		return nil
	}
	if val.Array != nil {
		out := make([]string, 0, len(val.Array.Values))
		for _, item := range val.Array.Values {
			if s := valueToString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := valueToString(val); s != "" {
		return []string{s}
	}
	return nil
}
