package card

import "github.com/ByLCY/placard/layout"

// Definition 是从卡片文件（或命令行参数）解析出的完整卡片描述，长度均为像素。
type Definition struct {
	Name       string
	Width      float64
	Height     float64
	Padding    float64
	Background layout.Background
	Translate  TranslateSpec
	Blocks     []Block
	Meta       layout.Meta
}

// TranslateSpec 描述卡片文字的目标语言；Target 为空时不翻译。
type TranslateSpec struct {
	Target string // 语言名称或代码
	Source string // 默认 auto
}

// BlockKind 区分普通文本与要点列表。
type BlockKind int

const (
	BlockText BlockKind = iota
	BlockPoints
)

// Block 是一段共享样式的文本。BlockPoints 的每个 Item 单独排版并加上 Bullet 前缀。
type Block struct {
	Kind         BlockKind
	Items        []string
	Bullet       string
	Font         layout.FontResource
	LineHeight   float64
	Color        layout.Color
	Outline      *layout.Color
	OutlineWidth float64
	Align        string
}

// ContentWidth 返回扣除左右内边距后的可用行宽。
func (d *Definition) ContentWidth() float64 {
	return d.Width - 2*d.Padding
}
