package layout

// 该文件定义排版请求/结果以及渲染场景，供排版计算、渲染与调试 JSON 共用。
// 所有长度均以像素（px）为单位。

// FontResource 描述字体资源，排版引擎不解释其内容，只原样交给 Measurer。
// src 可以是文件路径或 embed:<name> 形式。
type FontResource struct {
	Name  string  `json:"name"`
	Src   string  `json:"src"`
	Style string  `json:"style,omitempty"`
	Size  float64 `json:"size"` // 字号（px）
}

// Request 是一次排版调用的输入，构造后不再修改。
type Request struct {
	Text         string
	Font         FontResource
	MaxLineWidth float64
	LineHeight   float64
}

// Result 保存排版后的行以及整个文本块的高度。
type Result struct {
	Lines       []TextLine `json:"lines"`
	LineHeight  float64    `json:"lineHeight"`
	BlockHeight float64    `json:"blockHeight"`
}

// TextLine 表示排版后的一行文本及其测量宽度。
type TextLine struct {
	Content string  `json:"content"`
	Width   float64 `json:"width"`
}

// Color 采用 0-255 的 RGBA 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
	A int `json:"a"`
}

// Scene 是渲染器的输入：画布尺寸、背景与已定位的文本。
type Scene struct {
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Background Background `json:"background"`
	Texts      []TextBox  `json:"texts"`
	Meta       Meta       `json:"meta"`
}

// Background 为纯色或图片；Image 为空时只填充 Color。
type Background struct {
	Color Color  `json:"color"`
	Image string `json:"image,omitempty"`
	Fit   string `json:"fit,omitempty"` // fill（默认）/fit/stretch
}

// TextBox 是一组共享字体、颜色的文本行，每行在 (X, Ys[i]) 处垂直居中绘制。
// X 的含义随 Align 变化：center 为行中心，left 为行首，right 为行尾。
type TextBox struct {
	Lines        []TextLine   `json:"lines"`
	X            float64      `json:"x"`
	Ys           []float64    `json:"ys"`
	LineHeight   float64      `json:"lineHeight"`
	Font         FontResource `json:"font"`
	Color        Color        `json:"color"`
	Outline      *Color       `json:"outline,omitempty"`
	OutlineWidth float64      `json:"outlineWidth,omitempty"`
	Align        string       `json:"align,omitempty"` // left/center/right，空值按 center 处理
}

// Meta 保存导出文件的元信息。
type Meta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
	Language string   `json:"language,omitempty"`
}
