package layout

import (
	"errors"
	"strings"
)

// errNilMeasurer 在 Typeset 未拿到测量后端时返回。
var errNilMeasurer = errors.New("layout: 缺少测量后端 Measurer")

// WrapText 使用贪心算法把 text 按空白切分后逐词填入行，直到候选行宽度不再严格小于 maxLineWidth。
// 单个超宽的词独占一行且保持完整，不会被拆分或丢弃。每个词只测量一次。
// maxLineWidth <= 0 时每个词各占一行。
func WrapText(text string, measure func(string) float64, maxLineWidth float64) []string {
	lines := wrapLines(text, measure, maxLineWidth)
	if len(lines) == 0 {
		return nil
	}
	out := make([]string, len(lines))
	for i, ln := range lines {
		out[i] = ln.Content
	}
	return out
}

// wrapLines 是 WrapText 的实现；Width < 0 表示该行未被测量（以溢出词开头且之后没有再接受新词）。
func wrapLines(text string, measure func(string) float64, maxLineWidth float64) []TextLine {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil
	}

	var lines []TextLine
	current := ""
	currentWidth := -1.0
	for _, token := range tokens {
		candidate := token
		if current != "" {
			candidate = current + " " + token
		}
		// 等于上限的候选同样拒绝
		if w := measure(candidate); w < maxLineWidth {
			current = candidate
			currentWidth = w
			continue
		}
		if current != "" {
			lines = append(lines, TextLine{Content: current, Width: currentWidth})
		}
		current = token
		currentWidth = -1
	}
	if current != "" {
		lines = append(lines, TextLine{Content: current, Width: currentWidth})
	}
	return lines
}

// CenterBlock 计算首行中心锚点的 y 坐标，使 lineCount 行组成的文本块在 containerHeight 内垂直居中。
// 后续各行依次加 lineHeight。文本块高于容器时结果可以为负。
func CenterBlock(lineCount int, lineHeight, containerHeight float64) float64 {
	blockHeight := float64(lineCount) * lineHeight
	return (containerHeight-blockHeight)/2 + lineHeight/2
}

// Typeset 将请求的字体绑定到 m 上执行 WrapText，并回填每行宽度与文本块高度。
func Typeset(req Request, m Measurer) (Result, error) {
	if m == nil {
		return Result{}, errNilMeasurer
	}
	measure := func(s string) float64 { return m.MeasureText(s, req.Font) }

	lines := wrapLines(req.Text, measure, req.MaxLineWidth)
	for i := range lines {
		if lines[i].Width < 0 {
			lines[i].Width = measure(lines[i].Content)
		}
	}
	return Result{
		Lines:       lines,
		LineHeight:  req.LineHeight,
		BlockHeight: float64(len(lines)) * req.LineHeight,
	}, nil
}

// Place 返回在 containerHeight 内垂直居中时每行的中心 y 坐标。
func (r Result) Place(containerHeight float64) []float64 {
	if len(r.Lines) == 0 {
		return nil
	}
	ys := make([]float64, len(r.Lines))
	y := CenterBlock(len(r.Lines), r.LineHeight, containerHeight)
	for i := range ys {
		ys[i] = y
		y += r.LineHeight
	}
	return ys
}

// Contents 返回各行文本。
func (r Result) Contents() []string {
	out := make([]string, len(r.Lines))
	for i, ln := range r.Lines {
		out[i] = ln.Content
	}
	return out
}
