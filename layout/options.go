package layout

// Measurer 返回 text 以 font 绘制时占用的像素宽度。
// 实现必须是确定的，且向一行追加内容不会使宽度变小。
type Measurer interface {
	MeasureText(text string, font FontResource) float64
}

// MeasureFunc 让普通函数满足 Measurer。
type MeasureFunc func(text string, font FontResource) float64

// MeasureText implements Measurer.
func (f MeasureFunc) MeasureText(text string, font FontResource) float64 { return f(text, font) }
