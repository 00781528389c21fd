package translate

import "context"

// AutoDetect 作为源语言时由翻译后端自动检测。
const AutoDetect = "auto"

// Translator 是机器翻译后端。
type Translator interface {
	// Translate 将 text 从 source 翻译为 target，source 可为 AutoDetect。
	Translate(ctx context.Context, text, target, source string) (string, error)
	// Detect 返回 text 的语言代码。
	Detect(ctx context.Context, text string) (string, error)
}
