package translate

import (
	"fmt"
	"maps"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// English 是默认语言代码，翻译到英文时直接返回原文。
const English = "en"

var languageCodes = map[string]string{
	"Hindi":     "hi",
	"Telugu":    "te",
	"Tamil":     "ta",
	"Malayalam": "ml",
	"Bengali":   "bn",
	"English":   English,
}

var codeToLanguage = func() map[string]string {
	m := make(map[string]string, len(languageCodes))
	for name, code := range languageCodes {
		m[code] = name
	}
	return m
}()

// Language 是一条受支持的语言记录。
type Language struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// LanguageCode 返回语言名称对应的代码（不区分大小写），未知名称返回 "en"。
func LanguageCode(name string) string {
	if code, ok := languageCodes[name]; ok {
		return code
	}
	for n, code := range languageCodes {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return code
		}
	}
	return English
}

// LanguageName 返回语言代码对应的名称，未知代码返回 "English"。
func LanguageName(code string) string {
	if name, ok := codeToLanguage[strings.ToLower(strings.TrimSpace(code))]; ok {
		return name
	}
	return "English"
}

// IsSupported 判断语言代码是否在支持列表中。
func IsSupported(code string) bool {
	_, ok := codeToLanguage[code]
	return ok
}

// SupportedLanguages 返回名称到代码的映射副本。
func SupportedLanguages() map[string]string {
	return maps.Clone(languageCodes)
}

// Languages 按名称排序返回所有受支持的语言。
func Languages() []Language {
	out := make([]Language, 0, len(languageCodes))
	for name, code := range languageCodes {
		out = append(out, Language{Name: name, Code: code})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Resolve 接受语言名称或代码，返回规范的名称与代码。
// 例如 "hi"、"Hindi"、"hindi" 均返回 ("Hindi", "hi")。
func Resolve(target string) (string, string) {
	t := strings.TrimSpace(target)
	if IsSupported(strings.ToLower(t)) {
		code := strings.ToLower(t)
		return LanguageName(code), code
	}
	code := LanguageCode(t)
	return LanguageName(code), code
}

// LanguageTag 将语言代码解析为 BCP 47 标签，用于输出文件元数据。
func LanguageTag(code string) (language.Tag, error) {
	tag, err := language.Parse(code)
	if err != nil {
		return language.Und, fmt.Errorf("无法识别的语言代码 %q: %w", code, err)
	}
	return tag, nil
}
