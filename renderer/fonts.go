package renderer

import (
	"fmt"
	"os"
	"strings"

	"github.com/ByLCY/placard/fonts"
)

// FontLoader 解析字体来源，两个后端共用同一套规则：
// 先查配置中注册的字体，再查内置字体（embed:<name> 或不含路径分隔符的裸名称），
// 其余按相对 baseDir 的文件路径读取。
type FontLoader struct {
	baseDir    string
	registered map[string]string // 名称 -> TTF 路径
}

func NewFontLoader(baseDir string, registered map[string]string) *FontLoader {
	l := &FontLoader{baseDir: baseDir, registered: map[string]string{}}
	for name, path := range registered {
		if name != "" && path != "" {
			l.registered[name] = path
		}
	}
	return l
}

// Load 返回 src 对应的字体文件内容。
func (l *FontLoader) Load(src string) ([]byte, error) {
	if path, ok := l.registered[src]; ok {
		return l.read(src, path)
	}
	if IsBuiltinFont(src) {
		return fonts.Load(src)
	}
	return l.read(src, src)
}

func (l *FontLoader) read(src, path string) ([]byte, error) {
	p, err := ResolvePath(l.baseDir, path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	return data, nil
}

// IsBuiltinFont 判断 src 是否指向内置字体，"gobold" 与 "embed:gobold" 等价。
func IsBuiltinFont(src string) bool {
	return fonts.IsEmbedded(src) || !strings.ContainsAny(src, "./\\")
}
