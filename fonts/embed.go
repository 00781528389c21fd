package fonts

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Default 是未指定字体时使用的内置字体。
const Default = "goregular"

var builtin = map[string][]byte{
	"goregular": goregular.TTF,
	"gobold":    gobold.TTF,
	"goitalic":  goitalic.TTF,
	"gomedium":  gomedium.TTF,
	"gomono":    gomono.TTF,
}

// IsEmbedded 判断 src 是否指向内置字体（embed: 前缀或空）。
func IsEmbedded(src string) bool {
	return src == "" || strings.HasPrefix(src, "embed:")
}

// Load 返回内置字体的字节数据，src 可写为 "embed:gobold" 或直接 "gobold"；空字符串返回默认字体。
func Load(src string) ([]byte, error) {
	name := strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(src, "embed:"), ".ttf"))
	if name == "" {
		name = Default
	}
	data, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("找不到内置字体 %s（可用：%s）", name, strings.Join(Names(), ", "))
	}
	return data, nil
}

// Names 返回所有内置字体名称。
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
