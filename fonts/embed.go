package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/boxfit/errors"
)

// 字体来源前缀。
const (
	EmbedPrefix   = "embed:"
	BuiltinPrefix = "built-in:"
)

// embedded 为随二进制分发的 Go 字体，可通过 "embed:go-regular" 等名称引用。
var embedded = map[string][]byte{
	"go-regular": goregular.TTF,
	"go-medium":  gomedium.TTF,
	"go-bold":    gobold.TTF,
	"go-mono":    gomono.TTF,
}

// Embedded 返回可用的内置字体名称（已排序）。
func Embedded() []string {
	names := make([]string, 0, len(embedded))
	for name := range embedded {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load 解析字体来源并返回字体字节：
//   - "embed:<name>"：内置 Go 字体；
//   - "built-in:<name>"（兼容 "builtin:"）：调用方注入的 blobs；
//   - 其余视为文件路径，相对路径基于 baseDir 解析。
func Load(src, baseDir string, blobs map[string][]byte) ([]byte, error) {
	if src == "" {
		return nil, errors.New(errors.ErrCodeFontNotFound, "字体来源为空")
	}
	if strings.HasPrefix(src, EmbedPrefix) {
		name := strings.TrimPrefix(src, EmbedPrefix)
		data, ok := embedded[name]
		if !ok {
			return nil, errors.New(errors.ErrCodeFontNotFound, "找不到内置字体 %s（可用：%s）", src, strings.Join(Embedded(), ", "))
		}
		return data, nil
	}
	if strings.HasPrefix(src, BuiltinPrefix) || strings.HasPrefix(src, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(src, BuiltinPrefix), "builtin:")
		blob, ok := blobs[name]
		if !ok || len(blob) == 0 {
			return nil, errors.New(errors.ErrCodeFontNotFound, "找不到内置字体资源 built-in:%s", name)
		}
		return blob, nil
	}

	path := src
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontNotFound, err, "读取字体 %s 失败", path)
	}
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeFontInvalid, "字体文件 %s 为空", path)
	}
	return data, nil
}

// Name 返回来源的简短名称，用于日志与字体族命名。
func Name(src string) string {
	for _, prefix := range []string{EmbedPrefix, BuiltinPrefix, "builtin:"} {
		if strings.HasPrefix(src, prefix) {
			return strings.TrimPrefix(src, prefix)
		}
	}
	return strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
}

// Describe 以 "name (src)" 形式描述来源，主要用于错误信息。
func Describe(src string) string {
	return fmt.Sprintf("%s (%s)", Name(src), src)
}
