package binding

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 路径不存在时返回错误，避免把未展开的占位符当作文件路径使用。
func Interpolate(text string, data map[string]any) (string, error) {
	var missing []string
	out := exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		path := strings.TrimSpace(exprPattern.FindStringSubmatch(match)[1])
		if val, ok := resolvePath(data, path); ok {
			return fmt.Sprint(val)
		}
		missing = append(missing, path)
		return match
	})
	if len(missing) > 0 {
		return text, fmt.Errorf("无法解析占位符 %s", strings.Join(missing, ", "))
	}
	return out, nil
}

// Env 将进程环境变量整理为可供 ${env.NAME} 引用的映射。
func Env() map[string]any {
	env := map[string]any{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = v
		}
	}
	return env
}

func resolvePath(data map[string]any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	var current any = data
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	switch current.(type) {
	case map[string]any:
		return nil, false
	}
	return current, true
}
