// Package measure 计算文本在指定字体与字号下的渲染像素宽度。
//
// 字体在 New 中一次性加载，并在此时按字体能力选定测量后端；
// 之后的 Width/WidthAt 只是查询，不会失败。
package measure

import (
	"sync"

	"github.com/ByLCY/boxfit/boxfit"
	"github.com/ByLCY/boxfit/fonts"
)

var _ boxfit.Measurer = (*Measurer)(nil)

// Options 配置测量器。
type Options struct {
	// Src 为字体来源：文件路径、embed:<name> 或 built-in:<name>。
	Src string
	// Size 为默认字号（px），<=0 时使用 DefaultSize。
	Size int
	// BaseDir 用于解析相对字体路径。
	BaseDir string
	// Fonts 提供 built-in:<name> 引用的字体数据。
	Fonts map[string][]byte
	// Backend 强制指定后端，留空或 "auto" 时自动选择。
	Backend string
}

// Measurer 测量文本像素宽度；按字号缓存字体面，可复用于整个运行周期。
type Measurer struct {
	src      string
	size     int
	strategy strategy

	faceMu sync.Mutex
	faces  map[int]widthFunc
}

// New 加载字体并选择测量后端。字体缺失或无法解析时返回错误。
func New(opts Options) (*Measurer, error) {
	size := opts.Size
	if size <= 0 {
		size = DefaultSize
	}
	data, err := fonts.Load(opts.Src, opts.BaseDir, opts.Fonts)
	if err != nil {
		return nil, err
	}
	s, err := selectStrategy(fonts.Name(opts.Src), data, opts.Backend)
	if err != nil {
		return nil, err
	}
	return &Measurer{
		src:      opts.Src,
		size:     size,
		strategy: s,
		faces:    map[int]widthFunc{},
	}, nil
}

// Width 返回 text 在默认字号下的像素宽度。
func (m *Measurer) Width(text string) int {
	return m.WidthAt(text, m.size)
}

// WidthAt 返回 text 在 size 字号下的像素宽度；size<=0 时使用默认字号。
// 只测量水平方向，空字符串返回 0。
func (m *Measurer) WidthAt(text string, size int) int {
	if text == "" {
		return 0
	}
	if size <= 0 {
		size = m.size
	}
	return m.face(size)(text)
}

// Size 返回默认字号。
func (m *Measurer) Size() int { return m.size }

// Source 返回字体来源。
func (m *Measurer) Source() string { return m.src }

// Backend 返回构造时选定的后端名称。
func (m *Measurer) Backend() string { return m.strategy.name() }

func (m *Measurer) face(size int) widthFunc {
	m.faceMu.Lock()
	defer m.faceMu.Unlock()
	if f, ok := m.faces[size]; ok {
		return f
	}
	f := m.strategy.face(size)
	m.faces[size] = f
	return f
}
