// Package catalog 保存本地化键值表，保持键的插入顺序。
package catalog

import "strings"

// Separator 分隔复合键中的候选措辞，也分隔值中的各行。
const Separator = "\n"

// Value 是一条词条的值：原文，以及标注后各行的像素宽度。
type Value struct {
	Text         string
	PixelLengths []int // 未标注时为 nil
}

// Annotated 报告该值是否已带有像素宽度。
func (v Value) Annotated() bool { return v.PixelLengths != nil }

// Segments 按换行拆分原文；空字符串也算作一个段。
func (v Value) Segments() []string { return Segments(v.Text) }

// Segments 按换行拆分文本。
func Segments(text string) []string { return strings.Split(text, Separator) }

// IsCompound 报告 key 是否为复合键（包含换行）。
func IsCompound(key string) bool { return strings.Contains(key, Separator) }

// Entry 是一条键值对。
type Entry struct {
	Key   string
	Value Value
}

// Catalog 是有序、键唯一的映射。
type Catalog struct {
	entries []Entry
	index   map[string]int
}

// New 创建空表。
func New() *Catalog {
	return &Catalog{index: map[string]int{}}
}

// Len 返回词条数。
func (c *Catalog) Len() int { return len(c.entries) }

// Has 报告 key 是否存在。
func (c *Catalog) Has(key string) bool {
	_, ok := c.index[key]
	return ok
}

// Get 返回 key 对应的值。
func (c *Catalog) Get(key string) (Value, bool) {
	i, ok := c.index[key]
	if !ok {
		return Value{}, false
	}
	return c.entries[i].Value, true
}

// Set 写入 key。已有的 key 原位覆盖，保持原顺序；新 key 追加到末尾。
func (c *Catalog) Set(key string, v Value) {
	if i, ok := c.index[key]; ok {
		c.entries[i].Value = v
		return
	}
	c.index[key] = len(c.entries)
	c.entries = append(c.entries, Entry{Key: key, Value: v})
}

// SetText 以纯文本整体替换 key 的值，丢弃已有的标注。
func (c *Catalog) SetText(key, text string) {
	c.Set(key, Value{Text: text})
}

// Keys 按顺序返回所有键。
func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.entries))
	for i, e := range c.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries 返回当前词条的副本，遍历期间修改 Catalog 不会影响它。
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}
