package catalog

import (
	"bufio"
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ByLCY/boxfit/errors"
)

// annotatedJSON 是标注后值的 JSON 形态。
type annotatedJSON struct {
	Text         string `json:"text"`
	PixelLengths []int  `json:"pixel_lengths"`
}

// Decode 读取一个 JSON 对象并保持键顺序。值可以是字符串，也可以是已标注的
// {"text", "pixel_lengths"} 记录（便于对输出文件再次处理）。
// 重复的键保留首次出现的位置、采用最后一次的值。
func Decode(r io.Reader) (*Catalog, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "读取 JSON 失败")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New(errors.ErrCodeInvalidInput, "顶层必须是 JSON 对象")
	}

	c := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "读取键失败")
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "无效的键 %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "读取键 %q 的值失败", key)
		}
		v, err := decodeValue(raw)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "键 %q 的值无效", key)
		}
		c.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "JSON 对象未正确结束")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidInput, "JSON 对象之后存在多余内容")
	}
	return c, nil
}

func decodeValue(raw json.RawMessage) (Value, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Value{}, fmt.Errorf("空值")
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return Value{}, err
		}
		return Value{Text: s}, nil
	case '{':
		var a annotatedJSON
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&a); err != nil {
			return Value{}, err
		}
		// 记录中的宽度不可信，只保留原文，由标注阶段重新测量。
		return Value{Text: a.Text}, nil
	default:
		return Value{}, fmt.Errorf("期望字符串或 {text, pixel_lengths} 记录，得到 %s", trimmed)
	}
}

// Encode 以 4 空格缩进写出 JSON：保持键顺序，非 ASCII 字符与 <>& 原样输出。
func Encode(w io.Writer, c *Catalog) error {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range c.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeRaw(&buf, e.Key); err != nil {
			return err
		}
		buf.WriteByte(':')
		var v any = e.Value.Text
		if e.Value.Annotated() {
			v = annotatedJSON{Text: e.Value.Text, PixelLengths: e.Value.PixelLengths}
		}
		if err := writeRaw(&buf, v); err != nil {
			return err
		}
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "    "); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "格式化 JSON 失败")
	}
	out.WriteByte('\n')
	_, err := w.Write(unescapeLineSeparators(out.Bytes()))
	return err
}

// unescapeLineSeparators 把 encoding/json 强制转义的 \u2028、\u2029 还原为字面字符。
// 编码结果中的每个反斜杠都开始一个转义序列，按序列跳读即可避开 "\\u2028" 这类原文。
func unescapeLineSeparators(b []byte) []byte {
	if !bytes.Contains(b, []byte(`\u202`)) {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' || i+1 >= len(b) {
			out = append(out, b[i])
			continue
		}
		if b[i+1] == 'u' && i+6 <= len(b) {
			switch string(b[i+2 : i+6]) {
			case "2028":
				out = append(out, "\u2028"...)
				i += 5
				continue
			case "2029":
				out = append(out, "\u2029"...)
				i += 5
				continue
			}
		}
		out = append(out, b[i], b[i+1])
		i++
	}
	return out
}

// writeRaw 写出单个 JSON 值，不做 HTML 转义，并去掉 Encoder 附加的换行。
func writeRaw(buf *bytes.Buffer, v any) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "编码 JSON 失败")
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

// Load 从文件读取词条表。
func Load(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "找不到输入文件 %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "无法打开输入文件 %s", path)
	}
	defer file.Close()

	c, err := Decode(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("解析 %s: %w", path, err)
	}
	return c, nil
}

// Save 先写入同目录的临时文件再重命名，失败时不会破坏已有的输出文件。
func Save(path string, c *Catalog) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeOutput, err, "无法在 %s 创建临时文件", dir)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	if err = Encode(w, c); err != nil {
		return errors.Wrap(errors.ErrCodeOutput, err, "写入 %s 失败", path)
	}
	if err = w.Flush(); err != nil {
		return errors.Wrap(errors.ErrCodeOutput, err, "写入 %s 失败", path)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return errors.Wrap(errors.ErrCodeOutput, err, "设置 %s 权限失败", path)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeOutput, err, "关闭临时文件失败")
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeOutput, err, "无法替换输出文件 %s", path)
	}
	return nil
}
