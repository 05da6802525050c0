package measure

import (
	"fmt"

	"github.com/golang/freetype/truetype"
	"github.com/tdewolff/canvas"
	"golang.org/x/image/font"

	"github.com/ByLCY/boxfit/errors"
)

// 测量后端名称。
const (
	BackendAuto        = "auto"
	BackendGlyphBounds = "glyph-bounds"
	BackendCanvas      = "canvas"
)

// widthFunc 返回给定字号下某段文本的像素宽度。
type widthFunc func(text string) int

// strategy 在构造 Measurer 时选定，之后每次测量都不再分支。
type strategy interface {
	name() string
	face(size int) widthFunc
}

// glyphBounds 直接查询字形包围盒（truetype 能解析的 TTF/TTC 字体）。
type glyphBounds struct {
	font *truetype.Font
}

func newGlyphBounds(data []byte) (*glyphBounds, error) {
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, err
	}
	return &glyphBounds{font: f}, nil
}

func (g *glyphBounds) name() string { return BackendGlyphBounds }

func (g *glyphBounds) face(size int) widthFunc {
	face := truetype.NewFace(g.font, &truetype.Options{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	return func(text string) int {
		bounds, _ := font.BoundString(face, text)
		return inkWidth(fixedToPx(bounds.Min.X), fixedToPx(bounds.Max.X))
	}
}

// canvasText 取 canvas 排版后字形轮廓的包围盒，覆盖 truetype 无法解析的
// CFF OpenType、WOFF、WOFF2 等格式。与 glyphBounds 同样只量墨迹，不含步进留白。
type canvasText struct {
	family *canvas.FontFamily
}

func newCanvasText(familyName string, data []byte) (*canvasText, error) {
	family := canvas.NewFontFamily(familyName)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, err
	}
	return &canvasText{family: family}, nil
}

func (c *canvasText) name() string { return BackendCanvas }

func (c *canvasText) face(size int) widthFunc {
	// canvas 的字号以 pt 传入，轮廓坐标为 mm。
	face := c.family.Face(float64(size), canvas.Black, canvas.FontRegular, canvas.FontNormal)
	return func(text string) int {
		path, _, err := face.ToPath(text)
		if err != nil || path == nil {
			return 0
		}
		bounds := path.Bounds()
		return inkWidth(bounds.X0*MmToPt, bounds.X1*MmToPt)
	}
}

// selectStrategy 按能力选择后端：优先字形包围盒，解析失败时回退到 canvas。
func selectStrategy(familyName string, data []byte, backend string) (strategy, error) {
	switch backend {
	case "", BackendAuto:
		g, gErr := newGlyphBounds(data)
		if gErr == nil {
			return g, nil
		}
		c, cErr := newCanvasText(familyName, data)
		if cErr == nil {
			return c, nil
		}
		return nil, errors.Wrap(errors.ErrCodeFontInvalid, fmt.Errorf("truetype: %v; canvas: %w", gErr, cErr), "无法解析字体 %s", familyName)
	case BackendGlyphBounds:
		g, err := newGlyphBounds(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFontInvalid, err, "truetype 无法解析字体 %s", familyName)
		}
		return g, nil
	case BackendCanvas:
		c, err := newCanvasText(familyName, data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFontInvalid, err, "canvas 无法加载字体 %s", familyName)
		}
		return c, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "未知的测量后端 %q", backend)
	}
}
