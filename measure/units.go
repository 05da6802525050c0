package measure

import (
	"math"

	"golang.org/x/image/math/fixed"
)

// 像素与长度换算：测量按 72 DPI 处理，即 1pt = 1px。
const (
	PtToMm = 25.4 / 72
	MmToPt = 1.0 / PtToMm
)

// DefaultSize 为默认字号（px）。
const DefaultSize = 16

// fixedToPx 将 26.6 定点坐标换算为像素。
func fixedToPx(v fixed.Int26_6) float64 { return float64(v) / 64 }

// inkWidth 返回墨迹左右边界 [x0, x1]（px）覆盖的整像素列数；空包围盒为 0。
// 边界先量化到 1/64 px，与 freetype 的 26.6 定点精度一致，
// 两个后端对同一字形因此得到相同的整数宽度。
func inkWidth(x0, x1 float64) int {
	x0 = math.Round(x0*64) / 64
	x1 = math.Round(x1*64) / 64
	if x1 <= x0 {
		return 0
	}
	return int(math.Ceil(x1) - math.Floor(x0))
}
