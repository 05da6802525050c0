// Package boxfit 处理本地化词条表，使其可直接用于定宽文本框：
// Reconcile 把复合键折叠到其最长的已存在候选键上，
// Annotate 为每个词条标注各行的像素宽度。
package boxfit

import (
	"strings"
	"unicode/utf8"

	"github.com/ByLCY/boxfit/catalog"
)

// ReconcileStats 汇总一轮 Reconcile 的结果。
type ReconcileStats struct {
	Compound   int // 复合键数量
	Reconciled int // 写入了目标键的复合键数量
	Unmatched  int // 没有任何候选键存在的复合键数量
	Targets    int // 被改写的不同简单键数量
}

// Reconcile 遍历开始时的全部词条，对每个复合键：在其候选部分中找出作为键存在、
// 且字符数最多的一个，用复合键值中最宽的一段整体替换该键的值。
// 复合键自身的值不变；没有候选键存在时静默跳过。
//
// 候选部分不含换行，因此目标总是简单键，本轮不会改写任何复合键，也不会增删键；
// 唯一的顺序依赖是多个复合键指向同一目标时的覆盖，由 Options.Collision 决定。
func Reconcile(c *catalog.Catalog, opts Options) (ReconcileStats, error) {
	var stats ReconcileStats
	if err := opts.validate(); err != nil {
		return stats, err
	}
	logger := opts.logger()

	type pick struct {
		text  string
		width int
	}
	written := map[string]pick{}

	for _, entry := range c.Entries() {
		if !catalog.IsCompound(entry.Key) {
			continue
		}
		stats.Compound++

		target, ok := longestExistingPart(c, strings.Split(entry.Key, catalog.Separator), opts.KeyTie)
		if !ok {
			stats.Unmatched++
			logger.Debug("复合键没有可用的候选键", "key", entry.Key)
			continue
		}

		seg, width := widestSegment(entry.Value.Segments(), opts.Measurer, opts.SegmentTie)
		if prev, seen := written[target]; seen && opts.Collision == CollisionWidest {
			if !segmentBeats(seg, width, prev.text, prev.width, opts.SegmentTie) {
				stats.Reconciled++
				logger.Debug("保留更宽的已有值", "target", target, "kept", prev.text, "candidate", seg)
				continue
			}
		}

		c.SetText(target, seg)
		written[target] = pick{text: seg, width: width}
		stats.Reconciled++
		logger.Debug("改写目标键", "key", entry.Key, "target", target, "value", seg, "width", width)
	}
	stats.Targets = len(written)
	return stats, nil
}

// longestExistingPart 返回作为键存在且字符数最多的部分。
func longestExistingPart(c *catalog.Catalog, parts []string, tie KeyTie) (string, bool) {
	var (
		best    string
		bestLen int
		found   bool
	)
	for _, part := range parts {
		if !c.Has(part) {
			continue
		}
		n := utf8.RuneCountInString(part)
		switch {
		case !found, n > bestLen, n == bestLen && tie == KeyTieLast:
			best, bestLen, found = part, n, true
		}
	}
	return best, found
}

// widestSegment 按 (宽度, 文本) 选出最宽的段；等宽时由 tie 按字典序决定。
func widestSegment(segments []string, m Measurer, tie SegmentTie) (string, int) {
	best := segments[0]
	bestWidth := m.Width(best)
	for _, seg := range segments[1:] {
		w := m.Width(seg)
		if segmentBeats(seg, w, best, bestWidth, tie) {
			best, bestWidth = seg, w
		}
	}
	return best, bestWidth
}

func segmentBeats(seg string, width int, other string, otherWidth int, tie SegmentTie) bool {
	if width != otherWidth {
		return width > otherWidth
	}
	if tie == SegmentTieLeast {
		return seg < other
	}
	return seg > other
}
