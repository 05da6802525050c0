package boxfit

import "github.com/ByLCY/boxfit/catalog"

// Annotate 把每个词条的值替换为 {原文, 各行像素宽度}，复合键也不例外。
// 已标注的值按原文重新测量，因此重复执行结果不变。返回标注的词条数。
func Annotate(c *catalog.Catalog, opts Options) (int, error) {
	if err := opts.validate(); err != nil {
		return 0, err
	}
	logger := opts.logger()

	n := 0
	for _, entry := range c.Entries() {
		segments := entry.Value.Segments()
		widths := make([]int, len(segments))
		for i, seg := range segments {
			widths[i] = opts.Measurer.Width(seg)
		}
		c.Set(entry.Key, catalog.Value{Text: entry.Value.Text, PixelLengths: widths})
		n++
	}
	logger.Debug("标注完成", "entries", n)
	return n, nil
}

// Report 汇总 Process 的两轮结果。
type Report struct {
	Reconcile ReconcileStats
	Annotated int
}

// Process 依次执行 Reconcile 与 Annotate。标注必须在折叠完成后进行，
// 否则会测量到即将被覆盖的旧值。
func Process(c *catalog.Catalog, opts Options) (Report, error) {
	var report Report
	stats, err := Reconcile(c, opts)
	if err != nil {
		return report, err
	}
	report.Reconcile = stats

	n, err := Annotate(c, opts)
	if err != nil {
		return report, err
	}
	report.Annotated = n
	return report, nil
}
