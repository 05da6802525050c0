package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ByLCY/boxfit/boxfit"
	"github.com/ByLCY/boxfit/buildinfo"
	"github.com/ByLCY/boxfit/catalog"
	"github.com/ByLCY/boxfit/config"
	"github.com/ByLCY/boxfit/fonts"
	"github.com/ByLCY/boxfit/measure"
)

func main() {
	if err := newRootCommand(os.Stderr).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCommand 构建 boxfit 命令树，日志写入 logOut。
func newRootCommand(logOut io.Writer) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "boxfit",
		Short:         "折叠本地化复合键并标注每行文本的像素宽度",
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(logOut, level)))
		},
	}
	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")

	root.AddCommand(newFixCommand())
	root.AddCommand(newMeasureCommand())
	return root
}

type fixFlags struct {
	config     string
	input      string
	output     string
	font       string
	size       int
	backend    string
	keyTie     string
	segmentTie string
	collision  string
}

func newFixCommand() *cobra.Command {
	var f fixFlags
	cmd := &cobra.Command{
		Use:   "fix",
		Short: "处理词条表并写出带像素宽度的 JSON",
		Long: `fix 读取本地化 JSON，把复合键（以换行连接的多个候选措辞）折叠到最长的已存在候选键上，
并为每个词条的每一行标注渲染像素宽度。命令行参数会覆盖 --config 指定的任务文件。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := resolveJob(cmd, f)
			if err != nil {
				return err
			}
			_, err = run(job, loggerFromContext(cmd.Context()))
			return err
		},
	}
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "任务文件（.toml 或任务 DSL）")
	cmd.Flags().StringVar(&f.input, "in", config.DefaultInput, "输入 JSON")
	cmd.Flags().StringVar(&f.output, "out", config.DefaultOutput, "输出 JSON")
	cmd.Flags().StringVar(&f.font, "font", config.DefaultFontSrc, "字体：文件路径或 embed:<name>")
	cmd.Flags().IntVar(&f.size, "size", config.DefaultFontSize, "字号（px）")
	cmd.Flags().StringVar(&f.backend, "backend", measure.BackendAuto, "测量后端：auto、glyph-bounds、canvas")
	cmd.Flags().StringVar(&f.keyTie, "key-tie", "last", "等长候选键取舍：last、first")
	cmd.Flags().StringVar(&f.segmentTie, "segment-tie", "greatest", "等宽值段取舍：greatest、least")
	cmd.Flags().StringVar(&f.collision, "collision", "last", "多个复合键指向同一键时：last、widest")
	return cmd
}

// resolveJob 以任务文件（或默认配置）为基础，叠加显式指定的命令行参数。
func resolveJob(cmd *cobra.Command, f fixFlags) (config.Job, error) {
	job := config.Default()
	if f.config != "" {
		loaded, err := config.Load(f.config)
		if err != nil {
			return job, err
		}
		job = loaded
	}

	flags := cmd.Flags()
	overrides := []struct {
		name string
		set  func()
	}{
		{"in", func() { job.Input = absIfJob(job, f.input) }},
		{"out", func() { job.Output = absIfJob(job, f.output) }},
		{"font", func() { job.Font.Src = absIfJob(job, f.font) }},
		{"size", func() { job.Font.Size = f.size }},
		{"backend", func() { job.Font.Backend = f.backend }},
		{"key-tie", func() { job.Reconcile.KeyTie = f.keyTie }},
		{"segment-tie", func() { job.Reconcile.SegmentTie = f.segmentTie }},
		{"collision", func() { job.Reconcile.Collision = f.collision }},
	}
	for _, o := range overrides {
		if flags.Changed(o.name) {
			o.set()
		}
	}
	return job, job.Validate()
}

// absIfJob 让命令行给出的相对路径相对于当前目录，而不是任务文件目录。
// embed:/built-in: 字体来源原样保留。
func absIfJob(job config.Job, p string) string {
	if job.BaseDir == "" || p == "" || filepath.IsAbs(p) {
		return p
	}
	if strings.HasPrefix(p, fonts.EmbedPrefix) || strings.HasPrefix(p, fonts.BuiltinPrefix) || strings.HasPrefix(p, "builtin:") {
		return p
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// run 串联字体加载、读取、两轮处理与写出。任一步失败都不会写出文件。
func run(job config.Job, logger *log.Logger) (boxfit.Report, error) {
	var report boxfit.Report

	p := newProgress(logger)
	m, err := measure.New(job.MeasureOptions())
	if err != nil {
		return report, err
	}
	logger.Debug("已加载字体", "src", m.Source(), "size", m.Size(), "backend", m.Backend())

	input := job.Path(job.Input)
	c, err := catalog.Load(input)
	if err != nil {
		return report, err
	}
	logger.Debug("已读取词条", "path", input, "entries", c.Len())

	opts, err := job.Options()
	if err != nil {
		return report, err
	}
	opts.Measurer = m
	opts.Logger = logger

	report, err = boxfit.Process(c, opts)
	if err != nil {
		return report, err
	}
	logger.Info("复合键处理完成",
		"compound", report.Reconcile.Compound,
		"reconciled", report.Reconcile.Reconciled,
		"unmatched", report.Reconcile.Unmatched,
		"targets", report.Reconcile.Targets,
	)

	output := job.Path(job.Output)
	if err := catalog.Save(output, c); err != nil {
		return report, err
	}
	p.done("已写入 "+output, "entries", report.Annotated)
	return report, nil
}
