// Package config 描述一次 boxfit 运行所需的配置：字体、输入输出路径与平局策略。
//
// 配置可以来自 TOML 文件，也可以来自任务 DSL 文件（见 dsl 包）；
// 两者都叠加在 Default 之上，并支持 ${env.NAME}、${job.dir}、${job.name} 占位符。
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ByLCY/boxfit/binding"
	"github.com/ByLCY/boxfit/boxfit"
	"github.com/ByLCY/boxfit/errors"
	"github.com/ByLCY/boxfit/measure"
)

// 默认值沿用原有流程的固定文件名与字号。
const (
	DefaultInput    = "tr_org.json"
	DefaultOutput   = "tr.json"
	DefaultFontSrc  = "mplus-1c-medium.ttf"
	DefaultFontSize = measure.DefaultSize
)

// Job 是一次运行的完整配置。
type Job struct {
	Name      string    `toml:"name"`
	Input     string    `toml:"input"`
	Output    string    `toml:"output"`
	Font      Font      `toml:"font"`
	Reconcile Reconcile `toml:"reconcile"`

	// BaseDir 为相对路径的解析基准：任务文件所在目录，否则为空（当前目录）。
	BaseDir string `toml:"-"`
}

// Font 描述测量用字体。
type Font struct {
	Src     string `toml:"src"`
	Size    int    `toml:"size"`
	Backend string `toml:"backend"`
}

// Reconcile 保存折叠阶段的平局策略名称。
type Reconcile struct {
	KeyTie     string `toml:"key_tie"`
	SegmentTie string `toml:"segment_tie"`
	Collision  string `toml:"collision"`
}

// Default 返回默认配置。
func Default() Job {
	return Job{
		Name:   "default",
		Input:  DefaultInput,
		Output: DefaultOutput,
		Font: Font{
			Src:     DefaultFontSrc,
			Size:    DefaultFontSize,
			Backend: measure.BackendAuto,
		},
		Reconcile: Reconcile{
			KeyTie:     "last",
			SegmentTie: "greatest",
			Collision:  "last",
		},
	}
}

// Load 读取任务文件：.toml 按 TOML 解析，其余扩展名按任务 DSL 解析。
// 结果已完成占位符展开与校验。
func Load(path string) (Job, error) {
	job := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return job, errors.Wrap(errors.ErrCodeFileNotFound, err, "无法读取配置文件 %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &job); err != nil {
			return job, errors.Wrap(errors.ErrCodeInvalidConfig, err, "解析 TOML 配置 %s 失败", path)
		}
	default:
		if err := applyDSL(&job, path, data); err != nil {
			return job, err
		}
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return job, errors.Wrap(errors.ErrCodeInvalidConfig, err, "无法解析配置目录")
	}
	job.BaseDir = dir
	if err := job.Expand(binding.Env()); err != nil {
		return job, err
	}
	return job, job.Validate()
}

// Expand 展开所有字符串字段中的占位符。
func (j *Job) Expand(env map[string]any) error {
	data := map[string]any{
		"env": env,
		"job": map[string]any{"name": j.Name, "dir": j.BaseDir},
	}
	for _, field := range []*string{
		&j.Input, &j.Output, &j.Font.Src, &j.Font.Backend,
		&j.Reconcile.KeyTie, &j.Reconcile.SegmentTie, &j.Reconcile.Collision,
	} {
		v, err := binding.Interpolate(*field, data)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "展开配置值 %q 失败", *field)
		}
		*field = v
	}
	return nil
}

// Validate 检查配置是否可用。
func (j Job) Validate() error {
	if strings.TrimSpace(j.Input) == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "未指定输入文件")
	}
	if strings.TrimSpace(j.Output) == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "未指定输出文件")
	}
	if filepath.Clean(j.Path(j.Input)) == filepath.Clean(j.Path(j.Output)) {
		return errors.New(errors.ErrCodeInvalidConfig, "输入与输出不能是同一个文件：%s", j.Input)
	}
	if strings.TrimSpace(j.Font.Src) == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "未指定字体")
	}
	if j.Font.Size <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "字号必须为正数，当前为 %d", j.Font.Size)
	}
	switch j.Font.Backend {
	case "", measure.BackendAuto, measure.BackendGlyphBounds, measure.BackendCanvas:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "未知的测量后端 %q", j.Font.Backend)
	}
	_, err := j.Options()
	return err
}

// Path 将相对路径解析到 BaseDir 下。
func (j Job) Path(p string) string {
	if p == "" || filepath.IsAbs(p) || j.BaseDir == "" {
		return p
	}
	return filepath.Join(j.BaseDir, p)
}

// MeasureOptions 返回构造测量器所需的选项。
func (j Job) MeasureOptions() measure.Options {
	return measure.Options{
		Src:     j.Font.Src,
		Size:    j.Font.Size,
		BaseDir: j.BaseDir,
		Backend: j.Font.Backend,
	}
}

// Options 将策略名称转换为 boxfit.Options（不含 Measurer 与 Logger）。
func (j Job) Options() (boxfit.Options, error) {
	var opts boxfit.Options
	var err error
	if opts.KeyTie, err = boxfit.ParseKeyTie(j.Reconcile.KeyTie); err != nil {
		return opts, err
	}
	if opts.SegmentTie, err = boxfit.ParseSegmentTie(j.Reconcile.SegmentTie); err != nil {
		return opts, err
	}
	if opts.Collision, err = boxfit.ParseCollision(j.Reconcile.Collision); err != nil {
		return opts, err
	}
	return opts, nil
}
