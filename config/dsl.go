package config

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/ByLCY/boxfit/dsl"
	"github.com/ByLCY/boxfit/errors"
)

// applyDSL 将任务 DSL 叠加到 job 上。
func applyDSL(job *Job, path string, data []byte) error {
	doc, err := dsl.Parse(path, bytes.NewReader(data))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "解析任务文件 %s 失败", path)
	}
	job.Name = doc.Name
	for _, st := range doc.Block.Statements {
		switch {
		case st.Assignment != nil:
			if err := assignTop(job, st.Assignment); err != nil {
				return err
			}
		case st.Command != nil:
			if err := applyCommand(job, st.Command); err != nil {
				return err
			}
		}
	}
	return nil
}

func assignTop(job *Job, a *dsl.Assignment) error {
	switch a.Key {
	case "input":
		job.Input = a.Value.Text()
	case "output":
		job.Output = a.Value.Text()
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "%s: 未知的配置项 %q", a.Pos, a.Key)
	}
	return nil
}

func applyCommand(job *Job, cmd *dsl.Command) error {
	switch cmd.Name {
	case "font":
		// font "path" [size] 或 font { src: ... size: ... backend: ... }
		if len(cmd.Args) > 2 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s: font 最多接受两个参数", cmd.Pos)
		}
		if len(cmd.Args) > 0 {
			job.Font.Src = cmd.Args[0].Value
		}
		if len(cmd.Args) > 1 {
			size, err := parseSize(cmd.Args[1].Value)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s: 无效的字号", cmd.Args[1].Pos)
			}
			job.Font.Size = size
		}
		return eachAssignment(cmd, func(a *dsl.Assignment) error {
			switch a.Key {
			case "src":
				job.Font.Src = a.Value.Text()
			case "size":
				size, err := parseSize(a.Value.Text())
				if err != nil {
					return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s: 无效的字号", a.Pos)
				}
				job.Font.Size = size
			case "backend":
				job.Font.Backend = a.Value.Text()
			default:
				return errors.New(errors.ErrCodeInvalidConfig, "%s: font 中未知的配置项 %q", a.Pos, a.Key)
			}
			return nil
		})
	case "reconcile":
		return eachAssignment(cmd, func(a *dsl.Assignment) error {
			switch a.Key {
			case "key-tie":
				job.Reconcile.KeyTie = a.Value.Text()
			case "segment-tie":
				job.Reconcile.SegmentTie = a.Value.Text()
			case "collision":
				job.Reconcile.Collision = a.Value.Text()
			default:
				return errors.New(errors.ErrCodeInvalidConfig, "%s: reconcile 中未知的配置项 %q", a.Pos, a.Key)
			}
			return nil
		})
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "%s: 未知的命令 %q", cmd.Pos, cmd.Name)
	}
}

func eachAssignment(cmd *dsl.Command, fn func(a *dsl.Assignment) error) error {
	if cmd.Block == nil {
		return nil
	}
	for _, st := range cmd.Block.Statements {
		if st.Assignment == nil {
			return errors.New(errors.ErrCodeInvalidConfig, "%s: %s 块中只允许 key: value", cmd.Pos, cmd.Name)
		}
		if err := fn(st.Assignment); err != nil {
			return err
		}
	}
	return nil
}

// parseSize 解析字号，接受 16、16px、16pt（测量按 1pt = 1px）。
func parseSize(s string) (int, error) {
	s = strings.TrimSuffix(strings.TrimSuffix(strings.TrimSpace(s), "px"), "pt")
	return strconv.Atoi(s)
}
