package boxfit

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/boxfit/errors"
)

// Measurer 返回文本的渲染像素宽度。measure.Measurer 是生产实现，
// 测试可以用按字符计数的桩替代。
type Measurer interface {
	Width(text string) int
}

// KeyTie 决定复合键中多个等长候选键的取舍。
type KeyTie int

const (
	KeyTieLast  KeyTie = iota // 靠后的候选胜出
	KeyTieFirst               // 靠前的候选胜出
)

// SegmentTie 决定等宽值段的取舍。
type SegmentTie int

const (
	SegmentTieGreatest SegmentTie = iota // 字典序最大的段胜出
	SegmentTieLeast                      // 字典序最小的段胜出
)

// Collision 决定多个复合键指向同一简单键时的取舍。
type Collision int

const (
	CollisionLast   Collision = iota // 表中靠后的复合键覆盖靠前的
	CollisionWidest                  // 保留最宽的段
)

// Options 配置两轮处理所需的依赖与策略。
type Options struct {
	Measurer   Measurer
	KeyTie     KeyTie
	SegmentTie SegmentTie
	Collision  Collision
	Logger     *log.Logger
}

func (o Options) validate() error {
	if o.Measurer == nil {
		return errors.New(errors.ErrCodeInternal, "boxfit: 缺少 Measurer")
	}
	return nil
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard)
}

// ParseKeyTie 解析配置中的 key-tie 策略名。
func ParseKeyTie(s string) (KeyTie, error) {
	switch s {
	case "", "last":
		return KeyTieLast, nil
	case "first":
		return KeyTieFirst, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidConfig, "未知的 key-tie 策略 %q（可选 last、first）", s)
}

// ParseSegmentTie 解析配置中的 segment-tie 策略名。
func ParseSegmentTie(s string) (SegmentTie, error) {
	switch s {
	case "", "greatest":
		return SegmentTieGreatest, nil
	case "least":
		return SegmentTieLeast, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidConfig, "未知的 segment-tie 策略 %q（可选 greatest、least）", s)
}

// ParseCollision 解析配置中的 collision 策略名。
func ParseCollision(s string) (Collision, error) {
	switch s {
	case "", "last":
		return CollisionLast, nil
	case "widest":
		return CollisionWidest, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidConfig, "未知的 collision 策略 %q（可选 last、widest）", s)
}
