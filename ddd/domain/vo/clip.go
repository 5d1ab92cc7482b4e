package vo

import "fmt"

// TrimmedClip 自动剪辑生成的精彩片段，时间单位为秒
type TrimmedClip struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Label string  `json:"label"`
}

// Duration 片段时长
func (c TrimmedClip) Duration() float64 {
	return c.End - c.Start
}

// Validate 验证片段范围
func (c TrimmedClip) Validate() error {
	if c.Start < 0 {
		return fmt.Errorf("剪辑片段起始时间不能为负数: %f", c.Start)
	}
	if c.End <= c.Start {
		return fmt.Errorf("剪辑片段结束时间必须晚于起始时间: start=%f end=%f", c.Start, c.End)
	}
	return nil
}
