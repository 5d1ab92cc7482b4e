package vo

import (
	"fmt"
	"strings"
)

// TranscriptSegment 转写片段，时间单位为秒
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Validate 验证片段时间范围
func (s TranscriptSegment) Validate() error {
	if s.Start < 0 {
		return fmt.Errorf("转写片段起始时间不能为负数: %f", s.Start)
	}
	if s.End < s.Start {
		return fmt.Errorf("转写片段结束时间早于起始时间: start=%f end=%f", s.Start, s.End)
	}
	return nil
}

// Transcript 整条视频的转写结果
type Transcript []TranscriptSegment

// Validate 验证所有片段且要求时间轴单调不减
func (t Transcript) Validate() error {
	prevEnd := 0.0
	for i, seg := range t {
		if err := seg.Validate(); err != nil {
			return fmt.Errorf("转写片段[%d]无效: %w", i, err)
		}
		if seg.Start < prevEnd {
			return fmt.Errorf("转写片段[%d]与前一片段时间重叠: start=%f prev_end=%f", i, seg.Start, prevEnd)
		}
		prevEnd = seg.End
	}
	return nil
}

// FullText 拼接所有片段文本，用于搜索索引
func (t Transcript) FullText() string {
	if len(t) == 0 {
		return ""
	}
	parts := make([]string, 0, len(t))
	for _, seg := range t {
		if seg.Text != "" {
			parts = append(parts, seg.Text)
		}
	}
	return strings.Join(parts, " ")
}
