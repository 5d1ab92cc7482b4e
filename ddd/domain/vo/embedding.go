package vo

import (
	"fmt"
	"math"
)

// Vector 内容向量，由推理服务抽取
type Vector []float32

// Validate 验证向量维度与数值有效性
func (v Vector) Validate(dim int) error {
	if len(v) != dim {
		return fmt.Errorf("向量维度不匹配: expected=%d actual=%d", dim, len(v))
	}
	for i, x := range v {
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("向量分量[%d]非法: %f", i, f)
		}
	}
	return nil
}

// Norm 向量的欧几里得范数
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// IsZero 检查是否为零向量
func (v Vector) IsZero() bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// Cosine 计算两个向量的余弦相似度。任一方为零向量时返回0。
func Cosine(a, b Vector) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
