package vectorspace

import "math"

// Vector 是稀疏的词权重向量：词表下标 -> TF-IDF 权重。
// 零值维度不存储；空 map 与 nil 均表示零向量。
type Vector map[int]float64

// Dot 计算两个稀疏向量的点积，按较小的一侧遍历。
func Dot(a, b Vector) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	var sum float64
	for i, va := range a {
		if vb, ok := b[i]; ok {
			sum += va * vb
		}
	}
	return sum
}

// Norm 计算向量的 L2 范数。
func Norm(v Vector) float64 {
	var sum float64
	for _, val := range v {
		sum += val * val
	}
	return math.Sqrt(sum)
}

// Normalize 返回 L2 归一化后的新向量；零向量原样返回。
func Normalize(v Vector) Vector {
	norm := Norm(v)
	if norm == 0 {
		return v
	}
	out := make(Vector, len(v))
	for i, val := range v {
		out[i] = val / norm
	}
	return out
}

// Cosine 计算余弦相似度。
// 任一侧为零向量（例如查询词全部是停用词或词表外词）时定义为 0，永不返回 NaN。
// TF-IDF 权重非负，因此结果落在 [0,1]。
func Cosine(a, b Vector) float64 {
	normA := Norm(a)
	normB := Norm(b)
	if normA == 0 || normB == 0 {
		return 0
	}
	return Dot(a, b) / (normA * normB)
}
