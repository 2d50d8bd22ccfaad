package vectorspace

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// tokenPattern 匹配长度 >=2 的字母/数字/下划线连续串，单字符词被丢弃。
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Vectorizer 是 TF-IDF 向量化器。
//
// 核心思想：
//   - Fit 阶段在全量文档上建立词表与文档频率统计（英文停用词剔除）
//   - Transform 阶段用已拟合的词表把任意新文本映射到同一向量空间，无需重新拟合
//   - 权重 = 词频 × 平滑 IDF，文档向量做 L2 归一化
//
// IDF 采用平滑公式 ln((1+n)/(1+df)) + 1，保证词表内任意词权重非负，
// 因此任意两个向量的余弦相似度落在 [0,1]。
//
// 拟合完成后 Vectorizer 只读，可被多个 goroutine 并发 Transform。
type Vectorizer struct {
	// Vocabulary 词表：词 -> 向量维度下标（按字典序分配，保证拟合结果确定）
	Vocabulary map[string]int

	// IDF 逆文档频率，与 Vocabulary 的下标对齐
	IDF []float64

	// DF 文档频率（包含该词的文档数），持久化快照只存这组整数统计量
	DF []int

	// DocCount 拟合时的文档总数
	DocCount int

	stop map[string]struct{}
}

// NewVectorizer 创建一个未拟合的向量化器（英文停用词）。
func NewVectorizer() *Vectorizer {
	return &Vectorizer{
		Vocabulary: make(map[string]int),
		stop:       stopWordSet(),
	}
}

// Restore 由持久化快照重建向量化器。
// terms 按维度下标排列，df 为对应的文档频率；IDF 由 df 与文档数重新计算，
// 快照里只需存整数统计量，跨运行时可移植。
func Restore(terms []string, df []int, docCount int) *Vectorizer {
	v := &Vectorizer{
		Vocabulary: make(map[string]int, len(terms)),
		IDF:        make([]float64, len(terms)),
		DF:         df,
		DocCount:   docCount,
		stop:       stopWordSet(),
	}
	n := float64(docCount)
	for i, term := range terms {
		v.Vocabulary[term] = i
		v.IDF[i] = math.Log((1+n)/(1+float64(df[i]))) + 1
	}
	return v
}

// tokenize 切分文本：小写化后按 tokenPattern 提取词，剔除停用词。
func (v *Vectorizer) tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := raw[:0]
	for _, tok := range raw {
		if _, skip := v.stop[tok]; skip {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// FitTransform 在 docs 上拟合词表与 IDF，并返回每篇文档的归一化向量。
// 词表下标按词的字典序分配，同一份语料多次拟合结果一致。
func (v *Vectorizer) FitTransform(docs []string) []Vector {
	tokenized := make([][]string, len(docs))
	df := make(map[string]int)
	for i, doc := range docs {
		tokenized[i] = v.tokenize(doc)
		seen := make(map[string]struct{}, len(tokenized[i]))
		for _, tok := range tokenized[i] {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	v.Vocabulary = make(map[string]int, len(terms))
	v.IDF = make([]float64, len(terms))
	v.DF = make([]int, len(terms))
	v.DocCount = len(docs)
	n := float64(len(docs))
	for i, term := range terms {
		v.Vocabulary[term] = i
		v.DF[i] = df[term]
		v.IDF[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	out := make([]Vector, len(docs))
	for i, tokens := range tokenized {
		out[i] = v.vectorize(tokens)
	}
	return out
}

// Transform 把任意新文本映射到已拟合的向量空间。
// 词表外的词与停用词被忽略；全部被忽略时返回零向量。
func (v *Vectorizer) Transform(text string) Vector {
	return v.vectorize(v.tokenize(text))
}

// vectorize 由 token 列表计算归一化的 TF-IDF 向量。
func (v *Vectorizer) vectorize(tokens []string) Vector {
	vec := make(Vector)
	for _, tok := range tokens {
		if idx, ok := v.Vocabulary[tok]; ok {
			vec[idx] += v.IDF[idx]
		}
	}
	return Normalize(vec)
}

// VocabSize 返回词表大小。
func (v *Vectorizer) VocabSize() int {
	return len(v.Vocabulary)
}
