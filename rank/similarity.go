package rank

import (
	"context"
	"strings"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pipeline"
	"github.com/rushteam/bookrec/pkg/utils"
	"github.com/rushteam/bookrec/vectorspace"
)

// AuthorSimilarity 是相似度打分 Node，为每个候选填充 SimilarityScore。
//
// 打分规则：
//   - 有作者偏好：偏好按作者名规则归一化后做子串匹配
//     a. 存在命中：命中图书无条件得 1.0，其余图书取
//     偏好原文向量与图书组合文本向量的余弦相似度
//     b. 无命中：所有图书取余弦相似度，不做 1.0 提升
//   - 无作者偏好：按热度占比 ratings_count / max(ratings_count)
//
// 空候选集、最大 ratings_count 为 0、偏好全在词表外等情况一律降级为 0 分，不报错。
// 每个条目会打上 score_source 标签（author_match / text_similarity / popularity），
// 供下游规则过滤与结果解释使用。
type AuthorSimilarity struct {
	// Vectorizer 是已拟合的向量空间，只读复用
	Vectorizer *vectorspace.Vectorizer
}

func (n *AuthorSimilarity) Name() string {
	return "rank.author_similarity"
}

func (n *AuthorSimilarity) Kind() pipeline.Kind {
	return pipeline.KindRank
}

func (n *AuthorSimilarity) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	pref := ""
	if rctx != nil {
		pref = rctx.AuthorPreference
	}
	if pref == "" {
		n.scoreByPopularity(items)
		return items, nil
	}

	normPref := core.NormalizeAuthor(pref)
	matched := false
	for _, item := range items {
		if item.Book != nil && strings.Contains(item.Book.NormalizedAuthors, normPref) {
			matched = true
			break
		}
	}

	// 查询向量由偏好原文（而非归一化文本）变换得到，只计算一次
	query := n.Vectorizer.Transform(pref)

	for _, item := range items {
		if item.Book == nil {
			continue
		}
		if matched && strings.Contains(item.Book.NormalizedAuthors, normPref) {
			item.SimilarityScore = 1.0
			item.PutLabel("score_source", utils.Label{Value: "author_match", Source: "rank"})
			continue
		}
		doc := n.Vectorizer.Transform(item.Book.CombinedText)
		item.SimilarityScore = vectorspace.Cosine(query, doc)
		item.PutLabel("score_source", utils.Label{Value: "text_similarity", Source: "rank"})
	}
	return items, nil
}

// scoreByPopularity 无作者偏好时的兜底打分：热度占比。
func (n *AuthorSimilarity) scoreByPopularity(items []*core.Item) {
	var max float64
	for _, item := range items {
		if item.Book != nil && item.Book.RatingsCount > max {
			max = item.Book.RatingsCount
		}
	}
	for _, item := range items {
		if item.Book == nil {
			continue
		}
		if max > 0 {
			item.SimilarityScore = item.Book.RatingsCount / max
		} else {
			item.SimilarityScore = 0
		}
		item.PutLabel("score_source", utils.Label{Value: "popularity", Source: "rank"})
	}
}
