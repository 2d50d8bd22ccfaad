package core

import "github.com/rushteam/bookrec/pkg/utils"

// Item 是推荐链路中的统一承载结构：图书记录、分数、标签。
// Labels 用于解释与策略驱动；WeightedRating 用于最终排序决策。
type Item struct {
	Book *Book

	// SimilarityScore 是相似度分量：作者命中 1.0 / 文本余弦相似度 / 热度占比
	SimilarityScore float64

	// WeightedRating 是加权评分，最终排序依据
	WeightedRating float64

	Labels map[string]utils.Label
}

func NewItem(book *Book) *Item {
	return &Item{
		Book:   book,
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// GetLabel 获取 Label。
func (it *Item) GetLabel(key string) (utils.Label, bool) {
	if it.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := it.Labels[key]
	return lbl, ok
}
