package rank

import (
	"context"
	"sort"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pipeline"
)

// 加权评分的默认权重：平均评分 0.5 + 相似度 0.3 + 热度占比 0.2。
const (
	DefaultRatingWeight     = 0.5
	DefaultSimilarityWeight = 0.3
	DefaultPopularityWeight = 0.2
)

// WeightedRating 是加权评分 Node：把平均评分、相似度分量与热度占比
// 按权重混合成 WeightedRating，并按其降序做稳定排序（同分保持原始相对顺序）。
//
// 热度占比的分母是当前候选集的最大 ratings_count；
// 候选集为空或最大值为 0 时该分量取 0，与相似度阶段的保护相互独立。
type WeightedRating struct {
	// 权重为 0 时使用默认值；如需显式置 0 可传入极小值
	RatingWeight     float64
	SimilarityWeight float64
	PopularityWeight float64
}

func (n *WeightedRating) Name() string {
	return "rank.weighted_rating"
}

func (n *WeightedRating) Kind() pipeline.Kind {
	return pipeline.KindRank
}

func (n *WeightedRating) weights() (float64, float64, float64) {
	wr, ws, wp := n.RatingWeight, n.SimilarityWeight, n.PopularityWeight
	if wr == 0 && ws == 0 && wp == 0 {
		return DefaultRatingWeight, DefaultSimilarityWeight, DefaultPopularityWeight
	}
	return wr, ws, wp
}

func (n *WeightedRating) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	var maxRatings float64
	for _, item := range items {
		if item.Book != nil && item.Book.RatingsCount > maxRatings {
			maxRatings = item.Book.RatingsCount
		}
	}

	wr, ws, wp := n.weights()
	for _, item := range items {
		if item.Book == nil {
			continue
		}
		popularity := 0.0
		if maxRatings > 0 {
			popularity = item.Book.RatingsCount / maxRatings
		}
		item.WeightedRating = wr*item.Book.AverageRating + ws*item.SimilarityScore + wp*popularity
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].WeightedRating > items[j].WeightedRating
	})
	return items, nil
}
