package config

import (
	"github.com/rushteam/bookrec/filter"
	"github.com/rushteam/bookrec/pipeline"
	"github.com/rushteam/bookrec/pkg/conv"
	"github.com/rushteam/bookrec/rank"
	"github.com/rushteam/bookrec/rerank"
	"github.com/rushteam/bookrec/vectorspace"
)

// DefaultFactory 返回一个包含所有内置 Node 的默认工厂。
// vectorizer 是引擎已拟合的向量空间，供 rank.author_similarity 使用。
func DefaultFactory(vectorizer *vectorspace.Vectorizer) *pipeline.NodeFactory {
	factory := pipeline.NewNodeFactory()

	// 注册 Filter Nodes
	factory.Register("filter.genre", buildGenreNode)
	factory.Register("filter.rule", buildRuleNode)

	// 注册 Rank Nodes
	factory.Register("rank.author_similarity", func(config map[string]interface{}) (pipeline.Node, error) {
		return &rank.AuthorSimilarity{Vectorizer: vectorizer}, nil
	})
	factory.Register("rank.weighted_rating", buildWeightedRatingNode)

	// 注册 ReRank Nodes
	factory.Register("rerank.topn", buildTopNNode)

	return factory
}

func buildGenreNode(config map[string]interface{}) (pipeline.Node, error) {
	return &filter.Genre{}, nil
}

func buildRuleNode(config map[string]interface{}) (pipeline.Node, error) {
	return &filter.Rule{
		Expression: conv.ConfigGet[string](config, "expression", ""),
	}, nil
}

func buildWeightedRatingNode(config map[string]interface{}) (pipeline.Node, error) {
	return &rank.WeightedRating{
		RatingWeight:     conv.ConfigGetFloat64(config, "rating_weight", 0),
		SimilarityWeight: conv.ConfigGetFloat64(config, "similarity_weight", 0),
		PopularityWeight: conv.ConfigGetFloat64(config, "popularity_weight", 0),
	}, nil
}

func buildTopNNode(config map[string]interface{}) (pipeline.Node, error) {
	return &rerank.TopNNode{
		N: int(conv.ConfigGetInt64(config, "n", 0)),
	}, nil
}
