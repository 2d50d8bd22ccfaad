package filter

import (
	"context"
	"strings"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pipeline"
	"github.com/rushteam/bookrec/pkg/utils"
)

// Genre 是类别过滤 Node：保留 Categories 包含查询类别（大小写不敏感子串）的图书。
//
// 行为约定：
//   - 查询类别为空时不过滤，候选集原样通过
//   - 没有任何命中时返回空集合，不是错误（查询期降级）
type Genre struct{}

func (n *Genre) Name() string {
	return "filter.genre"
}

func (n *Genre) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *Genre) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	genre := ""
	if rctx != nil {
		genre = rctx.Genre
	}
	if genre == "" {
		return items, nil
	}

	needle := strings.ToLower(genre)
	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		if item == nil || item.Book == nil {
			continue
		}
		if !strings.Contains(strings.ToLower(item.Book.Categories), needle) {
			continue
		}
		item.PutLabel("genre_match", utils.Label{Value: genre, Source: "filter"})
		out = append(out, item)
	}
	return out, nil
}
