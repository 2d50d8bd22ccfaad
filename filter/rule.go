package filter

import (
	"context"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pipeline"
	"github.com/rushteam/bookrec/pkg/dsl"
	"github.com/rushteam/bookrec/pkg/utils"
)

// Rule 是规则过滤 Node：用 CEL 表达式对结果做声明式过滤。
// 通常放在打分之后，用于按标签/分数裁剪结果，例如：
//
//	&filter.Rule{Expression: `label.score_source != "popularity" || item.similarity_score > 0.3`}
//
// Expression 为空时不过滤。表达式执行出错的条目被保留（规则失败不吞结果）。
type Rule struct {
	Expression string
}

func (n *Rule) Name() string {
	return "filter.rule"
}

func (n *Rule) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *Rule) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Expression == "" || len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		keep, err := dsl.NewEval(item, rctx).Evaluate(n.Expression)
		if err != nil {
			// 表达式错误不中断链路
			out = append(out, item)
			continue
		}
		if !keep {
			item.PutLabel("filtered", utils.Label{Value: "rule", Source: "filter"})
			continue
		}
		out = append(out, item)
	}
	return out, nil
}
