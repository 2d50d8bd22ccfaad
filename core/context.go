package core

import "github.com/rushteam/bookrec/pkg/utils"

// RecommendContext 承载单次推荐请求的查询条件，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	// Genre 类别过滤条件（大小写不敏感的子串匹配），空串表示不过滤
	Genre string

	// AuthorPreference 作者偏好（自由文本），空串表示按热度计算相似度
	AuthorPreference string

	// TopN 返回的结果数量，<=0 时由引擎填充默认值
	TopN int

	// Params 请求级上下文参数，供自定义 Node / 规则表达式使用
	Params map[string]any

	// Labels 是请求级标签，可驱动整个 Pipeline 行为
	Labels map[string]utils.Label
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
