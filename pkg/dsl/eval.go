package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/bookrec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量和函数
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		// 定义变量类型
		cel.Variable("item", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("rctx", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Eval 是结果规则的解释器，使用 CEL (Common Expression Language) 实现。
// 用于对推荐结果按标签/分数做声明式过滤，例如只保留作者命中的图书、
// 或剔除相似度过低的热度兜底结果。
//
// 表达式语法（CEL 标准语法）：
//   - 基础：label.score_source == "author_match"
//   - 数值：item.similarity_score > 0.2 / item.weighted_rating >= 2.0
//   - 逻辑：label.score_source == "popularity" && item.similarity_score > 0.5
//   - 包含：item.categories.contains("Fiction")
//
// 注意：has(label.key) 可以用 label.key != null 替代
type Eval struct {
	item *core.Item
	rctx *core.RecommendContext
	env  *cel.Env
}

// NewEval 创建一个新的规则解释器。
func NewEval(item *core.Item, rctx *core.RecommendContext) *Eval {
	env, _ := getCELEnv()
	return &Eval{
		item: item,
		rctx: rctx,
		env:  env,
	}
}

// Evaluate 解析并执行规则表达式，返回布尔结果。
// 空表达式恒为 true。
func (e *Eval) Evaluate(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}

	// 编译表达式
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("compile error: %v", issues.Err())
	}

	// 创建程序
	prg, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("program error: %v", err)
	}

	// 准备输入数据
	input := e.buildInput()

	// 执行表达式
	out, _, err := prg.Eval(input)
	if err != nil {
		// 对于不存在的 key，CEL 会返回错误
		// 用户应该使用 label.key != null 来检查存在性，而不是直接访问
		return false, fmt.Errorf("eval error: %v", err)
	}

	// 转换为布尔值
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}

	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func (e *Eval) buildInput() map[string]interface{} {
	// 构建 label map
	labels := make(map[string]interface{})
	for k, v := range e.item.Labels {
		labels[k] = map[string]interface{}{
			"value":  v.Value,
			"source": v.Source,
		}
	}

	// 构建 item map
	item := map[string]interface{}{
		"similarity_score": e.item.SimilarityScore,
		"weighted_rating":  e.item.WeightedRating,
		"labels":           labels,
	}
	if e.item.Book != nil {
		item["title"] = e.item.Book.Title
		item["authors"] = e.item.Book.Authors
		item["categories"] = e.item.Book.Categories
		item["average_rating"] = e.item.Book.AverageRating
		item["published_year"] = e.item.Book.PublishedYear
		item["ratings_count"] = e.item.Book.RatingsCount
	}

	// 构建 rctx map
	rctx := map[string]interface{}{}
	if e.rctx != nil {
		rctx["genre"] = e.rctx.Genre
		rctx["author_preference"] = e.rctx.AuthorPreference
		rctx["top_n"] = e.rctx.TopN
		rctx["params"] = e.rctx.Params
	}

	// label 提供顶层访问，例如 label.score_source 直接返回 value
	// 注意：CEL 访问不存在的 key 会报错，用户可以使用 label.key != null 来检查存在性
	labelAccessor := make(map[string]interface{})
	for k, v := range labels {
		labelAccessor[k] = v.(map[string]interface{})["value"]
	}

	return map[string]interface{}{
		"item":  item,
		"label": labelAccessor,
		"rctx":  rctx,
	}
}
