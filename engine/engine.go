// Package engine 实现图书推荐引擎：
// 构建期把目录预处理成 core.Book 集合并在组合文本上拟合 TF-IDF 向量空间，
// 查询期通过 Filter → Rank → ReRank 的 Pipeline 产出 TopN 推荐。
package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/bookrec/catalog"
	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/filter"
	"github.com/rushteam/bookrec/pipeline"
	"github.com/rushteam/bookrec/rank"
	"github.com/rushteam/bookrec/rerank"
	"github.com/rushteam/bookrec/vectorspace"
)

// DefaultTopN 是未指定 TopN 时的默认返回数量。
const DefaultTopN = 5

// Request 是一次推荐请求。
type Request struct {
	// Genre 类别过滤（大小写不敏感子串），空串表示不过滤
	Genre string

	// AuthorPreference 作者偏好（自由文本），空串表示按热度打分
	AuthorPreference string

	// TopN 返回数量，<=0 时取 DefaultTopN
	TopN int

	// Candidates 调用方限定的候选子集；非空时会重新走一遍预处理
	// （包括数值列均值填充），与全量目录的处理路径完全一致
	Candidates []catalog.Record
}

// Recommendation 是推荐结果的边界投影，字段与外层服务的响应一致。
type Recommendation struct {
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	Rating          float64 `json:"rating"`
	Year            float64 `json:"year"`
	Categories      string  `json:"categories"`
	SimilarityScore float64 `json:"similarity_score"`
	WeightedRating  float64 `json:"weighted_rating"`
}

// state 是引擎的一次完整构建产物，构建完成后只读。
// Reload 构建新 state 后整体替换，读侧永远不会看到半成品索引。
type state struct {
	books      []core.Book
	vectorizer *vectorspace.Vectorizer
	matrix     []vectorspace.Vector // 全量目录组合文本的文档向量，与 books 对齐
	pipe       *pipeline.Pipeline
}

// Engine 是图书推荐引擎。
// 构建是一次性的阻塞操作；构建完成后 Recommend 只读共享状态，可并发调用。
type Engine struct {
	state atomic.Pointer[state]

	// cache 为可选的结果缓存（全量目录查询才会命中缓存）
	cache    core.Store
	cacheTTL int

	// pipeBuilder 为空时使用内置链路
	pipeBuilder func(*vectorspace.Vectorizer) (*pipeline.Pipeline, error)
}

// Option 配置 Engine 的可选能力。
type Option func(*Engine)

// WithCache 开启推荐结果缓存，ttl 单位为秒。
// 只有不带候选子集的请求会读写缓存。
func WithCache(store core.Store, ttlSeconds int) Option {
	return func(e *Engine) {
		e.cache = store
		e.cacheTTL = ttlSeconds
	}
}

// WithPipeline 用自定义链路替换内置链路。
// builder 在索引拟合完成后调用，拿到的向量空间与 Reload 后的新索引保持同步。
// 典型用法是配合 pipeline.Config 与 config.DefaultFactory 从 YAML 构建链路。
func WithPipeline(builder func(*vectorspace.Vectorizer) (*pipeline.Pipeline, error)) Option {
	return func(e *Engine) {
		e.pipeBuilder = builder
	}
}

// New 从目录数据源构建引擎。
// 必需列缺失返回 Schema 错误，数据源不可读返回 Resource 错误。
func New(ctx context.Context, src catalog.Source, opts ...Option) (*Engine, error) {
	records, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	return NewFromRecords(records, opts...)
}

// NewFromRecords 从已读取的原始记录构建引擎（记录已通过数据源的表结构校验）。
func NewFromRecords(records []catalog.Record, opts ...Option) (*Engine, error) {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	st, err := e.buildState(catalog.Preprocess(records))
	if err != nil {
		return nil, err
	}
	e.state.Store(st)
	return e, nil
}

// buildState 对预处理完的图书集合拟合向量空间并组装 Pipeline。
func (e *Engine) buildState(books []core.Book) (*state, error) {
	docs := make([]string, len(books))
	for i := range books {
		docs[i] = books[i].CombinedText
	}

	vectorizer := vectorspace.NewVectorizer()
	matrix := vectorizer.FitTransform(docs)

	pipe := defaultPipeline(vectorizer)
	if e.pipeBuilder != nil {
		custom, err := e.pipeBuilder(vectorizer)
		if err != nil {
			return nil, err
		}
		pipe = custom
	}

	return &state{
		books:      books,
		vectorizer: vectorizer,
		matrix:     matrix,
		pipe:       pipe,
	}, nil
}

// defaultPipeline 是引擎内置的推荐链路：类别过滤 → 相似度打分 → 加权评分排序 → TopN 截断。
func defaultPipeline(vectorizer *vectorspace.Vectorizer) *pipeline.Pipeline {
	return &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&filter.Genre{},
			&rank.AuthorSimilarity{Vectorizer: vectorizer},
			&rank.WeightedRating{},
			&rerank.TopNNode{},
		},
	}
}

// Reload 从数据源整体重建索引并原子替换。
// 失败时保留旧状态，正在执行的查询不受影响。
func (e *Engine) Reload(ctx context.Context, src catalog.Source) error {
	records, err := src.Load(ctx)
	if err != nil {
		return err
	}
	st, err := e.buildState(catalog.Preprocess(records))
	if err != nil {
		return err
	}
	e.state.Store(st)
	return nil
}

// Books 返回引擎当前持有的预处理后目录。
func (e *Engine) Books() []core.Book {
	return e.state.Load().books
}

// VocabSize 返回向量空间的词表大小。
func (e *Engine) VocabSize() int {
	return e.state.Load().vectorizer.VocabSize()
}

// Recommend 执行一次推荐查询，每次调用都是全新计算。
// 空过滤结果、零分母、词表外的偏好文本均静默降级，不会返回错误。
func (e *Engine) Recommend(ctx context.Context, req Request) ([]Recommendation, error) {
	if req.TopN <= 0 {
		req.TopN = DefaultTopN
	}

	cacheable := e.cache != nil && req.Candidates == nil
	cacheKey := ""
	if cacheable {
		cacheKey = requestCacheKey(req)
		if data, err := e.cache.Get(ctx, cacheKey); err == nil {
			var cached []Recommendation
			if json.Unmarshal(data, &cached) == nil {
				return cached, nil
			}
		}
	}

	st := e.state.Load()

	// 候选子集重新走预处理；全量目录直接用构建期的结果
	books := st.books
	if req.Candidates != nil {
		books = catalog.Preprocess(req.Candidates)
	}

	items := make([]*core.Item, len(books))
	for i := range books {
		items[i] = core.NewItem(&books[i])
	}

	rctx := &core.RecommendContext{
		Genre:            req.Genre,
		AuthorPreference: req.AuthorPreference,
		TopN:             req.TopN,
	}
	ranked, err := st.pipe.Run(ctx, rctx, items)
	if err != nil {
		return nil, err
	}

	out := make([]Recommendation, 0, len(ranked))
	for _, item := range ranked {
		if item == nil || item.Book == nil {
			continue
		}
		out = append(out, Recommendation{
			Title:           item.Book.Title,
			Author:          item.Book.Authors,
			Rating:          item.Book.AverageRating,
			Year:            item.Book.PublishedYear,
			Categories:      item.Book.Categories,
			SimilarityScore: item.SimilarityScore,
			WeightedRating:  item.WeightedRating,
		})
	}

	if cacheable {
		if data, err := json.Marshal(out); err == nil {
			_ = e.cache.Set(ctx, cacheKey, data, e.cacheTTL)
		}
	}
	return out, nil
}

// RecommendBatch 并发执行多个独立请求，结果与请求顺序对齐。
// maxConcurrent <= 0 表示不限制并发。索引只读，批内请求互不影响。
func (e *Engine) RecommendBatch(ctx context.Context, reqs []Request, maxConcurrent int) ([][]Recommendation, error) {
	out := make([][]Recommendation, len(reqs))
	eg, ctx := errgroup.WithContext(ctx)
	if maxConcurrent > 0 {
		eg.SetLimit(maxConcurrent)
	}
	for i, req := range reqs {
		i, req := i, req
		eg.Go(func() error {
			recs, err := e.Recommend(ctx, req)
			if err != nil {
				return err
			}
			out[i] = recs
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// SimilarTo 返回与指定图书组合文本最相似的 topN 本图书（按余弦相似度降序）。
// 标题大小写不敏感精确匹配；找不到返回 NOT_FOUND。
func (e *Engine) SimilarTo(_ context.Context, title string, topN int) ([]Recommendation, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}
	st := e.state.Load()

	idx := -1
	for i := range st.books {
		if strings.EqualFold(st.books[i].Title, title) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeNotFound,
			fmt.Sprintf("engine: book %q not found", title))
	}

	items := make([]*core.Item, 0, len(st.books)-1)
	for i := range st.books {
		if i == idx {
			continue
		}
		item := core.NewItem(&st.books[i])
		item.SimilarityScore = vectorspace.Cosine(st.matrix[idx], st.matrix[i])
		// 相似图书不经过加权评分，直接按相似度排序
		item.WeightedRating = item.SimilarityScore
		items = append(items, item)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].SimilarityScore > items[j].SimilarityScore
	})
	if len(items) > topN {
		items = items[:topN]
	}

	out := make([]Recommendation, 0, len(items))
	for _, item := range items {
		out = append(out, Recommendation{
			Title:           item.Book.Title,
			Author:          item.Book.Authors,
			Rating:          item.Book.AverageRating,
			Year:            item.Book.PublishedYear,
			Categories:      item.Book.Categories,
			SimilarityScore: item.SimilarityScore,
			WeightedRating:  item.WeightedRating,
		})
	}
	return out, nil
}

// PublishPopularity 把目录按 ratings_count 写入有序集合，供热度榜查询。
func (e *Engine) PublishPopularity(ctx context.Context, kv core.KeyValueStore, key string) error {
	st := e.state.Load()
	for i := range st.books {
		if err := kv.ZAdd(ctx, key, st.books[i].RatingsCount, st.books[i].Title); err != nil {
			return err
		}
	}
	return nil
}

// MostPopular 从热度榜读取 TopN 书名（降序）。
func (e *Engine) MostPopular(ctx context.Context, kv core.KeyValueStore, key string, topN int) ([]string, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return kv.ZRange(ctx, key, 0, int64(topN)-1)
}

// requestCacheKey 由查询条件生成缓存 key。
func requestCacheKey(req Request) string {
	return fmt.Sprintf("bookrec:recs:%s|%s|%d",
		strings.ToLower(req.Genre), strings.ToLower(req.AuthorPreference), req.TopN)
}
