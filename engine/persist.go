package engine

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/goccy/go-json"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/vectorspace"
)

// SnapshotVersion 是持久化快照的当前版本号。
// 快照是显式 schema 的 JSON，不是对象图 dump，跨运行时可移植。
const SnapshotVersion = 1

// snapshot 是引擎状态的持久化 schema：
// 词表（下标即维度）、文档频率表、逐文档稀疏向量、预处理后的目录、均值快照。
// 加载后无需原始目录文件即可完整恢复查询能力。
type snapshot struct {
	Version  int         `json:"version"`
	DocCount int         `json:"doc_count"`
	Terms    []string    `json:"terms"`
	DF       []int       `json:"df"`
	Books    []core.Book `json:"books"`
	Docs     []sparseDoc `json:"docs"`
	Means    columnMeans `json:"means"`
}

// sparseDoc 是单篇文档向量的稀疏表示，Indices 升序。
type sparseDoc struct {
	Indices []int     `json:"i"`
	Values  []float64 `json:"v"`
}

// columnMeans 是构建期各数值列的填充均值快照。
type columnMeans struct {
	PublishedYear float64 `json:"published_year"`
	AverageRating float64 `json:"average_rating"`
	NumPages      float64 `json:"num_pages"`
	RatingsCount  float64 `json:"ratings_count"`
}

// Snapshot 导出引擎当前状态的版本化快照。
func (e *Engine) Snapshot() ([]byte, error) {
	st := e.state.Load()
	vec := st.vectorizer

	terms := make([]string, vec.VocabSize())
	for term, idx := range vec.Vocabulary {
		terms[idx] = term
	}

	docs := make([]sparseDoc, len(st.matrix))
	for i, v := range st.matrix {
		indices := make([]int, 0, len(v))
		for idx := range v {
			indices = append(indices, idx)
		}
		sort.Ints(indices)
		values := make([]float64, len(indices))
		for j, idx := range indices {
			values[j] = v[idx]
		}
		docs[i] = sparseDoc{Indices: indices, Values: values}
	}

	snap := snapshot{
		Version:  SnapshotVersion,
		DocCount: vec.DocCount,
		Terms:    terms,
		DF:       vec.DF,
		Books:    st.books,
		Docs:     docs,
		Means:    meansOf(st.books),
	}
	return json.Marshal(snap)
}

// Restore 由快照重建引擎，恢复后的 Recommend 输出与导出前一致。
// 数据损坏返回 UNREADABLE，版本不符返回 BAD_VERSION。
func Restore(data []byte, opts ...Option) (*Engine, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeUnreadable,
			fmt.Sprintf("engine: decode snapshot: %v", err))
	}
	if snap.Version != SnapshotVersion {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeBadVersion,
			fmt.Sprintf("engine: snapshot version %d, want %d", snap.Version, SnapshotVersion))
	}

	matrix := make([]vectorspace.Vector, len(snap.Docs))
	for i, doc := range snap.Docs {
		v := make(vectorspace.Vector, len(doc.Indices))
		for j, idx := range doc.Indices {
			v[idx] = doc.Values[j]
		}
		matrix[i] = v
	}

	vec := vectorspace.Restore(snap.Terms, snap.DF, snap.DocCount)

	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	pipe := defaultPipeline(vec)
	if e.pipeBuilder != nil {
		custom, err := e.pipeBuilder(vec)
		if err != nil {
			return nil, err
		}
		pipe = custom
	}
	e.state.Store(&state{
		books:      snap.Books,
		vectorizer: vec,
		matrix:     matrix,
		pipe:       pipe,
	})
	return e, nil
}

// SaveTo 把快照写入 Store。
func (e *Engine) SaveTo(ctx context.Context, st core.Store, key string) error {
	data, err := e.Snapshot()
	if err != nil {
		return err
	}
	return st.Set(ctx, key, data)
}

// LoadFrom 从 Store 读取快照并重建引擎。
// key 不存在时透传 store 的 NOT_FOUND，由调用方决定重建还是报错。
func LoadFrom(ctx context.Context, st core.Store, key string, opts ...Option) (*Engine, error) {
	data, err := st.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return Restore(data, opts...)
}

// SaveFile 把快照写入文件。
func (e *Engine) SaveFile(path string) error {
	data, err := e.Snapshot()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return core.NewDomainError(core.ModuleEngine, core.ErrorCodeUnreadable,
			fmt.Sprintf("engine: write snapshot %s: %v", path, err))
	}
	return nil
}

// LoadFile 从文件读取快照并重建引擎。
func LoadFile(path string, opts ...Option) (*Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeUnreadable,
			fmt.Sprintf("engine: read snapshot %s: %v", path, err))
	}
	return Restore(data, opts...)
}

// meansOf 计算目录各数值列的均值快照（列均值在预处理后对填充值不变）。
func meansOf(books []core.Book) columnMeans {
	if len(books) == 0 {
		return columnMeans{}
	}
	var m columnMeans
	for i := range books {
		m.PublishedYear += books[i].PublishedYear
		m.AverageRating += books[i].AverageRating
		m.NumPages += books[i].NumPages
		m.RatingsCount += books[i].RatingsCount
	}
	n := float64(len(books))
	m.PublishedYear /= n
	m.AverageRating /= n
	m.NumPages /= n
	m.RatingsCount /= n
	return m
}
