package engine

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/bookrec/catalog"
	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/store"
)

func testRecords() []catalog.Record {
	return []catalog.Record{
		{Title: "Foundation", Authors: "Isaac Asimov", Categories: "Science fiction", PublishedYear: "1951", AverageRating: "4.2", NumPages: "255", RatingsCount: "500"},
		{Title: "Dune", Authors: "Frank Herbert", Categories: "Science fiction", PublishedYear: "1965", AverageRating: "4.3", NumPages: "412", RatingsCount: "900"},
		{Title: "Pride and Prejudice", Authors: "Jane Austen", Categories: "Romance", PublishedYear: "1813", AverageRating: "4.4", NumPages: "279", RatingsCount: "1200"},
	}
}

func testEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	eng, err := NewFromRecords(testRecords(), opts...)
	if err != nil {
		t.Fatalf("NewFromRecords() error = %v", err)
	}
	return eng
}

func TestRecommendByGenre(t *testing.T) {
	eng := testEngine(t)

	recs, err := eng.Recommend(context.Background(), Request{Genre: "fiction", TopN: 1})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(recs))
	}

	// 两本 fiction 书且无作者偏好，相似度取热度占比 ratings_count / max：
	// Dune 1.0，Foundation 500/900；加权评分 Dune = 0.5*4.3 + 0.3*1.0 + 0.2*1.0 = 2.65
	if recs[0].Title != "Dune" {
		t.Errorf("top recommendation = %q, want Dune", recs[0].Title)
	}
	if math.Abs(recs[0].WeightedRating-2.65) > 1e-12 {
		t.Errorf("weighted rating = %v, want 2.65", recs[0].WeightedRating)
	}
}

func TestRecommendUnknownGenre(t *testing.T) {
	eng := testEngine(t)
	recs, err := eng.Recommend(context.Background(), Request{Genre: "cooking"})
	if err != nil {
		t.Fatalf("unmatched genre must not error: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("got %d recommendations, want 0", len(recs))
	}
}

func TestRecommendAuthorPreference(t *testing.T) {
	eng := testEngine(t)

	recs, err := eng.Recommend(context.Background(), Request{AuthorPreference: "Isaac Asimov", TopN: 3})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d recommendations, want 3", len(recs))
	}
	if recs[0].Title != "Foundation" {
		t.Errorf("top recommendation = %q, want Foundation", recs[0].Title)
	}
	if recs[0].SimilarityScore != 1.0 {
		t.Errorf("matched author similarity = %v, want 1.0", recs[0].SimilarityScore)
	}
	for _, r := range recs[1:] {
		if r.SimilarityScore == 1.0 {
			t.Errorf("%s must not get the author-match boost", r.Title)
		}
	}
}

func TestRecommendTopNBounds(t *testing.T) {
	eng := testEngine(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  Request
		max  int
	}{
		{name: "default topn", req: Request{}, max: 3},
		{name: "topn larger than catalog", req: Request{TopN: 50}, max: 3},
		{name: "topn bounds filtered set", req: Request{Genre: "Romance", TopN: 5}, max: 1},
		{name: "topn one", req: Request{TopN: 1}, max: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := eng.Recommend(ctx, tt.req)
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if len(recs) > tt.max {
				t.Errorf("got %d recommendations, want <= %d", len(recs), tt.max)
			}
		})
	}
}

func TestRecommendCandidateSubset(t *testing.T) {
	eng := testEngine(t)

	// 调用方给的候选子集走与全量目录完全相同的预处理，
	// 包括在子集上重新计算均值填充
	subset := []catalog.Record{
		{Title: "Dune", Authors: "Frank Herbert", Categories: "Science fiction", AverageRating: "4.3", RatingsCount: "900"},
		{Title: "Hamlet", Authors: "William Shakespeare", Categories: "Drama", AverageRating: "4.0", RatingsCount: ""},
	}
	recs, err := eng.Recommend(context.Background(), Request{TopN: 5, Candidates: subset})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	for _, r := range recs {
		if r.Title != "Dune" && r.Title != "Hamlet" {
			t.Errorf("unexpected title %q from subset query", r.Title)
		}
	}
}

func TestRecommendDeterministic(t *testing.T) {
	eng := testEngine(t)
	ctx := context.Background()
	req := Request{Genre: "fiction", AuthorPreference: "Frank Herbert", TopN: 3}

	first, err := eng.Recommend(ctx, req)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	second, err := eng.Recommend(ctx, req)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("result sizes differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("result %d differs between identical calls: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestRecommendBatch(t *testing.T) {
	eng := testEngine(t)

	reqs := []Request{
		{Genre: "fiction", TopN: 2},
		{Genre: "Romance", TopN: 2},
		{Genre: "cooking", TopN: 2},
	}
	out, err := eng.RecommendBatch(context.Background(), reqs, 2)
	if err != nil {
		t.Fatalf("RecommendBatch() error = %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d result sets, want 3", len(out))
	}
	if len(out[0]) != 2 || len(out[1]) != 1 || len(out[2]) != 0 {
		t.Errorf("result sizes = %d/%d/%d, want 2/1/0", len(out[0]), len(out[1]), len(out[2]))
	}
}

func TestRecommendCache(t *testing.T) {
	st := store.NewMemoryStore()
	defer st.Close()
	eng := testEngine(t, WithCache(st, 60))
	ctx := context.Background()

	req := Request{Genre: "fiction", TopN: 2}
	first, err := eng.Recommend(ctx, req)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	second, err := eng.Recommend(ctx, req)
	if err != nil {
		t.Fatalf("cached Recommend() error = %v", err)
	}
	if len(first) != len(second) || first[0] != second[0] {
		t.Errorf("cached result differs: %+v vs %+v", first, second)
	}

	// 序列化后的结果此刻必须已写入 store
	if _, err := st.Get(ctx, requestCacheKey(req)); err != nil {
		t.Errorf("cache entry missing: %v", err)
	}
}

func TestNewSchemaError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.csv")
	if err := os.WriteFile(path, []byte("title,authors\nDune,Frank Herbert\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := New(context.Background(), catalog.NewCSVSource(path))
	if !core.IsSchemaError(err) {
		t.Errorf("want schema error, got %v", err)
	}
}

func TestReloadSwapsCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "books.csv")
	write := func(rows string) {
		csv := "title,authors,categories,published_year,average_rating,num_pages,ratings_count\n" + rows
		if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write("Dune,Frank Herbert,Science fiction,1965,4.3,412,900\n")
	eng, err := New(context.Background(), catalog.NewCSVSource(path))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if len(eng.Books()) != 1 {
		t.Fatalf("got %d books, want 1", len(eng.Books()))
	}

	write("Dune,Frank Herbert,Science fiction,1965,4.3,412,900\nEmma,Jane Austen,Romance,1815,4.0,474,150\n")
	if err := eng.Reload(context.Background(), catalog.NewCSVSource(path)); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if len(eng.Books()) != 2 {
		t.Errorf("got %d books after reload, want 2", len(eng.Books()))
	}

	// 重载失败保留旧状态
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := eng.Reload(context.Background(), catalog.NewCSVSource(path)); !core.IsResourceError(err) {
		t.Fatalf("want resource error, got %v", err)
	}
	if len(eng.Books()) != 2 {
		t.Errorf("failed reload must keep previous catalog, got %d books", len(eng.Books()))
	}
}

func TestSimilarTo(t *testing.T) {
	eng := testEngine(t)

	recs, err := eng.SimilarTo(context.Background(), "dune", 2)
	if err != nil {
		t.Fatalf("SimilarTo() error = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d results, want 2", len(recs))
	}
	// Foundation 与 Dune 共享 "science"、"fiction" 两个词，Pride and Prejudice 无共享词
	if recs[0].Title != "Foundation" {
		t.Errorf("most similar = %q, want Foundation", recs[0].Title)
	}
	if recs[0].SimilarityScore <= recs[1].SimilarityScore {
		t.Errorf("similarities not descending: %v <= %v", recs[0].SimilarityScore, recs[1].SimilarityScore)
	}

	if _, err := eng.SimilarTo(context.Background(), "No Such Book", 2); !core.IsNotFound(err) {
		t.Errorf("want not-found, got %v", err)
	}
}

func TestPopularityLeaderboard(t *testing.T) {
	eng := testEngine(t)
	kv := store.NewMemoryStore()
	defer kv.Close()
	ctx := context.Background()

	if err := eng.PublishPopularity(ctx, kv, "popular"); err != nil {
		t.Fatalf("PublishPopularity() error = %v", err)
	}
	top, err := eng.MostPopular(ctx, kv, "popular", 2)
	if err != nil {
		t.Fatalf("MostPopular() error = %v", err)
	}
	if len(top) != 2 || top[0] != "Pride and Prejudice" || top[1] != "Dune" {
		t.Errorf("MostPopular() = %v, want [Pride and Prejudice Dune]", top)
	}
}
