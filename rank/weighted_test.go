package rank

import (
	"context"
	"math"
	"testing"

	"github.com/rushteam/bookrec/core"
)

func TestWeightedRatingBlend(t *testing.T) {
	foundation := core.NewItem(&core.Book{Title: "Foundation", AverageRating: 4.2, RatingsCount: 500})
	foundation.SimilarityScore = 500.0 / 900
	dune := core.NewItem(&core.Book{Title: "Dune", AverageRating: 4.3, RatingsCount: 900})
	dune.SimilarityScore = 1.0

	node := &WeightedRating{}
	out, err := node.Process(context.Background(), nil, []*core.Item{foundation, dune})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	// Dune：0.5*4.3 + 0.3*1.0 + 0.2*1.0 = 2.65
	if out[0].Book.Title != "Dune" {
		t.Fatalf("first item = %q, want Dune", out[0].Book.Title)
	}
	if math.Abs(out[0].WeightedRating-2.65) > 1e-12 {
		t.Errorf("Dune weighted = %v, want 2.65", out[0].WeightedRating)
	}
	// Foundation：0.5*4.2 + 0.3*(500/900) + 0.2*(500/900)
	wantFoundation := 0.5*4.2 + 0.3*(500.0/900) + 0.2*(500.0/900)
	if math.Abs(out[1].WeightedRating-wantFoundation) > 1e-12 {
		t.Errorf("Foundation weighted = %v, want %v", out[1].WeightedRating, wantFoundation)
	}
}

func TestWeightedRatingStableSort(t *testing.T) {
	// 完全相同的图书加权评分并列，稳定排序保持输入顺序
	titles := []string{"first", "second", "third"}
	items := make([]*core.Item, len(titles))
	for i, title := range titles {
		items[i] = core.NewItem(&core.Book{Title: title, AverageRating: 4.0, RatingsCount: 10})
		items[i].SimilarityScore = 0.5
	}

	node := &WeightedRating{}
	out, err := node.Process(context.Background(), nil, items)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	for i, want := range titles {
		if out[i].Book.Title != want {
			t.Errorf("position %d = %q, want %q (ties must keep original order)", i, out[i].Book.Title, want)
		}
	}
}

func TestWeightedRatingZeroRatingsGuard(t *testing.T) {
	item := core.NewItem(&core.Book{Title: "A", AverageRating: 4.0, RatingsCount: 0})
	item.SimilarityScore = 0.5

	node := &WeightedRating{}
	out, err := node.Process(context.Background(), nil, []*core.Item{item})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	want := 0.5*4.0 + 0.3*0.5 // 热度项降级为 0
	if math.Abs(out[0].WeightedRating-want) > 1e-12 {
		t.Errorf("weighted = %v, want %v", out[0].WeightedRating, want)
	}
	if math.IsNaN(out[0].WeightedRating) {
		t.Error("weighted rating is NaN")
	}
}

func TestWeightedRatingCustomWeights(t *testing.T) {
	item := core.NewItem(&core.Book{Title: "A", AverageRating: 2.0, RatingsCount: 10})
	item.SimilarityScore = 1.0

	node := &WeightedRating{RatingWeight: 1.0, SimilarityWeight: 0.0, PopularityWeight: 0.0}
	out, err := node.Process(context.Background(), nil, []*core.Item{item})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if out[0].WeightedRating != 2.0 {
		t.Errorf("weighted = %v, want 2.0", out[0].WeightedRating)
	}
}
