package vectorspace

import (
	"math"
	"testing"
)

func TestFitTransform(t *testing.T) {
	v := NewVectorizer()
	docs := v.FitTransform([]string{"apple banana", "banana cherry"})

	if v.VocabSize() != 3 {
		t.Fatalf("vocab size = %d, want 3", v.VocabSize())
	}
	// 词表下标按词的字典序分配
	wantVocab := map[string]int{"apple": 0, "banana": 1, "cherry": 2}
	for term, idx := range wantVocab {
		if v.Vocabulary[term] != idx {
			t.Errorf("Vocabulary[%q] = %d, want %d", term, v.Vocabulary[term], idx)
		}
	}

	// 平滑 idf：ln((1+n)/(1+df)) + 1
	wantIDF := []float64{
		math.Log(3.0/2.0) + 1, // apple, df=1
		math.Log(3.0/3.0) + 1, // banana, df=2
		math.Log(3.0/2.0) + 1, // cherry, df=1
	}
	for i, want := range wantIDF {
		if math.Abs(v.IDF[i]-want) > 1e-12 {
			t.Errorf("IDF[%d] = %v, want %v", i, v.IDF[i], want)
		}
	}

	// 文档向量做 L2 归一化
	for i, doc := range docs {
		if math.Abs(Norm(doc)-1) > 1e-12 {
			t.Errorf("doc %d norm = %v, want 1", i, Norm(doc))
		}
	}
}

func TestTransformMatchesFittedSpace(t *testing.T) {
	v := NewVectorizer()
	docs := v.FitTransform([]string{"apple banana", "banana cherry"})

	// 对同一文本做 Transform 必须复现拟合期的文档向量
	again := v.Transform("apple banana")
	if got := Cosine(docs[0], again); math.Abs(got-1) > 1e-12 {
		t.Errorf("cosine(fitted, transformed) = %v, want 1", got)
	}
}

func TestTransformStopWordsAndOOV(t *testing.T) {
	v := NewVectorizer()
	v.FitTransform([]string{"apple banana", "banana cherry"})

	tests := []struct {
		name string
		text string
	}{
		{name: "stop words only", text: "the and of was"},
		{name: "out of vocabulary", text: "zeppelin quasar"},
		{name: "single letter tokens dropped", text: "a b c"},
		{name: "empty", text: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vec := v.Transform(tt.text)
			if len(vec) != 0 {
				t.Errorf("Transform(%q) = %v, want zero vector", tt.text, vec)
			}
			if got := Cosine(vec, v.Transform("apple banana")); got != 0 {
				t.Errorf("cosine with zero vector = %v, want 0", got)
			}
		})
	}
}

func TestTokenizeCaseAndLength(t *testing.T) {
	v := NewVectorizer()
	docs := v.FitTransform([]string{"Apple BANANA", "apple banana"})
	if got := Cosine(docs[0], docs[1]); math.Abs(got-1) > 1e-12 {
		t.Errorf("case must not matter, cosine = %v", got)
	}
}

func TestFitDeterministic(t *testing.T) {
	corpus := []string{"dune frank herbert science fiction", "foundation isaac asimov science fiction"}

	a := NewVectorizer()
	docsA := a.FitTransform(corpus)
	b := NewVectorizer()
	docsB := b.FitTransform(corpus)

	for term, idx := range a.Vocabulary {
		if b.Vocabulary[term] != idx {
			t.Fatalf("vocabulary differs for %q: %d vs %d", term, idx, b.Vocabulary[term])
		}
	}
	for i := range docsA {
		if got := Cosine(docsA[i], docsB[i]); math.Abs(got-1) > 1e-12 {
			t.Errorf("doc %d differs between fits", i)
		}
	}
}

func TestRestore(t *testing.T) {
	v := NewVectorizer()
	v.FitTransform([]string{"apple banana", "banana cherry"})

	terms := make([]string, v.VocabSize())
	for term, idx := range v.Vocabulary {
		terms[idx] = term
	}
	restored := Restore(terms, v.DF, v.DocCount)

	orig := v.Transform("apple cherry banana")
	back := restored.Transform("apple cherry banana")
	if len(orig) != len(back) {
		t.Fatalf("restored vector size differs: %d vs %d", len(orig), len(back))
	}
	for idx, val := range orig {
		if math.Abs(back[idx]-val) > 1e-12 {
			t.Errorf("component %d differs: %v vs %v", idx, val, back[idx])
		}
	}
}
