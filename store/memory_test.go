package store

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/bookrec/core"
)

func TestMemoryStoreGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	defer m.Close()

	if _, err := m.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Errorf("want not-found, got %v", err)
	}

	if err := m.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := m.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Errorf("Get() = %q, %v", got, err)
	}

	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := m.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Errorf("want not-found after delete, got %v", err)
	}
}

func TestMemoryStoreTTL(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	defer m.Close()

	if err := m.Set(ctx, "k", []byte("v"), 1); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := m.Get(ctx, "k"); err != nil {
		t.Fatalf("value must be readable before expiry: %v", err)
	}

	time.Sleep(1100 * time.Millisecond)
	if _, err := m.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Errorf("want not-found after expiry, got %v", err)
	}
}

func TestMemoryStoreBatch(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	defer m.Close()

	kvs := map[string][]byte{"a": []byte("1"), "b": []byte("2")}
	if err := m.BatchSet(ctx, kvs); err != nil {
		t.Fatalf("BatchSet() error = %v", err)
	}
	got, err := m.BatchGet(ctx, []string{"a", "b", "missing"})
	if err != nil {
		t.Fatalf("BatchGet() error = %v", err)
	}
	if len(got) != 2 || string(got["a"]) != "1" || string(got["b"]) != "2" {
		t.Errorf("BatchGet() = %v", got)
	}
}

func TestMemoryStoreZSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	defer m.Close()

	books := map[string]float64{"Dune": 900, "Foundation": 500, "Emma": 100}
	for member, score := range books {
		if err := m.ZAdd(ctx, "popular", score, member); err != nil {
			t.Fatalf("ZAdd() error = %v", err)
		}
	}

	top, err := m.ZRange(ctx, "popular", 0, 1)
	if err != nil {
		t.Fatalf("ZRange() error = %v", err)
	}
	if len(top) != 2 || top[0] != "Dune" || top[1] != "Foundation" {
		t.Errorf("ZRange() = %v, want [Dune Foundation]", top)
	}

	score, err := m.ZScore(ctx, "popular", "Emma")
	if err != nil || score != 100 {
		t.Errorf("ZScore() = %v, %v", score, err)
	}
	if _, err := m.ZScore(ctx, "popular", "missing"); !core.IsStoreNotFound(err) {
		t.Errorf("want not-found, got %v", err)
	}
}

func TestMemoryStoreHash(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	defer m.Close()

	if err := m.HSet(ctx, "book:dune", "authors", []byte("Frank Herbert")); err != nil {
		t.Fatalf("HSet() error = %v", err)
	}
	if err := m.HSet(ctx, "book:dune", "categories", []byte("Science fiction")); err != nil {
		t.Fatalf("HSet() error = %v", err)
	}

	got, err := m.HGet(ctx, "book:dune", "authors")
	if err != nil || string(got) != "Frank Herbert" {
		t.Errorf("HGet() = %q, %v", got, err)
	}

	all, err := m.HGetAll(ctx, "book:dune")
	if err != nil || len(all) != 2 {
		t.Errorf("HGetAll() = %v, %v", all, err)
	}
}
