package model

import (
	"testing"

	"stayRank/domain"
)

func trainInto(t *testing.T, dir string, seed int64) {
	t.Helper()

	X, y := syntheticDataset(32, seed)
	if _, err := Train(X, y, []string{"budget", "price", "user_score"}, dir, TrainOptions{
		Epochs: 1, BatchSize: 8, KBest: 2, Seed: seed,
	}); err != nil {
		t.Fatalf("train into %s: %v", dir, err)
	}
}

func TestCacheReusesPipelineForSamePath(t *testing.T) {
	dir := t.TempDir()
	trainInto(t, dir, 1)

	cache := NewCache()
	m := domain.Model{TaskID: "a", Path: dir}

	p1, err := cache.Pipeline(m)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	p2, err := cache.Pipeline(m)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}

	if p1 != p2 {
		t.Error("same path should return the cached pipeline instance")
	}
}

func TestCacheReloadsOnPathChange(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	trainInto(t, dirA, 1)
	trainInto(t, dirB, 2)

	cache := NewCache()

	p1, err := cache.Pipeline(domain.Model{TaskID: "a", Path: dirA})
	if err != nil {
		t.Fatalf("load a: %v", err)
	}
	p2, err := cache.Pipeline(domain.Model{TaskID: "b", Path: dirB})
	if err != nil {
		t.Fatalf("load b: %v", err)
	}

	if p1 == p2 {
		t.Error("path change should force a reload")
	}
	if p2.Dir != dirB {
		t.Errorf("cached pipeline points at %s, want %s", p2.Dir, dirB)
	}
}

func TestCacheKeepsOldPipelineOnFailedReload(t *testing.T) {
	dir := t.TempDir()
	trainInto(t, dir, 1)

	cache := NewCache()
	if _, err := cache.Pipeline(domain.Model{TaskID: "a", Path: dir}); err != nil {
		t.Fatalf("load: %v", err)
	}

	if _, err := cache.Pipeline(domain.Model{TaskID: "b", Path: t.TempDir()}); err == nil {
		t.Fatal("expected load failure for empty artifact dir")
	}

	// the previous pipeline must still be served
	p, err := cache.Pipeline(domain.Model{TaskID: "a", Path: dir})
	if err != nil {
		t.Fatalf("reload original: %v", err)
	}
	if p.Dir != dir {
		t.Errorf("cache lost the original pipeline: %s", p.Dir)
	}
}
