package model

import (
	"testing"

	"stayRank/domain"
)

func TestFeatureNamesCoverEveryColumn(t *testing.T) {
	names := FeatureNames()
	if len(names) != 31 {
		t.Fatalf("want 31 features, got %d", len(names))
	}

	user := domain.User{PeopleNum: 2, Budget: 1500, Pool: true}
	loc := domain.Location{Price: 120, HasPool: true, UserScore: 8.4}

	row, err := Vector(user, loc, names)
	if err != nil {
		t.Fatalf("vector: %v", err)
	}
	if len(row) != len(names) {
		t.Fatalf("want %d values, got %d", len(names), len(row))
	}
}

func TestVectorFollowsNameOrder(t *testing.T) {
	user := domain.User{Budget: 1500}
	loc := domain.Location{Price: 120}

	row, err := Vector(user, loc, []string{"price", "budget"})
	if err != nil {
		t.Fatalf("vector: %v", err)
	}

	if row[0] != 120 || row[1] != 1500 {
		t.Errorf("columns do not follow the requested order: %v", row)
	}
}

func TestVectorRejectsUnknownFeature(t *testing.T) {
	if _, err := Vector(domain.User{}, domain.Location{}, []string{"budget", "bogus"}); err == nil {
		t.Fatal("expected error for unknown feature name")
	}
}

func TestMatrixOneRowPerLocation(t *testing.T) {
	user := domain.User{Budget: 100}
	locs := []domain.Location{{Price: 1}, {Price: 2}, {Price: 3}}

	X, err := Matrix(user, locs, []string{"budget", "price"})
	if err != nil {
		t.Fatalf("matrix: %v", err)
	}

	if len(X) != 3 {
		t.Fatalf("want 3 rows, got %d", len(X))
	}
	for i, row := range X {
		if row[1] != float64(i+1) {
			t.Errorf("row %d: want price %d, got %v", i, i+1, row[1])
		}
	}
}
