package model

import (
	"math"
	"testing"
)

func TestMinMaxScalerTransform(t *testing.T) {
	X := [][]float64{
		{0, 10, 5},
		{5, 20, 5},
		{10, 30, 5},
	}

	scaler, err := FitMinMaxScaler(X)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}

	Xs, err := scaler.Transform(X)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}

	if Xs[0][0] != 0 || Xs[2][0] != 1 {
		t.Errorf("column 0 not scaled to [0,1]: got %v and %v", Xs[0][0], Xs[2][0])
	}
	if math.Abs(Xs[1][1]-0.5) > 1e-12 {
		t.Errorf("midpoint should scale to 0.5, got %v", Xs[1][1])
	}

	// constant columns map to 0 instead of dividing by zero
	for i := range Xs {
		if Xs[i][2] != 0 {
			t.Errorf("constant column row %d: want 0, got %v", i, Xs[i][2])
		}
	}
}

func TestMinMaxScalerWidthMismatch(t *testing.T) {
	scaler, err := FitMinMaxScaler([][]float64{{1, 2}, {3, 4}})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}

	if _, err := scaler.Transform([][]float64{{1, 2, 3}}); err == nil {
		t.Fatal("expected error for mismatched width")
	}
}

func TestFitKBestKeepsHighestScores(t *testing.T) {
	// column 0 tracks the label perfectly, column 1 is constant, column 2 is
	// anti-correlated but still informative
	X := [][]float64{
		{1, 1, 0},
		{1, 1, 0},
		{0, 1, 1},
		{0, 1, 1},
		{1, 1, 0},
		{0, 1, 1},
	}
	y := []int{1, 1, 0, 0, 1, 0}

	selector, err := FitKBest(X, y, 2)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}

	if len(selector.Selected) != 2 {
		t.Fatalf("want 2 selected columns, got %d", len(selector.Selected))
	}

	for _, col := range selector.Selected {
		if col == 1 {
			t.Errorf("constant column selected over informative ones: %v", selector.Selected)
		}
	}

	// selected indices come out ascending so transformed column order is stable
	for i := 1; i < len(selector.Selected); i++ {
		if selector.Selected[i] <= selector.Selected[i-1] {
			t.Errorf("selected indices not ascending: %v", selector.Selected)
		}
	}

	Xk, err := selector.Transform(X)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if len(Xk[0]) != 2 {
		t.Errorf("want 2 columns after transform, got %d", len(Xk[0]))
	}
}

func TestFitKBestRejectsOutOfRangeK(t *testing.T) {
	X := [][]float64{{1, 0}, {0, 1}}
	y := []int{1, 0}

	if _, err := FitKBest(X, y, 10); err == nil {
		t.Fatal("expected error for k larger than column count")
	}
	if _, err := FitKBest(X, y, 0); err == nil {
		t.Fatal("expected error for k=0")
	}
}
