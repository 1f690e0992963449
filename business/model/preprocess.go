package model

import (
	"fmt"
	"sort"
)

// MinMaxScaler rescales every feature column into [0, 1] using the min and
// max observed at fit time.
type MinMaxScaler struct {
	Min []float64 `json:"min"`
	Max []float64 `json:"max"`
}

func FitMinMaxScaler(X [][]float64) (*MinMaxScaler, error) {
	if len(X) == 0 || len(X[0]) == 0 {
		return nil, fmt.Errorf("min-max scaler: empty matrix")
	}

	cols := len(X[0])
	s := &MinMaxScaler{
		Min: make([]float64, cols),
		Max: make([]float64, cols),
	}

	copy(s.Min, X[0])
	copy(s.Max, X[0])

	for _, row := range X {
		if len(row) != cols {
			return nil, fmt.Errorf("min-max scaler: ragged matrix")
		}
		for j, v := range row {
			if v < s.Min[j] {
				s.Min[j] = v
			}
			if v > s.Max[j] {
				s.Max[j] = v
			}
		}
	}

	return s, nil
}

func (s *MinMaxScaler) Transform(X [][]float64) ([][]float64, error) {
	cols := len(s.Min)

	out := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != cols {
			return nil, fmt.Errorf("min-max scaler: expected %d columns, got %d", cols, len(row))
		}

		scaled := make([]float64, cols)
		for j, v := range row {
			span := s.Max[j] - s.Min[j]
			if span == 0 {
				// constant column at fit time
				scaled[j] = 0
				continue
			}
			scaled[j] = (v - s.Min[j]) / span
		}
		out[i] = scaled
	}

	return out, nil
}

// KBestSelector keeps the k feature columns with the highest chi-squared
// score against the binary label. Selected holds the kept column indices in
// ascending order so transforms preserve the original column ordering.
type KBestSelector struct {
	K        int       `json:"k"`
	Scores   []float64 `json:"scores"`
	Selected []int     `json:"selected"`
}

// FitKBest computes per-column chi-squared statistics. Features must be
// non-negative (they are, after min-max scaling).
func FitKBest(X [][]float64, y []int, k int) (*KBestSelector, error) {
	if len(X) == 0 {
		return nil, fmt.Errorf("k-best: empty matrix")
	}
	if len(X) != len(y) {
		return nil, fmt.Errorf("k-best: %d rows but %d labels", len(X), len(y))
	}

	cols := len(X[0])
	if k <= 0 || k > cols {
		return nil, fmt.Errorf("k-best: k=%d out of range for %d columns", k, cols)
	}

	scores, err := chiSquared(X, y)
	if err != nil {
		return nil, err
	}

	order := make([]int, cols)
	for j := range order {
		order[j] = j
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	selected := make([]int, k)
	copy(selected, order[:k])
	sort.Ints(selected)

	return &KBestSelector{K: k, Scores: scores, Selected: selected}, nil
}

func (s *KBestSelector) Transform(X [][]float64) ([][]float64, error) {
	out := make([][]float64, len(X))
	for i, row := range X {
		picked := make([]float64, len(s.Selected))
		for j, col := range s.Selected {
			if col >= len(row) {
				return nil, fmt.Errorf("k-best: column %d out of range for row of width %d", col, len(row))
			}
			picked[j] = row[col]
		}
		out[i] = picked
	}

	return out, nil
}

// chiSquared scores each column against a binary label: the observed
// per-class column sums are compared with the sums expected from the class
// frequencies alone.
func chiSquared(X [][]float64, y []int) ([]float64, error) {
	n := len(X)
	cols := len(X[0])

	var n1 int
	for _, label := range y {
		if label != 0 && label != 1 {
			return nil, fmt.Errorf("chi-squared: label %d is not binary", label)
		}
		if label == 1 {
			n1++
		}
	}
	n0 := n - n1

	obs0 := make([]float64, cols)
	obs1 := make([]float64, cols)
	for i, row := range X {
		if len(row) != cols {
			return nil, fmt.Errorf("chi-squared: ragged matrix")
		}
		for j, v := range row {
			if v < 0 {
				return nil, fmt.Errorf("chi-squared: negative value in column %d", j)
			}
			if y[i] == 1 {
				obs1[j] += v
			} else {
				obs0[j] += v
			}
		}
	}

	p0 := float64(n0) / float64(n)
	p1 := float64(n1) / float64(n)

	scores := make([]float64, cols)
	for j := 0; j < cols; j++ {
		total := obs0[j] + obs1[j]

		exp0 := p0 * total
		exp1 := p1 * total

		var score float64
		if exp0 > 0 {
			d := obs0[j] - exp0
			score += d * d / exp0
		}
		if exp1 > 0 {
			d := obs1[j] - exp1
			score += d * d / exp1
		}
		scores[j] = score
	}

	return scores, nil
}
