package model

import (
	"math"
	"testing"
)

func TestEvaluatePerfectSeparation(t *testing.T) {
	labels := []int{0, 0, 1, 1}
	scores := []float64{0.1, 0.2, 0.8, 0.9}

	m, err := Evaluate(labels, scores)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	if m.AUC != 1.0 {
		t.Errorf("perfect ranking: want AUC 1.0, got %v", m.AUC)
	}
	if m.Accuracy != 1.0 {
		t.Errorf("want accuracy 1.0, got %v", m.Accuracy)
	}
	if m.Precision != 1.0 || m.Recall != 1.0 || m.F1 != 1.0 {
		t.Errorf("want precision/recall/f1 all 1.0, got %v/%v/%v", m.Precision, m.Recall, m.F1)
	}
}

func TestEvaluateInvertedRanking(t *testing.T) {
	labels := []int{1, 1, 0, 0}
	scores := []float64{0.1, 0.2, 0.8, 0.9}

	m, err := Evaluate(labels, scores)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	if m.AUC != 0.0 {
		t.Errorf("inverted ranking: want AUC 0.0, got %v", m.AUC)
	}
}

func TestEvaluateSingleClass(t *testing.T) {
	m, err := Evaluate([]int{0, 0, 0}, []float64{0.1, 0.2, 0.3})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	// AUC is undefined with one class present; we report chance level
	if m.AUC != 0.5 {
		t.Errorf("single class: want AUC 0.5, got %v", m.AUC)
	}
}

func TestEvaluateTiedScores(t *testing.T) {
	// every score identical: average-rank handling must land on 0.5
	m, err := Evaluate([]int{0, 1, 0, 1}, []float64{0.5, 0.5, 0.5, 0.5})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	if math.Abs(m.AUC-0.5) > 1e-12 {
		t.Errorf("all-tied scores: want AUC 0.5, got %v", m.AUC)
	}
}

func TestEvaluatePrecisionRecall(t *testing.T) {
	// 2 predicted positive, 1 true positive; 2 actual positives
	labels := []int{1, 0, 1, 0}
	scores := []float64{0.9, 0.8, 0.1, 0.2}

	m, err := Evaluate(labels, scores)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	if math.Abs(m.Precision-0.5) > 1e-12 {
		t.Errorf("want precision 0.5, got %v", m.Precision)
	}
	if math.Abs(m.Recall-0.5) > 1e-12 {
		t.Errorf("want recall 0.5, got %v", m.Recall)
	}
}

func TestEvaluateInputErrors(t *testing.T) {
	if _, err := Evaluate(nil, nil); err == nil {
		t.Error("expected error for empty input")
	}
	if _, err := Evaluate([]int{1}, []float64{0.5, 0.6}); err == nil {
		t.Error("expected error for length mismatch")
	}
}
