package model

import (
	"fmt"
	"sort"
)

// Classification threshold used to binarize scores before computing the
// confusion-matrix metrics.
const predThreshold = 0.5

// Metrics is the evaluation summary tracked for every model, on both the
// training predictions and the held-out split.
type Metrics struct {
	Accuracy  float64 `json:"acc"`
	AUC       float64 `json:"auc"`
	Precision float64 `json:"pre"`
	Recall    float64 `json:"rec"`
	F1        float64 `json:"f1"`
}

// Evaluate computes accuracy, precision, recall, F1 and ROC-AUC for raw model
// scores against binary labels. An empty input is an error: callers must not
// read metrics off a split that does not exist.
func Evaluate(labels []int, scores []float64) (Metrics, error) {
	if len(labels) == 0 {
		return Metrics{}, fmt.Errorf("evaluate: empty input")
	}
	if len(labels) != len(scores) {
		return Metrics{}, fmt.Errorf("evaluate: %d labels but %d scores", len(labels), len(scores))
	}

	auc := rocAUC(labels, scores)

	var tp, tn, fp, fn int
	for i, label := range labels {
		pred := 0
		if scores[i] > predThreshold {
			pred = 1
		}

		switch {
		case pred == 1 && label == 1:
			tp++
		case pred == 1 && label == 0:
			fp++
		case pred == 0 && label == 1:
			fn++
		default:
			tn++
		}
	}

	m := Metrics{
		Accuracy: float64(tp+tn) / float64(len(labels)),
		AUC:      auc,
	}

	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}

	return m, nil
}

// rocAUC is the rank-based (Mann-Whitney) ROC-AUC with average ranks for
// ties. With a single class present the statistic is undefined; 0.5 is
// returned so an otherwise valid evaluation does not fail.
func rocAUC(labels []int, scores []float64) float64 {
	n := len(labels)

	var nPos int
	for _, label := range labels {
		if label == 1 {
			nPos++
		}
	}
	nNeg := n - nPos

	if nPos == 0 || nNeg == 0 {
		return 0.5
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] < scores[order[b]]
	})

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j < n && scores[order[j]] == scores[order[i]] {
			j++
		}
		// average rank over the tie group, 1-based
		avg := float64(i+j+1) / 2.0
		for k := i; k < j; k++ {
			ranks[order[k]] = avg
		}
		i = j
	}

	var rankSum float64
	for i, label := range labels {
		if label == 1 {
			rankSum += ranks[i]
		}
	}

	u := rankSum - float64(nPos)*float64(nPos+1)/2.0
	return u / (float64(nPos) * float64(nNeg))
}
