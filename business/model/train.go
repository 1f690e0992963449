package model

import (
	"fmt"
	"math/rand"

	"stayRank/pkg/logger"
)

// ErrDatasetTooSmall reports a curated dataset that cannot support a
// training run: not enough rows for the requested split, or a class missing
// from the training slice.
var ErrDatasetTooSmall = fmt.Errorf("training dataset too small")

// TrainOptions are the hyperparameters of one training run. Zero values fall
// back to the documented defaults.
type TrainOptions struct {
	Epochs           int
	BatchSize        int
	PositiveFraction float64
	KBest            int
	Seed             int64
}

func (o TrainOptions) withDefaults() TrainOptions {
	if o.Epochs <= 0 {
		o.Epochs = 100
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 8
	}
	if o.PositiveFraction <= 0 || o.PositiveFraction >= 1 {
		o.PositiveFraction = 0.5
	}
	if o.KBest <= 0 {
		o.KBest = 20
	}
	if o.Seed == 0 {
		o.Seed = 42
	}
	return o
}

// Train fits the full pipeline — min-max scaler, chi-squared k-best selector,
// feed-forward classifier — on the given feature matrix and writes all four
// artifacts to dir. Mini-batches are class-balanced: each batch draws a fixed
// share of label=1 rows so curated-data imbalance does not starve the
// minority class. Returns the metrics of the last epoch's training
// predictions.
func Train(X [][]float64, y []int, features []string, dir string, opts TrainOptions) (Metrics, error) {
	opts = opts.withDefaults()

	if len(X) == 0 {
		return Metrics{}, fmt.Errorf("%w: no rows", ErrDatasetTooSmall)
	}
	if len(X) != len(y) {
		return Metrics{}, fmt.Errorf("train: %d rows but %d labels", len(X), len(y))
	}
	if len(features) != len(X[0]) {
		return Metrics{}, fmt.Errorf("train: %d feature names but %d columns", len(features), len(X[0]))
	}

	nRecords := len(X)
	xInput := len(X[0])

	scaler, err := FitMinMaxScaler(X)
	if err != nil {
		return Metrics{}, err
	}
	Xs, err := scaler.Transform(X)
	if err != nil {
		return Metrics{}, err
	}
	if err := writeArtifact(dir, FileScaler, scaler); err != nil {
		return Metrics{}, err
	}

	logger.Info("training: scaler fitted", "dir", dir)

	kBest := opts.KBest
	if kBest > xInput {
		kBest = xInput
	}

	selector, err := FitKBest(Xs, y, kBest)
	if err != nil {
		return Metrics{}, err
	}
	Xk, err := selector.Transform(Xs)
	if err != nil {
		return Metrics{}, err
	}
	if err := writeArtifact(dir, FileSelector, selector); err != nil {
		return Metrics{}, err
	}

	logger.Info("training: selector fitted", "dir", dir, "k", kBest)

	xOutput := len(Xk[0])

	// split row indices by class for balanced sampling
	var idx0, idx1 []int
	for i, label := range y {
		if label == 1 {
			idx1 = append(idx1, i)
		} else {
			idx0 = append(idx0, i)
		}
	}

	if len(idx0) == 0 || len(idx1) == 0 {
		return Metrics{}, fmt.Errorf("%w: need both classes, got %d negative and %d positive rows",
			ErrDatasetTooSmall, len(idx0), len(idx1))
	}

	batch1 := int(float64(opts.BatchSize) * opts.PositiveFraction)
	batch0 := opts.BatchSize - batch1
	if batch0 < 1 {
		batch0 = 1
	}
	if batch1 < 1 {
		batch1 = 1
	}

	batchCount := nRecords / opts.BatchSize
	if batchCount < 1 {
		batchCount = 1
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	net := NewNetwork(xOutput, rng)
	opt := newAdam(net)

	var (
		preds  []float64
		trues  []int
		losses []float64
	)

	for epoch := 0; epoch < opts.Epochs; epoch++ {
		preds = preds[:0]
		trues = trues[:0]
		losses = losses[:0]

		for b := 0; b < batchCount; b++ {
			g := newGrads(net)
			scale := 1.0 / float64(batch0+batch1)

			var batchLoss float64

			sample := func(pool []int, count int, label float64) {
				for s := 0; s < count; s++ {
					i := pool[rng.Intn(len(pool))]

					mask := dropoutMask(net.Hidden1, dropoutRate, rng)
					act := net.forward(Xk[i], mask)

					batchLoss += bceLoss(act.a3, label) * scale
					net.backward(act, label, scale, g)

					preds = append(preds, act.a3)
					trues = append(trues, int(label))
				}
			}

			sample(idx0, batch0, 0)
			sample(idx1, batch1, 1)

			opt.step(net, g)
			losses = append(losses, batchLoss)
		}
	}

	var meanLoss float64
	for _, l := range losses {
		meanLoss += l
	}
	if len(losses) > 0 {
		meanLoss /= float64(len(losses))
	}

	trainMetrics, err := Evaluate(trues, preds)
	if err != nil {
		return Metrics{}, err
	}

	logger.Info("training: completed",
		"dir", dir,
		"loss", meanLoss,
		"acc", trainMetrics.Accuracy,
		"auc", trainMetrics.AUC,
	)

	if err := writeArtifact(dir, FileNetwork, net); err != nil {
		return Metrics{}, err
	}

	meta := Metadata{
		Features: features,
		XInput:   xInput,
		XOutput:  xOutput,
		NRecords: nRecords,
		Seed:     opts.Seed,
	}
	if err := writeArtifact(dir, FileMetadata, meta); err != nil {
		return Metrics{}, err
	}

	return trainMetrics, nil
}
