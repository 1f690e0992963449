package model

import (
	"fmt"

	"stayRank/pkg/logger"
)

// Pipeline is a fully loaded scoring pipeline: the fitted scaler, selector
// and network of one artifact directory, applied in that fixed order. A
// Pipeline is stateless once constructed and safe for concurrent Score calls.
type Pipeline struct {
	Dir  string
	Meta Metadata

	scaler   *MinMaxScaler
	selector *KBestSelector
	net      *Network
}

// LoadPipeline reads all four artifacts from dir. Loading is all-or-nothing:
// any missing or schema-incompatible file fails construction and no partial
// pipeline is ever returned.
func LoadPipeline(dir string) (*Pipeline, error) {
	logger.Info("loading model artifacts", "dir", dir)

	var meta Metadata
	if err := readArtifact(dir, FileMetadata, &meta); err != nil {
		return nil, fmt.Errorf("load pipeline: %w", err)
	}

	var scaler MinMaxScaler
	if err := readArtifact(dir, FileScaler, &scaler); err != nil {
		return nil, fmt.Errorf("load pipeline: %w", err)
	}

	var selector KBestSelector
	if err := readArtifact(dir, FileSelector, &selector); err != nil {
		return nil, fmt.Errorf("load pipeline: %w", err)
	}

	var net Network
	if err := readArtifact(dir, FileNetwork, &net); err != nil {
		return nil, fmt.Errorf("load pipeline: %w", err)
	}
	if err := net.check(); err != nil {
		return nil, fmt.Errorf("load pipeline: %w", err)
	}

	// cross-check artifact consistency
	if len(meta.Features) != meta.XInput {
		return nil, fmt.Errorf("load pipeline: metadata lists %d features but x_input=%d",
			len(meta.Features), meta.XInput)
	}
	if len(scaler.Min) != meta.XInput {
		return nil, fmt.Errorf("load pipeline: scaler width %d does not match x_input=%d",
			len(scaler.Min), meta.XInput)
	}
	if len(selector.Selected) != meta.XOutput {
		return nil, fmt.Errorf("load pipeline: selector keeps %d columns but x_output=%d",
			len(selector.Selected), meta.XOutput)
	}
	if net.InputSize != meta.XOutput {
		return nil, fmt.Errorf("load pipeline: network input %d does not match x_output=%d",
			net.InputSize, meta.XOutput)
	}

	return &Pipeline{
		Dir:      dir,
		Meta:     meta,
		scaler:   &scaler,
		selector: &selector,
		net:      &net,
	}, nil
}

// Score applies scale -> select -> forward to a feature matrix whose columns
// follow Meta.Features, returning one score in [0, 1] per row.
func (p *Pipeline) Score(X [][]float64) ([]float64, error) {
	Xs, err := p.scaler.Transform(X)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	Xk, err := p.selector.Transform(Xs)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	scores, err := p.net.Predict(Xk)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	return scores, nil
}
