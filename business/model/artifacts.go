package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Artifact file names inside a model directory. All four must exist and be
// mutually consistent for a pipeline to load.
const (
	FileMetadata = "metadata.json"
	FileScaler   = "scaler.json"
	FileSelector = "selector.json"
	FileNetwork  = "network.json"
)

// Metadata describes a trained artifact: the ordered feature-name list the
// scoring matrix must follow, the raw and selected feature counts, the number
// of training records, and the random seed the run used.
type Metadata struct {
	Features []string `json:"features"`
	XInput   int      `json:"x_input"`
	XOutput  int      `json:"x_output"`
	NRecords int      `json:"n_records"`
	Seed     int64    `json:"seed"`
}

func writeArtifact(dir, name string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	return nil
}

func readArtifact(dir, name string, v any) error {
	path := filepath.Join(dir, name)

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", name, err)
	}

	return nil
}
