package utils

import (
	"fmt"
)

// RunConfig holds the knobs shared by the training and inference commands.
// It is immutable for the duration of a run.
type RunConfig struct {
	Dataset       string
	Arch          string
	DataRoot      string
	CheckpointDir string
	BatchSize     int
	Epochs        int
	EvalEvery     int
	LearningRate  float64
	UsedData      float64
	Seed          int64
}

// Validate checks the configuration eagerly, before any work starts.
func (c *RunConfig) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}
	if c.Epochs <= 0 {
		return fmt.Errorf("epochs must be positive")
	}
	if c.EvalEvery <= 0 {
		return fmt.Errorf("evaluation cadence must be positive")
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("learning rate must be positive")
	}
	if c.UsedData <= 0 || c.UsedData > 1 {
		return fmt.Errorf("used data fraction must be in (0, 1], got %g", c.UsedData)
	}
	return nil
}
