package utils

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Verbose controls whether timing statistics are printed.
// Set to false to suppress output.
var Verbose = true

// Output is the writer where timing statistics are printed.
// Defaults to os.Stdout.
var Output io.Writer = os.Stdout

// TimingStats holds timing information for different operations
type TimingStats struct {
	TotalTime       time.Duration
	DataLoadingTime time.Duration
	ModelInitTime   time.Duration
	TrainStepTime   time.Duration
	EvaluationTime  time.Duration
	CheckpointTime  time.Duration
}

// PrintTimingStats prints detailed timing statistics.
// Respects the Verbose flag - does nothing if Verbose is false.
func PrintTimingStats(stats *TimingStats, epochs int) {
	if !Verbose {
		return
	}
	if epochs < 1 {
		epochs = 1
	}
	fmt.Fprintln(Output, "\n=== TIMING STATISTICS ===")
	fmt.Fprintf(Output, "Total training time: %v\n", stats.TotalTime)
	fmt.Fprintf(Output, "Average time per epoch: %v\n", stats.TotalTime/time.Duration(epochs))
	fmt.Fprintf(Output, "Epochs completed: %d\n", epochs)
	fmt.Fprintln(Output, "\nBreakdown by operation:")
	fmt.Fprintf(Output, "  Data loading: %v (%.1f%%)\n", stats.DataLoadingTime, percentOf(stats.DataLoadingTime, stats.TotalTime))
	fmt.Fprintf(Output, "  Model initialization: %v (%.1f%%)\n", stats.ModelInitTime, percentOf(stats.ModelInitTime, stats.TotalTime))
	fmt.Fprintf(Output, "  Gradient steps: %v (%.1f%%)\n", stats.TrainStepTime, percentOf(stats.TrainStepTime, stats.TotalTime))
	fmt.Fprintf(Output, "  Evaluation passes: %v (%.1f%%)\n", stats.EvaluationTime, percentOf(stats.EvaluationTime, stats.TotalTime))
	fmt.Fprintf(Output, "  Checkpoint writes: %v (%.1f%%)\n", stats.CheckpointTime, percentOf(stats.CheckpointTime, stats.TotalTime))
}

func percentOf(part, total time.Duration) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// DurationUS converts any time.Duration to micro-seconds as float64
func DurationUS(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1_000.0
}
