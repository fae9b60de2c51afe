// mnist-train: trains a feed-forward classifier on MNIST or FashionMNIST.
//
// Usage:
//
//	mnist-train --dataset=mnist --arch=lenet --epochs=50 --lr=0.0012
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"mnist_lab/dataset"
	"mnist_lab/model"
	"mnist_lab/trainer"
	"mnist_lab/utils"
)

var (
	datasetName   = flag.String("dataset", "mnist", "Dataset: mnist, fashionmnist")
	archName      = flag.String("arch", "lenet", "Architecture: lenet, lenet-wide")
	epochs        = flag.Int("epochs", 50000, "Number of training epochs")
	learningRate  = flag.Float64("lr", 0.0012, "Learning rate")
	batchSize     = flag.Int("batch", 60, "Batch size")
	usedData      = flag.Float64("used-data", 1.0, "Fraction of each partition to use, in (0, 1]")
	evalEvery     = flag.Int("eval-every", 100, "Validate and checkpoint every n epochs")
	seed          = flag.Int64("seed", 42, "Random seed")
	dataRoot      = flag.String("data-root", "data", "Dataset cache directory")
	checkpointDir = flag.String("checkpoints", "checkpoints", "Checkpoint directory")
	curvesPath    = flag.String("curves", "", "CSV file receiving the training curves (optional)")
	verbose       = flag.Bool("verbose", true, "Verbose output")
	progress      = flag.Bool("progress", false, "Show a per-phase progress bar")
)

func main() {
	flag.Parse()
	utils.Verbose = *verbose

	cfg := utils.RunConfig{
		Dataset:       *datasetName,
		Arch:          *archName,
		DataRoot:      *dataRoot,
		CheckpointDir: *checkpointDir,
		BatchSize:     *batchSize,
		Epochs:        *epochs,
		EvalEvery:     *evalEvery,
		LearningRate:  *learningRate,
		UsedData:      *usedData,
		Seed:          *seed,
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	arch, err := model.ArchByName(cfg.Arch)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	stats := &utils.TimingStats{}

	if utils.Verbose {
		fmt.Fprintf(utils.Output, "Loading %s (%.0f%% of each partition)...\n",
			cfg.Dataset, cfg.UsedData*100)
	}
	loadStart := time.Now()
	loaders, err := dataset.Load(dataset.Name(cfg.Dataset), dataset.Options{
		Root:      cfg.DataRoot,
		BatchSize: cfg.BatchSize,
		UsedData:  cfg.UsedData,
		Seed:      cfg.Seed,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading dataset: %v\n", err)
		os.Exit(1)
	}
	stats.DataLoadingTime = time.Since(loadStart)
	if utils.Verbose {
		fmt.Fprintf(utils.Output, "Partitions: train=%d val=%d test=%d\n",
			loaders.Train.Len(), loaders.Val.Len(), loaders.Test.Len())
	}

	initStart := time.Now()
	net, err := model.Build(arch, model.Options{Seed: uint64(cfg.Seed)})
	if err != nil {
		fmt.Fprintf(os.Stderr, "building model: %v\n", err)
		os.Exit(1)
	}
	stats.ModelInitTime = time.Since(initStart)

	err = trainer.Run(trainer.Config{
		ModelName:     arch.String(),
		CheckpointDir: cfg.CheckpointDir,
		CurvesPath:    *curvesPath,
		LearningRate:  cfg.LearningRate,
		Epochs:        cfg.Epochs,
		EvalEvery:     cfg.EvalEvery,
		ShowProgress:  *progress,
		Stats:         stats,
	}, net, loaders)
	if err != nil {
		fmt.Fprintf(os.Stderr, "training failed: %v\n", err)
		os.Exit(1)
	}

	utils.PrintTimingStats(stats, cfg.Epochs)
}
