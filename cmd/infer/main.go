// mnist-infer: restores a checkpoint and reports its test-set performance.
//
// Usage:
//
//	mnist-infer --checkpoint=checkpoints/model-lenet-final.pth --dataset=mnist
package main

import (
	"flag"
	"fmt"
	"os"

	"mnist_lab/dataset"
	"mnist_lab/model"
	"mnist_lab/nn"
	"mnist_lab/trainer"
	"mnist_lab/utils"
)

var (
	checkpoint  = flag.String("checkpoint", "", "Checkpoint file to restore (required)")
	datasetName = flag.String("dataset", "mnist", "Dataset: mnist, fashionmnist")
	archName    = flag.String("arch", "lenet", "Architecture: lenet, lenet-wide")
	batchSize   = flag.Int("batch", 60, "Batch size")
	usedData    = flag.Float64("used-data", 1.0, "Fraction of the test partition to use")
	seed        = flag.Int64("seed", 42, "Random seed (must match the training run's split)")
	dataRoot    = flag.String("data-root", "data", "Dataset cache directory")
)

func main() {
	flag.Parse()
	if *checkpoint == "" {
		fmt.Fprintln(os.Stderr, "--checkpoint is required")
		os.Exit(1)
	}

	arch, err := model.ArchByName(*archName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	net, err := model.Build(arch, model.Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "building model: %v\n", err)
		os.Exit(1)
	}

	weights, err := utils.LoadWeights(*checkpoint)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if err := model.Restore(net, weights); err != nil {
		fmt.Fprintf(os.Stderr, "restoring weights: %v\n", err)
		os.Exit(1)
	}

	loaders, err := dataset.Load(dataset.Name(*datasetName), dataset.Options{
		Root:      *dataRoot,
		BatchSize: *batchSize,
		UsedData:  *usedData,
		Seed:      *seed,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading dataset: %v\n", err)
		os.Exit(1)
	}

	net.SetTraining(false)
	loss, acc, err := trainer.Evaluate(net, loaders.Test, &nn.CrossEntropyLoss{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "evaluating: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(utils.Output, "test loss %.3f, test accuracy %.3f\n", loss, acc)
}
