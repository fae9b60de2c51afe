// Package trainer runs the epoch/phase training state machine with periodic
// checkpointing and curve recording.
package trainer

import (
	"fmt"
	"os"
	"time"

	"mnist_lab/dataset"
	"mnist_lab/metrics"
	"mnist_lab/model"
	"mnist_lab/nn"
	"mnist_lab/optim"
	"mnist_lab/utils"

	"github.com/schollz/progressbar/v3"
)

// Optimizer is what the loop needs from an optimization algorithm.
type Optimizer interface {
	ZeroGrad()
	Step()
}

// Config holds a training run's knobs. It is immutable once Run starts.
type Config struct {
	// ModelName keys the checkpoint files, model-<name>-<epoch>.pth.
	ModelName     string
	CheckpointDir string
	// CurvesPath, when set, receives one CSV row of curve values per epoch.
	CurvesPath   string
	LearningRate float64
	Epochs       int
	// EvalEvery is the cadence (in epochs) of the validation phase and of
	// checkpoint writes.
	EvalEvery    int
	ShowProgress bool

	// Loss defaults to cross-entropy; NewOptimizer defaults to SGD.
	Loss         nn.Loss
	NewOptimizer func(m nn.Parametric, lr float64) Optimizer

	// Stats, when set, collects phase timings for reporting.
	Stats *utils.TimingStats
}

func (c *Config) setDefaults() {
	if c.ModelName == "" {
		c.ModelName = "net"
	}
	if c.CheckpointDir == "" {
		c.CheckpointDir = "checkpoints"
	}
	if c.LearningRate == 0 {
		c.LearningRate = 0.0012
	}
	if c.Epochs == 0 {
		c.Epochs = 50000
	}
	if c.EvalEvery == 0 {
		c.EvalEvery = 100
	}
	if c.Loss == nil {
		c.Loss = &nn.CrossEntropyLoss{}
	}
	if c.NewOptimizer == nil {
		c.NewOptimizer = func(m nn.Parametric, lr float64) Optimizer {
			return optim.NewSGD(m, lr)
		}
	}
	if c.Stats == nil {
		c.Stats = &utils.TimingStats{}
	}
}

// Run trains net on loaders.Train, validating on loaders.Val every
// cfg.EvalEvery epochs and reporting on loaders.Test once at the end.
//
// After every single batch the loss and accuracy of the entire current
// partition are re-evaluated and folded into the epoch's accumulator,
// weighted by that batch's size, so the recorded curves track every
// parameter update. This full pass per batch dominates the cost of a run.
//
// Errors are never caught or retried: the first failure aborts the run,
// leaving whatever checkpoints were already written.
func Run(cfg Config, net *nn.Sequential, loaders *dataset.Loaders) error {
	cfg.setDefaults()
	if cfg.Epochs < 0 {
		return fmt.Errorf("epoch count must be positive, got %d", cfg.Epochs)
	}
	if cfg.EvalEvery < 0 {
		return fmt.Errorf("evaluation cadence must be positive, got %d", cfg.EvalEvery)
	}

	opt := cfg.NewOptimizer(net, cfg.LearningRate)
	stats := cfg.Stats
	if err := os.MkdirAll(cfg.CheckpointDir, 0755); err != nil {
		return fmt.Errorf("creating checkpoint dir: %w", err)
	}
	var rec *metrics.Recorder
	if cfg.CurvesPath != "" {
		rec = metrics.NewRecorder(cfg.CurvesPath,
			"train loss", "train accuracy", "validation loss", "validation accuracy")
	}

	start := time.Now()
	var finalTrain metrics.Accumulator

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		accs := map[string]*metrics.Accumulator{"train": {}, "val": {}}

		for _, phase := range []string{"train", "val"} {
			if phase == "val" && epoch%cfg.EvalEvery != 0 {
				continue
			}
			training := phase == "train"
			net.SetTraining(training)

			loader := loaders.Train
			if !training {
				loader = loaders.Val
			}
			batches := loader.Batches()

			var bar *progressbar.ProgressBar
			if cfg.ShowProgress {
				bar = progressbar.Default(int64(len(batches)),
					fmt.Sprintf("epoch %d %s", epoch, phase))
			}

			for _, batch := range batches {
				if training {
					stepStart := time.Now()
					opt.ZeroGrad()
					scale := 1.0 / float64(batch.Size())
					for i, x := range batch.Inputs {
						logits, err := net.Forward(x)
						if err != nil {
							return err
						}
						grad, err := cfg.Loss.Backward(logits, batch.Labels[i])
						if err != nil {
							return err
						}
						if _, err := net.Backward(grad.Scale(scale)); err != nil {
							return err
						}
					}
					opt.Step()
					stats.TrainStepTime += time.Since(stepStart)
				}

				evalStart := time.Now()
				loss, acc, err := Evaluate(net, loader, cfg.Loss)
				if err != nil {
					return err
				}
				stats.EvaluationTime += time.Since(evalStart)

				n := float64(batch.Size())
				accs[phase].Add(loss*n, acc*n, n)

				if bar != nil {
					bar.Add(1)
				}
			}
		}

		if epoch%cfg.EvalEvery == 0 {
			ckStart := time.Now()
			path := utils.CheckpointPath(cfg.CheckpointDir, cfg.ModelName, epoch)
			if err := utils.SaveWeights(path, model.Snapshot(net)); err != nil {
				return fmt.Errorf("writing checkpoint %s: %w", path, err)
			}
			stats.CheckpointTime += time.Since(ckStart)
			if rec != nil {
				err := rec.Record(epoch+1,
					accs["train"].MeanLoss(), accs["train"].MeanAccuracy(),
					accs["val"].MeanLoss(), accs["val"].MeanAccuracy())
				if err != nil {
					return err
				}
			}
		} else if rec != nil {
			err := rec.Record(epoch+1,
				accs["train"].MeanLoss(), accs["train"].MeanAccuracy())
			if err != nil {
				return err
			}
		}

		finalTrain = *accs["train"]
	}

	net.SetTraining(false)
	testLoss, testAcc, err := Evaluate(net, loaders.Test, cfg.Loss)
	if err != nil {
		return err
	}
	valLoss, valAcc, err := Evaluate(net, loaders.Val, cfg.Loss)
	if err != nil {
		return err
	}

	ckStart := time.Now()
	finalPath := utils.FinalCheckpointPath(cfg.CheckpointDir, cfg.ModelName)
	if err := utils.SaveWeights(finalPath, model.Snapshot(net)); err != nil {
		return fmt.Errorf("writing checkpoint %s: %w", finalPath, err)
	}
	stats.CheckpointTime += time.Since(ckStart)
	stats.TotalTime = time.Since(start)

	fmt.Fprintf(utils.Output,
		"train loss %.3f, train accuracy %.3f, val loss %.3f, val accuracy %.3f, test loss %.3f, test accuracy %.3f\n",
		finalTrain.MeanLoss(), finalTrain.MeanAccuracy(),
		valLoss, valAcc, testLoss, testAcc)

	return nil
}

// Evaluate computes the mean loss and accuracy of net over one full pass of
// the loader.
func Evaluate(net nn.Network, loader *dataset.Loader, lossFn nn.Loss) (float64, float64, error) {
	var m metrics.Accumulator
	for _, batch := range loader.Batches() {
		for i, x := range batch.Inputs {
			logits, err := net.Forward(x)
			if err != nil {
				return 0, 0, err
			}
			loss, err := lossFn.Forward(logits, batch.Labels[i])
			if err != nil {
				return 0, 0, err
			}
			correct := 0.0
			if logits.Argmax() == batch.Labels[i] {
				correct = 1
			}
			m.Add(loss, correct, 1)
		}
	}
	return m.MeanLoss(), m.MeanAccuracy(), nil
}
