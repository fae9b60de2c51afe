// Package model builds classifier networks from a closed set of
// architectures.
package model

import (
	"errors"
	"fmt"

	"mnist_lab/nn"
	"mnist_lab/nn/layers"
	"mnist_lab/utils"

	"golang.org/x/exp/rand"
)

var (
	// ErrUnknownArch is returned for names outside the architecture set.
	ErrUnknownArch = errors.New("architecture name was not recognized")
	// ErrNotImplemented is returned for architectures that are declared
	// but not built yet.
	ErrNotImplemented = errors.New("architecture is not implemented")
)

// Arch enumerates the supported architectures. Adding one extends the
// switch in Build, which the compiler checks, instead of a string chain.
type Arch int

const (
	// LeNet is the 300-100 multilayer perceptron: a lazily-sized input
	// layer into 300 and 100 sigmoid hidden units, then raw class logits.
	LeNet Arch = iota
	// LeNetWide is declared but not built yet.
	LeNetWide
)

// String returns the CLI name of the architecture.
func (a Arch) String() string {
	switch a {
	case LeNet:
		return "lenet"
	case LeNetWide:
		return "lenet-wide"
	default:
		return fmt.Sprintf("arch(%d)", int(a))
	}
}

// ArchByName maps a CLI name back to its Arch value.
func ArchByName(name string) (Arch, error) {
	switch name {
	case "lenet":
		return LeNet, nil
	case "lenet-wide":
		return LeNetWide, nil
	default:
		return 0, fmt.Errorf("%q: %w", name, ErrUnknownArch)
	}
}

// Options holds architecture-independent construction knobs.
type Options struct {
	NumClasses int     // default 10
	InitStd    float64 // 0 picks sqrt(2/(in+out)) per layer
	Seed       uint64
}

// Build constructs an untrained classifier mapping a flattened image to
// NumClasses raw logits. Softmax is deliberately left to the loss function.
func Build(arch Arch, opts Options) (*nn.Sequential, error) {
	if opts.NumClasses == 0 {
		opts.NumClasses = 10
	}
	src := rand.NewSource(opts.Seed)

	switch arch {
	case LeNet:
		return &nn.Sequential{Layers: []nn.Module{
			layers.NewFlatten(),
			layers.NewLinear(0, 300, opts.InitStd, src), // input width inferred
			layers.NewSigmoid(),
			layers.NewLinear(300, 100, opts.InitStd, src),
			layers.NewSigmoid(),
			layers.NewLinear(100, opts.NumClasses, opts.InitStd, src),
		}}, nil
	case LeNetWide:
		return nil, fmt.Errorf("%s: %w", arch, ErrNotImplemented)
	default:
		return nil, fmt.Errorf("%s: %w", arch, ErrUnknownArch)
	}
}

// Snapshot captures every linear layer's parameters for serialization.
func Snapshot(net *nn.Sequential) *utils.ModelWeights {
	weights := &utils.ModelWeights{
		Version: "1.0",
		Layers:  make(map[string]utils.LayerWeight),
	}
	for i, layer := range net.Layers {
		if lin, ok := layer.(*layers.Linear); ok {
			if lin.W == nil {
				continue // lazy layer that never saw data
			}
			weights.Layers[fmt.Sprintf("linear_%d", i)] = utils.LayerWeight{
				Weight: utils.TensorToWeightData("weight", lin.W),
				Bias:   utils.TensorToWeightData("bias", lin.B),
			}
		}
	}
	return weights
}

// Restore loads a snapshot back into the network's linear layers.
func Restore(net *nn.Sequential, weights *utils.ModelWeights) error {
	for i, layer := range net.Layers {
		lin, ok := layer.(*layers.Linear)
		if !ok {
			continue
		}
		key := fmt.Sprintf("linear_%d", i)
		lw, ok := weights.Layers[key]
		if !ok {
			return fmt.Errorf("snapshot has no weights for layer %s", key)
		}
		if lw.Weight == nil || lw.Bias == nil {
			return fmt.Errorf("snapshot entry %s is missing weight or bias", key)
		}
		w := utils.WeightDataToTensor(lw.Weight)
		b := utils.WeightDataToTensor(lw.Bias)
		if err := lin.LoadWeights(w, b); err != nil {
			return fmt.Errorf("restoring layer %s: %w", key, err)
		}
	}
	return nil
}
