package layers

import (
	"fmt"
	"math"

	"mnist_lab/nn"
	"mnist_lab/tensor"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Linear is a fully-connected layer computing y = W·x + B.
//
// A layer constructed with inDim == 0 infers its input width from the first
// tensor it sees; until then it owns no parameters.
type Linear struct {
	W, B         *tensor.Tensor
	GradW, GradB *tensor.Tensor

	inDim, outDim int
	initStd       float64
	src           rand.Source

	lastInput *tensor.Tensor
	training  bool
}

// NewLinear sets up an inDim→outDim layer. Weights are drawn from a Gaussian
// with std initStd (or sqrt(2/(in+out)) when initStd <= 0); biases start at
// zero. Pass inDim 0 to defer width inference to the first forward pass.
func NewLinear(inDim, outDim int, initStd float64, src rand.Source) *Linear {
	l := &Linear{inDim: inDim, outDim: outDim, initStd: initStd, src: src}
	if inDim > 0 {
		l.materialize(inDim)
	}
	return l
}

// materialize allocates and initializes W, B once the input width is known.
func (l *Linear) materialize(inDim int) {
	l.inDim = inDim
	std := l.initStd
	if std <= 0 {
		std = math.Sqrt(2.0 / float64(inDim+l.outDim))
	}
	normal := distuv.Normal{Mu: 0, Sigma: std, Src: l.src}
	l.W = tensor.New(l.outDim, inDim)
	for i := range l.W.Data {
		l.W.Data[i] = normal.Rand()
	}
	l.B = tensor.New(l.outDim)
	l.GradW = tensor.New(l.outDim, inDim)
	l.GradB = tensor.New(l.outDim)
}

// Forward computes y = W·x + B for a 1-D input tensor.
func (l *Linear) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	if l.W == nil {
		if len(x.Data) == 0 {
			return nil, fmt.Errorf("cannot infer input width from empty tensor")
		}
		l.materialize(len(x.Data))
	}
	if len(x.Data) != l.inDim {
		return nil, fmt.Errorf("input has %d elements, layer expects %d", len(x.Data), l.inDim)
	}

	w := mat.NewDense(l.outDim, l.inDim, l.W.Data)
	xv := mat.NewVecDense(l.inDim, x.Data)
	var y mat.VecDense
	y.MulVec(w, xv)

	out := tensor.New(l.outDim)
	for j := 0; j < l.outDim; j++ {
		out.Data[j] = y.AtVec(j) + l.B.Data[j]
	}

	if l.training {
		l.lastInput = x
	}
	return out, nil
}

// Backward accumulates dL/dW and dL/dB from gradOut and returns dL/dx.
// Gradients add up across calls; the optimizer clears them between batches.
func (l *Linear) Backward(gradOut *tensor.Tensor) (*tensor.Tensor, error) {
	if l.W == nil {
		return nil, fmt.Errorf("backward before first forward")
	}
	if len(gradOut.Data) != l.outDim {
		return nil, fmt.Errorf("gradient has %d elements, layer produces %d", len(gradOut.Data), l.outDim)
	}
	input := l.lastInput
	if input == nil {
		return nil, fmt.Errorf("no cached input for backward pass")
	}

	for j := 0; j < l.outDim; j++ {
		g := gradOut.Data[j]
		l.GradB.Data[j] += g
		for i := 0; i < l.inDim; i++ {
			l.GradW.Data[j*l.inDim+i] += g * input.Data[i]
		}
	}

	// dL/dx = W^T · gradOut
	w := mat.NewDense(l.outDim, l.inDim, l.W.Data)
	gv := mat.NewVecDense(l.outDim, gradOut.Data)
	var gi mat.VecDense
	gi.MulVec(w.T(), gv)

	gradIn := tensor.New(l.inDim)
	for i := 0; i < l.inDim; i++ {
		gradIn.Data[i] = gi.AtVec(i)
	}
	return gradIn, nil
}

// SetTraining toggles input caching for the backward pass.
func (l *Linear) SetTraining(training bool) {
	l.training = training
	if !training {
		l.lastInput = nil
	}
}

// Params exposes the layer's learnable tensors. Empty until a lazy layer
// has seen its first input.
func (l *Linear) Params() []*nn.Param {
	if l.W == nil {
		return nil
	}
	return []*nn.Param{
		{Name: "weight", Value: l.W, Grad: l.GradW},
		{Name: "bias", Value: l.B, Grad: l.GradB},
	}
}

// InDim reports the inferred or configured input width (0 while lazy).
func (l *Linear) InDim() int { return l.inDim }

// OutDim reports the output width.
func (l *Linear) OutDim() int { return l.outDim }

// LoadWeights replaces the layer's parameters with the given tensors,
// materializing a lazy layer in the process.
func (l *Linear) LoadWeights(w, b *tensor.Tensor) error {
	if len(w.Shape) != 2 || w.Shape[0] != l.outDim {
		return fmt.Errorf("weight shape %v does not fit a layer with %d outputs", w.Shape, l.outDim)
	}
	if l.W != nil && w.Shape[1] != l.inDim {
		return fmt.Errorf("weight shape %v does not fit a layer with %d inputs", w.Shape, l.inDim)
	}
	if len(b.Data) != l.outDim {
		return fmt.Errorf("bias has %d elements, layer produces %d", len(b.Data), l.outDim)
	}
	l.inDim = w.Shape[1]
	l.W = w.Clone()
	l.B = b.Clone()
	l.GradW = tensor.New(l.outDim, l.inDim)
	l.GradB = tensor.New(l.outDim)
	return nil
}
