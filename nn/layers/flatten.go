package layers

import (
	"mnist_lab/tensor"
)

// Flatten reshapes any tensor to 1-D; the backward pass is the identity.
type Flatten struct{}

func NewFlatten() *Flatten { return &Flatten{} }

func (f *Flatten) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	y := tensor.New(len(x.Data))
	copy(y.Data, x.Data)
	return y, nil
}

func (f *Flatten) Backward(g *tensor.Tensor) (*tensor.Tensor, error) { return g, nil }

func (f *Flatten) SetTraining(bool) {}
