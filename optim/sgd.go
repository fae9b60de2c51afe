package optim

import (
	"mnist_lab/nn"
)

// SGD applies plain stochastic gradient descent, w -= lr·dL/dw.
//
// Parameters are re-read from the model on every call so layers that
// materialize lazily are picked up as soon as they exist.
type SGD struct {
	model nn.Parametric
	lr    float64
}

// NewSGD builds an optimizer over the model's parameters with the given
// learning rate.
func NewSGD(model nn.Parametric, lr float64) *SGD {
	return &SGD{model: model, lr: lr}
}

// ZeroGrad clears every accumulated gradient.
func (s *SGD) ZeroGrad() {
	for _, p := range s.model.Params() {
		for i := range p.Grad.Data {
			p.Grad.Data[i] = 0
		}
	}
}

// Step applies one descent update using the accumulated gradients.
func (s *SGD) Step() {
	for _, p := range s.model.Params() {
		for i := range p.Value.Data {
			p.Value.Data[i] -= s.lr * p.Grad.Data[i]
		}
	}
}

// LearningRate reports the configured step size.
func (s *SGD) LearningRate() float64 { return s.lr }
