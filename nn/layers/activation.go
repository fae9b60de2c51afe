package layers

import (
	"fmt"
	"math"

	"mnist_lab/tensor"
)

// Sigmoid applies 1/(1+e^-x) element-wise.
type Sigmoid struct {
	lastOutput *tensor.Tensor
	training   bool
}

func NewSigmoid() *Sigmoid { return &Sigmoid{} }

func (s *Sigmoid) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	out := tensor.New(x.Shape...)
	for i, v := range x.Data {
		out.Data[i] = 1.0 / (1.0 + math.Exp(-v))
	}
	if s.training {
		s.lastOutput = out
	}
	return out, nil
}

// Backward uses s'(x) = s(x)(1-s(x)) on the cached forward output.
func (s *Sigmoid) Backward(gradOut *tensor.Tensor) (*tensor.Tensor, error) {
	if s.lastOutput == nil {
		return nil, fmt.Errorf("no cached activation for backward pass")
	}
	grad := tensor.New(gradOut.Shape...)
	for i, g := range gradOut.Data {
		y := s.lastOutput.Data[i]
		grad.Data[i] = g * y * (1 - y)
	}
	return grad, nil
}

func (s *Sigmoid) SetTraining(training bool) {
	s.training = training
	if !training {
		s.lastOutput = nil
	}
}

// Tanh applies tanh element-wise.
type Tanh struct {
	lastOutput *tensor.Tensor
	training   bool
}

func NewTanh() *Tanh { return &Tanh{} }

func (t *Tanh) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	out := tensor.New(x.Shape...)
	for i, v := range x.Data {
		out.Data[i] = math.Tanh(v)
	}
	if t.training {
		t.lastOutput = out
	}
	return out, nil
}

func (t *Tanh) Backward(gradOut *tensor.Tensor) (*tensor.Tensor, error) {
	if t.lastOutput == nil {
		return nil, fmt.Errorf("no cached activation for backward pass")
	}
	grad := tensor.New(gradOut.Shape...)
	for i, g := range gradOut.Data {
		y := t.lastOutput.Data[i]
		grad.Data[i] = g * (1 - y*y)
	}
	return grad, nil
}

func (t *Tanh) SetTraining(training bool) {
	t.training = training
	if !training {
		t.lastOutput = nil
	}
}

// ReLU applies max(0, x) element-wise.
type ReLU struct {
	lastInput *tensor.Tensor
	training  bool
}

func NewReLU() *ReLU { return &ReLU{} }

func (r *ReLU) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	out := tensor.New(x.Shape...)
	for i, v := range x.Data {
		if v > 0 {
			out.Data[i] = v
		}
	}
	if r.training {
		r.lastInput = x
	}
	return out, nil
}

func (r *ReLU) Backward(gradOut *tensor.Tensor) (*tensor.Tensor, error) {
	if r.lastInput == nil {
		return nil, fmt.Errorf("no cached activation for backward pass")
	}
	grad := tensor.New(gradOut.Shape...)
	for i, g := range gradOut.Data {
		if r.lastInput.Data[i] > 0 {
			grad.Data[i] = g
		}
	}
	return grad, nil
}

func (r *ReLU) SetTraining(training bool) {
	r.training = training
	if !training {
		r.lastInput = nil
	}
}
