package nn

import (
	"mnist_lab/tensor"
)

// Module defines a single layer/unit in the network.
type Module interface {
	Forward(input *tensor.Tensor) (*tensor.Tensor, error)
	// Backward computes gradients and propagates them.
	// It takes the gradient of the loss with respect to the module's output,
	// and returns the gradient of the loss with respect to the module's input.
	Backward(gradOut *tensor.Tensor) (*tensor.Tensor, error)
	// SetTraining switches the module between gradient-tracking and
	// evaluation mode. The flag is the only cross-batch state a module keeps.
	SetTraining(training bool)
}

// Param is one learnable tensor paired with its gradient buffer.
type Param struct {
	Name  string
	Value *tensor.Tensor
	Grad  *tensor.Tensor
}

// Parametric is implemented by modules that own learnable parameters.
type Parametric interface {
	Params() []*Param
}

// Network is what a training loop needs from a model.
type Network interface {
	Module
	Parametric
}

// Sequential chains multiple Modules in order.
type Sequential struct {
	Layers []Module
}

// Forward applies each layer in sequence.
func (s *Sequential) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	var err error
	out := x
	for _, layer := range s.Layers {
		out, err = layer.Forward(out)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Backward applies Backward in reverse order.
func (s *Sequential) Backward(grad *tensor.Tensor) (*tensor.Tensor, error) {
	var err error
	out := grad
	for i := len(s.Layers) - 1; i >= 0; i-- {
		out, err = s.Layers[i].Backward(out)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SetTraining propagates the mode flag to every layer.
func (s *Sequential) SetTraining(training bool) {
	for _, layer := range s.Layers {
		layer.SetTraining(training)
	}
}

// Params collects the parameters of every parametric layer, in layer order.
func (s *Sequential) Params() []*Param {
	var params []*Param
	for _, layer := range s.Layers {
		if p, ok := layer.(Parametric); ok {
			params = append(params, p.Params()...)
		}
	}
	return params
}
