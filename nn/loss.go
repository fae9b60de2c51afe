package nn

import (
	"fmt"
	"math"

	"mnist_lab/tensor"
)

// Loss maps raw logits and an integer class label to a scalar loss, and
// produces the gradient of that loss with respect to the logits.
type Loss interface {
	Forward(logits *tensor.Tensor, label int) (float64, error)
	Backward(logits *tensor.Tensor, label int) (*tensor.Tensor, error)
}

// CrossEntropyLoss combines softmax and negative log-likelihood, so models
// feed it raw logits without a terminal normalization layer.
type CrossEntropyLoss struct{}

// Forward returns -log(softmax(logits)[label]).
func (c *CrossEntropyLoss) Forward(logits *tensor.Tensor, label int) (float64, error) {
	if label < 0 || label >= len(logits.Data) {
		return 0, fmt.Errorf("label %d out of range for %d logits", label, len(logits.Data))
	}
	p := Softmax(logits).Data[label]
	if p < 1e-10 {
		p = 1e-10
	}
	return -math.Log(p), nil
}

// Backward computes the gradient of the cross-entropy loss with softmax.
// grad = (softmax_output - one_hot_label)
func (c *CrossEntropyLoss) Backward(logits *tensor.Tensor, label int) (*tensor.Tensor, error) {
	if label < 0 || label >= len(logits.Data) {
		return nil, fmt.Errorf("label %d out of range for %d logits", label, len(logits.Data))
	}
	grad := Softmax(logits)
	grad.Data[label] -= 1
	return grad, nil
}

// Softmax applies the softmax function to a tensor.
func Softmax(logits *tensor.Tensor) *tensor.Tensor {
	maxLogit := logits.Data[0]
	for _, v := range logits.Data {
		if v > maxLogit {
			maxLogit = v
		}
	}
	expSum := 0.0
	exps := make([]float64, len(logits.Data))
	for i, v := range logits.Data {
		e := math.Exp(v - maxLogit)
		exps[i] = e
		expSum += e
	}
	softmax := tensor.New(len(logits.Data))
	for i, e := range exps {
		softmax.Data[i] = e / expSum
	}
	return softmax
}
