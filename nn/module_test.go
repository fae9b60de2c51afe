package nn

import (
	"errors"
	"testing"

	"mnist_lab/tensor"
)

// dummy layer: adds a constant
type addLayer struct{ c float64 }

func (l *addLayer) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	out := x.Clone()
	for i := range out.Data {
		out.Data[i] += l.c
	}
	return out, nil
}
func (l *addLayer) Backward(grad *tensor.Tensor) (*tensor.Tensor, error) { return grad, nil }
func (l *addLayer) SetTraining(bool)                                     {}

// dummy layer: error on forward
type errLayer struct{}

func (l *errLayer) Forward(*tensor.Tensor) (*tensor.Tensor, error) {
	return nil, errors.New("fail")
}
func (l *errLayer) Backward(*tensor.Tensor) (*tensor.Tensor, error) { return nil, nil }
func (l *errLayer) SetTraining(bool)                                {}

// dummy layer: records the mode flag and owns one parameter
type modeLayer struct {
	training bool
	p        *Param
}

func (l *modeLayer) Forward(x *tensor.Tensor) (*tensor.Tensor, error)  { return x, nil }
func (l *modeLayer) Backward(g *tensor.Tensor) (*tensor.Tensor, error) { return g, nil }
func (l *modeLayer) SetTraining(training bool)                         { l.training = training }
func (l *modeLayer) Params() []*Param                                  { return []*Param{l.p} }

func TestSequentialForward(t *testing.T) {
	a := tensor.NewWithData([]float64{1})
	seq := &Sequential{Layers: []Module{&addLayer{c: 2}, &addLayer{c: 3}}}
	out, err := seq.Forward(a)
	if err != nil {
		t.Fatal(err)
	}
	if out.Data[0] != 6 {
		t.Fatalf("expected 6, got %f", out.Data[0])
	}
}

func TestSequentialForwardError(t *testing.T) {
	seq := &Sequential{Layers: []Module{&addLayer{}, &errLayer{}}}
	if _, err := seq.Forward(tensor.New(1)); err == nil {
		t.Fatal("expected forward error to propagate")
	}
}

func TestSequentialSetTraining(t *testing.T) {
	m := &modeLayer{p: &Param{Value: tensor.New(1), Grad: tensor.New(1)}}
	seq := &Sequential{Layers: []Module{&addLayer{}, m}}
	seq.SetTraining(true)
	if !m.training {
		t.Fatal("mode flag did not propagate")
	}
	seq.SetTraining(false)
	if m.training {
		t.Fatal("mode flag did not clear")
	}
}

func TestSequentialParams(t *testing.T) {
	m := &modeLayer{p: &Param{Name: "w", Value: tensor.New(2), Grad: tensor.New(2)}}
	seq := &Sequential{Layers: []Module{&addLayer{}, m}}
	params := seq.Params()
	if len(params) != 1 || params[0].Name != "w" {
		t.Fatalf("unexpected params: %v", params)
	}
}
