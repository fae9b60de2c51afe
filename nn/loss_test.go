package nn

import (
	"math"
	"testing"

	"mnist_lab/tensor"
)

func TestSoftmaxSumsToOne(t *testing.T) {
	logits := tensor.NewWithData([]float64{1, 2, 3, 4})
	p := Softmax(logits)
	sum := 0.0
	for _, v := range p.Data {
		sum += v
		if v <= 0 || v >= 1 {
			t.Fatalf("probability %f out of (0,1)", v)
		}
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Fatalf("probabilities sum to %f", sum)
	}
}

func TestSoftmaxLargeLogits(t *testing.T) {
	// max-subtraction keeps huge logits finite
	logits := tensor.NewWithData([]float64{1000, 1001})
	p := Softmax(logits)
	for _, v := range p.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("softmax overflowed: %v", p.Data)
		}
	}
}

func TestCrossEntropyForward(t *testing.T) {
	loss := &CrossEntropyLoss{}
	logits := tensor.NewWithData([]float64{0, 0, 0})
	got, err := loss.Forward(logits, 1)
	if err != nil {
		t.Fatal(err)
	}
	want := -math.Log(1.0 / 3.0)
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("loss = %f, want %f", got, want)
	}
}

func TestCrossEntropyBackward(t *testing.T) {
	loss := &CrossEntropyLoss{}
	logits := tensor.NewWithData([]float64{0.5, -0.2, 1.1})
	grad, err := loss.Backward(logits, 2)
	if err != nil {
		t.Fatal(err)
	}
	probs := Softmax(logits)
	for i := range grad.Data {
		want := probs.Data[i]
		if i == 2 {
			want -= 1
		}
		if math.Abs(grad.Data[i]-want) > 1e-12 {
			t.Errorf("grad[%d] = %f, want %f", i, grad.Data[i], want)
		}
	}
}

func TestCrossEntropyLabelOutOfRange(t *testing.T) {
	loss := &CrossEntropyLoss{}
	logits := tensor.NewWithData([]float64{0, 0})
	if _, err := loss.Forward(logits, 5); err == nil {
		t.Fatal("expected out-of-range error")
	}
	if _, err := loss.Backward(logits, -1); err == nil {
		t.Fatal("expected out-of-range error")
	}
}

func TestCrossEntropyClampsProbability(t *testing.T) {
	loss := &CrossEntropyLoss{}
	// label probability underflows to ~0; the clamp keeps the loss finite
	logits := tensor.NewWithData([]float64{100, 0})
	got, err := loss.Forward(logits, 1)
	if err != nil {
		t.Fatal(err)
	}
	if math.IsInf(got, 0) || math.IsNaN(got) {
		t.Fatalf("loss not clamped: %f", got)
	}
}
