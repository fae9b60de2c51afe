package dataset

import (
	"math/rand"

	"mnist_lab/tensor"
)

// Batch groups up to batchSize samples; the last batch of a pass may be
// smaller.
type Batch struct {
	Inputs []*tensor.Tensor
	Labels []int
}

// Size returns the number of samples in the batch.
func (b Batch) Size() int { return len(b.Inputs) }

// Loader iterates a partition in fixed-size batches. A shuffling loader
// reorders its samples on every full pass; a plain one preserves order.
type Loader struct {
	samples   []Sample
	batchSize int
	shuffle   bool
	rng       *rand.Rand
}

// NewLoader wraps samples in a batch iterator.
func NewLoader(samples []Sample, batchSize int, shuffle bool, seed int64) *Loader {
	l := &Loader{samples: samples, batchSize: batchSize, shuffle: shuffle}
	if shuffle {
		l.rng = rand.New(rand.NewSource(seed))
	}
	return l
}

// Len returns the number of samples in the partition.
func (l *Loader) Len() int { return len(l.samples) }

// Batches returns one full pass over the partition. Shuffling loaders draw
// a fresh order each call.
func (l *Loader) Batches() []Batch {
	order := make([]int, len(l.samples))
	for i := range order {
		order[i] = i
	}
	if l.shuffle {
		l.rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}

	numBatches := (len(order) + l.batchSize - 1) / l.batchSize
	batches := make([]Batch, 0, numBatches)
	for i := 0; i < numBatches; i++ {
		start := i * l.batchSize
		end := start + l.batchSize
		if end > len(order) {
			end = len(order)
		}
		b := Batch{
			Inputs: make([]*tensor.Tensor, 0, end-start),
			Labels: make([]int, 0, end-start),
		}
		for _, idx := range order[start:end] {
			b.Inputs = append(b.Inputs, l.samples[idx].Input)
			b.Labels = append(b.Labels, l.samples[idx].Label)
		}
		batches = append(batches, b)
	}
	return batches
}
