package dataset

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"path/filepath"

	"mnist_lab/tensor"

	"github.com/petar/GoMNIST"
)

// ErrUnknownDataset is returned for names outside the supported set.
var ErrUnknownDataset = errors.New("dataset name was not recognized")

// Name identifies one of the supported datasets.
type Name string

const (
	MNIST        Name = "mnist"
	FashionMNIST Name = "fashionmnist"
)

// mirrors maps each dataset to the base URL its IDX archives download from.
var mirrors = map[Name]string{
	MNIST:        "https://ossci-datasets.s3.amazonaws.com/mnist/",
	FashionMNIST: "http://fashion-mnist.s3-website.eu-central-1.amazonaws.com/",
}

// Options configures loading and partitioning.
type Options struct {
	Root      string  // cache directory, default "data"
	BatchSize int     // default 60
	UsedData  float64 // fraction of each partition consumed, default 1.0
	Seed      int64   // drives the split permutation and train shuffling
}

func (o *Options) setDefaults() {
	if o.Root == "" {
		o.Root = "data"
	}
	if o.BatchSize == 0 {
		o.BatchSize = 60
	}
	if o.UsedData == 0 {
		o.UsedData = 1.0
	}
}

// Sample is one flattened single-channel image with its class label.
type Sample struct {
	Input *tensor.Tensor
	Label int
}

// Loaders bundles the three partition iterators of a dataset.
type Loaders struct {
	Train *Loader
	Val   *Loader
	Test  *Loader
}

// Load fetches the named dataset (downloading its archives into the cache
// directory on first use), splits it and returns the three batch loaders.
func Load(name Name, opts Options) (*Loaders, error) {
	base, ok := mirrors[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownDataset)
	}
	opts.setDefaults()

	dir := filepath.Join(opts.Root, string(name))
	if err := fetchArchives(dir, base); err != nil {
		return nil, fmt.Errorf("caching %s archives: %w", name, err)
	}
	trainSet, testSet, err := GoMNIST.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s archives: %w", name, err)
	}
	return FromSamples(toSamples(trainSet), toSamples(testSet), opts)
}

// FromSamples partitions in-memory samples with the same arithmetic Load
// uses: train = floor(0.9·N·used), val = ceil(0.1·N·used) drawn from a seeded
// permutation of the first slice, test = ceil(N_test·used) from the second.
// Leftover samples are discarded.
func FromSamples(trainval, test []Sample, opts Options) (*Loaders, error) {
	opts.setDefaults()
	if opts.UsedData <= 0 || opts.UsedData > 1 {
		return nil, fmt.Errorf("used data fraction must be in (0, 1], got %g", opts.UsedData)
	}
	if opts.BatchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", opts.BatchSize)
	}

	rng := rand.New(rand.NewSource(opts.Seed))

	trainCount, valCount := SplitCounts(len(trainval), opts.UsedData)
	perm := rng.Perm(len(trainval))
	train := make([]Sample, 0, trainCount)
	val := make([]Sample, 0, valCount)
	for _, idx := range perm[:trainCount] {
		train = append(train, trainval[idx])
	}
	for _, idx := range perm[trainCount : trainCount+valCount] {
		val = append(val, trainval[idx])
	}

	testCount := TestCount(len(test), opts.UsedData)
	testPerm := rng.Perm(len(test))
	testUsed := make([]Sample, 0, testCount)
	for _, idx := range testPerm[:testCount] {
		testUsed = append(testUsed, test[idx])
	}

	return &Loaders{
		Train: NewLoader(train, opts.BatchSize, true, opts.Seed),
		Val:   NewLoader(val, opts.BatchSize, false, 0),
		Test:  NewLoader(testUsed, opts.BatchSize, false, 0),
	}, nil
}

// SplitCounts returns how many samples of n go to the train and validation
// partitions for a given used fraction. The remainder is discarded.
func SplitCounts(n int, used float64) (train, val int) {
	train = int(math.Floor(0.9 * float64(n) * used))
	val = int(math.Ceil(0.1 * float64(n) * used))
	return train, val
}

// TestCount returns how many of n test samples are consumed for a given
// used fraction.
func TestCount(n int, used float64) int {
	return int(math.Ceil(float64(n) * used))
}

// toSamples flattens a GoMNIST set into samples with pixels scaled to [0,1].
func toSamples(set *GoMNIST.Set) []Sample {
	samples := make([]Sample, len(set.Images))
	for i, img := range set.Images {
		in := tensor.New(len(img))
		for j, px := range img {
			in.Data[j] = float64(px) / 255.0
		}
		samples[i] = Sample{Input: in, Label: int(set.Labels[i])}
	}
	return samples
}
