package dataset

import (
	"errors"
	"math"
	"testing"

	"mnist_lab/tensor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func synthetic(n, dim int) []Sample {
	samples := make([]Sample, n)
	for i := range samples {
		in := tensor.New(dim)
		for j := range in.Data {
			in.Data[j] = float64(i*dim+j) / float64(n*dim)
		}
		samples[i] = Sample{Input: in, Label: i % 2}
	}
	return samples
}

func TestSplitCountsAccounting(t *testing.T) {
	// train + val + discarded must equal N for every fraction
	sizes := []int{1, 7, 10, 59, 100, 6000, 60000}
	fractions := []float64{0.01, 0.1, 0.25, 0.5, 0.9, 1.0}
	for _, n := range sizes {
		for _, used := range fractions {
			train, val := SplitCounts(n, used)
			assert.Equal(t, int(math.Floor(0.9*float64(n)*used)), train, "n=%d used=%g", n, used)
			assert.Equal(t, int(math.Ceil(0.1*float64(n)*used)), val, "n=%d used=%g", n, used)
			discarded := n - train - val
			assert.GreaterOrEqual(t, discarded, 0, "n=%d used=%g", n, used)
			assert.Equal(t, n, train+val+discarded)
		}
	}
}

func TestTestCountBound(t *testing.T) {
	for _, n := range []int{1, 10, 9999, 10000} {
		for _, used := range []float64{0.001, 0.1, 0.5, 1.0} {
			got := TestCount(n, used)
			assert.Equal(t, int(math.Ceil(float64(n)*used)), got)
			assert.LessOrEqual(t, got, n)
			assert.Greater(t, got, 0)
		}
	}
}

func TestFromSamplesTenSampleSplit(t *testing.T) {
	loaders, err := FromSamples(synthetic(10, 4), synthetic(4, 4), Options{
		BatchSize: 2,
		UsedData:  1.0,
		Seed:      7,
	})
	require.NoError(t, err)
	assert.Equal(t, 9, loaders.Train.Len())
	assert.Equal(t, 1, loaders.Val.Len())
	assert.Equal(t, 4, loaders.Test.Len())
}

func TestFromSamplesPartitionsAreDisjoint(t *testing.T) {
	trainval := synthetic(20, 2)
	loaders, err := FromSamples(trainval, nil, Options{BatchSize: 4, UsedData: 0.5, Seed: 3})
	require.NoError(t, err)
	// floor(0.9*20*0.5)=9, ceil(0.1*20*0.5)=1, 10 discarded
	require.Equal(t, 9, loaders.Train.Len())
	require.Equal(t, 1, loaders.Val.Len())

	seen := map[*tensor.Tensor]bool{}
	for _, b := range loaders.Train.Batches() {
		for _, in := range b.Inputs {
			require.False(t, seen[in], "sample appears twice")
			seen[in] = true
		}
	}
	for _, b := range loaders.Val.Batches() {
		for _, in := range b.Inputs {
			require.False(t, seen[in], "validation sample also in train")
			seen[in] = true
		}
	}
	assert.Len(t, seen, 10)
}

func TestFromSamplesRejectsBadFraction(t *testing.T) {
	for _, used := range []float64{-0.5, 1.5} {
		_, err := FromSamples(synthetic(10, 2), nil, Options{BatchSize: 2, UsedData: used})
		require.Error(t, err, "used=%g", used)
	}
}

func TestLoadUnknownDataset(t *testing.T) {
	_, err := Load("not_a_dataset", Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownDataset))
}
