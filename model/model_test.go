package model

import (
	"errors"
	"testing"

	"mnist_lab/nn/layers"
	"mnist_lab/tensor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchByName(t *testing.T) {
	arch, err := ArchByName("lenet")
	require.NoError(t, err)
	assert.Equal(t, LeNet, arch)

	_, err = ArchByName("not_an_arch")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownArch))
}

func TestBuildLeNetShape(t *testing.T) {
	net, err := Build(LeNet, Options{Seed: 1})
	require.NoError(t, err)

	// flatten + 3 linear layers with 2 sigmoids between them
	require.Len(t, net.Layers, 6)

	net.SetTraining(false)
	in := tensor.New(784)
	out, err := net.Forward(in)
	require.NoError(t, err)
	assert.Equal(t, 10, out.Len(), "raw logits, one per class")

	// lazy first layer picked up the input width
	first := net.Layers[1].(*layers.Linear)
	assert.Equal(t, 784, first.InDim())
	assert.Equal(t, 300, first.OutDim())
}

func TestBuildLeNetNumClasses(t *testing.T) {
	net, err := Build(LeNet, Options{NumClasses: 4, Seed: 1})
	require.NoError(t, err)
	out, err := net.Forward(tensor.New(16))
	require.NoError(t, err)
	assert.Equal(t, 4, out.Len())
}

func TestBuildUnimplementedArch(t *testing.T) {
	_, err := Build(LeNetWide, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotImplemented))
}

func TestBuildUnknownArch(t *testing.T) {
	_, err := Build(Arch(99), Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownArch))
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	net, err := Build(LeNet, Options{Seed: 3})
	require.NoError(t, err)
	// materialize the lazy layer
	_, err = net.Forward(tensor.New(36))
	require.NoError(t, err)

	snap := Snapshot(net)
	require.Len(t, snap.Layers, 3)

	restored, err := Build(LeNet, Options{Seed: 99})
	require.NoError(t, err)
	require.NoError(t, Restore(restored, snap))

	in := tensor.New(36)
	for i := range in.Data {
		in.Data[i] = float64(i) / 36.0
	}
	a, err := net.Forward(in)
	require.NoError(t, err)
	b, err := restored.Forward(in)
	require.NoError(t, err)
	assert.InDeltaSlice(t, a.Data, b.Data, 1e-12, "restored net must reproduce the original outputs")
}

func TestRestoreMissingLayer(t *testing.T) {
	net, err := Build(LeNet, Options{Seed: 3})
	require.NoError(t, err)
	_, err = net.Forward(tensor.New(9))
	require.NoError(t, err)

	snap := Snapshot(net)
	delete(snap.Layers, "linear_3")

	fresh, err := Build(LeNet, Options{Seed: 3})
	require.NoError(t, err)
	require.Error(t, Restore(fresh, snap))
}
