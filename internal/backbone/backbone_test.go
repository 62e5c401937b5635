package backbone_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graft-ml/graft/internal/backbone"
	"github.com/graft-ml/graft/internal/backend/cpu"
	"github.com/graft-ml/graft/internal/hub"
	"github.com/graft-ml/graft/internal/tensor"
	"github.com/graft-ml/graft/internal/weights"
)

// tinyArch is a miniature stack that keeps forward passes cheap in tests.
var tinyArch = backbone.ArchSpec{
	Name:          "tiny-extractor",
	InputSize:     8,
	InputChannels: 3,
	Stem:          backbone.ConvSpec{Out: 4, Kernel: 3, Stride: 2, Padding: 1},
	Blocks: []backbone.ConvSpec{
		{Out: 5, Kernel: 3, Stride: 1, Padding: 1},
	},
	Head:            backbone.ConvSpec{Out: 6, Kernel: 1, Stride: 1, Padding: 0},
	FeatureChannels: 6,
}

func init() {
	backbone.Register(tinyArch)
}

func TestArch_Registry(t *testing.T) {
	spec, err := backbone.Arch("efficientnet-b3")
	require.NoError(t, err)
	assert.Equal(t, 300, spec.InputSize)
	assert.Equal(t, 3, spec.InputChannels)
	assert.Equal(t, 1536, spec.FeatureChannels)

	_, err = backbone.Arch("resnet-900")
	assert.ErrorContains(t, err, "unknown architecture")

	assert.Contains(t, backbone.Archs(), "efficientnet-b3")
	assert.Contains(t, backbone.Archs(), "tiny-extractor")
}

func TestRegister_Duplicate(t *testing.T) {
	assert.Panics(t, func() { backbone.Register(tinyArch) })
	assert.Panics(t, func() { backbone.Register(backbone.ArchSpec{}) })
}

func TestBackbone_Forward(t *testing.T) {
	backend := cpu.New()
	b := backbone.New(tinyArch, backend)

	input := tensor.Zeros[float32](tensor.Shape{2, 3, 8, 8}, backend)
	output := b.Forward(input)

	// Stem halves 8 -> 4; the remaining convs preserve spatial size.
	assert.True(t, output.Shape().Equal(tensor.Shape{2, 6, 4, 4}),
		"output shape = %v", output.Shape())

	assert.Equal(t, "tiny-extractor", b.Name())
	assert.Equal(t, 8, b.InputSize())
	assert.Equal(t, 6, b.FeatureChannels())
}

func TestBackbone_ForwardShapePanics(t *testing.T) {
	backend := cpu.New()
	b := backbone.New(tinyArch, backend)

	assert.Panics(t, func() {
		b.Forward(tensor.Zeros[float32](tensor.Shape{2, 3, 16, 16}, backend))
	}, "wrong spatial size")

	assert.Panics(t, func() {
		b.Forward(tensor.Zeros[float32](tensor.Shape{3, 8, 8}, backend))
	}, "missing batch dimension")
}

func TestBackbone_Freeze(t *testing.T) {
	backend := cpu.New()
	b := backbone.New(tinyArch, backend)

	require.NotEmpty(t, b.Parameters())
	assert.False(t, b.Frozen())

	b.Freeze()
	assert.True(t, b.Frozen())
	for _, param := range b.Parameters() {
		assert.False(t, param.Trainable(), "parameter %s still trainable", param.Name())
	}

	b.Unfreeze()
	assert.False(t, b.Frozen())
}

func TestLoadFrom(t *testing.T) {
	backend := cpu.New()

	// Publish weights from a reference backbone into a fake registry.
	source := backbone.New(tinyArch, backend)
	weightPath := filepath.Join(t.TempDir(), "model.safetensors")
	require.NoError(t, weights.Save(weightPath, source.StateDict(), map[string]string{
		"arch": tinyArch.Name,
	}))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, weightPath)
	}))
	defer server.Close()

	client, err := hub.NewClient(hub.WithBaseURL(server.URL), hub.WithCacheDir(t.TempDir()))
	require.NoError(t, err)

	loaded, err := backbone.LoadFrom(context.Background(), client, tinyArch.Name, "", backend)
	require.NoError(t, err)

	a := source.Parameters()
	b := loaded.Parameters()
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].Tensor().Data(), b[i].Tensor().Data(),
			"parameter %s differs after load", a[i].Name())
	}
}

func TestLoadFrom_UnknownArch(t *testing.T) {
	backend := cpu.New()
	client, err := hub.NewClient(hub.WithCacheDir(t.TempDir()))
	require.NoError(t, err)

	_, err = backbone.LoadFrom(context.Background(), client, "no-such-arch", "", backend)
	assert.ErrorContains(t, err, "unknown architecture")
}

func TestLoadFrom_BadWeights(t *testing.T) {
	backend := cpu.New()

	// Serve weights for the wrong shapes.
	bad, err := tensor.NewRaw(tensor.Shape{1}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	weightPath := filepath.Join(t.TempDir(), "model.safetensors")
	require.NoError(t, weights.Save(weightPath, map[string]*tensor.RawTensor{
		"0.weight": bad,
	}, nil))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, readErr := os.ReadFile(weightPath)
		require.NoError(t, readErr)
		_, _ = w.Write(data)
	}))
	defer server.Close()

	client, err := hub.NewClient(hub.WithBaseURL(server.URL), hub.WithCacheDir(t.TempDir()))
	require.NoError(t, err)

	_, err = backbone.LoadFrom(context.Background(), client, tinyArch.Name, "", backend)
	assert.ErrorContains(t, err, "do not match architecture")
}
