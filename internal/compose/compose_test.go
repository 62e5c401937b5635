package compose_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graft-ml/graft/internal/backbone"
	"github.com/graft-ml/graft/internal/backend/cpu"
	"github.com/graft-ml/graft/internal/compose"
	"github.com/graft-ml/graft/internal/tensor"
)

// tinyArch keeps composed forward passes cheap in tests.
var tinyArch = backbone.ArchSpec{
	Name:          "tiny-classifier-backbone",
	InputSize:     8,
	InputChannels: 3,
	Stem:          backbone.ConvSpec{Out: 4, Kernel: 3, Stride: 2, Padding: 1},
	Blocks: []backbone.ConvSpec{
		{Out: 5, Kernel: 3, Stride: 1, Padding: 1},
	},
	Head:            backbone.ConvSpec{Out: 6, Kernel: 1, Stride: 1, Padding: 0},
	FeatureChannels: 6,
}

func newModel(t *testing.T, numClasses int) (*compose.Model[*cpu.Backend], *cpu.Backend) {
	t.Helper()
	backend := cpu.New()
	model, err := compose.Compose(backbone.New(tinyArch, backend), numClasses, backend)
	require.NoError(t, err)
	return model, backend
}

func randomBatch(t *testing.T, backend *cpu.Backend, n int) *tensor.Tensor[float32, *cpu.Backend] {
	t.Helper()
	rng := rand.New(rand.NewSource(7))
	data := make([]float32, n*3*8*8)
	for i := range data {
		data[i] = rng.Float32()
	}
	batch, err := tensor.FromSlice(data, tensor.Shape{n, 3, 8, 8}, backend)
	require.NoError(t, err)
	return batch
}

func TestCompose_Validation(t *testing.T) {
	backend := cpu.New()

	_, err := compose.Compose[*cpu.Backend](nil, 10, backend)
	assert.ErrorContains(t, err, "backbone is nil")

	_, err = compose.Compose(backbone.New(tinyArch, backend), 0, backend)
	assert.ErrorContains(t, err, "must be positive")
}

func TestCompose_FreezesBackbone(t *testing.T) {
	model, _ := newModel(t, 10)

	assert.True(t, model.Backbone().Frozen())

	// 3 Linear layers, weight + bias each.
	trainable := model.TrainableParameters()
	assert.Len(t, trainable, 6)
	for _, param := range trainable {
		assert.True(t, param.Trainable())
	}

	total := len(model.Parameters())
	assert.Greater(t, total, len(trainable), "backbone parameters should exist but be frozen")
}

func TestModel_ForwardProducesDistribution(t *testing.T) {
	const numClasses = 4
	model, backend := newModel(t, numClasses)

	output := model.Forward(randomBatch(t, backend, 2))
	require.True(t, output.Shape().Equal(tensor.Shape{2, numClasses}),
		"output shape = %v", output.Shape())

	data := output.Data()
	for row := 0; row < 2; row++ {
		var sum float32
		for c := 0; c < numClasses; c++ {
			v := data[row*numClasses+c]
			assert.GreaterOrEqual(t, v, float32(0), "row %d has negative probability", row)
			sum += v
		}
		assert.InDelta(t, 1.0, float64(sum), 1e-5, "row %d does not sum to 1", row)
	}
}

func TestModel_ForwardBadShapePanics(t *testing.T) {
	model, backend := newModel(t, 4)

	assert.Panics(t, func() {
		model.Forward(tensor.Zeros[float32](tensor.Shape{1, 3, 16, 16}, backend))
	})
}

func TestCompose_IndependentHeads(t *testing.T) {
	backend := cpu.New()

	first, err := compose.Compose(backbone.New(tinyArch, backend), 7, backend)
	require.NoError(t, err)
	second, err := compose.Compose(backbone.New(tinyArch, backend), 7, backend)
	require.NoError(t, err)

	a := first.Head().Parameters()
	b := second.Head().Parameters()
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.True(t, a[i].Tensor().Shape().Equal(b[i].Tensor().Shape()),
			"head parameter %d shapes differ", i)
	}

	// Fresh heads are randomly initialized, not shared.
	assert.NotEqual(t, a[0].Tensor().Data(), b[0].Tensor().Data())
}

func TestCompile_Defaults(t *testing.T) {
	model, _ := newModel(t, 10)
	assert.False(t, model.Compiled())

	require.NoError(t, model.Compile(compose.TrainingConfig{}))

	assert.True(t, model.Compiled())
	assert.Equal(t, compose.OptimizerAdam, model.Config().Optimizer)
	assert.Equal(t, float32(0.001), model.Config().LearningRate)
	require.NotNil(t, model.Optimizer())
	assert.Equal(t, float32(0.001), model.Optimizer().GetLR())
	assert.NotNil(t, model.Loss())
}

func TestCompile_SGDAndRecompile(t *testing.T) {
	model, _ := newModel(t, 10)

	require.NoError(t, model.Compile(compose.TrainingConfig{
		Optimizer:    compose.OptimizerSGD,
		LearningRate: 0.01,
		Momentum:     0.9,
	}))
	assert.Equal(t, float32(0.01), model.Optimizer().GetLR())

	// Recompiling replaces the optimizer.
	require.NoError(t, model.Compile(compose.TrainingConfig{}))
	assert.Equal(t, compose.OptimizerAdam, model.Config().Optimizer)
	assert.Equal(t, float32(0.001), model.Optimizer().GetLR())
}

func TestCompile_UnknownOptimizer(t *testing.T) {
	model, _ := newModel(t, 10)

	err := model.Compile(compose.TrainingConfig{Optimizer: "rmsprop"})
	assert.ErrorContains(t, err, "unknown optimizer")
	assert.False(t, model.Compiled())
}

func TestModel_Evaluate(t *testing.T) {
	const numClasses = 3
	model, backend := newModel(t, numClasses)

	input := randomBatch(t, backend, 2)
	targets, err := tensor.FromSlice([]float32{
		1, 0, 0,
		0, 1, 0,
	}, tensor.Shape{2, numClasses}, backend)
	require.NoError(t, err)

	_, _, err = model.Evaluate(input, targets)
	assert.ErrorContains(t, err, "not compiled")

	require.NoError(t, model.Compile(compose.TrainingConfig{}))
	lossValue, accuracy, err := model.Evaluate(input, targets)
	require.NoError(t, err)
	assert.Greater(t, lossValue, float32(0))
	assert.GreaterOrEqual(t, accuracy, float32(0))
	assert.LessOrEqual(t, accuracy, float32(1))
}

func TestModel_StateDictRoundTrip(t *testing.T) {
	model, backend := newModel(t, 5)
	clone, err := compose.Compose(backbone.New(tinyArch, backend), 5, backend)
	require.NoError(t, err)

	stateDict := model.StateDict()
	assert.Contains(t, stateDict, "backbone.0.weight")
	assert.Contains(t, stateDict, "head.0.weight")

	require.NoError(t, clone.LoadStateDict(stateDict))

	input := randomBatch(t, backend, 1)
	assert.Equal(t, model.Forward(input).Data(), clone.Forward(input).Data())
}

func TestModel_Summary(t *testing.T) {
	model, _ := newModel(t, 10)
	summary := model.Summary()

	assert.Contains(t, summary, tinyArch.Name)
	assert.Contains(t, summary, "10 classes")
	assert.Contains(t, summary, "global_avg_pool")
	assert.Contains(t, summary, "frozen")
	assert.Contains(t, summary, "Compiled: no")

	require.NoError(t, model.Compile(compose.TrainingConfig{}))
	assert.Contains(t, model.Summary(), "adam")
	assert.Contains(t, model.Summary(), "categorical cross-entropy")
}
