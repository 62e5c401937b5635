package weights_test

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graft-ml/graft/internal/tensor"
	"github.com/graft-ml/graft/internal/weights"
)

func rawFromSlice(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	copy(raw.AsFloat32(), data)
	return raw
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.safetensors")

	original := map[string]*tensor.RawTensor{
		"0.weight": rawFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}),
		"0.bias":   rawFromSlice(t, []float32{7, 8}, tensor.Shape{2}),
	}
	metadata := map[string]string{"arch": "efficientnet-b3"}

	require.NoError(t, weights.Save(path, original, metadata))

	loaded, err := weights.Load(path, tensor.CPU)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	for name, raw := range original {
		got, ok := loaded[name]
		require.True(t, ok, "missing tensor %s", name)
		assert.True(t, got.Shape().Equal(raw.Shape()))
		assert.Equal(t, raw.AsFloat32(), got.AsFloat32())
	}
}

func TestReader_Metadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.safetensors")
	tensors := map[string]*tensor.RawTensor{
		"w": rawFromSlice(t, []float32{1}, tensor.Shape{1}),
	}
	require.NoError(t, weights.Save(path, tensors, map[string]string{"tag": "imagenet"}))

	reader, err := weights.NewReader(path)
	require.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, "imagenet", reader.Metadata()["tag"])
	assert.Equal(t, []string{"w"}, reader.TensorNames())

	info, err := reader.TensorInfo("w")
	require.NoError(t, err)
	assert.Equal(t, weights.DTypeF32, info.DType)

	_, err = reader.TensorInfo("missing")
	assert.Error(t, err)
}

func TestReader_MissingTensor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.safetensors")
	require.NoError(t, weights.Save(path, map[string]*tensor.RawTensor{
		"w": rawFromSlice(t, []float32{1}, tensor.Shape{1}),
	}, nil))

	reader, err := weights.NewReader(path)
	require.NoError(t, err)
	defer reader.Close()

	_, err = reader.LoadTensor("nope", tensor.CPU)
	assert.ErrorContains(t, err, "not found")
}

func TestNewReader_Corrupt(t *testing.T) {
	t.Run("MissingFile", func(t *testing.T) {
		_, err := weights.NewReader(filepath.Join(t.TempDir(), "absent.safetensors"))
		assert.Error(t, err)
	})

	t.Run("HugeHeaderSize", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.safetensors")
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, 1<<40)
		require.NoError(t, os.WriteFile(path, buf, 0o644))

		_, err := weights.NewReader(path)
		assert.ErrorContains(t, err, "header size")
	})

	t.Run("TruncatedHeader", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.safetensors")
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, 100)
		require.NoError(t, os.WriteFile(path, buf, 0o644))

		_, err := weights.NewReader(path)
		assert.Error(t, err)
	})
}
