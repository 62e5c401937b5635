package preprocess_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/graft-ml/graft/internal/backend/cpu"
	"github.com/graft-ml/graft/internal/preprocess"
	"github.com/graft-ml/graft/internal/tensor"
)

func floatEqual(a, b, epsilon float32) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < epsilon
}

// solidImage returns a w×h image filled with one color.
func solidImage(w, h int, c color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestImage_ShapeAndRange(t *testing.T) {
	backend := cpu.New()
	img := solidImage(13, 9, color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	out := preprocess.Image(img, 8, backend)
	if !out.Shape().Equal(tensor.Shape{1, 3, 8, 8}) {
		t.Fatalf("shape = %v, want [1 3 8 8]", out.Shape())
	}
	for i, v := range out.Data() {
		if v < 0 || v > 1 {
			t.Fatalf("pixel %d = %f, outside [0, 1]", i, v)
		}
	}
}

func TestImage_SolidColorPlanes(t *testing.T) {
	backend := cpu.New()
	img := solidImage(4, 4, color.NRGBA{R: 255, G: 0, B: 0, A: 255})

	out := preprocess.Image(img, 4, backend)
	data := out.Data()
	plane := 4 * 4

	for i := 0; i < plane; i++ {
		if !floatEqual(data[i], 1, 1e-3) {
			t.Fatalf("red plane [%d] = %f, want 1", i, data[i])
		}
		if !floatEqual(data[plane+i], 0, 1e-3) {
			t.Fatalf("green plane [%d] = %f, want 0", i, data[plane+i])
		}
		if !floatEqual(data[2*plane+i], 0, 1e-3) {
			t.Fatalf("blue plane [%d] = %f, want 0", i, data[2*plane+i])
		}
	}
}

func TestBatch(t *testing.T) {
	backend := cpu.New()
	imgs := []image.Image{
		solidImage(4, 4, color.NRGBA{R: 255, A: 255}),
		solidImage(6, 6, color.NRGBA{G: 255, A: 255}),
	}

	out := preprocess.Batch(imgs, 4, backend)
	if !out.Shape().Equal(tensor.Shape{2, 3, 4, 4}) {
		t.Fatalf("shape = %v, want [2 3 4 4]", out.Shape())
	}

	// Second image is green: its green plane is 1, its red plane is 0.
	plane := 4 * 4
	base := 3 * plane
	if !floatEqual(out.Data()[base], 0, 1e-3) {
		t.Errorf("second image red plane = %f, want 0", out.Data()[base])
	}
	if !floatEqual(out.Data()[base+plane], 1, 1e-3) {
		t.Errorf("second image green plane = %f, want 1", out.Data()[base+plane])
	}
}

func TestBatch_Panics(t *testing.T) {
	backend := cpu.New()

	t.Run("Empty", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic for empty batch")
			}
		}()
		preprocess.Batch[*cpu.Backend](nil, 4, backend)
	})

	t.Run("BadSize", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic for non-positive size")
			}
		}()
		preprocess.Batch([]image.Image{solidImage(2, 2, color.NRGBA{A: 255})}, 0, backend)
	})
}

func TestDecode(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, solidImage(2, 2, color.NRGBA{B: 255, A: 255})); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}

	img, err := preprocess.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if img.Bounds().Dx() != 2 {
		t.Errorf("decoded width = %d, want 2", img.Bounds().Dx())
	}

	if _, err := preprocess.Decode(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("Decode on garbage should fail")
	}
}

func TestFile(t *testing.T) {
	backend := cpu.New()
	path := filepath.Join(t.TempDir(), "img.png")

	var buf bytes.Buffer
	if err := png.Encode(&buf, solidImage(5, 5, color.NRGBA{R: 128, G: 128, B: 128, A: 255})); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	out, err := preprocess.File(path, 4, backend)
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}
	if !out.Shape().Equal(tensor.Shape{1, 3, 4, 4}) {
		t.Fatalf("shape = %v, want [1 3 4 4]", out.Shape())
	}

	if _, err := preprocess.File(filepath.Join(t.TempDir(), "missing.png"), 4, backend); err == nil {
		t.Error("File on a missing path should fail")
	}
}
