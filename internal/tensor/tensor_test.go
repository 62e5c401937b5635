package tensor

import (
	"testing"
)

func TestShape_NumElements(t *testing.T) {
	tests := []struct {
		shape Shape
		want  int
	}{
		{Shape{2, 3}, 6},
		{Shape{1}, 1},
		{Shape{4, 1, 5}, 20},
		{Shape{}, 1},
	}
	for _, tt := range tests {
		if got := tt.shape.NumElements(); got != tt.want {
			t.Errorf("NumElements(%v) = %d, want %d", tt.shape, got, tt.want)
		}
	}
}

func TestShape_Validate(t *testing.T) {
	if err := (Shape{2, 3}).Validate(); err != nil {
		t.Errorf("Validate({2,3}) = %v, want nil", err)
	}
	if err := (Shape{2, 0}).Validate(); err == nil {
		t.Error("Validate({2,0}) = nil, want error")
	}
	if err := (Shape{-1, 3}).Validate(); err == nil {
		t.Error("Validate({-1,3}) = nil, want error")
	}
}

func TestShape_Strides(t *testing.T) {
	strides := Shape{2, 3, 4}.Strides()
	want := []int{12, 4, 1}
	if len(strides) != len(want) {
		t.Fatalf("Strides = %v, want %v", strides, want)
	}
	for i := range want {
		if strides[i] != want[i] {
			t.Errorf("Strides[%d] = %d, want %d", i, strides[i], want[i])
		}
	}
}

func TestBroadcast(t *testing.T) {
	tests := []struct {
		a, b      Shape
		want      Shape
		needs     bool
		expectErr bool
	}{
		{Shape{2, 3}, Shape{2, 3}, Shape{2, 3}, false, false},
		{Shape{2, 3}, Shape{1, 3}, Shape{2, 3}, true, false},
		{Shape{3, 1}, Shape{3, 4}, Shape{3, 4}, true, false},
		{Shape{2, 3}, Shape{3}, Shape{2, 3}, true, false},
		{Shape{2, 3}, Shape{4, 3}, nil, false, true},
	}
	for _, tt := range tests {
		got, needs, err := Broadcast(tt.a, tt.b)
		if tt.expectErr {
			if err == nil {
				t.Errorf("Broadcast(%v, %v) = nil error, want error", tt.a, tt.b)
			}
			continue
		}
		if err != nil {
			t.Errorf("Broadcast(%v, %v) error: %v", tt.a, tt.b, err)
			continue
		}
		if !got.Equal(tt.want) || needs != tt.needs {
			t.Errorf("Broadcast(%v, %v) = %v/%v, want %v/%v", tt.a, tt.b, got, needs, tt.want, tt.needs)
		}
	}
}

func TestRawTensor_New(t *testing.T) {
	raw, err := NewRaw(Shape{2, 3}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	if raw.NumElements() != 6 {
		t.Errorf("NumElements = %d, want 6", raw.NumElements())
	}
	if raw.ByteSize() != 24 {
		t.Errorf("ByteSize = %d, want 24", raw.ByteSize())
	}
	if raw.DType() != Float32 {
		t.Errorf("DType = %v, want Float32", raw.DType())
	}

	if _, err := NewRaw(Shape{0}, Float32, CPU); err == nil {
		t.Error("NewRaw with zero dimension should fail")
	}
}

func TestRawTensor_TypedAccess(t *testing.T) {
	raw, _ := NewRaw(Shape{3}, Float32, CPU)
	data := raw.AsFloat32()
	data[0], data[1], data[2] = 1.5, 2.5, 3.5

	again := raw.AsFloat32()
	if again[1] != 2.5 {
		t.Errorf("AsFloat32 did not share storage: %v", again)
	}

	defer func() {
		if recover() == nil {
			t.Error("AsInt32 on a float32 tensor should panic")
		}
	}()
	raw.AsInt32()
}

func TestRawTensor_Clone(t *testing.T) {
	raw, _ := NewRaw(Shape{2}, Float32, CPU)
	raw.AsFloat32()[0] = 7

	clone := raw.Clone()
	clone.AsFloat32()[0] = 9

	if raw.AsFloat32()[0] != 7 {
		t.Error("Clone shares storage with the original")
	}
}

func TestRawTensor_WithShape(t *testing.T) {
	raw, _ := NewRaw(Shape{2, 3}, Float32, CPU)
	raw.AsFloat32()[4] = 42

	view := raw.WithShape(Shape{3, 2})
	if view.AsFloat32()[4] != 42 {
		t.Error("WithShape should share storage")
	}

	defer func() {
		if recover() == nil {
			t.Error("WithShape with wrong element count should panic")
		}
	}()
	raw.WithShape(Shape{7})
}

func TestDataType_Size(t *testing.T) {
	if Float32.Size() != 4 {
		t.Errorf("Float32.Size() = %d, want 4", Float32.Size())
	}
	if Int32.Size() != 4 {
		t.Errorf("Int32.Size() = %d, want 4", Int32.Size())
	}
	if Uint8.Size() != 1 {
		t.Errorf("Uint8.Size() = %d, want 1", Uint8.Size())
	}
}
