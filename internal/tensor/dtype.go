// Package tensor provides the core tensor types for the Graft framework.
package tensor

// DType is the generic constraint for supported element types.
//
// Graft works with float32 for weights and activations, int32 for class
// labels, and uint8 for raw image bytes.
type DType interface {
	~float32 | ~int32 | ~uint8
}

// DataType is the runtime type tag of a tensor.
type DataType int

// Supported data types.
const (
	Float32 DataType = iota
	Int32
	Uint8
)

// Size returns the element size in bytes.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Uint8:
		return 1
	default:
		panic("tensor: unknown data type")
	}
}

// String returns the type name.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Int32:
		return "int32"
	case Uint8:
		return "uint8"
	default:
		return "unknown"
	}
}

// dataTypeOf maps a generic element type to its runtime tag.
func dataTypeOf[T DType]() DataType {
	var zero T
	switch any(zero).(type) {
	case float32:
		return Float32
	case int32:
		return Int32
	case uint8:
		return Uint8
	default:
		panic("tensor: unsupported element type")
	}
}
