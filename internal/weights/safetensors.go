// Package weights reads and writes model weights in the SafeTensors format.
//
// SafeTensors layout:
//
//	[8 bytes: header_size (uint64 LE)]
//	[header_size bytes: JSON header]
//	[tensor data: raw bytes]
//
// The JSON header maps tensor names to dtype, shape, and byte offsets into
// the data section, plus an optional "__metadata__" string map.
package weights

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/graft-ml/graft/internal/tensor"
)

// maxHeaderSize bounds the JSON header so a corrupt size field cannot
// trigger a huge allocation.
const maxHeaderSize = 100 * 1024 * 1024

// DTypeName is a SafeTensors data type identifier.
type DTypeName string

// Supported SafeTensors dtypes.
const (
	DTypeF32 DTypeName = "F32"
	DTypeI32 DTypeName = "I32"
	DTypeU8  DTypeName = "U8"
)

// TensorInfo describes one tensor in a SafeTensors header.
type TensorInfo struct {
	DType       DTypeName `json:"dtype"`
	Shape       []int     `json:"shape"`
	DataOffsets [2]int64  `json:"data_offsets"` // [start, end) relative to the data section
}

// Header is the parsed JSON header of a SafeTensors file.
type Header struct {
	Metadata map[string]string
	Tensors  map[string]TensorInfo
}

// UnmarshalJSON splits the flat SafeTensors header into metadata and
// tensor entries.
func (h *Header) UnmarshalJSON(data []byte) error {
	var rawMap map[string]json.RawMessage
	if err := json.Unmarshal(data, &rawMap); err != nil {
		return err
	}

	if metadataRaw, ok := rawMap["__metadata__"]; ok {
		if err := json.Unmarshal(metadataRaw, &h.Metadata); err != nil {
			return fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	h.Tensors = make(map[string]TensorInfo)
	for key, value := range rawMap {
		if key == "__metadata__" {
			continue
		}
		var info TensorInfo
		if err := json.Unmarshal(value, &info); err != nil {
			return fmt.Errorf("failed to unmarshal tensor %s: %w", key, err)
		}
		h.Tensors[key] = info
	}
	return nil
}

// Reader reads tensors out of a SafeTensors file.
type Reader struct {
	file       *os.File
	header     Header
	dataOffset int64
}

// NewReader opens a SafeTensors file and parses its header.
func NewReader(path string) (*Reader, error) {
	//nolint:gosec // G304: opens a caller-supplied path
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	var headerSize uint64
	if err := binary.Read(file, binary.LittleEndian, &headerSize); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > maxHeaderSize {
		_ = file.Close()
		return nil, fmt.Errorf("invalid header size: %d (too large)", headerSize)
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(file, headerBytes); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var header Header
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	return &Reader{
		file:       file,
		header:     header,
		dataOffset: int64(8 + headerSize), //nolint:gosec // G115: file sizes fit in int64
	}, nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// Metadata returns the "__metadata__" map from the header, or nil.
func (r *Reader) Metadata() map[string]string {
	return r.header.Metadata
}

// TensorNames returns the names of all tensors in the file.
func (r *Reader) TensorNames() []string {
	names := make([]string, 0, len(r.header.Tensors))
	for name := range r.header.Tensors {
		names = append(names, name)
	}
	return names
}

// TensorInfo returns header information for one tensor.
func (r *Reader) TensorInfo(name string) (*TensorInfo, error) {
	info, ok := r.header.Tensors[name]
	if !ok {
		return nil, fmt.Errorf("tensor %s not found", name)
	}
	return &info, nil
}

// LoadTensor reads one tensor into a RawTensor on the given device.
func (r *Reader) LoadTensor(name string, device tensor.Device) (*tensor.RawTensor, error) {
	info, ok := r.header.Tensors[name]
	if !ok {
		return nil, fmt.Errorf("tensor %s not found", name)
	}

	dtype, err := toDataType(info.DType)
	if err != nil {
		return nil, fmt.Errorf("tensor %s: %w", name, err)
	}

	shape := tensor.Shape(info.Shape)
	raw, err := tensor.NewRaw(shape, dtype, device)
	if err != nil {
		return nil, fmt.Errorf("tensor %s: %w", name, err)
	}

	start, end := info.DataOffsets[0], info.DataOffsets[1]
	expected := int64(shape.NumElements() * dtype.Size())
	if end-start != expected {
		return nil, fmt.Errorf("tensor %s: data size %d does not match shape %v (%d bytes)",
			name, end-start, shape, expected)
	}

	if _, err := r.file.ReadAt(raw.Data(), r.dataOffset+start); err != nil {
		return nil, fmt.Errorf("tensor %s: failed to read data: %w", name, err)
	}
	return raw, nil
}

// LoadAll reads every tensor in the file, keyed by name.
func (r *Reader) LoadAll(device tensor.Device) (map[string]*tensor.RawTensor, error) {
	tensors := make(map[string]*tensor.RawTensor, len(r.header.Tensors))
	for name := range r.header.Tensors {
		raw, err := r.LoadTensor(name, device)
		if err != nil {
			return nil, err
		}
		tensors[name] = raw
	}
	return tensors, nil
}

// Load is a convenience that opens a file, reads every tensor, and closes it.
func Load(path string, device tensor.Device) (map[string]*tensor.RawTensor, error) {
	reader, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return reader.LoadAll(device)
}

func toDataType(dt DTypeName) (tensor.DataType, error) {
	switch dt {
	case DTypeF32:
		return tensor.Float32, nil
	case DTypeI32:
		return tensor.Int32, nil
	case DTypeU8:
		return tensor.Uint8, nil
	default:
		return 0, fmt.Errorf("unsupported dtype %q", dt)
	}
}

func toDTypeName(dt tensor.DataType) (DTypeName, error) {
	switch dt {
	case tensor.Float32:
		return DTypeF32, nil
	case tensor.Int32:
		return DTypeI32, nil
	case tensor.Uint8:
		return DTypeU8, nil
	default:
		return "", fmt.Errorf("unsupported dtype %v", dt)
	}
}
