// Package trt implements the network-definition API of the inference engine:
// a mutable builder that accumulates typed layers (shuffle, resize, matrix
// multiply, element-wise, constant) over statically-shaped tensors.
//
//   - Network: the builder, created empty and populated one layer at a time.
//   - Tensor: a named, typed handle with explicit dimensions, produced either
//     by Network.AddInput or as a layer output.
//   - Dims: explicit-rank dimension vector, capped at MaxRank.
//
// The builder only propagates declared shapes; executing the resulting graph
// is out of scope for this package.
package trt

import (
	"github.com/gomlx/exceptions"
	"github.com/x448/float16"
)

// DataType is the element type of a Tensor or Weights.
type DataType int

const (
	DataTypeFloat DataType = iota
	DataTypeHalf
	DataTypeInt8
	DataTypeInt32
	DataTypeBool
)

// String returns a human-readable name for the data type.
func (d DataType) String() string {
	switch d {
	case DataTypeFloat:
		return "float32"
	case DataTypeHalf:
		return "float16"
	case DataTypeInt8:
		return "int8"
	case DataTypeInt32:
		return "int32"
	case DataTypeBool:
		return "bool"
	default:
		return "invalid"
	}
}

// Weights holds a constant payload for a ConstantLayer.
// Half-precision weights are stored encoded; Float32s decodes them back.
type Weights struct {
	dtype DataType
	f32   []float32
	f16   []float16.Float16
}

// WeightsFromFloat32 builds Weights of the given data type from float32 values.
// Only DataTypeFloat and DataTypeHalf payloads are supported.
func WeightsFromFloat32(dtype DataType, values ...float32) Weights {
	w := Weights{dtype: dtype}
	switch dtype {
	case DataTypeFloat:
		w.f32 = values
	case DataTypeHalf:
		w.f16 = make([]float16.Float16, len(values))
		for ii, v := range values {
			w.f16[ii] = float16.Fromfloat32(v)
		}
	default:
		exceptions.Panicf("trt.WeightsFromFloat32: unsupported weights data type %s", dtype)
	}
	return w
}

// DataType returns the element type of the weights.
func (w Weights) DataType() DataType { return w.dtype }

// Count returns the number of elements in the weights.
func (w Weights) Count() int64 {
	if w.dtype == DataTypeHalf {
		return int64(len(w.f16))
	}
	return int64(len(w.f32))
}

// Float32s returns the weights as float32 values, decoding half-precision
// payloads if needed.
func (w Weights) Float32s() []float32 {
	if w.dtype != DataTypeHalf {
		return w.f32
	}
	values := make([]float32, len(w.f16))
	for ii, v := range w.f16 {
		values[ii] = v.Float32()
	}
	return values
}

// Tensor is a handle to a value flowing through the network: either a network
// input or the output of a layer. Its dimensions are fully static.
type Tensor struct {
	name  string
	dtype DataType
	dims  Dims
}

// Name returns the tensor name.
func (t *Tensor) Name() string { return t.name }

// SetName renames the tensor.
func (t *Tensor) SetName(name string) { t.name = name }

// DataType returns the element type of the tensor.
func (t *Tensor) DataType() DataType { return t.dtype }

// Dimensions returns the declared shape of the tensor.
func (t *Tensor) Dimensions() Dims { return t.dims }
