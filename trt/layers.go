package trt

import (
	"github.com/chewxy/math32"
	"github.com/gomlx/exceptions"
)

// Layer is one operation node in the network graph.
type Layer interface {
	// Name returns the diagnostic name of the layer.
	Name() string
	// SetName sets the diagnostic name of the layer.
	SetName(name string)
	// NumOutputs returns the number of output tensors of the layer.
	NumOutputs() int
	// Output returns the index-th output tensor of the layer.
	Output(index int) *Tensor
}

type baseLayer struct {
	name    string
	inputs  []*Tensor
	outputs []*Tensor
}

func (l *baseLayer) Name() string        { return l.name }
func (l *baseLayer) SetName(name string) { l.name = name }
func (l *baseLayer) NumOutputs() int     { return len(l.outputs) }

func (l *baseLayer) Output(index int) *Tensor {
	if index < 0 || index >= len(l.outputs) {
		exceptions.Panicf("trt: layer %q has %d output(s), requested output #%d", l.name, len(l.outputs), index)
	}
	return l.outputs[index]
}

// ShuffleLayer reinterprets its input tensor with new dimensions.
// Until SetReshapeDimensions is called it behaves as an identity.
type ShuffleLayer struct {
	baseLayer
}

// SetReshapeDimensions sets the target dimensions of the shuffle.
// The target must describe the same number of elements as the input; anything
// else is a builder-misuse fault and panics.
func (l *ShuffleLayer) SetReshapeDimensions(dims Dims) {
	in := l.inputs[0]
	if dims.Volume() != in.Dimensions().Volume() {
		exceptions.Panicf("trt: shuffle %q cannot reshape %s (%d elements) to %s (%d elements)",
			l.name, in.Dimensions(), in.Dimensions().Volume(), dims, dims.Volume())
	}
	l.outputs[0].dims = dims
}

// ResizeMode selects the interpolation algorithm of a ResizeLayer.
type ResizeMode int

const (
	ResizeNearest ResizeMode = iota
	ResizeLinear
)

// String returns a human-readable name for the resize mode.
func (m ResizeMode) String() string {
	switch m {
	case ResizeNearest:
		return "nearest"
	case ResizeLinear:
		return "linear"
	default:
		return "invalid"
	}
}

// ResizeLayer resizes its input tensor to new dimensions, either given
// explicitly (SetOutputDimensions) or as per-axis scale factors (SetScales).
type ResizeLayer struct {
	baseLayer
	mode ResizeMode
}

// SetOutputDimensions sets the explicit target dimensions of the resize.
// The target rank must match the input rank.
func (l *ResizeLayer) SetOutputDimensions(dims Dims) {
	in := l.inputs[0]
	if dims.Rank() != in.Dimensions().Rank() {
		exceptions.Panicf("trt: resize %q output rank %d does not match input rank %d",
			l.name, dims.Rank(), in.Dimensions().Rank())
	}
	l.outputs[0].dims = dims
}

// SetScales sets per-axis scale factors; the target dimension of each axis is
// floor(inputDim * scale). One scale per input axis is required.
func (l *ResizeLayer) SetScales(scales ...float32) {
	in := l.inputs[0]
	rank := in.Dimensions().Rank()
	if len(scales) != rank {
		exceptions.Panicf("trt: resize %q got %d scales for input of rank %d", l.name, len(scales), rank)
	}
	dims := make([]int64, rank)
	for axis := 0; axis < rank; axis++ {
		dims[axis] = int64(math32.Floor(float32(in.Dimensions().Dim(axis)) * scales[axis]))
	}
	l.outputs[0].dims = MakeDims(dims...)
}

// SetResizeMode selects the interpolation algorithm.
func (l *ResizeLayer) SetResizeMode(mode ResizeMode) { l.mode = mode }

// Mode returns the selected interpolation algorithm.
func (l *ResizeLayer) Mode() ResizeMode { return l.mode }

// MatrixOperation modifies how a MatrixMultiplyLayer operand is interpreted.
type MatrixOperation int

const (
	// MatrixOperationNone uses the operand as a (batched) matrix.
	MatrixOperationNone MatrixOperation = iota
	// MatrixOperationTranspose transposes the two trailing axes of the operand.
	MatrixOperationTranspose
	// MatrixOperationVector treats the trailing axis of the operand as a vector
	// to be contracted, without a row (lhs) or column (rhs) axis in the output.
	MatrixOperationVector
)

// MatrixMultiplyLayer computes a (batched) matrix product of its two inputs.
type MatrixMultiplyLayer struct {
	baseLayer
	opA, opB MatrixOperation
}

// matmulOutputDims infers the declared output shape of a matrix multiply.
// Batch axes (all axes before the matrix part) must have equal rank on both
// operands and broadcast element-wise.
func matmulOutputDims(name string, a Dims, opA MatrixOperation, b Dims, opB MatrixOperation) Dims {
	aDims := dimsSlice(a)
	bDims := dimsSlice(b)
	if opA == MatrixOperationTranspose {
		swapTrailing(aDims)
	}
	if opB == MatrixOperationTranspose {
		swapTrailing(bDims)
	}

	var aBatch, bBatch []int64
	var rows, aK, bK, cols int64
	hasRows := opA != MatrixOperationVector
	hasCols := opB != MatrixOperationVector
	if hasRows {
		if len(aDims) < 2 {
			exceptions.Panicf("trt: matrix multiply %q lhs %s needs rank >= 2", name, a)
		}
		aBatch, rows, aK = aDims[:len(aDims)-2], aDims[len(aDims)-2], aDims[len(aDims)-1]
	} else {
		if len(aDims) < 1 {
			exceptions.Panicf("trt: matrix multiply %q lhs %s needs rank >= 1", name, a)
		}
		aBatch, aK = aDims[:len(aDims)-1], aDims[len(aDims)-1]
	}
	if hasCols {
		if len(bDims) < 2 {
			exceptions.Panicf("trt: matrix multiply %q rhs %s needs rank >= 2", name, b)
		}
		bBatch, bK, cols = bDims[:len(bDims)-2], bDims[len(bDims)-2], bDims[len(bDims)-1]
	} else {
		if len(bDims) < 1 {
			exceptions.Panicf("trt: matrix multiply %q rhs %s needs rank >= 1", name, b)
		}
		bBatch, bK = bDims[:len(bDims)-1], bDims[len(bDims)-1]
	}
	if aK != bK {
		exceptions.Panicf("trt: matrix multiply %q contraction mismatch: lhs %s x rhs %s", name, a, b)
	}
	if len(aBatch) != len(bBatch) {
		exceptions.Panicf("trt: matrix multiply %q batch ranks differ: lhs %s vs rhs %s", name, a, b)
	}

	out := make([]int64, 0, len(aBatch)+2)
	for axis := range aBatch {
		switch {
		case aBatch[axis] == bBatch[axis] || bBatch[axis] == 1:
			out = append(out, aBatch[axis])
		case aBatch[axis] == 1:
			out = append(out, bBatch[axis])
		default:
			exceptions.Panicf("trt: matrix multiply %q batch axis #%d does not broadcast: lhs %s vs rhs %s",
				name, axis, a, b)
		}
	}
	if hasRows {
		out = append(out, rows)
	}
	if hasCols {
		out = append(out, cols)
	}
	return MakeDims(out...)
}

// ElementWiseOperation selects the binary operation of an ElementWiseLayer.
type ElementWiseOperation int

const (
	ElementWiseSum ElementWiseOperation = iota
	ElementWiseProd
)

// ElementWiseLayer applies a binary operation to two tensors of equal rank,
// broadcasting axes of size 1.
type ElementWiseLayer struct {
	baseLayer
	op ElementWiseOperation
}

func elementWiseOutputDims(name string, a, b Dims) Dims {
	if a.Rank() != b.Rank() {
		exceptions.Panicf("trt: element-wise %q operand ranks differ: %s vs %s", name, a, b)
	}
	out := make([]int64, a.Rank())
	for axis := range out {
		switch {
		case a.Dim(axis) == b.Dim(axis) || b.Dim(axis) == 1:
			out[axis] = a.Dim(axis)
		case a.Dim(axis) == 1:
			out[axis] = b.Dim(axis)
		default:
			exceptions.Panicf("trt: element-wise %q axis #%d does not broadcast: %s vs %s", name, axis, a, b)
		}
	}
	return MakeDims(out...)
}

// ConstantLayer materializes a Weights payload as a tensor.
type ConstantLayer struct {
	baseLayer
	weights Weights
}

// Weights returns the constant payload of the layer.
func (l *ConstantLayer) Weights() Weights { return l.weights }

func dimsSlice(d Dims) []int64 {
	out := make([]int64, d.Rank())
	for axis := range out {
		out[axis] = d.Dim(axis)
	}
	return out
}

func swapTrailing(dims []int64) {
	if len(dims) < 2 {
		exceptions.Panicf("trt: cannot transpose operand of rank %d", len(dims))
	}
	dims[len(dims)-2], dims[len(dims)-1] = dims[len(dims)-1], dims[len(dims)-2]
}
