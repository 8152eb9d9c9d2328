package trt

import (
	"fmt"

	"github.com/gomlx/exceptions"
)

// Network is the mutable network-definition builder. Layers are appended one
// at a time; tensors returned by AddInput or Layer.Output chain layers
// together. A Network is not safe for concurrent mutation.
type Network struct {
	inputs  []*Tensor
	layers  []Layer
	outputs []*Tensor
}

// NewNetwork returns an empty network definition.
func NewNetwork() *Network {
	return &Network{}
}

// AddInput declares a network input tensor with the given name, element type
// and dimensions.
func (n *Network) AddInput(name string, dtype DataType, dims Dims) *Tensor {
	t := &Tensor{name: name, dtype: dtype, dims: dims}
	n.inputs = append(n.inputs, t)
	return t
}

// AddShuffle appends a shuffle (reshape) layer on the given input.
// Returns nil if the input tensor is nil.
func (n *Network) AddShuffle(input *Tensor) *ShuffleLayer {
	if input == nil {
		return nil
	}
	l := &ShuffleLayer{baseLayer: n.newBaseLayer("shuffle", input)}
	n.layers = append(n.layers, l)
	return l
}

// AddResize appends a resize layer on the given input.
// Returns nil if the input tensor is nil.
func (n *Network) AddResize(input *Tensor) *ResizeLayer {
	if input == nil {
		return nil
	}
	l := &ResizeLayer{baseLayer: n.newBaseLayer("resize", input)}
	n.layers = append(n.layers, l)
	return l
}

// AddMatrixMultiply appends a matrix-multiply layer over the two inputs, with
// per-operand matrix operations. Returns nil if either input tensor is nil.
func (n *Network) AddMatrixMultiply(a *Tensor, opA MatrixOperation, b *Tensor, opB MatrixOperation) *MatrixMultiplyLayer {
	if a == nil || b == nil {
		return nil
	}
	l := &MatrixMultiplyLayer{
		baseLayer: n.newBaseLayer("matrix_multiply", a, b),
		opA:       opA,
		opB:       opB,
	}
	l.outputs[0].dims = matmulOutputDims(l.name, a.Dimensions(), opA, b.Dimensions(), opB)
	n.layers = append(n.layers, l)
	return l
}

// AddElementWise appends an element-wise binary layer over the two inputs.
// Returns nil if either input tensor is nil.
func (n *Network) AddElementWise(a, b *Tensor, op ElementWiseOperation) *ElementWiseLayer {
	if a == nil || b == nil {
		return nil
	}
	l := &ElementWiseLayer{
		baseLayer: n.newBaseLayer("element_wise", a, b),
		op:        op,
	}
	l.outputs[0].dims = elementWiseOutputDims(l.name, a.Dimensions(), b.Dimensions())
	n.layers = append(n.layers, l)
	return l
}

// AddConstant appends a constant layer materializing the given weights with
// the given dimensions. The weights count must match the dimensions volume.
func (n *Network) AddConstant(dims Dims, weights Weights) *ConstantLayer {
	if weights.Count() != dims.Volume() {
		exceptions.Panicf("trt: constant of %d weight(s) does not fill dimensions %s (%d elements)",
			weights.Count(), dims, dims.Volume())
	}
	l := &ConstantLayer{
		baseLayer: baseLayer{name: fmt.Sprintf("constant_%d", len(n.layers))},
		weights:   weights,
	}
	l.outputs = []*Tensor{{name: l.name + "_output", dtype: weights.DataType(), dims: dims}}
	n.layers = append(n.layers, l)
	return l
}

// MarkOutput marks the given tensor as a network output.
func (n *Network) MarkOutput(t *Tensor) {
	if t == nil {
		exceptions.Panicf("trt: cannot mark a nil tensor as network output")
	}
	n.outputs = append(n.outputs, t)
}

// Inputs returns the declared network inputs.
func (n *Network) Inputs() []*Tensor { return n.inputs }

// Outputs returns the tensors marked as network outputs.
func (n *Network) Outputs() []*Tensor { return n.outputs }

// Layers returns the layers in insertion order.
func (n *Network) Layers() []Layer { return n.layers }

// NumLayers returns the number of layers added so far.
func (n *Network) NumLayers() int { return len(n.layers) }

// newBaseLayer builds the shared layer state: a default name, the input
// tensors and one output tensor inheriting the first input's element type and
// dimensions.
func (n *Network) newBaseLayer(kind string, inputs ...*Tensor) baseLayer {
	name := fmt.Sprintf("%s_%d", kind, len(n.layers))
	out := &Tensor{
		name:  name + "_output",
		dtype: inputs[0].dtype,
		dims:  inputs[0].dims,
	}
	return baseLayer{name: name, inputs: inputs, outputs: []*Tensor{out}}
}
