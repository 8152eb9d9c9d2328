package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juliusgh/TensorRT/torchir"
	"github.com/juliusgh/TensorRT/trt"
)

const matmulSchema = "aten::matmul(Tensor self, Tensor other) -> (Tensor)"

// lowerMatmul lowers a single aten::matmul over two graph inputs of the given
// shapes and returns the context plus the declared output dims.
func lowerMatmul(t *testing.T, selfShape, otherShape []int64) (*ConversionCtx, trt.Dims, error) {
	t.Helper()
	g := torchir.NewGraph()
	a := g.AddInput("a")
	b := g.AddInput("b")
	n := g.AppendNode(matmulSchema, a, b)

	net := trt.NewNetwork()
	ctx := NewConversionCtx(net)
	ctx.AssociateValueAndTensor(a, net.AddInput("a", trt.DataTypeFloat, trt.MakeDims(selfShape...)))
	ctx.AssociateValueAndTensor(b, net.AddInput("b", trt.DataTypeFloat, trt.MakeDims(otherShape...)))
	err := convertNode(ctx, n)
	if err != nil {
		return ctx, trt.Dims{}, err
	}
	out, err := ctx.Lookup(n.Output(0))
	require.NoError(t, err)
	return ctx, out.Dimensions(), nil
}

func TestMatmul(t *testing.T) {
	ctx, dims, err := lowerMatmul(t, []int64{2, 3}, []int64{3, 4})
	require.NoError(t, err)
	assert.Equal(t, trt.MakeDims(2, 4), dims)
	assert.Equal(t, 1, ctx.Net.NumLayers())

	// Vector x matrix: the contraction axis disappears from the output.
	_, dims, err = lowerMatmul(t, []int64{3}, []int64{3, 4})
	require.NoError(t, err)
	assert.Equal(t, trt.MakeDims(4), dims)

	// Matrix x vector with batched lhs: the rhs is padded to align batches.
	ctx, dims, err = lowerMatmul(t, []int64{2, 3, 4}, []int64{4})
	require.NoError(t, err)
	assert.Equal(t, trt.MakeDims(2, 3), dims)
	assert.Equal(t, 2, ctx.Net.NumLayers(), "pad shuffle + matrix multiply")

	// Batched broadcast.
	_, dims, err = lowerMatmul(t, []int64{5, 2, 3}, []int64{3, 4})
	require.NoError(t, err)
	assert.Equal(t, trt.MakeDims(5, 2, 4), dims)
}

func TestMatmulContractionMismatch(t *testing.T) {
	_, _, err := lowerMatmul(t, []int64{2, 3}, []int64{4, 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contraction mismatch")
}

func TestMatmulConstantOperand(t *testing.T) {
	// A tracer-folded constant rhs is materialized as a constant layer.
	g := torchir.NewGraph()
	a := g.AddInput("a")
	w := g.Constant(torchir.TensorValue([]int64{3, 4}, make([]float32, 12)))
	n := g.AppendNode(matmulSchema, a, w)

	net := trt.NewNetwork()
	ctx := NewConversionCtx(net)
	ctx.AssociateValueAndTensor(a, net.AddInput("a", trt.DataTypeFloat, trt.MakeDims(2, 3)))
	require.NoError(t, convertNode(ctx, n))

	out, err := ctx.Lookup(n.Output(0))
	require.NoError(t, err)
	assert.Equal(t, trt.MakeDims(2, 4), out.Dimensions())
	_, ok := ctx.Net.Layers()[0].(*trt.ConstantLayer)
	assert.True(t, ok)
}

func TestMatmulNonTensorLiteralOperand(t *testing.T) {
	g := torchir.NewGraph()
	a := g.AddInput("a")
	bad := g.Constant(torchir.IntValue(7))
	n := g.AppendNode(matmulSchema, a, bad)

	net := trt.NewNetwork()
	ctx := NewConversionCtx(net)
	ctx.AssociateValueAndTensor(a, net.AddInput("a", trt.DataTypeFloat, trt.MakeDims(2, 3)))
	err := convertNode(ctx, n)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be used as a tensor")
}
