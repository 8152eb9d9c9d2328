package convert

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/juliusgh/TensorRT/internal/totrt"
	"github.com/juliusgh/TensorRT/torchir"
	"github.com/juliusgh/TensorRT/trt"
)

// tensorOrConstant returns the operand's network tensor, materializing a
// constant-tensor literal as a constant layer when the operand was folded by
// the tracer. name is used to label the created layer.
func tensorOrConstant(ctx *ConversionCtx, a Arg, name string) (*trt.Tensor, error) {
	if a.IsTensor() {
		return a.Tensor()
	}
	iv, err := a.IValue()
	if err != nil {
		return nil, err
	}
	dims, values, err := iv.Tensor()
	if err != nil {
		return nil, errors.WithMessagef(err, "operand %s cannot be used as a tensor", a.Value().Name())
	}
	layer := ctx.Net.AddConstant(totrt.ToDims(dims), trt.WeightsFromFloat32(trt.DataTypeFloat, values...))
	layer.SetName(name)
	return layer.Output(0), nil
}

// expandLeftToRank left-pads the tensor's shape with 1-sized axes, via a
// shuffle layer, until it has the target rank. Tensors already at the target
// rank are returned unchanged.
func expandLeftToRank(ctx *ConversionCtx, n *torchir.Node, tensor *trt.Tensor, rank int) (*trt.Tensor, error) {
	shape := totrt.ToVec(tensor.Dimensions())
	if len(shape) >= rank {
		return tensor, nil
	}
	padded := make([]int64, rank-len(shape), rank)
	for axis := range padded {
		padded[axis] = 1
	}
	padded = append(padded, shape...)
	shuffle := ctx.Net.AddShuffle(tensor)
	if shuffle == nil {
		return nil, errors.Errorf("unable to create shuffle layer from node %s", n)
	}
	shuffle.SetReshapeDimensions(totrt.ToDims(padded))
	shuffle.SetName(fmt.Sprintf("%s [Expand to %s]", n, totrt.ToDims(padded)))
	return shuffle.Output(0), nil
}
