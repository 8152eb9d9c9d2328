package convert

import (
	"github.com/pkg/errors"

	"github.com/juliusgh/TensorRT/internal/totrt"
	"github.com/juliusgh/TensorRT/torchir"
)

func init() {
	RegisterConversionPatterns(
		Pattern{
			Schema:    "aten::reshape(Tensor self, int[] shape) -> (Tensor)",
			Converter: convertReshape,
		},
		Pattern{
			Schema:    "aten::flatten.using_ints(Tensor self, int start_dim=0, int end_dim=-1) -> (Tensor)",
			Converter: convertFlatten,
		},
	)
}

// convertReshape lowers aten::reshape. At most one target entry may be the -1
// wildcard, which is resolved from the input element count before the shuffle
// layer is built (the engine only accepts fully static dimensions).
func convertReshape(ctx *ConversionCtx, n *torchir.Node, args []Arg) error {
	in, err := args[0].Tensor()
	if err != nil {
		return err
	}
	target, err := args[1].UnwrapIntList()
	if err != nil {
		return errors.WithMessagef(err, "unwrapping shape of %s", n)
	}

	volume := in.Dimensions().Volume()
	wildcard := -1
	known := int64(1)
	for axis, dim := range target {
		switch {
		case dim == -1 && wildcard == -1:
			wildcard = axis
		case dim == -1:
			return errors.Errorf("%s: only one dimension of shape %v may be -1", n.Kind(), target)
		case dim < 0:
			return errors.Errorf("%s: invalid dimension %d in shape %v", n.Kind(), dim, target)
		default:
			known *= dim
		}
	}
	outShape := make([]int64, len(target))
	copy(outShape, target)
	if wildcard >= 0 {
		if known == 0 || volume%known != 0 {
			return errors.Errorf("%s: cannot infer wildcard dimension of shape %v for %d elements", n.Kind(), target, volume)
		}
		outShape[wildcard] = volume / known
	} else if known != volume {
		return errors.Errorf("%s: shape %v does not match input element count %d", n.Kind(), target, volume)
	}

	shuffle := ctx.Net.AddShuffle(in)
	if shuffle == nil {
		return errors.Errorf("unable to create shuffle layer from node %s", n)
	}
	shuffle.SetReshapeDimensions(totrt.ToDims(outShape))
	shuffle.SetName(n.String())
	ctx.AssociateValueAndTensor(n.Output(0), shuffle.Output(0))
	return nil
}

// convertFlatten lowers aten::flatten, collapsing the axes from start_dim to
// end_dim (inclusive, negatives counted from the back) into one.
func convertFlatten(ctx *ConversionCtx, n *torchir.Node, args []Arg) error {
	in, err := args[0].Tensor()
	if err != nil {
		return err
	}
	inShape := totrt.ToVec(in.Dimensions())
	rank := len(inShape)

	start, err := unwrapInt(args[1], n, "start_dim")
	if err != nil {
		return err
	}
	end, err := unwrapInt(args[2], n, "end_dim")
	if err != nil {
		return err
	}
	if start < 0 {
		start += rank
	}
	if end < 0 {
		end += rank
	}
	if start < 0 || end >= rank || start > end {
		return errors.Errorf("%s: invalid flatten range [%d, %d] for input of rank %d", n.Kind(), start, end, rank)
	}

	outShape := make([]int64, 0, rank)
	outShape = append(outShape, inShape[:start]...)
	collapsed := int64(1)
	for axis := start; axis <= end; axis++ {
		collapsed *= inShape[axis]
	}
	outShape = append(outShape, collapsed)
	outShape = append(outShape, inShape[end+1:]...)

	shuffle := ctx.Net.AddShuffle(in)
	if shuffle == nil {
		return errors.Errorf("unable to create shuffle layer from node %s", n)
	}
	shuffle.SetReshapeDimensions(totrt.ToDims(outShape))
	shuffle.SetName(n.String())
	ctx.AssociateValueAndTensor(n.Output(0), shuffle.Output(0))
	return nil
}

func unwrapInt(a Arg, n *torchir.Node, param string) (int, error) {
	iv, err := a.IValue()
	if err != nil {
		return 0, errors.WithMessagef(err, "unwrapping %s of %s", param, n)
	}
	v, err := iv.Int()
	if err != nil {
		return 0, errors.WithMessagef(err, "unwrapping %s of %s", param, n)
	}
	return int(v), nil
}
