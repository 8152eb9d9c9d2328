package convert

import (
	"github.com/pkg/errors"

	"github.com/juliusgh/TensorRT/torchir"
	"github.com/juliusgh/TensorRT/trt"
)

func init() {
	RegisterConversionPatterns(
		Pattern{
			Schema: "aten::add.Tensor(Tensor self, Tensor other, Scalar alpha=1) -> (Tensor)",
			Converter: func(ctx *ConversionCtx, n *torchir.Node, args []Arg) error {
				one, err := scalarIsOne(args[2])
				if err != nil {
					return errors.WithMessagef(err, "unwrapping alpha of %s", n)
				}
				if !one {
					return errors.Errorf("%s: alpha != 1 is not supported", n.Kind())
				}
				return convertElementWise(ctx, n, args, trt.ElementWiseSum)
			},
		},
		Pattern{
			Schema: "aten::mul.Tensor(Tensor self, Tensor other) -> (Tensor)",
			Converter: func(ctx *ConversionCtx, n *torchir.Node, args []Arg) error {
				return convertElementWise(ctx, n, args, trt.ElementWiseProd)
			},
		},
	)
}

// convertElementWise lowers a binary element-wise operator. Operands are
// left-padded to a common rank first; the engine broadcasts 1-sized axes.
func convertElementWise(ctx *ConversionCtx, n *torchir.Node, args []Arg, op trt.ElementWiseOperation) error {
	self, err := tensorOrConstant(ctx, args[0], n.String()+" [self]")
	if err != nil {
		return err
	}
	other, err := tensorOrConstant(ctx, args[1], n.String()+" [other]")
	if err != nil {
		return err
	}

	rank := max(self.Dimensions().Rank(), other.Dimensions().Rank())
	self, err = expandLeftToRank(ctx, n, self, rank)
	if err != nil {
		return err
	}
	other, err = expandLeftToRank(ctx, n, other, rank)
	if err != nil {
		return err
	}

	layer := ctx.Net.AddElementWise(self, other, op)
	if layer == nil {
		return errors.Errorf("unable to create element-wise layer from node %s", n)
	}
	layer.SetName(n.String())
	ctx.AssociateValueAndTensor(n.Output(0), layer.Output(0))
	return nil
}

// scalarIsOne reports whether a Scalar literal equals 1 (int or float).
func scalarIsOne(a Arg) (bool, error) {
	iv, err := a.IValue()
	if err != nil {
		return false, err
	}
	switch iv.Kind() {
	case torchir.KindInt:
		v, _ := iv.Int()
		return v == 1, nil
	case torchir.KindDouble:
		v, _ := iv.Double()
		return v == 1.0, nil
	default:
		return false, errors.Errorf("Scalar literal has kind %s", iv.Kind())
	}
}
