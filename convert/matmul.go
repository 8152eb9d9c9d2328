package convert

import (
	"github.com/pkg/errors"

	"github.com/juliusgh/TensorRT/torchir"
	"github.com/juliusgh/TensorRT/trt"
)

func init() {
	RegisterConversionPatterns(
		Pattern{
			Schema:    "aten::matmul(Tensor self, Tensor other) -> (Tensor)",
			Converter: convertMatmul,
		},
	)
}

// convertMatmul lowers aten::matmul. Rank-1 operands are contracted as
// vectors (no row/column axis in the output); otherwise the operands are
// left-padded with 1-sized axes until their batch ranks line up, following
// the engine's requirement that both matrix operands have equal rank.
func convertMatmul(ctx *ConversionCtx, n *torchir.Node, args []Arg) error {
	self, err := tensorOrConstant(ctx, args[0], n.String()+" [self]")
	if err != nil {
		return err
	}
	other, err := tensorOrConstant(ctx, args[1], n.String()+" [other]")
	if err != nil {
		return err
	}

	presetDiff := 0
	opSelf := trt.MatrixOperationNone
	opOther := trt.MatrixOperationNone
	if self.Dimensions().Rank() == 1 {
		presetDiff--
		opSelf = trt.MatrixOperationVector
	}
	if other.Dimensions().Rank() == 1 {
		presetDiff++
		opOther = trt.MatrixOperationVector
	}

	// Align ranks so the batch axes match up: after padding,
	// rank(self) - rank(other) must equal presetDiff.
	diff := self.Dimensions().Rank() - other.Dimensions().Rank()
	if diff < presetDiff {
		self, err = expandLeftToRank(ctx, n, self, other.Dimensions().Rank()+presetDiff)
	} else if diff > presetDiff {
		other, err = expandLeftToRank(ctx, n, other, self.Dimensions().Rank()-presetDiff)
	}
	if err != nil {
		return err
	}

	layer := ctx.Net.AddMatrixMultiply(self, opSelf, other, opOther)
	if layer == nil {
		return errors.Errorf("unable to create matrix multiply layer from node %s", n)
	}
	layer.SetName(n.String())
	ctx.AssociateValueAndTensor(n.Output(0), layer.Output(0))
	return nil
}
