package convert

import (
	"fmt"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/juliusgh/TensorRT/internal/totrt"
	"github.com/juliusgh/TensorRT/torchir"
	"github.com/juliusgh/TensorRT/trt"
)

// Nearest-neighbor upsampling family.
//
// Each operator offers two mutually exclusive parameter modes: an explicit
// output_size list, or one scale factor per spatial dimension. Only the
// explicit-size mode is lowered; a scale-factor request is logged and the
// node is skipped without an output association (so a downstream consumer
// fails with an unresolved dependency rather than an unsupported-feature
// error -- longstanding behavior, kept as is).

func init() {
	RegisterConversionPatterns(
		Pattern{
			Schema:    "aten::upsample_nearest1d(Tensor self, int[1] output_size, float? scales=None) -> (Tensor)",
			Converter: convertUpsampleNearest1D,
		},
		Pattern{
			Schema:    "aten::upsample_nearest2d(Tensor self, int[2] output_size, float? scales_h=None, float? scales_w=None) -> (Tensor)",
			Converter: convertUpsampleNearest2D,
		},
		Pattern{
			Schema:    "aten::upsample_nearest3d(Tensor self, int[3] output_size, float? scales_d=None, float? scales_h=None, float? scales_w=None) -> (Tensor)",
			Converter: convertUpsampleNearest3D,
		},
	)
}

func convertUpsampleNearest1D(ctx *ConversionCtx, n *torchir.Node, args []Arg) error {
	in, err := args[0].Tensor()
	if err != nil {
		return err
	}
	inShape := totrt.ToVec(in.Dimensions())

	// Remove the leading dimension the engine materializes automatically.
	in, inShape, err = reconcileLeadingDim(ctx, n, in, inShape)
	if err != nil {
		return err
	}

	// Case 1: user gave output_size and not scales.
	if !args[1].IsNone() && args[2].IsNone() {
		return resizeNearest(ctx, n, in, inShape, args[1], 1)
	}
	klog.V(2).Infof("%s: scale factor parameter not supported yet, skipping node", n.Kind())
	return nil
}

func convertUpsampleNearest2D(ctx *ConversionCtx, n *torchir.Node, args []Arg) error {
	in, err := args[0].Tensor()
	if err != nil {
		return err
	}
	inShape := totrt.ToVec(in.Dimensions())

	// Case 1: user gave output_size and not scales_h, scales_w.
	if !args[1].IsNone() && args[2].IsNone() && args[3].IsNone() {
		return resizeNearest(ctx, n, in, inShape, args[1], 2)
	}
	klog.V(2).Infof("%s: scale factor parameters not supported yet, skipping node", n.Kind())
	return nil
}

func convertUpsampleNearest3D(ctx *ConversionCtx, n *torchir.Node, args []Arg) error {
	in, err := args[0].Tensor()
	if err != nil {
		return err
	}
	inShape := totrt.ToVec(in.Dimensions())

	// Case 1: user gave output_size and not scales_d, scales_h, scales_w.
	if !args[1].IsNone() && args[2].IsNone() && args[3].IsNone() && args[4].IsNone() {
		return resizeNearest(ctx, n, in, inShape, args[1], 3)
	}
	klog.V(2).Infof("%s: scale factor parameters not supported yet, skipping node", n.Kind())
	return nil
}

// reconcileLeadingDim strips the implicit leading (batch) dimension the
// engine carries but the IR operator does not model: if the engine-observed
// rank is >= 4, the first dimension is removed and the tensor rebuilt through
// a shuffle layer. Lower ranks pass through unchanged.
//
// Only the 1-D converter calls this; whether the 2-D/3-D variants should too
// is an open question inherited from the reference behavior.
func reconcileLeadingDim(ctx *ConversionCtx, n *torchir.Node, in *trt.Tensor, inShape []int64) (*trt.Tensor, []int64, error) {
	if len(inShape) < 4 {
		return in, inShape, nil
	}
	stripped := inShape[1:]
	shuffle := ctx.Net.AddShuffle(in)
	if shuffle == nil {
		return nil, nil, errors.Errorf("unable to create shuffle layer from node %s", n)
	}
	shuffle.SetReshapeDimensions(totrt.ToDims(stripped))
	shuffle.SetName(fmt.Sprintf("%s [Reshape to %s]", n, totrt.ToDims(stripped)))
	return shuffle.Output(0), stripped, nil
}

// resizeNearest emits the resize layer for one upsample_nearest node: the
// output shape is the input shape with its trailing rank entries overwritten
// by the unwrapped output_size list, leading entries carried through
// unchanged.
func resizeNearest(ctx *ConversionCtx, n *torchir.Node, in *trt.Tensor, inShape []int64, outputSize Arg, rank int) error {
	outSize, err := outputSize.UnwrapIntList()
	if err != nil {
		return errors.WithMessagef(err, "unwrapping output_size of %s", n)
	}
	if len(outSize) != rank {
		return errors.Errorf("%s: input Tensor and output size dimension mismatch (output_size has %d entries, want %d)",
			n.Kind(), len(outSize), rank)
	}
	if len(inShape) < rank {
		return errors.Errorf("%s: input Tensor and output size dimension mismatch (input has rank %d, want at least %d)",
			n.Kind(), len(inShape), rank)
	}

	outShape := make([]int64, len(inShape))
	copy(outShape, inShape)
	copy(outShape[len(inShape)-len(outSize):], outSize)

	resize := ctx.Net.AddResize(in)
	if resize == nil {
		return errors.Errorf("unable to create interpolation (resizing) layer from node %s", n)
	}
	resize.SetOutputDimensions(totrt.ToDims(outShape))
	resize.SetResizeMode(trt.ResizeNearest)
	resize.SetName(n.String())

	out := ctx.AssociateValueAndTensor(n.Output(0), resize.Output(0))
	klog.V(2).Infof("Output tensor shape: %s", out.Dimensions())
	return nil
}
