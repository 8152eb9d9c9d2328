package convert

import (
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/juliusgh/TensorRT/torchir"
	"github.com/juliusgh/TensorRT/trt"
)

// ConvertGraph lowers g into net, walking the nodes strictly in program
// order. inputs maps each graph-input name to the network tensor standing in
// for it (typically created with net.AddInput). Graph outputs are marked on
// the network.
//
// Any failure aborts the whole pass; there is no skip-and-continue for
// genuine errors. The pass is single-threaded and synchronous.
func ConvertGraph(g *torchir.Graph, net *trt.Network, inputs map[string]*trt.Tensor) error {
	ctx := NewConversionCtx(net)

	for _, v := range g.Inputs() {
		tensor := inputs[v.Name()]
		if tensor == nil {
			return errors.Errorf("missing network tensor for graph input %s", v.Name())
		}
		ctx.AssociateValueAndTensor(v, tensor)
	}
	if len(inputs) != len(g.Inputs()) {
		return errors.Errorf("got %d input tensor(s) for a graph with %d input(s)", len(inputs), len(g.Inputs()))
	}

	for _, n := range g.Nodes() {
		if err := convertNode(ctx, n); err != nil {
			return errors.WithMessagef(err, "while converting node %d out of %d", n.Index(), len(g.Nodes()))
		}
		klog.V(2).Infof("converted %s", n)
	}

	for _, v := range g.Outputs() {
		tensor, err := ctx.Lookup(v)
		if err != nil {
			return errors.WithMessagef(err, "resolving graph output %s", v.Name())
		}
		net.MarkOutput(tensor)
	}
	return nil
}

// convertNode dispatches one node to its registered converter. Invariant
// faults raised as exceptions inside converters or the builder are caught
// here and surfaced as errors with node context.
func convertNode(ctx *ConversionCtx, n *torchir.Node) error {
	converter, found := Dispatch(n.Schema())
	if !found {
		return errors.Errorf("unsupported operator: no conversion pattern registered for schema %q (%s)", n.Schema(), n)
	}
	args, err := ResolveArgs(ctx, n)
	if err != nil {
		return err
	}
	var convErr error
	err = exceptions.TryCatch[error](func() { convErr = converter(ctx, n, args) })
	if err == nil {
		err = convErr
	}
	return err
}
