// Package convert lowers a traced torchir.Graph into a trt.Network, one
// operator node at a time.
//
// Per-operator lowering rules are conversion patterns (see Pattern) keyed by
// the operator schema string. ConvertGraph walks the graph in program order,
// dispatches each node to its registered converter and threads a shared
// ConversionCtx through the pass, which owns the network builder and the
// association between IR values and network tensors.
package convert

import (
	"github.com/pkg/errors"

	"github.com/juliusgh/TensorRT/torchir"
	"github.com/juliusgh/TensorRT/trt"
)

// ConversionCtx is the state shared across one lowering pass: the network
// being built and the mapping from IR values to the network tensors that
// realize them. It is created per pass and never shared between passes.
type ConversionCtx struct {
	// Net is the network builder, exclusively owned by this pass.
	Net *trt.Network

	valueTensors map[*torchir.Value]*trt.Tensor
}

// NewConversionCtx returns a context building into net.
func NewConversionCtx(net *trt.Network) *ConversionCtx {
	return &ConversionCtx{
		Net:          net,
		valueTensors: make(map[*torchir.Value]*trt.Tensor),
	}
}

// AssociateValueAndTensor records that tensor realizes the IR value v and
// returns the tensor unchanged, so it can be used fluently at call sites.
// Each node must associate each of its outputs exactly once.
func (ctx *ConversionCtx) AssociateValueAndTensor(v *torchir.Value, tensor *trt.Tensor) *trt.Tensor {
	ctx.valueTensors[v] = tensor
	return tensor
}

// Lookup resolves the network tensor associated with the IR value v.
// A missing association is an unresolved dependency: the producing node was
// never converted (or skipped), which aborts the pass.
func (ctx *ConversionCtx) Lookup(v *torchir.Value) (*trt.Tensor, error) {
	tensor, found := ctx.valueTensors[v]
	if !found {
		if n := v.Node(); n != nil {
			return nil, errors.Errorf("unresolved dependency: value %s was never associated with a tensor (producing node: %s)",
				v.Name(), n)
		}
		return nil, errors.Errorf("unresolved dependency: value %s was never associated with a tensor", v.Name())
	}
	return tensor, nil
}
