package convert

import (
	"github.com/pkg/errors"

	"github.com/juliusgh/TensorRT/torchir"
	"github.com/juliusgh/TensorRT/trt"
)

// Arg is a resolved view over one positional input of a node. Exactly one of
// its two facets is populated: a network tensor (graph-dependent value) or a
// literal (constant-folded by the tracer). The facet accessors return an
// error on mismatch so converters can report malformed traces instead of
// crashing.
type Arg struct {
	value  *torchir.Value
	tensor *trt.Tensor
}

// ResolveArgs produces one Arg per positional input of n. A graph-dependent
// input with no tensor association is an unresolved dependency and fails the
// resolution. Resolution never mutates the network.
func ResolveArgs(ctx *ConversionCtx, n *torchir.Node) ([]Arg, error) {
	args := make([]Arg, n.NumInputs())
	for ii, v := range n.Inputs() {
		args[ii].value = v
		if v.IsConst() {
			continue
		}
		tensor, err := ctx.Lookup(v)
		if err != nil {
			return nil, errors.WithMessagef(err, "resolving input #%d of node %s", ii, n)
		}
		args[ii].tensor = tensor
	}
	return args, nil
}

// Value returns the underlying IR value.
func (a Arg) Value() *torchir.Value { return a.value }

// IsTensor reports whether the operand resolved to a network tensor.
func (a Arg) IsTensor() bool { return a.tensor != nil }

// IsIValue reports whether the operand is a constant-folded literal.
func (a Arg) IsIValue() bool { return a.value != nil && a.value.IsConst() }

// IsNone reports whether the operand is the absent optional parameter.
func (a Arg) IsNone() bool { return a.IsIValue() && a.value.Const().IsNone() }

// Tensor returns the network-tensor facet of the operand.
func (a Arg) Tensor() (*trt.Tensor, error) {
	if a.tensor == nil {
		return nil, errors.Errorf("operand %s is not a network tensor", a.value.Name())
	}
	return a.tensor, nil
}

// IValue returns the literal facet of the operand.
func (a Arg) IValue() (*torchir.IValue, error) {
	if !a.IsIValue() {
		return nil, errors.Errorf("operand %s is not a constant literal", a.value.Name())
	}
	return a.value.Const(), nil
}

// UnwrapIntList unwraps the operand as an integer-list literal.
func (a Arg) UnwrapIntList() ([]int64, error) {
	iv, err := a.IValue()
	if err != nil {
		return nil, err
	}
	list, err := iv.IntList()
	if err != nil {
		return nil, errors.WithMessagef(err, "operand %s", a.value.Name())
	}
	return list, nil
}
