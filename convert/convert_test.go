package convert

import (
	"testing"

	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juliusgh/TensorRT/torchir"
	"github.com/juliusgh/TensorRT/trt"
)

func TestConvertGraph(t *testing.T) {
	// input [2,3,8] -> upsample_nearest1d(16) -> flatten(1,-1) -> matmul with
	// a traced constant [48,4] -> output [2,4].
	g := torchir.NewGraph()
	in := g.AddInput("input")
	up := g.AppendNode(upsample1DSchema, in,
		g.Constant(torchir.IntListValue(16)), g.Constant(torchir.None()))
	flat := g.AppendNode("aten::flatten.using_ints(Tensor self, int start_dim=0, int end_dim=-1) -> (Tensor)",
		up.Output(0), g.Constant(torchir.IntValue(1)), g.Constant(torchir.IntValue(-1)))
	weight := g.Constant(torchir.TensorValue([]int64{48, 4}, make([]float32, 48*4)))
	mm := g.AppendNode("aten::matmul(Tensor self, Tensor other) -> (Tensor)", flat.Output(0), weight)
	g.MarkOutput(mm.Output(0))

	net := trt.NewNetwork()
	inputs := map[string]*trt.Tensor{
		"input": net.AddInput("input", trt.DataTypeFloat, trt.MakeDims(2, 3, 8)),
	}
	require.NoError(t, ConvertGraph(g, net, inputs))

	require.Len(t, net.Outputs(), 1)
	assert.Equal(t, trt.MakeDims(2, 4), net.Outputs()[0].Dimensions())
	// resize + flatten shuffle + weight constant + matmul.
	assert.Equal(t, 4, net.NumLayers())
}

func TestConvertGraphUnsupportedOperator(t *testing.T) {
	g := torchir.NewGraph()
	in := g.AddInput("input")
	n := g.AppendNode("aten::frobnicate(Tensor self) -> (Tensor)", in)
	g.MarkOutput(n.Output(0))

	net := trt.NewNetwork()
	inputs := map[string]*trt.Tensor{
		"input": net.AddInput("input", trt.DataTypeFloat, trt.MakeDims(2, 2)),
	}
	err := ConvertGraph(g, net, inputs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported operator")
	assert.Contains(t, err.Error(), "aten::frobnicate")
}

func TestConvertGraphInputMismatch(t *testing.T) {
	g := torchir.NewGraph()
	g.AddInput("input")

	net := trt.NewNetwork()
	err := ConvertGraph(g, net, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing network tensor for graph input")

	err = ConvertGraph(g, net, map[string]*trt.Tensor{
		"input": net.AddInput("input", trt.DataTypeFloat, trt.MakeDims(2)),
		"extra": net.AddInput("extra", trt.DataTypeFloat, trt.MakeDims(2)),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 input tensor(s)")
}

func TestDispatch(t *testing.T) {
	converter, found := Dispatch(upsample2DSchema)
	assert.True(t, found)
	assert.NotNil(t, converter)

	// Exact-match lookup only; the bare operator name is not a schema.
	_, found = Dispatch("aten::upsample_nearest2d")
	assert.False(t, found)
	_, found = Dispatch("aten::never_registered(Tensor self) -> (Tensor)")
	assert.False(t, found)
}

func TestMakeDispatchTable(t *testing.T) {
	noop := func(ctx *ConversionCtx, n *torchir.Node, args []Arg) error { return nil }
	table := makeDispatchTable([]Pattern{
		{Schema: "aten::a(Tensor self) -> (Tensor)", Converter: noop},
		{Schema: "aten::b(Tensor self) -> (Tensor)", Converter: noop},
	})
	assert.Len(t, table, 2)
	assert.NotNil(t, table["aten::a(Tensor self) -> (Tensor)"])

	require.Panics(t, func() {
		makeDispatchTable([]Pattern{
			{Schema: "aten::a(Tensor self) -> (Tensor)", Converter: noop},
			{Schema: "aten::a(Tensor self) -> (Tensor)", Converter: noop},
		})
	}, "duplicate schema registration")
}

func TestResolveArgsFacets(t *testing.T) {
	g := torchir.NewGraph()
	in := g.AddInput("input")
	size := g.Constant(torchir.IntListValue(16))
	n := g.AppendNode(upsample1DSchema, in, size, g.Constant(torchir.None()))

	net := trt.NewNetwork()
	ctx := NewConversionCtx(net)
	tensor := net.AddInput("input", trt.DataTypeFloat, trt.MakeDims(2, 3, 8))
	ctx.AssociateValueAndTensor(in, tensor)

	args := must.M1(ResolveArgs(ctx, n))
	require.Len(t, args, 3)

	assert.True(t, args[0].IsTensor())
	assert.False(t, args[0].IsIValue())
	assert.Same(t, tensor, must.M1(args[0].Tensor()))
	_, err := args[0].IValue()
	assert.Error(t, err, "tensor operand has no literal facet")

	assert.True(t, args[1].IsIValue())
	assert.False(t, args[1].IsTensor())
	assert.Equal(t, []int64{16}, must.M1(args[1].UnwrapIntList()))
	_, err = args[1].Tensor()
	assert.Error(t, err, "literal operand has no tensor facet")

	assert.True(t, args[2].IsNone())
	_, err = args[2].UnwrapIntList()
	assert.Error(t, err, "None does not unwrap to an int list")
}

func TestResolveArgsUnresolvedDependency(t *testing.T) {
	g := torchir.NewGraph()
	in := g.AddInput("input")
	n := g.AppendNode("aten::matmul(Tensor self, Tensor other) -> (Tensor)", in, in)

	ctx := NewConversionCtx(trt.NewNetwork())
	_, err := ResolveArgs(ctx, n)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unresolved dependency")
	assert.Contains(t, err.Error(), "input")
}

func TestAssociateValueAndTensorIsFluent(t *testing.T) {
	g := torchir.NewGraph()
	v := g.AddInput("input")
	net := trt.NewNetwork()
	ctx := NewConversionCtx(net)
	tensor := net.AddInput("input", trt.DataTypeFloat, trt.MakeDims(1))
	assert.Same(t, tensor, ctx.AssociateValueAndTensor(v, tensor))
	assert.Same(t, tensor, must.M1(ctx.Lookup(v)))
}
