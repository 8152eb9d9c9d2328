package torchir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphBuilding(t *testing.T) {
	g := NewGraph()
	in := g.AddInput("input.1")
	size := g.Constant(IntListValue(16))
	scales := g.Constant(None())

	n := g.AppendNode("aten::upsample_nearest1d(Tensor self, int[1] output_size, float? scales=None) -> (Tensor)",
		in, size, scales)
	g.MarkOutput(n.Output(0))

	assert.Equal(t, "aten::upsample_nearest1d", n.Kind())
	assert.Equal(t, 0, n.Index())
	assert.Equal(t, 3, n.NumInputs())
	assert.Same(t, in, n.Input(0))
	assert.Same(t, n, n.Output(0).Node())
	assert.Nil(t, in.Node())

	require.Len(t, g.Nodes(), 1)
	require.Len(t, g.Inputs(), 1)
	require.Len(t, g.Outputs(), 1)

	// Values without an explicit name are auto-numbered.
	assert.Equal(t, "input.1", in.Name())
	assert.Equal(t, "%0", size.Name())
	assert.Equal(t, "%1", scales.Name())
	assert.Equal(t, "%2", n.Output(0).Name())
	assert.Equal(t, "%2 = aten::upsample_nearest1d(input.1, %0, %1) (node #0)", n.String())
}

func TestIValueUnwrap(t *testing.T) {
	none := None()
	assert.True(t, none.IsNone())
	_, err := none.IntList()
	assert.Error(t, err)

	i := IntValue(3)
	v, err := i.Int()
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)
	// A single int is accepted as a one-element int list.
	list, err := i.IntList()
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, list)

	d := DoubleValue(0.5)
	f, err := d.Double()
	require.NoError(t, err)
	assert.Equal(t, 0.5, f)
	_, err = d.Int()
	assert.Error(t, err)
	_, err = d.Bool()
	assert.Error(t, err)

	b := BoolValue(true)
	bv, err := b.Bool()
	require.NoError(t, err)
	assert.True(t, bv)

	ints := IntListValue(64, 64)
	list, err = ints.IntList()
	require.NoError(t, err)
	assert.Equal(t, []int64{64, 64}, list)
	_, err = ints.DoubleList()
	assert.Error(t, err)

	doubles := DoubleListValue(0.5, 2)
	dl, err := doubles.DoubleList()
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 2}, dl)

	tv := TensorValue([]int64{2, 2}, []float32{1, 2, 3, 4})
	dims, values, err := tv.Tensor()
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 2}, dims)
	assert.Equal(t, []float32{1, 2, 3, 4}, values)
	_, _, err = ints.Tensor()
	assert.Error(t, err)
}

func TestIValueString(t *testing.T) {
	assert.Equal(t, "None", None().String())
	assert.Equal(t, "3", IntValue(3).String())
	assert.Equal(t, "[64 64]", IntListValue(64, 64).String())
	assert.Equal(t, "true", BoolValue(true).String())
	assert.Equal(t, "Tensor[2 2]", TensorValue([]int64{2, 2}, make([]float32, 4)).String())
}
