// Package torchir models a traced deep-learning computation graph: a sequence
// of operator nodes in program order, connected by values.
//
//   - Graph: the program-ordered node list plus declared inputs and outputs.
//   - Node: one instruction, identified by its operator schema string.
//   - Value: one edge; identity is the *Value pointer itself. A value either
//     flows from a producing node (or graph input), or carries a literal
//     constant folded in by the tracer (see IValue).
//
// Graphs are built by an upstream tracer and are read-only during lowering.
package torchir

import (
	"fmt"
	"strings"
)

// Value is one edge of the graph. A value is produced by at most one node;
// graph inputs and constants have no producer.
type Value struct {
	name     string
	node     *Node
	constVal *IValue
}

// Name returns the diagnostic name of the value (e.g. "%3").
func (v *Value) Name() string { return v.name }

// Node returns the node producing this value, or nil for graph inputs and
// constants.
func (v *Value) Node() *Node { return v.node }

// Const returns the constant-folded literal carried by this value, or nil if
// the value is graph-dependent.
func (v *Value) Const() *IValue { return v.constVal }

// IsConst reports whether the value carries a constant-folded literal.
func (v *Value) IsConst() bool { return v.constVal != nil }

// Node is one instruction of the traced graph. Nodes are immutable once
// appended; identity is positional within the graph.
type Node struct {
	schema  string
	inputs  []*Value
	outputs []*Value
	index   int
}

// Schema returns the full operator schema string of the node, e.g.
// "aten::matmul(Tensor self, Tensor other) -> (Tensor)".
func (n *Node) Schema() string { return n.schema }

// Kind returns the operator name portion of the schema, e.g. "aten::matmul".
func (n *Node) Kind() string {
	if idx := strings.IndexByte(n.schema, '('); idx >= 0 {
		return n.schema[:idx]
	}
	return n.schema
}

// Index returns the position of the node within the graph.
func (n *Node) Index() int { return n.index }

// Inputs returns the input values in positional order.
func (n *Node) Inputs() []*Value { return n.inputs }

// Input returns the index-th input value.
func (n *Node) Input(index int) *Value { return n.inputs[index] }

// NumInputs returns the number of input values.
func (n *Node) NumInputs() int { return len(n.inputs) }

// Outputs returns the output values in positional order.
func (n *Node) Outputs() []*Value { return n.outputs }

// Output returns the index-th output value.
func (n *Node) Output(index int) *Value { return n.outputs[index] }

// String formats the node for diagnostics, e.g.
// "%3 = aten::matmul(%1, %2) (node #2)".
func (n *Node) String() string {
	outs := make([]string, len(n.outputs))
	for ii, v := range n.outputs {
		outs[ii] = v.name
	}
	ins := make([]string, len(n.inputs))
	for ii, v := range n.inputs {
		ins[ii] = v.name
	}
	return fmt.Sprintf("%s = %s(%s) (node #%d)",
		strings.Join(outs, ", "), n.Kind(), strings.Join(ins, ", "), n.index)
}

// Graph is a traced program: nodes in program order plus declared inputs and
// outputs.
type Graph struct {
	nodeSeq []*Node
	inputs  []*Value
	outputs []*Value
	nextID  int
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// AddInput declares a graph input value. An empty name is replaced by the next
// "%n" identifier.
func (g *Graph) AddInput(name string) *Value {
	v := &Value{name: g.valueName(name)}
	g.inputs = append(g.inputs, v)
	return v
}

// Constant creates a value carrying a constant-folded literal.
func (g *Graph) Constant(iv IValue) *Value {
	return &Value{name: g.valueName(""), constVal: &iv}
}

// AppendNode appends a node with the given schema and inputs, producing a
// single output value, which is returned via Node.Output(0).
func (g *Graph) AppendNode(schema string, inputs ...*Value) *Node {
	n := &Node{schema: schema, inputs: inputs, index: len(g.nodeSeq)}
	out := &Value{name: g.valueName(""), node: n}
	n.outputs = []*Value{out}
	g.nodeSeq = append(g.nodeSeq, n)
	return n
}

// MarkOutput declares the given value as a graph output.
func (g *Graph) MarkOutput(v *Value) {
	g.outputs = append(g.outputs, v)
}

// Nodes returns the nodes in program order.
func (g *Graph) Nodes() []*Node { return g.nodeSeq }

// Inputs returns the declared graph inputs.
func (g *Graph) Inputs() []*Value { return g.inputs }

// Outputs returns the declared graph outputs.
func (g *Graph) Outputs() []*Value { return g.outputs }

func (g *Graph) valueName(name string) string {
	if name != "" {
		return name
	}
	name = fmt.Sprintf("%%%d", g.nextID)
	g.nextID++
	return name
}
