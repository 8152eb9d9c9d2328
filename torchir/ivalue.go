package torchir

import (
	"fmt"

	"github.com/pkg/errors"
)

// IValueKind discriminates the variants of an IValue.
type IValueKind int

const (
	KindNone IValueKind = iota
	KindInt
	KindDouble
	KindBool
	KindIntList
	KindDoubleList
	KindTensor
)

// String returns a human-readable name for the kind.
func (k IValueKind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindInt:
		return "int"
	case KindDouble:
		return "float"
	case KindBool:
		return "bool"
	case KindIntList:
		return "int[]"
	case KindDoubleList:
		return "float[]"
	case KindTensor:
		return "Tensor"
	default:
		return "invalid"
	}
}

// IValue is a literal constant folded into the graph by the tracer: the
// absent optional parameter (None), a scalar, a list, or a constant tensor.
// The typed unwrap methods return an error when the kind does not match, so
// converters can surface malformed traces as validation errors.
type IValue struct {
	kind       IValueKind
	i          int64
	d          float64
	b          bool
	ints       []int64
	doubles    []float64
	tensorDims []int64
	tensorVals []float32
}

// None returns the absent-optional-parameter literal.
func None() IValue { return IValue{kind: KindNone} }

// IntValue returns an integer literal.
func IntValue(v int64) IValue { return IValue{kind: KindInt, i: v} }

// DoubleValue returns a floating-point literal.
func DoubleValue(v float64) IValue { return IValue{kind: KindDouble, d: v} }

// BoolValue returns a boolean literal.
func BoolValue(v bool) IValue { return IValue{kind: KindBool, b: v} }

// IntListValue returns an integer-list literal.
func IntListValue(values ...int64) IValue { return IValue{kind: KindIntList, ints: values} }

// DoubleListValue returns a floating-point-list literal.
func DoubleListValue(values ...float64) IValue { return IValue{kind: KindDoubleList, doubles: values} }

// TensorValue returns a constant-tensor literal with the given dimensions and
// row-major values.
func TensorValue(dims []int64, values []float32) IValue {
	return IValue{kind: KindTensor, tensorDims: dims, tensorVals: values}
}

// Kind returns the variant of the literal.
func (iv IValue) Kind() IValueKind { return iv.kind }

// IsNone reports whether the literal is the absent optional parameter.
func (iv IValue) IsNone() bool { return iv.kind == KindNone }

// Int unwraps an integer literal.
func (iv IValue) Int() (int64, error) {
	if iv.kind != KindInt {
		return 0, errors.Errorf("IValue is %s, not int", iv.kind)
	}
	return iv.i, nil
}

// Double unwraps a floating-point literal.
func (iv IValue) Double() (float64, error) {
	if iv.kind != KindDouble {
		return 0, errors.Errorf("IValue is %s, not float", iv.kind)
	}
	return iv.d, nil
}

// Bool unwraps a boolean literal.
func (iv IValue) Bool() (bool, error) {
	if iv.kind != KindBool {
		return false, errors.Errorf("IValue is %s, not bool", iv.kind)
	}
	return iv.b, nil
}

// IntList unwraps an integer-list literal. A single integer is also accepted
// and returned as a one-element list.
func (iv IValue) IntList() ([]int64, error) {
	switch iv.kind {
	case KindIntList:
		return iv.ints, nil
	case KindInt:
		return []int64{iv.i}, nil
	default:
		return nil, errors.Errorf("IValue is %s, not int[]", iv.kind)
	}
}

// DoubleList unwraps a floating-point-list literal.
func (iv IValue) DoubleList() ([]float64, error) {
	if iv.kind != KindDoubleList {
		return nil, errors.Errorf("IValue is %s, not float[]", iv.kind)
	}
	return iv.doubles, nil
}

// Tensor unwraps a constant-tensor literal into its dimensions and row-major
// values.
func (iv IValue) Tensor() (dims []int64, values []float32, err error) {
	if iv.kind != KindTensor {
		return nil, nil, errors.Errorf("IValue is %s, not Tensor", iv.kind)
	}
	return iv.tensorDims, iv.tensorVals, nil
}

// String formats the literal for diagnostics.
func (iv IValue) String() string {
	switch iv.kind {
	case KindNone:
		return "None"
	case KindInt:
		return fmt.Sprintf("%d", iv.i)
	case KindDouble:
		return fmt.Sprintf("%g", iv.d)
	case KindBool:
		return fmt.Sprintf("%t", iv.b)
	case KindIntList:
		return fmt.Sprintf("%v", iv.ints)
	case KindDoubleList:
		return fmt.Sprintf("%v", iv.doubles)
	case KindTensor:
		return fmt.Sprintf("Tensor%v", iv.tensorDims)
	default:
		return "invalid"
	}
}
