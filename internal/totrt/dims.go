// Package totrt converts between the IR-side shape representation (an ordered
// []int64) and the engine-native trt.Dims. Both directions are lossless over
// non-negative shapes of rank <= trt.MaxRank; anything outside that domain is
// a programming error and panics.
package totrt

import (
	"github.com/gomlx/exceptions"

	"github.com/juliusgh/TensorRT/trt"
)

// ToDims converts an ordered shape sequence to engine-native dimensions.
func ToDims(shape []int64) trt.Dims {
	if len(shape) > trt.MaxRank {
		exceptions.Panicf("totrt.ToDims: shape of rank %d exceeds engine maximum rank %d", len(shape), trt.MaxRank)
	}
	return trt.MakeDims(shape...)
}

// ToVec converts engine-native dimensions back to an ordered shape sequence.
func ToVec(dims trt.Dims) []int64 {
	shape := make([]int64, dims.Rank())
	for axis := range shape {
		shape[axis] = dims.Dim(axis)
	}
	return shape
}
