package trt

import (
	"strconv"
	"strings"

	"github.com/gomlx/exceptions"
)

// MaxRank is the maximum number of dimensions a Tensor may have.
const MaxRank = 8

// Dims is an explicit-rank dimension vector. Every dimension is a non-negative
// static size. Dims values are comparable with ==.
type Dims struct {
	nbDims int
	d      [MaxRank]int64
}

// MakeDims builds a Dims from the given dimension sizes.
// It panics if there are more than MaxRank dimensions or if any is negative.
func MakeDims(dims ...int64) Dims {
	if len(dims) > MaxRank {
		exceptions.Panicf("trt.MakeDims: rank %d exceeds maximum supported rank %d", len(dims), MaxRank)
	}
	var d Dims
	d.nbDims = len(dims)
	for axis, dim := range dims {
		if dim < 0 {
			exceptions.Panicf("trt.MakeDims: dimension #%d is negative (%d)", axis, dim)
		}
		d.d[axis] = dim
	}
	return d
}

// Rank returns the number of dimensions.
func (d Dims) Rank() int { return d.nbDims }

// Dim returns the size of the axis-th dimension.
func (d Dims) Dim(axis int) int64 {
	if axis < 0 || axis >= d.nbDims {
		exceptions.Panicf("trt.Dims.Dim: axis %d out of range for rank %d", axis, d.nbDims)
	}
	return d.d[axis]
}

// Volume returns the total number of elements implied by the dimensions.
func (d Dims) Volume() int64 {
	v := int64(1)
	for axis := 0; axis < d.nbDims; axis++ {
		v *= d.d[axis]
	}
	return v
}

// String formats the dimensions as "[d0,d1,...]".
func (d Dims) String() string {
	parts := make([]string, d.nbDims)
	for axis := 0; axis < d.nbDims; axis++ {
		parts[axis] = strconv.FormatInt(d.d[axis], 10)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
