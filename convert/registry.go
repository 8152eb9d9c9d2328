package convert

import (
	"sync"

	"github.com/gomlx/exceptions"

	"github.com/juliusgh/TensorRT/torchir"
)

// Converter lowers one node into network layers, registering its outputs in
// the context. A nil error means the node was handled (not necessarily that
// it produced output associations, see the interpolate scale-factor case).
type Converter func(ctx *ConversionCtx, n *torchir.Node, args []Arg) error

// Pattern pairs an operator schema string with its converter.
type Pattern struct {
	Schema    string
	Converter Converter
}

var (
	registeredPatterns []Pattern

	dispatchOnce  sync.Once
	dispatchTable map[string]Converter
)

// RegisterConversionPatterns appends patterns to the registry. It is meant to
// be called from package init functions, before the first Dispatch of a
// lowering pass; the registration order is irrelevant.
func RegisterConversionPatterns(patterns ...Pattern) {
	registeredPatterns = append(registeredPatterns, patterns...)
}

// Dispatch looks up the converter registered for the exact schema string.
// On first use it freezes the registered patterns into an immutable table.
// A missing schema is not an error here; the caller decides how to report an
// unsupported operator.
func Dispatch(schema string) (Converter, bool) {
	dispatchOnce.Do(buildDispatchTable)
	converter, found := dispatchTable[schema]
	return converter, found
}

func buildDispatchTable() {
	dispatchTable = makeDispatchTable(registeredPatterns)
}

// makeDispatchTable freezes patterns into a lookup table. Registering two
// patterns for the same schema is a programming error and panics.
func makeDispatchTable(patterns []Pattern) map[string]Converter {
	table := make(map[string]Converter, len(patterns))
	for _, p := range patterns {
		if _, dup := table[p.Schema]; dup {
			exceptions.Panicf("convert: conversion pattern registered twice for schema %q", p.Schema)
		}
		table[p.Schema] = p.Converter
	}
	return table
}
