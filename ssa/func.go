// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

import "fmt"

// Logger is the ambient diagnostics interface every pass is handed,
// mirroring the compiler's own Frontend/Logger split: Logf/Log for
// optional tracing, Fatalf for the unrecoverable assertions spec.md §7
// calls for (no pass reports recoverable errors).
type Logger interface {
	// Logf logs a message. Callers should guard expensive formatting with
	// Log() first.
	Logf(string, ...interface{})
	// Log reports whether logging is enabled, so callers can skip
	// building an expensive message when it would be a no-op.
	Log() bool
	// Fatalf reports a violated invariant and stops the compilation. This
	// is the pass's only error-reporting mechanism; there are no
	// recoverable errors.
	Fatalf(msg string, args ...interface{})
}

// nopLogger discards everything; it is the default when a Func is built
// without an explicit Logger.
type nopLogger struct{}

func (nopLogger) Logf(string, ...interface{}) {}
func (nopLogger) Log() bool                   { return false }
func (nopLogger) Fatalf(msg string, args ...interface{}) {
	panic(fmt.Sprintf(msg, args...))
}

// Func is the graph this pass operates on: a function body in Sea-of-Nodes
// form. Blocks is the unordered set of all basic blocks (not indexable by
// ID); Entry is the function's entry block; End is the pseudo-block whose
// Keepalives artificially hold otherwise-unused nodes (typically Phis)
// live across the pass.
type Func struct {
	Name   string
	Blocks []*Block
	Entry  *Block
	End    *Block

	Keepalives []*Value

	Logger Logger

	nextValueID ID
	nextBlockID ID

	cachedPostorder []*Block
	cachedIdom      []*Block
	cachedSdom      SparseTree

	markReserved bool
	linkReserved bool

	pinned  bool
	pass    *passInfo
}

// passInfo records which pass currently holds the Func, purely for
// diagnostics (f.pass.debug gates trace output the way the teacher's own
// loop-nest code does).
type passInfo struct {
	name  string
	debug int
}

// NewFunc creates an empty function graph with the given name, ready for a
// caller to populate Blocks/Entry/End.
func NewFunc(name string) *Func {
	return &Func{Name: name, Logger: nopLogger{}, pinned: true}
}

// logger returns f.Logger, defaulting to a no-op logger.
func (f *Func) logger() Logger {
	if f.Logger == nil {
		return nopLogger{}
	}
	return f.Logger
}

// Logf forwards to f.Logger, if any.
func (f *Func) Logf(msg string, args ...interface{}) { f.logger().Logf(msg, args...) }

// Fatalf reports an internal inconsistency. It never returns.
func (f *Func) Fatalf(msg string, args ...interface{}) { f.logger().Fatalf(msg, args...) }

// NumBlocks is an upper bound on live block IDs, suitable for sizing
// dense per-ID slices.
func (f *Func) NumBlocks() int { return int(f.nextBlockID) }

// NumValues is an upper bound on live value IDs.
func (f *Func) NumValues() int { return int(f.nextValueID) }

// NewValue creates a fresh Value of the given Op/Mode, owned by b, and
// appends it to b's value set.
func (f *Func) NewValue(b *Block, op Op, mode Mode) *Value {
	v := &Value{ID: f.nextValueID, Op: op, Mode: mode}
	f.nextValueID++
	if b != nil {
		b.AddValue(v)
	}
	return v
}

// NewBlock creates a fresh, unattached Block and registers it with f.
func (f *Func) NewBlock() *Block {
	b := &Block{ID: f.nextBlockID, Func: f}
	f.nextBlockID++
	f.Blocks = append(f.Blocks, b)
	return b
}

// RemoveBlock deletes b from f.Blocks. Callers are responsible for having
// already detached b from any surviving predecessor/successor edges.
func (f *Func) RemoveBlock(b *Block) {
	for i, bb := range f.Blocks {
		if bb == b {
			f.Blocks = append(f.Blocks[:i], f.Blocks[i+1:]...)
			return
		}
	}
}

// Pinned reports whether the graph is in pinned form, i.e. a node's
// owning block is semantically fixed. This pass requires a pinned graph
// (spec.md §5).
func (f *Func) Pinned() bool { return f.pinned }

// invalidateCFG drops every cache that depends on block identity or the
// predecessor/successor shape of the graph. AssureDoms calls this before
// every recomputation.
func (f *Func) invalidateCFG() {
	f.cachedPostorder = nil
	f.cachedIdom = nil
	f.cachedSdom = nil
}
