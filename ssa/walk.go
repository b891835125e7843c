// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

// Walk performs a single depth-first walk over every node reachable from
// f.End: f.End itself, every value transitively reachable through Args
// and Keepalives, and every Block reached through a value's owning block
// or through a Block's Preds. pre is called on first visit (before
// descending into args), post after all of a node's args have been
// visited. Either callback may be nil. This is the walk(end, pre, post,
// ctx) collaborator spec.md §6 requires.
func Walk(f *Func, pre, post func(interface{})) {
	visitedV := make(map[*Value]bool)
	visitedB := NewBlockSet()

	var walkBlock func(b *Block)
	var walkValue func(v *Value)

	walkValue = func(v *Value) {
		if v == nil || visitedV[v] {
			return
		}
		visitedV[v] = true
		if pre != nil {
			pre(v)
		}
		for _, a := range v.Args {
			walkValue(a)
		}
		if v.Block != nil {
			walkBlock(v.Block)
		}
		if post != nil {
			post(v)
		}
	}

	walkBlock = func(b *Block) {
		if b == nil || visitedB.Has(b.ID) {
			return
		}
		visitedB.Insert(b.ID)
		if pre != nil {
			pre(b)
		}
		for _, p := range b.Preds {
			walkValue(p)
		}
		for _, v := range b.Values {
			walkValue(v)
		}
		if post != nil {
			post(b)
		}
	}

	for _, ka := range f.Keepalives {
		walkValue(ka)
	}
	walkBlock(f.End)
}

// BlockWalk calls fn once for every block in the graph, in an unspecified
// but stable order (f.Blocks order). This is the block_walk(graph, pre,
// block_walk, ctx) collaborator; the cleanup pass only needs the single
// per-block callback form.
func BlockWalk(f *Func, fn func(b *Block)) {
	for _, b := range f.Blocks {
		fn(b)
	}
}
