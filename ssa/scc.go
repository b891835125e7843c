// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

import "iter"

// This file implements strongly connected component detection for
// control-flow graphs using the Kosaraju-Sharir algorithm. The cleanup
// pass itself has no use for loop structure, but CheckInvariants reuses
// the reachable-set half of this traversal to confirm property 4 of
// spec.md §8: the dominator tree is re-derivable, i.e. there is no
// unreachable-but-linked block left behind by the pass.
//
// SCCs returns the strongly connected components of f's control-flow
// graph, topologically sorted by the kernel DAG. Each SCC corresponds to a
// loop (or trivial single-block component) in f.
//
// Properties:
//   - The first SCC contains only the entry block.
//   - Unreachable blocks are excluded from the result.
//   - Block order within each SCC is unspecified.
func (f *Func) SCCs() iter.Seq[[]*Block] {
	return func(yield func([]*Block) bool) {
		po := f.postorder()

		seen := make([]bool, f.NumBlocks())
		reachable := make([]bool, f.NumBlocks())
		for _, b := range po {
			reachable[b.ID] = true
		}

		queue := make([]*Block, 0, len(po))

		for i := len(po) - 1; i >= 0; i-- {
			leader := po[i]
			if seen[leader.ID] {
				continue
			}

			scc := make([]*Block, 0, 4)
			queue = append(queue, leader)
			seen[leader.ID] = true

			for len(queue) > 0 {
				b := queue[0]
				queue = queue[1:]
				scc = append(scc, b)

				for _, p := range b.Preds {
					if p.IsBad() {
						continue
					}
					pred := p.Block
					if reachable[pred.ID] && !seen[pred.ID] {
						seen[pred.ID] = true
						queue = append(queue, pred)
					}
				}
			}

			if !yield(scc) {
				return
			}
		}
	}
}

// ReachableBlocks returns the set of block IDs reachable from f.Entry.
func (f *Func) ReachableBlocks() *BlockSet {
	s := NewBlockSet()
	for _, b := range f.postorder() {
		s.Insert(b.ID)
	}
	return s
}
