// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

// This file computes the dominator tree of a control-flow graph. It is an
// "external collaborator" in spec.md's sense (assure_doms): the cleanup
// pass consumes Block.Idom and the SparseTree but never rebuilds them
// itself except by calling AssureDoms.

// successors lazily builds the block -> successor-blocks adjacency this
// file needs for a forward postorder walk. Block only stores Preds
// directly (per spec.md's data model), so successors are derived once per
// call rather than kept live, matching spec.md §6's remark that Succs is
// not part of the required interface.
func (f *Func) successors() map[*Block][]*Block {
	succ := make(map[*Block][]*Block, len(f.Blocks))
	for _, b := range f.Blocks {
		for _, p := range b.Preds {
			if p.IsBad() {
				continue
			}
			pb := p.Block
			succ[pb] = append(succ[pb], b)
		}
	}
	return succ
}

type blockAndIndex struct {
	b     *Block
	index int
}

// Postorder computes a DFS postorder over blocks reachable from f.Entry:
// every block appears after all of its successors, so End-ward blocks
// come first and f.Entry comes last. Unreachable blocks do not appear.
// The Block Optimizer walks blocks in this order so that, when it visits
// b, none of b's predecessors have had their own turn yet and so remain
// eligible to fold into b (spec.md §4.3.1's "already visited" rule is
// about exactly this ordering).
func (f *Func) Postorder() []*Block {
	return f.postorder()
}

// postorder computes a DFS postorder over blocks reachable from f.Entry.
// Unreachable blocks do not appear.
func (f *Func) postorder() []*Block {
	return f.postorderWithNumbering(nil)
}

// postorderWithNumbering is postorder, optionally also filling ponums[b.ID]
// with b's position in the resulting order.
func (f *Func) postorderWithNumbering(ponums []int32) []*Block {
	succ := f.successors()
	seen := make(map[ID]bool, f.NumBlocks())
	order := make([]*Block, 0, len(f.Blocks))

	s := make([]blockAndIndex, 0, 32)
	s = append(s, blockAndIndex{b: f.Entry})
	seen[f.Entry.ID] = true
	for len(s) > 0 {
		tos := len(s) - 1
		x := s[tos]
		b := x.b
		succs := succ[b]
		if i := x.index; i < len(succs) {
			s[tos].index++
			sb := succs[i]
			if !seen[sb.ID] {
				seen[sb.ID] = true
				s = append(s, blockAndIndex{b: sb})
			}
			continue
		}
		s = s[:tos]
		if ponums != nil {
			ponums[b.ID] = int32(len(order))
		}
		order = append(order, b)
	}
	return order
}

// intersect finds the closest common dominator of b and c, given a
// postorder numbering and the (partial) idom array being built.
func intersect(b, c *Block, postnum []int32, idom []*Block) *Block {
	for b != c {
		for postnum[b.ID] < postnum[c.ID] {
			b = idom[b.ID]
		}
		for postnum[c.ID] < postnum[b.ID] {
			c = idom[c.ID]
		}
	}
	return b
}

// AssureDoms (re)computes the dominator tree of f, setting every
// reachable block's Idom field, and invalidates any cached derived
// structure. This is spec.md §6's assure_doms(graph) collaborator.
func (f *Func) AssureDoms() {
	f.invalidateCFG()

	po := f.postorderWithNumbering(make([]int32, f.NumBlocks()))
	ponums := make([]int32, f.NumBlocks())
	for i, b := range po {
		ponums[b.ID] = int32(i)
	}

	idom := make([]*Block, f.NumBlocks())
	idom[f.Entry.ID] = f.Entry

	changed := true
	for changed {
		changed = false
		// Process in reverse postorder, skipping the entry block.
		for i := len(po) - 2; i >= 0; i-- {
			b := po[i]
			var newIdom *Block
			for _, p := range b.Preds {
				if p.IsBad() {
					continue
				}
				pb := p.Block
				if idom[pb.ID] == nil {
					continue
				}
				if newIdom == nil {
					newIdom = pb
				} else {
					newIdom = intersect(newIdom, pb, ponums, idom)
				}
			}
			if newIdom != idom[b.ID] {
				idom[b.ID] = newIdom
				changed = true
			}
		}
	}

	for _, b := range f.Blocks {
		if b == f.Entry {
			b.Idom = nil
			continue
		}
		b.Idom = idom[b.ID]
	}

	f.cachedPostorder = po
	f.cachedIdom = idom
	f.cachedSdom = buildSparseTree(f, po, idom)
}

// SparseTreeNode is one entry of a SparseTree, giving a block's entry/exit
// numbers in a DFS over the dominator tree, which makes ancestor
// (dominance) queries O(1).
type SparseTreeNode struct {
	entry, exit int32
}

// SparseTree supports O(1) "does a dominate b" queries once built from a
// freshly computed dominator tree.
type SparseTree []SparseTreeNode

func buildSparseTree(f *Func, po []*Block, idom []*Block) SparseTree {
	children := make(map[ID][]*Block)
	for _, b := range po {
		if b == f.Entry {
			continue
		}
		p := idom[b.ID]
		if p == nil {
			continue
		}
		children[p.ID] = append(children[p.ID], b)
	}

	tree := make(SparseTree, f.NumBlocks())
	var clock int32
	var visit func(b *Block)
	visit = func(b *Block) {
		tree[b.ID].entry = clock
		clock++
		for _, c := range children[b.ID] {
			visit(c)
		}
		tree[b.ID].exit = clock
		clock++
	}
	visit(f.Entry)
	return tree
}

// Dominates reports whether a dominates b (reflexively: a dominates
// itself), using the tree computed by the most recent AssureDoms.
func (t SparseTree) Dominates(a, b *Block) bool {
	if a == nil || b == nil || int(a.ID) >= len(t) || int(b.ID) >= len(t) {
		return false
	}
	na, nb := t[a.ID], t[b.ID]
	return na.entry <= nb.entry && nb.exit <= na.exit
}
