// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

// This file implements the builder and mutator primitives spec.md §6
// lists as required from the host IR: new_bad, new_jmp, set_inputs,
// set_owning_block, and exchange. spec.md's exchange is defined over a
// single unified Node type and is used both on ordinary values
// (exchange(jmp, Bad(control))) and, once, on a Block itself
// (exchange(pb, Bad(block))) to detach a vanishing block. This package
// keeps Block and Value as distinct Go types (following the teacher's own
// split representation), so the Block case is its own function,
// DetachBlock, rather than a second overload of Exchange.

// NewBad creates a fresh Bad sentinel of the given mode, owned by b. Any
// use of a Bad value is definitionally dead.
func (f *Func) NewBad(b *Block, mode Mode) *Value {
	return f.NewValue(b, OpBad, mode)
}

// NewJmp creates a fresh unconditional jump living in (leaving) b.
func (f *Func) NewJmp(b *Block) *Value {
	return f.NewValue(b, OpJmp, ModeControl)
}

// SetInputs installs a new input vector on v, fixing up use-lists for
// both the values v no longer references and the values it newly
// references.
func SetInputs(v *Value, args []*Value) {
	for _, old := range v.Args {
		old.removeUseOnce(v)
	}
	v.Args = args
	for _, a := range args {
		a.addUse(v)
	}
}

// SetOwningBlock reassigns v's owning block, splicing it out of its old
// block's value set and into the new one's. Used by the Block Optimizer
// to hoist a Phi out of a disappearing immediate-dominator predecessor
// (spec.md §4.3.3).
func SetOwningBlock(v *Value, newBlock *Block) {
	if v.Block == newBlock {
		return
	}
	if v.Block != nil {
		v.Block.RemoveValue(v)
	}
	v.Block = newBlock
	if newBlock != nil {
		newBlock.Values = append(newBlock.Values, v)
	}
}

// Exchange globally redirects every use of old to repl: every value that
// has old in its Args vector gets repl instead, every block that has old
// in its Preds vector gets repl instead, and repl's use-lists absorb
// old's. old is left with empty use-lists and is otherwise untouched
// (callers typically also remove it from its owning block).
func Exchange(old, repl *Value) {
	if old == repl {
		return
	}
	uses := old.Uses
	old.Uses = nil
	for _, use := range uses {
		for i, a := range use.Args {
			if a == old {
				use.Args[i] = repl
			}
		}
		repl.addUse(use)
	}

	blockUses := old.BlockUses
	old.BlockUses = nil
	for _, b := range blockUses {
		for i, p := range b.Preds {
			if p == old {
				b.Preds[i] = repl
			}
		}
		repl.addBlockUse(b)
	}
}

// DetachBlock severs pb from the graph: it is expected to already have an
// empty value set (its Phis hoisted or killed, its Jmp exchanged away) and
// no remaining successor referencing it through Preds. This is spec.md
// §4.3.4's exchange(pb, Bad(block)) step, expressed as its own function
// since a Block is not a Value in this representation: exchanging a node
// to Bad makes it vanish from the graph, so pb is also dropped from
// f.Blocks rather than left behind as an inert, empty entry.
func (f *Func) DetachBlock(pb *Block) {
	for _, p := range pb.Preds {
		p.removeBlockUse(pb)
	}
	pb.Preds = nil
	pb.Values = nil
	f.RemoveBlock(pb)
}
