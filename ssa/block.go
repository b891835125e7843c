// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

// Entity is the label a Block may carry. A labeled block can be the target
// of something outside the pass's view (a goto by name, an exception
// handler table, ...) so it is never removable.
type Entity struct {
	Name string
}

// Block is a basic block. Its Preds vector is its "input vector" in
// spec.md's data-model sense: Preds[i] is the control-producing Value
// (a Jmp, or a Proj of a Cond) that enters this block along edge i, and
// Preds[i].Block is the predecessor block for that edge. Every Phi owned
// by this Block has an Args vector aligned one-to-one with Preds.
type Block struct {
	ID    ID
	Func  *Func
	Preds []*Value
	Values []*Value // Phis, the block's Cond/Proj-children, and ordinary computation

	Entity *Entity // optional label; non-nil forces non-removable

	// Idom is this block's immediate dominator, valid after
	// Func.AssureDoms. Nil for the entry block.
	Idom *Block

	// Removable is the pass-owned "mark" scratch bit from spec.md §3/§5.
	// Meaningful only while a Func.ReserveMark reservation is held.
	Removable bool
}

// PredBlock returns the predecessor block that control edge Preds[i] comes
// from, or nil if Preds[i] is Bad.
func (b *Block) PredBlock(i int) *Block {
	p := b.Preds[i]
	if p.IsBad() {
		return nil
	}
	return p.Block
}

// Arity is the number of control predecessors b has.
func (b *Block) Arity() int { return len(b.Preds) }

// Phis returns every Phi value owned by b, in Values order.
func (b *Block) Phis() []*Value {
	var out []*Value
	for _, v := range b.Values {
		if v.IsPhi() {
			out = append(out, v)
		}
	}
	return out
}

// HasLabel reports whether b carries an entity (label).
func (b *Block) HasLabel() bool { return b.Entity != nil }

// AddValue appends v to b's value set and sets v's owning block.
func (b *Block) AddValue(v *Value) {
	v.Block = b
	b.Values = append(b.Values, v)
}

// RemoveValue deletes v from b's value set. It does not touch v's uses or
// args; callers are expected to have already redirected them (e.g. via
// Exchange).
func (b *Block) RemoveValue(v *Value) {
	for i, w := range b.Values {
		if w == v {
			b.Values = append(b.Values[:i], b.Values[i+1:]...)
			return
		}
	}
}

// AddPred appends v to b's control-predecessor vector, registering the
// block-use link Exchange needs to redirect it later.
func (b *Block) AddPred(v *Value) {
	b.Preds = append(b.Preds, v)
	v.addBlockUse(b)
}

// SetPreds installs a new control-predecessor vector on b, deregistering
// b from the BlockUses of every control value it previously referenced
// and registering it on every control value it now references. This
// keeps Exchange able to redirect a Block's Preds entries, not just other
// Values' Args.
func (b *Block) SetPreds(preds []*Value) {
	for _, old := range b.Preds {
		old.removeBlockUse(b)
	}
	b.Preds = preds
	for _, p := range preds {
		p.addBlockUse(b)
	}
}
