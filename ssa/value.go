// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

// ID is a dense identifier for a Value or a Block within a Func.
type ID int32

// Value is a node in the IR: a Phi, a Jmp, a Proj, a Cond, a Bad sentinel,
// or an opaque piece of computation. Every Value belongs to exactly one
// Block, given by the Block field, and its Args form its input vector.
//
// Phi.Args is aligned one-to-one with the owning Block's Preds: Args[i] is
// the value flowing in along Preds[i].
type Value struct {
	ID    ID
	Op    Op
	Mode  Mode
	Args  []*Value
	Block *Block
	Aux   interface{} // case number (Proj), default case number (Cond), constant (ConstBool/ConstInt)

	Uses []*Value // values that reference this one via Args

	// BlockUses lists the blocks that reference this value as a control
	// predecessor, i.e. blocks b such that this value appears in
	// b.Preds. Kept separate from Uses because a Block is not a Value in
	// this representation, so Exchange needs a second list to redirect
	// Block.Preds entries the way it redirects Value.Args entries.
	BlockUses []*Block
}

// IsPhi reports whether v is a Phi node.
func (v *Value) IsPhi() bool { return v != nil && v.Op == OpPhi }

// IsJmp reports whether v is an unconditional jump.
func (v *Value) IsJmp() bool { return v != nil && v.Op == OpJmp }

// IsProj reports whether v is a projection.
func (v *Value) IsProj() bool { return v != nil && v.Op == OpProj }

// IsCond reports whether v is a (possibly multi-way) conditional branch.
func (v *Value) IsCond() bool { return v != nil && v.Op == OpCond }

// IsBad reports whether v is the dead-value sentinel.
func (v *Value) IsBad() bool { return v != nil && v.Op == OpBad }

// IsUnknownJump reports whether v is an indirect/computed branch whose
// targets cannot be enumerated statically.
func (v *Value) IsUnknownJump() bool { return v != nil && v.Op == OpUnknownJump }

// Arity is the number of inputs v carries.
func (v *Value) Arity() int { return len(v.Args) }

// addUse records that v is used by use. It is maintained by AddArg/SetInputs
// so that Exchange can find every use of a node without a separate
// use-discovery walk.
func (v *Value) addUse(use *Value) {
	if v == nil {
		return
	}
	v.Uses = append(v.Uses, use)
}

// removeUseOnce removes a single occurrence of use from v's use list.
func (v *Value) removeUseOnce(use *Value) {
	if v == nil {
		return
	}
	for i, u := range v.Uses {
		if u == use {
			v.Uses = append(v.Uses[:i], v.Uses[i+1:]...)
			return
		}
	}
}

// addBlockUse records that b references v via b.Preds.
func (v *Value) addBlockUse(b *Block) {
	if v == nil {
		return
	}
	v.BlockUses = append(v.BlockUses, b)
}

// removeBlockUse removes a single occurrence of b from v's block-use list.
func (v *Value) removeBlockUse(b *Block) {
	if v == nil {
		return
	}
	for i, bb := range v.BlockUses {
		if bb == b {
			v.BlockUses = append(v.BlockUses[:i], v.BlockUses[i+1:]...)
			return
		}
	}
}

// AddArg appends w to v's input vector and records the use.
func (v *Value) AddArg(w *Value) {
	v.Args = append(v.Args, w)
	w.addUse(v)
}

// ProjCase returns the case number this Proj was tagged with by its
// producing Cond. Valid only when v.IsProj().
func (v *Value) ProjCase() int {
	c, _ := v.Aux.(int)
	return c
}

// CondDefaultCase returns the case number designated as default for this
// Cond. Valid only when v.IsCond().
func (v *Value) CondDefaultCase() int {
	c, _ := v.Aux.(int)
	return c
}

// ConstBoolValue returns the constant boolean this ConstBool value folds
// to.
func (v *Value) ConstBoolValue() bool {
	b, _ := v.Aux.(bool)
	return b
}

// ConstIntValue returns the constant integer this ConstInt value folds to.
func (v *Value) ConstIntValue() int {
	n, _ := v.Aux.(int)
	return n
}

// Producer returns the node v projects from. Valid only when v.IsProj().
func (v *Value) Producer() *Value {
	if len(v.Args) == 0 {
		return nil
	}
	return v.Args[0]
}
