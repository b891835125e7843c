// Copyright 2024 The Falcon Contributors
// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license (Go Authors
// portions) / GPLv3 (Falcon-derived portions); see the repository root.

package ssa

// EquivalentNode is the local peephole rewriter spec.md §1 lists as an
// external collaborator and §4.3.5/§4.4 call the Driver to run over every
// block and over End. It looks only at n itself and its immediate
// neighbors, never at global graph shape. It returns a replacement node
// when one is found, or nil if n is already in normal form.
//
// Node is either a *Value or a *Block: a Block is subject to peephole
// rewriting too, which is how a leftover single-predecessor/single-Jmp
// chain the Block Optimizer declined to fold (because it wasn't
// dispensable at the time) can still collapse once nothing depends on
// keeping it separate.
func EquivalentNode(n interface{}) interface{} {
	switch x := n.(type) {
	case *Value:
		if r := equivalentPhi(x); r != nil {
			return r
		}
		return nil
	case *Block:
		if r := equivalentBlock(x); r != nil {
			return r
		}
		return nil
	}
	return nil
}

// equivalentPhi collapses a trivial Phi: one with a single argument, or
// one where every argument is the same value (or a self-reference).
func equivalentPhi(v *Value) *Value {
	if !v.IsPhi() {
		return nil
	}
	if len(v.Args) == 1 {
		return v.Args[0]
	}
	var same *Value
	for _, a := range v.Args {
		if a == v {
			continue
		}
		if same == nil {
			same = a
		} else if same != a {
			return nil
		}
	}
	return same
}

// equivalentBlock reports whether b is a pure pass-through: its only
// content is a single unconditional successor, it owns no Phis, and its
// sole predecessor edge is a Jmp (so the predecessor block has no other
// successor). When so, b's surviving
// predecessor is returned as the equivalent node: every use of b should be
// redirected there by the caller's Exchange step.
func equivalentBlock(b *Block) *Block {
	if len(b.Preds) != 1 || b.HasLabel() || !b.Preds[0].IsJmp() {
		return nil
	}
	for _, v := range b.Values {
		if !v.IsJmp() {
			return nil
		}
	}
	pred := b.PredBlock(0)
	if pred == nil || pred == b {
		return nil
	}
	return pred
}
