// Copyright 2024 The Falcon Contributors
// Use of this source code is governed by the GNU General Public License,
// version 3 or later; see the repository root for the full text.

package cfopt

import "github.com/lamproae/libfirm/ssa"

// decision is the per-position outcome of the dispensability test,
// spec.md §4.3.1. It is computed once per block (one test(b, pos) call
// per position) and reused for the Phi rewrite, the rescue step, and the
// block-input rewrite, rather than recomputed three times — test mutates
// pb.Removable on some branches, so recomputation would not be
// idempotent.
type decision struct {
	weight      int  // test(b, pos)'s return value
	bad         bool // predecessor edge is itself Bad: case Φ-1 / §4.3.4 Bad case
	dispensable bool // predecessor block folds away: case Φ-2 / §4.3.4 empty case
}

// blockOptState carries the Block Optimizer's single-block-walk state:
// which blocks have already had their own turn (spec.md §4.3.1's
// "already visited in this walk" test) and whether anything changed.
type blockOptState struct {
	f       *ssa.Func
	c       *Collected
	visited *ssa.BlockSet
	changed bool

	// phisMoved records whether hoistPhi relocated any predecessor-owned
	// Phi into a dominated block this round. The Driver needs this to
	// decide whether End's keep-alive list might now hold a Phi that
	// picked up no real user from the hoist (spec.md §4.4's "if Phis
	// were moved: prune...").
	phisMoved bool
}

// optimizeBlocks runs the Block Optimizer (spec.md §4.3) once over every
// block of f, assuming c reflects a collect taken after the most recent
// switch-simplification fixpoint and f.AssureDoms has just been called.
//
// The walk visits blocks in f.Postorder, End-ward first: this is what
// makes "already visited" in the dispensability test (§4.3.1) mean
// something useful. By the time b is visited none of its predecessors
// have had their own turn, so they are all still fold candidates; once b
// itself has been visited, it is "spoken for" and a later sibling may no
// longer fold it away, preventing the same block from being absorbed
// twice in one round.
//
// When the walk changes the graph, f's dominator tree is recomputed before
// returning, so it matches the rewired control flow.
func optimizeBlocks(f *ssa.Func, c *Collected) bool {
	changed, _ := optimizeBlocksWithHoistInfo(f, c)
	return changed
}

// optimizeBlocksWithHoistInfo is optimizeBlocks, additionally reporting
// whether any predecessor Phi was hoisted this round; see
// blockOptState.phisMoved.
func optimizeBlocksWithHoistInfo(f *ssa.Func, c *Collected) (changed, phisMoved bool) {
	st := &blockOptState{f: f, c: c, visited: ssa.NewBlockSet()}
	for _, b := range f.Postorder() {
		st.optimizeBlock(b)
		st.visited.Insert(b.ID)
	}
	st.runPeephole()
	if st.changed {
		f.AssureDoms()
	}
	return st.changed, st.phisMoved
}

// grandparentsOf returns the predecessor blocks of blk, skipping Bad edges.
func grandparentsOf(blk *ssa.Block) []*ssa.Block {
	out := make([]*ssa.Block, 0, blk.Arity())
	for _, p := range blk.Preds {
		if p.IsBad() {
			continue
		}
		out = append(out, p.Block)
	}
	return out
}

// test implements spec.md §4.3.1's dispensability test for b's predecessor
// at position pos.
func (st *blockOptState) test(b *ssa.Block, pos int) decision {
	p := b.Preds[pos]
	if p.IsBad() {
		return decision{weight: 1, bad: true}
	}
	pb := p.Block

	if !pb.Removable {
		return decision{weight: 1}
	}
	if pb == b {
		pb.Removable = false
		return decision{weight: 1}
	}
	if p.IsUnknownJump() {
		pb.Removable = false
		return decision{weight: 1}
	}

	if len(st.c.Phis[b]) > 0 && st.aliasesSibling(b, pos, pb) {
		pb.Removable = false
		return decision{weight: 1}
	}

	if st.visited.Has(pb.ID) {
		return decision{weight: 1}
	}

	return decision{weight: pb.Arity(), dispensable: true}
}

// aliasesSibling implements the disjointness rule: among b's predecessors
// other than pos, no two empty predecessors may share a grandparent, and
// no empty predecessor may share a grandparent with a non-empty sibling.
// Sharing a grandparent means pb's own dispensable fold would duplicate a
// value or collapse a copy placement a sibling edge also depends on —
// spec.md's scenario S6 (two empty blocks B, C both hanging off a common
// G and both feeding D) is exactly this: grandparentsOf(B) and
// grandparentsOf(C) both contain G, so folding both in the same round
// would lose one of the two control-flow paths Phi(D) still needs to
// distinguish.
func (st *blockOptState) aliasesSibling(b *ssa.Block, pos int, pb *ssa.Block) bool {
	pbGrandparents := grandparentsOf(pb)
	for i, sp := range b.Preds {
		if i == pos || sp.IsBad() {
			continue
		}
		sb := sp.Block
		if sb.Removable && !st.visited.Has(sb.ID) {
			for _, gp := range grandparentsOf(sb) {
				for _, pgp := range pbGrandparents {
					if gp == pgp {
						return true
					}
				}
			}
		} else {
			for _, pgp := range pbGrandparents {
				if pgp == sb {
					return true
				}
			}
		}
	}
	return false
}

// optimizeBlock runs §4.3.2-§4.3.4 for a single block b.
func (st *blockOptState) optimizeBlock(b *ssa.Block) {
	n := b.Arity()
	if n == 0 {
		return
	}

	decisions := make([]decision, n)
	maxPreds := 0
	anyDispensable := false
	for i := 0; i < n; i++ {
		decisions[i] = st.test(b, i)
		maxPreds += decisions[i].weight
		if decisions[i].dispensable {
			anyDispensable = true
		}
	}

	if !anyDispensable {
		// No predecessor folds away: a Bad edge stays Bad and a
		// surviving edge stays itself, so b's shape is already final.
		return
	}

	for _, phi := range append([]*ssa.Value{}, st.c.Phis[b]...) {
		st.rewritePhi(b, phi, decisions, maxPreds)
	}

	st.rescuePredecessorPhis(b, decisions, maxPreds)

	st.rewriteBlockInputs(b, decisions, maxPreds)

	st.changed = true
}

// rewritePhi implements spec.md §4.3.2.
func (st *blockOptState) rewritePhi(b *ssa.Block, phi *ssa.Value, decisions []decision, maxPreds int) {
	newArgs := make([]*ssa.Value, 0, maxPreds)
	for i, d := range decisions {
		switch {
		case d.bad:
			newArgs = append(newArgs, st.f.NewBad(b, phi.Mode))

		case d.dispensable:
			pb := b.PredBlock(i)
			incoming := phi.Args[i]
			for j := 0; j < pb.Arity(); j++ {
				pp := pb.Preds[j]
				switch {
				case pp.IsBad():
					newArgs = append(newArgs, st.f.NewBad(b, phi.Mode))
				case incoming.IsPhi() && incoming.Block == pb:
					newArgs = append(newArgs, incoming.Args[j])
				default:
					newArgs = append(newArgs, incoming)
				}
			}

		default:
			newArgs = append(newArgs, phi.Args[i])
		}
	}

	if len(newArgs) != maxPreds {
		st.f.Fatalf("phi rewrite produced %d args, block rewrite expects %d", len(newArgs), maxPreds)
	}

	if len(newArgs) == 1 {
		ssa.Exchange(phi, newArgs[0])
		phi.Block.RemoveValue(phi)
		return
	}
	ssa.SetInputs(phi, newArgs)
}

// rescuePredecessorPhis implements spec.md §4.3.3: every Phi owned by a
// vanishing predecessor must be either killed (no legal use survives) or
// hoisted into b (when the predecessor is b's immediate dominator).
func (st *blockOptState) rescuePredecessorPhis(b *ssa.Block, decisions []decision, maxPreds int) {
	for k, d := range decisions {
		if !d.dispensable {
			continue
		}
		pb := b.PredBlock(k)
		for _, phiPrime := range append([]*ssa.Value{}, st.c.Phis[pb]...) {
			if pb != b.Idom {
				bad := st.f.NewBad(pb, phiPrime.Mode)
				ssa.Exchange(phiPrime, bad)
				pb.RemoveValue(phiPrime)
				continue
			}
			st.hoistPhi(b, phiPrime, decisions, k, maxPreds)
		}
	}
}

// hoistPhi splices a dominator predecessor's Phi into b, per spec.md
// §4.3.3's self-loop-safe reconstruction.
func (st *blockOptState) hoistPhi(b *ssa.Block, phiPrime *ssa.Value, decisions []decision, k, maxPreds int) {
	newArgs := make([]*ssa.Value, 0, maxPreds)
	for i, d := range decisions {
		if i == k {
			newArgs = append(newArgs, phiPrime.Args...)
			continue
		}
		switch {
		case d.bad:
			newArgs = append(newArgs, st.f.NewBad(b, phiPrime.Mode))
		case d.dispensable:
			pbi := b.PredBlock(i)
			for j := 0; j < pbi.Arity(); j++ {
				newArgs = append(newArgs, phiPrime)
			}
		default:
			newArgs = append(newArgs, phiPrime)
		}
	}

	if len(newArgs) != maxPreds {
		st.f.Fatalf("hoisted phi rewrite produced %d args, block rewrite expects %d", len(newArgs), maxPreds)
	}

	ssa.SetOwningBlock(phiPrime, b)
	st.c.Phis[b] = append(st.c.Phis[b], phiPrime)
	st.phisMoved = true

	if len(newArgs) == 1 {
		ssa.Exchange(phiPrime, newArgs[0])
		phiPrime.Block.RemoveValue(phiPrime)
		return
	}
	ssa.SetInputs(phiPrime, newArgs)
}

// rewriteBlockInputs implements spec.md §4.3.4: b's own control-input
// vector is rebuilt, and every folded predecessor is detached.
func (st *blockOptState) rewriteBlockInputs(b *ssa.Block, decisions []decision, maxPreds int) {
	newPreds := make([]*ssa.Value, 0, maxPreds)
	for i, d := range decisions {
		switch {
		case d.bad:
			newPreds = append(newPreds, st.f.NewBad(b, ssa.ModeControl))

		case d.dispensable:
			pb := b.PredBlock(i)
			for j := 0; j < pb.Arity(); j++ {
				pp := pb.Preds[j]
				if pp.IsBad() {
					newPreds = append(newPreds, st.f.NewBad(b, ssa.ModeControl))
				} else {
					newPreds = append(newPreds, pp)
				}
			}
			jmp := b.Preds[i]
			ssa.Exchange(jmp, st.f.NewBad(b, ssa.ModeControl))
			st.f.DetachBlock(pb)

		default:
			newPreds = append(newPreds, b.Preds[i])
		}
	}

	if len(newPreds) != maxPreds {
		st.f.Fatalf("block input rewrite produced %d preds, expected %d", len(newPreds), maxPreds)
	}
	b.SetPreds(newPreds)
}

// runPeephole implements spec.md §4.3.5: after the block walk, run the
// local peephole rewriter over every block (and its Phis), exchanging
// whenever it finds a different, equivalent node.
func (st *blockOptState) runPeephole() {
	for _, b := range append([]*ssa.Block{}, st.f.Blocks...) {
		for _, phi := range append([]*ssa.Value{}, b.Phis()...) {
			if r, ok := ssa.EquivalentNode(phi).(*ssa.Value); ok && r != nil {
				ssa.Exchange(phi, r)
				b.RemoveValue(phi)
				st.changed = true
			}
		}
	}
	for _, b := range append([]*ssa.Block{}, st.f.Blocks...) {
		if b == st.f.Entry || b == st.f.End {
			// Pinned Func fields: never a merge target, even if their
			// shape would otherwise qualify.
			continue
		}
		if r, ok := ssa.EquivalentNode(b).(*ssa.Block); ok && r != nil {
			mergeBlock(st.f, b, r)
			st.changed = true
		}
	}
}

// mergeBlock absorbs b's content into its surviving equivalent
// predecessor pred and detaches b, the "block with exactly one Jmp
// predecessor collapses into that predecessor" case spec.md §4.3.5
// calls out by name.
func mergeBlock(f *ssa.Func, b, pred *ssa.Block) {
	staleJmp := b.Preds[0]
	for _, v := range append([]*ssa.Value{}, b.Values...) {
		ssa.SetOwningBlock(v, pred)
	}
	ssa.Exchange(staleJmp, f.NewBad(pred, ssa.ModeControl))
	pred.RemoveValue(staleJmp)
	f.DetachBlock(b)
}
