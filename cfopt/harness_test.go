// Copyright 2024 The Falcon Contributors
// Use of this source code is governed by the GNU General Public License,
// version 3 or later; see the repository root for the full text.

package cfopt

import "github.com/lamproae/libfirm/ssa"

// buildEmptyChain builds entry -> empty -> empty -> exit, all via plain
// Jmps: every interior block is a pure pass-through with no Phis.
func buildEmptyChain() *ssa.Func {
	f := ssa.NewFunc("chain")
	entry := f.NewBlock()
	mid1 := f.NewBlock()
	mid2 := f.NewBlock()
	exit := f.NewBlock()
	f.Entry = entry
	f.End = exit

	mid1.AddPred(f.NewJmp(entry))
	mid2.AddPred(f.NewJmp(mid1))
	exit.AddPred(f.NewJmp(mid2))

	return f
}

// buildDiamondWithEmptyArm builds a two-way Cond where the else arm is a
// pure pass-through block and the join block owns a Phi fed by a real
// value on the then-arm and the same value (reached through the empty
// else-arm) again — exercising §4.3.2's Phi rewriting when one incoming
// edge folds away.
func buildDiamondWithEmptyArm() (f *ssa.Func, entry, thenB, elseB, join *ssa.Block, phi, v *ssa.Value) {
	f = ssa.NewFunc("diamond")
	entry = f.NewBlock()
	thenB = f.NewBlock()
	elseB = f.NewBlock()
	join = f.NewBlock()
	f.Entry = entry
	f.End = join

	selector := f.NewValue(entry, ssa.OpConstBool, ssa.ModeBool)
	selector.Aux = true
	cond := f.NewValue(entry, ssa.OpCond, ssa.ModeTuple)
	cond.AddArg(selector)

	projThen := f.NewValue(entry, ssa.OpProj, ssa.ModeControl)
	projThen.Aux = 1
	projThen.AddArg(cond)
	projElse := f.NewValue(entry, ssa.OpProj, ssa.ModeControl)
	projElse.Aux = 0
	projElse.AddArg(cond)

	thenB.AddPred(projThen)
	elseB.AddPred(projElse)

	v = f.NewValue(thenB, ssa.OpAdd, ssa.ModeInt)

	join.AddPred(f.NewJmp(thenB))
	join.AddPred(f.NewJmp(elseB))

	phi = f.NewValue(join, ssa.OpPhi, ssa.ModeInt)
	phi.AddArg(v)
	phi.AddArg(v)
	f.Keepalives = append(f.Keepalives, phi)

	return f, entry, thenB, elseB, join, phi, v
}

// buildDiamondWithDominatorPhi builds a diamond whose two arms merge at an
// intermediate block mid (owning a Phi of its own) before mid alone feeds
// join. mid is join's sole predecessor and therefore join's immediate
// dominator: when mid folds away as dispensable, its Phi cannot simply be
// killed (join is the only place left for its value), so this exercises
// §4.3.3's hoist-into-b rescue path rather than the kill path.
func buildDiamondWithDominatorPhi() (f *ssa.Func, entry, thenB, elseB, mid, join *ssa.Block, innerPhi *ssa.Value) {
	f = ssa.NewFunc("diamond-hoist")
	entry = f.NewBlock()
	thenB = f.NewBlock()
	elseB = f.NewBlock()
	mid = f.NewBlock()
	join = f.NewBlock()
	f.Entry = entry
	f.End = join

	selector := f.NewValue(entry, ssa.OpConstBool, ssa.ModeBool)
	selector.Aux = true
	cond := f.NewValue(entry, ssa.OpCond, ssa.ModeTuple)
	cond.AddArg(selector)

	projThen := f.NewValue(entry, ssa.OpProj, ssa.ModeControl)
	projThen.Aux = 1
	projThen.AddArg(cond)
	projElse := f.NewValue(entry, ssa.OpProj, ssa.ModeControl)
	projElse.Aux = 0
	projElse.AddArg(cond)

	thenB.AddPred(projThen)
	elseB.AddPred(projElse)

	v1 := f.NewValue(thenB, ssa.OpAdd, ssa.ModeInt)
	v2 := f.NewValue(elseB, ssa.OpAdd, ssa.ModeInt)

	mid.AddPred(f.NewJmp(thenB))
	mid.AddPred(f.NewJmp(elseB))
	innerPhi = f.NewValue(mid, ssa.OpPhi, ssa.ModeInt)
	innerPhi.AddArg(v1)
	innerPhi.AddArg(v2)

	join.AddPred(f.NewJmp(mid))

	return f, entry, thenB, elseB, mid, join, innerPhi
}

// buildSharedGrandparentSiblings builds the textbook shared-grandparent
// diamond: g branches to b and c, both pure pass-through blocks (no
// computation of their own), which both rejoin at d. d owns a Phi fed by
// two distinct values computed in g itself. b and c are each individually
// dispensable, but grandparentsOf(b) and grandparentsOf(c) both equal
// {g}: folding both in the same round would collapse two still-distinct
// incoming edges into one, losing the Phi's ability to tell which value
// arrived along which path. Only one of the two may fold per round; the
// disjointness rule (aliasesSibling) is what is supposed to stop the
// other one.
func buildSharedGrandparentSiblings() (f *ssa.Func, g, b, c, d *ssa.Block, phi, v1, v2 *ssa.Value) {
	f = ssa.NewFunc("shared-grandparent")
	g = f.NewBlock()
	b = f.NewBlock()
	c = f.NewBlock()
	d = f.NewBlock()
	f.Entry = g
	f.End = d

	selector := f.NewValue(g, ssa.OpConstBool, ssa.ModeBool)
	selector.Aux = true
	cond := f.NewValue(g, ssa.OpCond, ssa.ModeTuple)
	cond.AddArg(selector)

	projB := f.NewValue(g, ssa.OpProj, ssa.ModeControl)
	projB.Aux = 1
	projB.AddArg(cond)
	projC := f.NewValue(g, ssa.OpProj, ssa.ModeControl)
	projC.Aux = 0
	projC.AddArg(cond)

	b.AddPred(projB)
	c.AddPred(projC)

	v1 = f.NewValue(g, ssa.OpAdd, ssa.ModeInt)
	v2 = f.NewValue(g, ssa.OpAdd, ssa.ModeInt)

	d.AddPred(f.NewJmp(b))
	d.AddPred(f.NewJmp(c))

	phi = f.NewValue(d, ssa.OpPhi, ssa.ModeInt)
	phi.AddArg(v1)
	phi.AddArg(v2)
	f.Keepalives = append(f.Keepalives, phi)

	return f, g, b, c, d, phi, v1, v2
}

// buildDegenerateSwitchSingleCase builds a Cond with only one live Proj
// (the rest already pruned), the §4.2 "unconditional branch" case.
func buildDegenerateSwitchSingleCase() (f *ssa.Func, cond *ssa.Value, proj *ssa.Value) {
	f = ssa.NewFunc("switch-single")
	entry := f.NewBlock()
	target := f.NewBlock()
	f.Entry = entry
	f.End = target

	selector := f.NewValue(entry, ssa.OpConstInt, ssa.ModeInt)
	selector.Aux = 5
	cond = f.NewValue(entry, ssa.OpCond, ssa.ModeTuple)
	cond.Aux = 0
	cond.AddArg(selector)

	proj = f.NewValue(entry, ssa.OpProj, ssa.ModeControl)
	proj.Aux = 0
	proj.AddArg(cond)
	target.AddPred(proj)

	return f, cond, proj
}

// buildDegenerateSwitchBinaryConstant builds a two-arm Cond whose selector
// is a compile-time constant int, the §4.2 "pick a case, kill the other"
// case.
func buildDegenerateSwitchBinaryConstant(selectorValue, defaultCase int) (f *ssa.Func, cond, projA, projDef *ssa.Value, caseA, def *ssa.Block) {
	f = ssa.NewFunc("switch-binary")
	entry := f.NewBlock()
	caseA = f.NewBlock()
	def = f.NewBlock()
	join := f.NewBlock()
	f.Entry = entry
	f.End = join

	selector := f.NewValue(entry, ssa.OpConstInt, ssa.ModeInt)
	selector.Aux = selectorValue
	cond = f.NewValue(entry, ssa.OpCond, ssa.ModeTuple)
	cond.Aux = defaultCase
	cond.AddArg(selector)

	projA = f.NewValue(entry, ssa.OpProj, ssa.ModeControl)
	projA.Aux = 0
	projA.AddArg(cond)
	projDef = f.NewValue(entry, ssa.OpProj, ssa.ModeControl)
	projDef.Aux = defaultCase
	projDef.AddArg(cond)

	caseA.AddPred(projA)
	def.AddPred(projDef)

	// Both arms continue on to a shared join so neither is a true
	// dead-end leaf: the arm that survives simplification still has
	// somewhere of its own to go, matching a real two-way branch.
	join.AddPred(f.NewJmp(caseA))
	join.AddPred(f.NewJmp(def))

	return f, cond, projA, projDef, caseA, def
}
