// Copyright 2024 The Falcon Contributors
// Use of this source code is governed by the GNU General Public License,
// version 3 or later; see the repository root for the full text.

package ssa

// buildLinearChain builds entry -> b1 -> b2 -> exit, all via plain Jmps,
// and returns the Func plus its blocks in order for easy indexing.
func buildLinearChain() (*Func, []*Block) {
	f := NewFunc("linear")
	entry := f.NewBlock()
	b1 := f.NewBlock()
	b2 := f.NewBlock()
	exit := f.NewBlock()
	f.Entry = entry
	f.End = exit

	b1.AddPred(f.NewJmp(entry))
	b2.AddPred(f.NewJmp(b1))
	exit.AddPred(f.NewJmp(b2))

	return f, []*Block{entry, b1, b2, exit}
}

// buildDiamond builds a Cond-rooted diamond: entry branches to thenB and
// elseB, both rejoining at join.
func buildDiamond() (f *Func, entry, thenB, elseB, join *Block) {
	f = NewFunc("diamond")
	entry = f.NewBlock()
	thenB = f.NewBlock()
	elseB = f.NewBlock()
	join = f.NewBlock()
	f.Entry = entry
	f.End = join

	selector := f.NewValue(entry, OpConstBool, ModeBool)
	selector.Aux = true
	cond := f.NewValue(entry, OpCond, ModeTuple)
	cond.AddArg(selector)

	projThen := f.NewValue(entry, OpProj, ModeControl)
	projThen.Aux = 1
	projThen.AddArg(cond)
	projElse := f.NewValue(entry, OpProj, ModeControl)
	projElse.Aux = 0
	projElse.AddArg(cond)

	thenB.AddPred(projThen)
	elseB.AddPred(projElse)

	join.AddPred(f.NewJmp(thenB))
	join.AddPred(f.NewJmp(elseB))

	return f, entry, thenB, elseB, join
}

// buildSelfLoop builds entry -> loop -> (loop | exit), a single-block
// natural loop.
func buildSelfLoop() (f *Func, entry, loop, exit *Block) {
	f = NewFunc("selfloop")
	entry = f.NewBlock()
	loop = f.NewBlock()
	exit = f.NewBlock()
	f.Entry = entry
	f.End = exit

	loop.AddPred(f.NewJmp(entry))

	selector := f.NewValue(loop, OpConstBool, ModeBool)
	selector.Aux = true
	cond := f.NewValue(loop, OpCond, ModeTuple)
	cond.AddArg(selector)

	projBack := f.NewValue(loop, OpProj, ModeControl)
	projBack.Aux = 1
	projBack.AddArg(cond)
	projExit := f.NewValue(loop, OpProj, ModeControl)
	projExit.Aux = 0
	projExit.AddArg(cond)

	loop.AddPred(projBack)
	exit.AddPred(projExit)

	return f, entry, loop, exit
}
