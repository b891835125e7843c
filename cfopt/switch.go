// Copyright 2024 The Falcon Contributors
// Use of this source code is governed by the GNU General Public License,
// version 3 or later; see the repository root for the full text.

package cfopt

import "github.com/lamproae/libfirm/ssa"

// simplifySwitches runs the Switch Simplifier (spec.md §4.2) over every
// Cond the Collector recorded as a genuine multi-way switch. It reports
// whether anything changed, which drives the Driver's {Collect ->
// simplify} fixpoint (spec.md §4.4): reducing a switch to a Jmp can turn
// an otherwise non-empty block into an empty one, so the Driver must
// re-collect and try again.
func simplifySwitches(f *ssa.Func, c *Collected) bool {
	changed := false
	for _, cond := range c.Switches {
		if simplifySwitch(f, cond, c.Projs[cond]) {
			changed = true
		}
	}
	return changed
}

// simplifySwitch implements spec.md §4.2's three cases for a single Cond.
func simplifySwitch(f *ssa.Func, cond *ssa.Value, projs []*ssa.Value) bool {
	switch len(projs) {
	case 1:
		// Only the default case remains: the branch is unconditional.
		replaceWithJmp(f, cond, projs[0])
		return true

	case 2:
		selector := cond.Args[0]
		if selector.Op != ssa.OpConstInt {
			return false
		}
		v := selector.ConstIntValue()

		taken, other := pickCase(cond, projs, v)
		if taken == nil {
			return false
		}
		replaceWithJmp(f, cond, taken)
		bad := f.NewBad(other.Block, ssa.ModeControl)
		ssa.Exchange(other, bad)
		other.Block.RemoveValue(other)
		return true

	default:
		return false
	}
}

// pickCase returns the Proj whose case number equals v, falling back to
// the default Proj if none matches, and the other (now-dead) Proj.
func pickCase(cond *ssa.Value, projs []*ssa.Value, v int) (taken, other *ssa.Value) {
	def := cond.CondDefaultCase()
	var byCase, byDefault *ssa.Value
	for _, p := range projs {
		if p.ProjCase() == v {
			byCase = p
		}
		if p.ProjCase() == def {
			byDefault = p
		}
	}
	taken = byCase
	if taken == nil {
		taken = byDefault
	}
	if taken == nil {
		return nil, nil
	}
	for _, p := range projs {
		if p != taken {
			other = p
		}
	}
	return taken, other
}

// replaceWithJmp turns the chosen Proj into an unconditional jump in
// cond's block, redirecting every use of the old Proj to the new Jmp.
func replaceWithJmp(f *ssa.Func, cond, proj *ssa.Value) {
	b := cond.Block
	jmp := f.NewJmp(b)
	ssa.Exchange(proj, jmp)
	b.RemoveValue(proj)
	b.RemoveValue(cond)
}
