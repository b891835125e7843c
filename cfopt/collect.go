// Copyright 2024 The Falcon Contributors
// Use of this source code is governed by the GNU General Public License,
// version 3 or later; see the repository root for the full text.

package cfopt

import "github.com/lamproae/libfirm/ssa"

// Collected is the result of a single Collect pass: spec.md §4.1's
// "phi-lists attached to blocks, proj-chains attached to producers,
// switch-cond set". The spec's own design note (§9) allows trading the
// single scratch link field for a side table keyed by producer/block
// identity; that is what Phis/Projs are here, rather than a field on
// ssa.Value.
type Collected struct {
	// Phis maps a block to the Phi values it owns, most-recently-visited
	// first (matching the "prepend" order spec.md §4.1 specifies, though
	// nothing downstream depends on the order).
	Phis map[*ssa.Block][]*ssa.Value

	// Projs maps a producer (a Cond) to its Proj children.
	Projs map[*ssa.Value][]*ssa.Value

	// Switches holds every Cond whose selector is not boolean-moded, i.e.
	// a genuine multi-way switch rather than a two-way branch.
	Switches []*ssa.Value
}

// Collect performs the single whole-graph walk spec.md §4.1 describes. It
// clears/initializes the per-node scratch state (here: fresh side tables),
// marks every block tentatively removable, threads Phi and Proj chains,
// and demotes any block that cannot be removed on the spot.
func Collect(f *ssa.Func) *Collected {
	c := &Collected{
		Phis:  make(map[*ssa.Block][]*ssa.Value),
		Projs: make(map[*ssa.Value][]*ssa.Value),
	}

	// (b) mark every block tentatively removable, except the entry and
	// End blocks: Entry has no predecessor vector of its own, and both
	// are pinned fields on Func, so neither may be folded away and
	// detached out from under f.Entry/f.End.
	for _, b := range f.Blocks {
		b.Removable = b != f.Entry && b != f.End
	}

	ssa.Walk(f, func(n interface{}) {
		switch x := n.(type) {
		case *ssa.Value:
			collectValue(c, x)
		case *ssa.Block:
			if x.HasLabel() {
				x.Removable = false
			}
		}
	}, nil)

	return c
}

func collectValue(c *Collected, v *ssa.Value) {
	switch {
	case v.IsPhi():
		// (c) thread Phi nodes onto their owning block's chain.
		b := v.Block
		c.Phis[b] = append([]*ssa.Value{v}, c.Phis[b]...)

	case v.IsJmp():
		// (e, partial) a Jmp alone never demotes its block.

	case v.IsProj():
		// (d) thread Proj children onto their producer's chain, and
		// (e) demote the block the Proj lives in: it hosts the producer's
		// real computation (a Cond), so it is not a pass-through block.
		producer := v.Producer()
		c.Projs[producer] = append([]*ssa.Value{v}, c.Projs[producer]...)
		if v.Block != nil {
			v.Block.Removable = false
		}

	default:
		// (f) any other opcode demotes its block. A Cond with a
		// non-boolean selector is additionally recorded as a switch.
		if v.Block != nil {
			v.Block.Removable = false
		}
		if v.IsCond() && len(v.Args) > 0 && v.Args[0].Mode != ssa.ModeBool {
			c.Switches = append(c.Switches, v)
		}
	}
}
