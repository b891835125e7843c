// Copyright 2024 The Falcon Contributors
// Use of this source code is governed by the GNU General Public License,
// version 3 or later; see the repository root for the full text.

package cfopt

import (
	"github.com/lamproae/libfirm/internal/cfconfig"
	"github.com/lamproae/libfirm/ssa"
)

// Pass is a minimal pass handle, deliberately not golang.org/x/tools/go/
// analysis.Analyzer: that type is built around go/types-typed facts and
// source positions, neither of which this bespoke Sea-of-Nodes graph has.
// Pass instead mirrors the compiler's own internal pass-scheduling
// struct (f.pass in the teacher's likelyadjust.go): a name for
// diagnostics and a debug level, nothing more.
type Pass struct {
	Name  string
	Debug int
}

// OptimizeCFPass returns a named Pass handle for OptimizeCF, letting a
// caller hold this pass alongside others without depending on its
// implementation.
func OptimizeCFPass(name string) *Pass {
	return &Pass{Name: name}
}

// maxFixpointIterations bounds the {collect, simplify switches} inner
// loop so a malformed graph cannot spin the Driver forever; spec.md §4.4
// does not itself bound it (the loop is expected to always terminate
// since each iteration strictly shrinks the switch set or the block
// count), but a defensive cap keeps CheckInvariants's caller diagnosable
// rather than hung.
const maxFixpointIterations = 1 << 16

// Run executes the control-flow cleanup pass described by spec.md §4.4 on
// f using the default configuration; see RunWithConfig.
func (p *Pass) Run(f *ssa.Func) {
	p.RunWithConfig(f, cfconfig.Default())
}

// RunWithConfig is Run, tunable by cfg: simplify switches to their own
// {recompute dominators, collect, simplify} fixpoint, then recompute
// dominators once more and run the Block Optimizer exactly once over the
// converged graph (spec.md §4.4's pseudocode runs the Block Optimizer a
// single time after switches have settled, not in an outer loop with it —
// the Block Optimizer only removes blocks and rewires Phis, it never
// changes a Cond's arity, so it cannot itself create a new switch to
// simplify). It finishes by peepholing End, purging End's keep-alive list
// of Bad and duplicate entries, pruning newly-dead hoisted Phis out of
// that list, and releasing the scratch resources it reserved.
func (p *Pass) RunWithConfig(f *ssa.Func, cfg *cfconfig.Config) {
	p.Debug = boolToDebugLevel(cfg.Debug)

	limit := maxFixpointIterations
	if cfg.MaxFixpointIterations > 0 {
		limit = cfg.MaxFixpointIterations
	}

	mark := f.ReserveMark()
	defer mark.Release()
	link := f.ReserveLink()
	defer link.Release()

	for i := 0; ; i++ {
		if i >= limit {
			f.Fatalf("switch simplification did not reach a fixpoint after %d iterations", i)
		}
		f.AssureDoms()
		c := Collect(f)
		if !simplifySwitches(f, c) {
			break
		}
	}

	f.AssureDoms()
	c := Collect(f)
	_, phisMoved := optimizeBlocksWithHoistInfo(f, c)

	peepholeEnd(f)
	purgeEndKeepalives(f, phisMoved)

	if cfg.DumpEachRound && f.Logger != nil && f.Logger.Log() {
		if dump, err := ssa.DumpCompressed(f); err == nil {
			f.Logf("cfopt pass dump: %d compressed bytes", len(dump))
		}
	}
}

func boolToDebugLevel(b bool) int {
	if b {
		return 1
	}
	return 0
}

// peepholeEnd implements spec.md §4.4's final step: run the local
// peephole rewriter over every surviving Keepalive, in case the last
// Block Optimizer round left one in a reducible shape (a trivial Phi
// collapsing to its single real input). End itself is a pinned sentinel
// (Func.End) and is never a candidate for the block-merge side of
// EquivalentNode: folding it away would leave f.End dangling.
func peepholeEnd(f *ssa.Func) {
	for _, ka := range append([]*ssa.Value{}, f.Keepalives...) {
		if r, ok := ssa.EquivalentNode(ka).(*ssa.Value); ok && r != nil {
			ssa.Exchange(ka, r)
		}
	}
}

// purgeEndKeepalives implements spec.md §4.4's final housekeeping over
// End's keep-alive list: drop every Bad entry (a keepalive whose value
// was killed elsewhere in the pass) and collapse duplicate entries (the
// same value held alive more than once). If phisMoved is set — the Block
// Optimizer hoisted at least one predecessor Phi this round — also drop
// any keepalive Phi left with no real user: a Phi that was only being
// kept alive to survive the hoist, and that nothing in the graph actually
// reads afterward, is dead weight once the hoist has settled.
func purgeEndKeepalives(f *ssa.Func, phisMoved bool) {
	seen := make(map[*ssa.Value]bool, len(f.Keepalives))
	out := make([]*ssa.Value, 0, len(f.Keepalives))
	for _, ka := range f.Keepalives {
		if ka.IsBad() || seen[ka] {
			continue
		}
		seen[ka] = true
		if phisMoved && ka.IsPhi() && !hasRealUser(ka) {
			continue
		}
		out = append(out, ka)
	}
	f.Keepalives = out
}

// hasRealUser reports whether v is read by anything besides its own
// entry in f.Keepalives (membership in Keepalives is a plain slice
// append, not an Args reference, so it never shows up in v.Uses itself).
func hasRealUser(v *ssa.Value) bool {
	return len(v.Uses) > 0
}

// OptimizeCF is the package-level entry point spec.md §6 exposes: run the
// control-flow cleanup pass on f using its default pass name.
func OptimizeCF(f *ssa.Func) {
	OptimizeCFPass("cfopt").Run(f)
}
