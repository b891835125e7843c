// Copyright 2024 The Falcon Contributors
// Use of this source code is governed by the GNU General Public License,
// version 3 or later; see the repository root for the full text.

package cfopt

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lamproae/libfirm/internal/cfconfig"
	"github.com/lamproae/libfirm/ssa"
	"github.com/stretchr/testify/require"
)

// blockShape is a comparable snapshot of a block's identity-independent
// structure: its predecessor arities and the number of Phis it owns. Two
// isomorphic-but-differently-ID'd graphs compare equal under this shape,
// which is what RunTwice needs (a second OptimizeCF pass relabels nothing,
// but comparing *ssa.Block pointers directly would be meaningless once the
// first pass has already replaced the graph's blocks).
type blockShape struct {
	Preds int
	Phis  int
}

func snapshotShape(f *ssa.Func) []blockShape {
	shapes := make([]blockShape, 0, len(f.Blocks))
	for _, b := range f.Blocks {
		shapes = append(shapes, blockShape{Preds: len(b.Preds), Phis: len(b.Phis())})
	}
	sort.Slice(shapes, func(i, j int) bool {
		if shapes[i].Preds != shapes[j].Preds {
			return shapes[i].Preds < shapes[j].Preds
		}
		return shapes[i].Phis < shapes[j].Phis
	})
	return shapes
}

// RunTwice exercises spec.md §8's idempotence property: running the pass
// again over its own output must find nothing left to fold. It returns the
// two shape snapshots so a caller can assert they are identical.
func RunTwice(f *ssa.Func) (first, second []blockShape) {
	OptimizeCF(f)
	first = snapshotShape(f)
	OptimizeCF(f)
	second = snapshotShape(f)
	return first, second
}

func TestOptimizeCFCollapsesEmptyChain(t *testing.T) {
	f := buildEmptyChain()

	OptimizeCF(f)

	require.Len(t, f.Blocks, 2)
	require.Contains(t, f.Blocks, f.Entry)
	require.Contains(t, f.Blocks, f.End)
	require.NoError(t, CheckInvariants(f))
}

func TestOptimizeCFRewritesPhiOnFoldedArm(t *testing.T) {
	f, _, thenB, elseB, join, phi, v := buildDiamondWithEmptyArm()

	OptimizeCF(f)

	require.NotContains(t, f.Blocks, elseB)
	require.Contains(t, f.Blocks, thenB)
	require.Contains(t, f.Blocks, join)
	require.Equal(t, v, phi.Args[0])
	require.Equal(t, v, phi.Args[1])
	require.NoError(t, CheckInvariants(f))
}

func TestOptimizeCFHoistsDominatorPhi(t *testing.T) {
	f, _, thenB, elseB, mid, join, innerPhi := buildDiamondWithDominatorPhi()

	OptimizeCF(f)

	require.NotContains(t, f.Blocks, mid)
	require.Contains(t, f.Blocks, thenB)
	require.Contains(t, f.Blocks, elseB)
	require.Equal(t, join, innerPhi.Block)
	require.Contains(t, join.Phis(), innerPhi)
	require.NoError(t, CheckInvariants(f))
}

func TestOptimizeCFSimplifiesSingleCaseSwitch(t *testing.T) {
	f, cond, proj := buildDegenerateSwitchSingleCase()
	target := f.End

	OptimizeCF(f)

	require.NotContains(t, target.Preds, proj, "the lone Proj should have become a plain Jmp")
	require.NotContains(t, target.Preds, cond)
	require.NoError(t, CheckInvariants(f))
}

func TestOptimizeCFPicksLiveCaseOfBinarySwitchAndFoldsThrough(t *testing.T) {
	f, _, _, _, caseA, def := buildDegenerateSwitchBinaryConstant(0, 1)
	join := f.End

	OptimizeCF(f)

	// The selector picked caseA (case 0); def's incoming edge is killed.
	// caseA and def are both pure forwarding blocks (nothing but a Jmp to
	// join), so once the switch is resolved the Block Optimizer folds
	// both away: entry reaches join directly, and the dead arm survives
	// only as a Bad slot in join's input vector.
	require.NotContains(t, f.Blocks, caseA)
	require.NotContains(t, f.Blocks, def)
	require.Contains(t, f.Blocks, join)
	require.Len(t, join.Preds, 2)

	badCount, liveCount := 0, 0
	for _, p := range join.Preds {
		if p.IsBad() {
			badCount++
		} else {
			liveCount++
		}
	}
	require.Equal(t, 1, badCount, "the killed def arm collapses to a single Bad slot")
	require.Equal(t, 1, liveCount, "the taken caseA arm survives as a direct edge from entry")

	require.NoError(t, CheckInvariants(f))
}

// TestOptimizeCFReachesFixpoint confirms a second OptimizeCF run over an
// already-cleaned graph finds nothing left to do: both the Switch
// Simplifier and the Block Optimizer report no change on a graph that
// has already converged.
func TestOptimizeCFReachesFixpoint(t *testing.T) {
	f := buildEmptyChain()
	OptimizeCF(f)

	before := make([]*ssa.Block, len(f.Blocks))
	copy(before, f.Blocks)

	f.AssureDoms()
	c := Collect(f)
	require.False(t, simplifySwitches(f, c), "nothing left for the switch simplifier to do")
	require.False(t, optimizeBlocks(f, c), "nothing left for the block optimizer to do")

	require.Equal(t, before, f.Blocks)
	require.NoError(t, CheckInvariants(f))
}

func TestOptimizeCFIsIdempotent(t *testing.T) {
	f, _, _, _, _, _, _ := buildDiamondWithDominatorPhi()

	before, after := RunTwice(f)

	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("second OptimizeCF pass changed the graph's shape (-first +second):\n%s", diff)
	}
	require.NoError(t, CheckInvariants(f))
}

func TestRunWithConfigHonorsMaxFixpointIterations(t *testing.T) {
	f := buildEmptyChain()
	cfg := &cfconfig.Config{MaxFixpointIterations: 4}

	OptimizeCFPass("test").RunWithConfig(f, cfg)

	require.Len(t, f.Blocks, 2)
	require.NoError(t, CheckInvariants(f))
}

func TestRunWithConfigDumpEachRoundDoesNotPanicWithoutLogger(t *testing.T) {
	f := buildEmptyChain()
	cfg := &cfconfig.Config{DumpEachRound: true}

	require.NotPanics(t, func() {
		OptimizeCFPass("test").RunWithConfig(f, cfg)
	})
	require.NoError(t, CheckInvariants(f))
}
