// Copyright (c) 2024 The Falcon Contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Command cfopt-demo builds a handful of small, hand-assembled Sea-of-Nodes
// graphs, runs the control-flow cleanup pass over each, and prints a
// before/after text dump. It exists to make the pass's effect visible
// without a front end, the same role falcon's own cmd/main.go plays for
// a full source file.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lamproae/libfirm/cfopt"
	"github.com/lamproae/libfirm/internal/cfconfig"
	"github.com/lamproae/libfirm/ssa"
)

func main() {
	configPath := flag.String("config", "", "path to a cfopt driver config (YAML); empty uses defaults")
	scenario := flag.String("scenario", "chain", "demo scenario: chain, diamond, or switch")
	flag.Parse()

	cfg := cfconfig.Default()
	if *configPath != "" {
		loaded, err := cfconfig.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cfopt-demo: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	f, err := buildScenario(*scenario)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cfopt-demo: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("-- before --")
	ssa.DumpText(os.Stdout, f)

	cfopt.OptimizeCFPass("cfopt-demo").RunWithConfig(f, cfg)

	fmt.Println("-- after --")
	ssa.DumpText(os.Stdout, f)

	if err := cfopt.CheckInvariants(f); err != nil {
		fmt.Fprintf(os.Stderr, "cfopt-demo: invariant check failed: %v\n", err)
		os.Exit(1)
	}
}

func buildScenario(name string) (*ssa.Func, error) {
	switch name {
	case "chain":
		return buildEmptyChain(), nil
	case "diamond":
		return buildDiamondWithEmptyArm(), nil
	case "switch":
		return buildDegenerateSwitch(), nil
	default:
		return nil, fmt.Errorf("unknown scenario %q (want chain, diamond, or switch)", name)
	}
}

// buildEmptyChain builds entry -> empty -> empty -> exit, the simplest
// case the Block Optimizer folds down to entry -> exit.
func buildEmptyChain() *ssa.Func {
	f := ssa.NewFunc("chain")
	entry := f.NewBlock()
	mid1 := f.NewBlock()
	mid2 := f.NewBlock()
	exit := f.NewBlock()
	f.Entry = entry
	f.End = exit

	j1 := f.NewJmp(entry)
	mid1.AddPred(j1)
	j2 := f.NewJmp(mid1)
	mid2.AddPred(j2)
	j3 := f.NewJmp(mid2)
	exit.AddPred(j3)

	return f
}

// buildDiamondWithEmptyArm builds a Cond with one empty arm rejoining at
// a Phi, exercising §4.3.2/§4.3.3's rewriting and rescuing.
func buildDiamondWithEmptyArm() *ssa.Func {
	f := ssa.NewFunc("diamond")
	entry := f.NewBlock()
	thenB := f.NewBlock()
	elseB := f.NewBlock()
	join := f.NewBlock()
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

	v := f.NewValue(thenB, ssa.OpAdd, ssa.ModeInt)

	jThen := f.NewJmp(thenB)
	jElse := f.NewJmp(elseB)
	join.AddPred(jThen)
	join.AddPred(jElse)

	phi := f.NewValue(join, ssa.OpPhi, ssa.ModeInt)
	phi.AddArg(v)
	phi.AddArg(v)

	f.Keepalives = append(f.Keepalives, phi)

	return f
}

// buildDegenerateSwitch builds a two-way switch (one explicit case, one
// default) whose selector folds to a compile-time constant, exercising
// the Switch Simplifier's binary-selector case (§4.2).
func buildDegenerateSwitch() *ssa.Func {
	f := ssa.NewFunc("switch")
	entry := f.NewBlock()
	caseA := f.NewBlock()
	def := f.NewBlock()
	f.Entry = entry
	f.End = def

	selector := f.NewValue(entry, ssa.OpConstInt, ssa.ModeInt)
	selector.Aux = 0
	cond := f.NewValue(entry, ssa.OpCond, ssa.ModeTuple)
	cond.Aux = 1 // default case number
	cond.AddArg(selector)

	projA := f.NewValue(entry, ssa.OpProj, ssa.ModeControl)
	projA.Aux = 0
	projA.AddArg(cond)
	projDef := f.NewValue(entry, ssa.OpProj, ssa.ModeControl)
	projDef.Aux = 1
	projDef.AddArg(cond)

	caseA.AddPred(projA)
	def.AddPred(projDef)

	return f
}
