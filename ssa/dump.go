// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// DumpText renders a readable textual form of f: one line per block
// listing its predecessors, then one line per value in the block. It is
// meant for -d=ssa/cfopt/dump-style debugging, not for any machine
// consumer.
func DumpText(w io.Writer, f *Func) {
	for _, b := range f.Blocks {
		fmt.Fprintf(w, "b%d <-", b.ID)
		for _, p := range b.Preds {
			if p.IsBad() {
				fmt.Fprintf(w, " bad")
				continue
			}
			fmt.Fprintf(w, " b%d(v%d)", p.Block.ID, p.ID)
		}
		if b.HasLabel() {
			fmt.Fprintf(w, " [%s]", b.Entity.Name)
		}
		fmt.Fprintln(w)
		for _, v := range b.Values {
			fmt.Fprintf(w, "    v%d = %s<%s>", v.ID, v.Op, v.Mode)
			for _, a := range v.Args {
				fmt.Fprintf(w, " v%d", a.ID)
			}
			fmt.Fprintln(w)
		}
	}
}

// DumpCompressed gzip-compresses a textual dump of f. The Driver takes one
// of these once, after the Block Optimizer, when its DumpEachRound option
// is set and Func.Logger.Log() is true, purely as an ambient debugging aid
// that never feeds back into the optimization logic.
func DumpCompressed(f *Func) ([]byte, error) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	DumpText(gw, f)
	if err := gw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
