// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

// This file implements the scratch-resource reservation discipline from
// spec.md §5: the mark bit (Block.Removable) and the per-node link field
// must be exclusively reserved before a pass runs and released when it is
// done. A second reservation while one is outstanding is a programming
// error and is reported the only way this pass reports errors: a fatal
// assertion (spec.md §7).

// MarkReservation is a handle on the per-block "mark" scratch bit
// (Block.Removable). Release it when the pass that reserved it is done.
type MarkReservation struct{ f *Func }

// ReserveMark reserves the per-block mark bit for the caller's exclusive
// use. It is a fatal error to reserve it twice without an intervening
// Release.
func (f *Func) ReserveMark() *MarkReservation {
	if f.markReserved {
		f.Fatalf("mark resource already reserved")
	}
	f.markReserved = true
	return &MarkReservation{f: f}
}

// Release gives the mark bit back.
func (r *MarkReservation) Release() {
	if !r.f.markReserved {
		r.f.Fatalf("mark resource released twice")
	}
	r.f.markReserved = false
}

// LinkReservation is a handle on the per-node link scratch resource. Per
// spec.md §9's design note, this implementation keeps the two logically
// distinct chains (Phis-per-block, Projs-per-producer) in side tables
// rather than a literal field on Value, so the "reservation" here
// documents ownership of those side tables rather than a field slot — but
// the same exclusivity discipline applies: at most one pass may hold it.
type LinkReservation struct{ f *Func }

// ReserveLink reserves the per-node link resource.
func (f *Func) ReserveLink() *LinkReservation {
	if f.linkReserved {
		f.Fatalf("link resource already reserved")
	}
	f.linkReserved = true
	return &LinkReservation{f: f}
}

// Release gives the link resource back.
func (r *LinkReservation) Release() {
	if !r.f.linkReserved {
		r.f.Fatalf("link resource released twice")
	}
	r.f.linkReserved = false
}
