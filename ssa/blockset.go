// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

import "golang.org/x/tools/container/intsets"

// BlockSet is a dense set of block IDs, used everywhere a whole-graph walk,
// the Block Optimizer, or a reachability check needs "visited"/"reachable"
// bookkeeping over blocks (Walk's block half, the Block Optimizer's
// single-walk "already visited" test, ReachableBlocks). Block IDs are
// small and densely packed, which is exactly the case intsets.Sparse is
// built for, so this wraps it instead of a map[*Block]bool.
type BlockSet struct {
	s intsets.Sparse
}

// NewBlockSet returns an empty BlockSet.
func NewBlockSet() *BlockSet { return &BlockSet{} }

// Insert adds id to the set and reports whether it was newly added.
func (s *BlockSet) Insert(id ID) bool { return s.s.Insert(int(id)) }

// Has reports whether id is in the set.
func (s *BlockSet) Has(id ID) bool { return s.s.Has(int(id)) }

// Remove deletes id from the set.
func (s *BlockSet) Remove(id ID) bool { return s.s.Remove(int(id)) }

// Len reports the number of elements in the set.
func (s *BlockSet) Len() int { return s.s.Len() }
