// Copyright (c) 2025 Nikita Kamenev
// Licensed under the MIT License. See LICENSE file in the project root for details.
package search

import (
	"github.com/birc-gsa-solutions/readmap-go/align"
	"github.com/birc-gsa-solutions/readmap-go/fmindex"
)

// frameState is one node of the explicit state machine required by §4.6:
// natural recursion may exceed the host stack on long patterns with
// generous edit budgets, so the traversal must also be expressible with
// its own frame stack.
type frameState int

const (
	stateREC frameState = iota
	stateMatch
	stateInsert
	stateDelete
	statePopNext
)

// frame is one (state, L, R, i, a, edits_idx, edits_left) node of §4.6's
// required iterative form. a is reused for three different purposes
// depending on state: the symbol currently tried in stateMatch/
// stateDelete, a 0/1 "already tried" flag in stateInsert, and the next
// SA row to emit (cursor into [left,right)) while stateREC is mid-hit.
type frame struct {
	state       frameState
	left, right int32
	i           int
	a           int32
	editsIdx    int
	editsLeft   int
	allowDelete bool
}

// Iter is a pull-based iterator over the bounded-edit backwards search,
// implementing §4.6's required iterative form. Suspension points occur
// exclusively while emitting a hit in stateREC, matching the "Suspension
// points ... occur exclusively in the hit-reporting branch of REC"
// requirement.
type Iter struct {
	idx     *fmindex.Index
	p       []int32
	d       []int32
	editBuf []align.Edit
	stack   []frame
}

// Iterate builds the required iterative-form traversal for pattern with
// edit budget k. On an unknown pattern symbol (§7) it returns an Iter whose
// Next immediately reports ok=false, and a nil error; the only error it
// returns is ErrEmptyPattern.
func (s *Searcher) Iterate(pattern []byte, k int) (*Iter, error) {
	if len(pattern) == 0 {
		return nil, ErrEmptyPattern
	}
	p, ok := s.mapPattern(pattern)
	if !ok {
		return &Iter{}, nil // empty stack: Next immediately reports done
	}

	it := &Iter{
		idx:     s.idx,
		p:       p,
		d:       s.idx.DTable(p),
		editBuf: make([]align.Edit, len(p)+k),
	}
	// Top-level seeding: the root frame starts in stateMatch directly,
	// bypassing stateREC's termination/prune checks (the source's root
	// calls do_m/do_i, never rec_search), and allowDelete is false so
	// the root never tries a leading deletion.
	it.stack = append(it.stack, frame{
		state:       stateMatch,
		left:        0,
		right:       s.idx.N,
		i:           len(p) - 1,
		a:           1,
		editsIdx:    0,
		editsLeft:   k,
		allowDelete: false,
	})
	return it, nil
}

// Next advances the state machine until it either yields the next Hit
// (ok=true) or the traversal is exhausted (ok=false).
func (it *Iter) Next() (Hit, bool) {
	for len(it.stack) > 0 {
		top := len(it.stack) - 1
		f := it.stack[top]

		switch f.state {
		case stateREC:
			if f.i < 0 {
				if f.editsLeft < 0 {
					it.stack = it.stack[:top]
					continue
				}
				if f.a == -1 {
					f.a = f.left
				}
				if f.a < f.right {
					hit := finalizeHit(it.idx, f.a, it.editBuf[:f.editsIdx])
					f.a++
					it.stack[top] = f
					return hit, true
				}
				it.stack = it.stack[:top]
				continue
			}
			if f.editsLeft < int(fmindex.DAt(it.d, f.i)) {
				it.stack = it.stack[:top]
				continue
			}
			f.state = stateMatch
			f.a = 1
			it.stack[top] = f
			continue

		case stateMatch:
			if it.tryExtend(&f, it.p[f.i]) {
				it.stack[top] = f
				continue
			}
			f.state = stateInsert
			f.a = 0
			it.stack[top] = f
			continue

		case stateInsert:
			if f.a == 0 {
				f.a = 1
				it.editBuf[f.editsIdx] = align.Insert
				it.stack[top] = f
				it.stack = append(it.stack, frame{
					state: stateREC, left: f.left, right: f.right,
					i: f.i - 1, a: -1, editsIdx: f.editsIdx + 1,
					editsLeft: f.editsLeft - 1, allowDelete: true,
				})
				continue
			}
			if f.allowDelete {
				f.state = stateDelete
				f.a = 1
			} else {
				f.state = statePopNext
			}
			it.stack[top] = f
			continue

		case stateDelete:
			if it.tryDelete(&f) {
				it.stack[top] = f
				continue
			}
			f.state = statePopNext
			it.stack[top] = f
			continue

		case statePopNext:
			it.stack = it.stack[:top]
			continue
		}
	}
	return Hit{}, false
}

// tryExtend is the stateMatch step: scan forward from f.a over real
// symbols for one that yields a non-empty interval, push the MATCH edit
// and a child REC frame, and report whether it found one (false means
// stateMatch is exhausted).
func (it *Iter) tryExtend(f *frame, patternSymbol int32) bool {
	for f.a < it.idx.Sigma {
		a := f.a
		f.a++
		nl := it.idx.C[a] + it.idx.OAt(a, f.left)
		nr := it.idx.C[a] + it.idx.OAt(a, f.right)
		if nl >= nr {
			continue
		}
		cost := 0
		if a != patternSymbol {
			cost = 1
		}
		it.editBuf[f.editsIdx] = align.Match
		it.stack = append(it.stack, frame{
			state: stateREC, left: nl, right: nr,
			i: f.i - 1, a: -1, editsIdx: f.editsIdx + 1,
			editsLeft: f.editsLeft - cost, allowDelete: true,
		})
		return true
	}
	return false
}

// tryDelete is the stateDelete step: the same bucket scan as tryExtend,
// but the child frame keeps the same pattern index i and always charges
// one full edit.
func (it *Iter) tryDelete(f *frame) bool {
	for f.a < it.idx.Sigma {
		a := f.a
		f.a++
		nl := it.idx.C[a] + it.idx.OAt(a, f.left)
		nr := it.idx.C[a] + it.idx.OAt(a, f.right)
		if nl >= nr {
			continue
		}
		it.editBuf[f.editsIdx] = align.Delete
		it.stack = append(it.stack, frame{
			state: stateREC, left: nl, right: nr,
			i: f.i, a: -1, editsIdx: f.editsIdx + 1,
			editsLeft: f.editsLeft - 1, allowDelete: true,
		})
		return true
	}
	return false
}

// All drains the iterator into a slice, for callers that want the eager
// behavior of Search but built on the stack-safe traversal.
func (it *Iter) All() []Hit {
	var hits []Hit
	for {
		hit, ok := it.Next()
		if !ok {
			return hits
		}
		hits = append(hits, hit)
	}
}
