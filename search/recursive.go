// Copyright (c) 2025 Nikita Kamenev
// Licensed under the MIT License. See LICENSE file in the project root for details.
package search

import (
	"github.com/birc-gsa-solutions/readmap-go/align"
	"github.com/birc-gsa-solutions/readmap-go/fmindex"
)

// Search is the natural-recursion form of the bounded-edit backwards
// search (§4.6), mirroring the source's generator-based do_m/do_i/do_d.
// It collects the full hit set eagerly; Iterate (iterative.go) is
// the required pull-based form for patterns/budgets where the recursion
// depth (bounded by m+k) risks the host stack.
func (s *Searcher) Search(pattern []byte, k int) ([]Hit, error) {
	if len(pattern) == 0 {
		return nil, ErrEmptyPattern
	}
	p, ok := s.mapPattern(pattern)
	if !ok {
		return nil, nil
	}

	rs := &recSearch{idx: s.idx, p: p, d: s.idx.DTable(p)}
	rs.edits = make([]align.Edit, 0, len(p)+k)

	i := len(p) - 1
	rs.doM(i, 0, s.idx.N, k)
	rs.doI(i, 0, s.idx.N, k)
	return rs.hits, nil
}

// recSearch carries the state threaded through one Search call's
// recursion: the index, the mapped pattern, its D-table, the growing
// edit-op stack, and the accumulated hits.
type recSearch struct {
	idx   *fmindex.Index
	p     []int32
	d     []int32
	edits []align.Edit
	hits  []Hit
}

// dispatch is rec_search: check termination and the D-table prune, then
// try M, I, and D in that order (§4.6 "ordering"). The root of the
// traversal never goes through dispatch: Search calls doM and doI directly,
// so no D is tried there ("top-level seeding").
func (r *recSearch) dispatch(i int, left, right int32, editsLeft int) {
	if i < 0 {
		if editsLeft >= 0 {
			r.emit(left, right)
		}
		return
	}
	if editsLeft < int(fmindex.DAt(r.d, i)) {
		return
	}
	r.doM(i, left, right, editsLeft)
	r.doI(i, left, right, editsLeft)
	r.doD(i, left, right, editsLeft)
}

// emit reports (SA[j], cigar) for every j in [left, right), per the
// hit-reporting branch of §4.6.
func (r *recSearch) emit(left, right int32) {
	for j := left; j < right; j++ {
		r.hits = append(r.hits, finalizeHit(r.idx, j, r.edits))
	}
}

// doM is the match/mismatch operator: for each real symbol a, extend the
// interval and recurse with i-1, charging one edit on a mismatch.
func (r *recSearch) doM(i int, left, right int32, editsLeft int) {
	r.edits = append(r.edits, align.Match)
	for a := int32(1); a < r.idx.Sigma; a++ {
		nl := r.idx.C[a] + r.idx.OAt(a, left)
		nr := r.idx.C[a] + r.idx.OAt(a, right)
		if nl >= nr {
			continue
		}
		cost := 0
		if a != r.p[i] {
			cost = 1
		}
		r.dispatch(i-1, nl, nr, editsLeft-cost)
	}
	r.edits = r.edits[:len(r.edits)-1]
}

// doI is the insertion operator: consume one pattern symbol without
// advancing the text, charging one edit, same interval.
func (r *recSearch) doI(i int, left, right int32, editsLeft int) {
	r.edits = append(r.edits, align.Insert)
	r.dispatch(i-1, left, right, editsLeft-1)
	r.edits = r.edits[:len(r.edits)-1]
}

// doD is the deletion operator: consume one text symbol without
// advancing the pattern (same i), charging one edit.
func (r *recSearch) doD(i int, left, right int32, editsLeft int) {
	r.edits = append(r.edits, align.Delete)
	for a := int32(1); a < r.idx.Sigma; a++ {
		nl := r.idx.C[a] + r.idx.OAt(a, left)
		nr := r.idx.C[a] + r.idx.OAt(a, right)
		if nl >= nr {
			continue
		}
		r.dispatch(i, nl, nr, editsLeft-1)
	}
	r.edits = r.edits[:len(r.edits)-1]
}
