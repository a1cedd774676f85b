// Copyright (c) 2025 Nikita Kamenev
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package search implements the bounded-edit backwards traversal of an
// FM-index (§4.6): given a pattern and an edit budget k, it enumerates
// every (suffix-array position, CIGAR) pair whose alignment costs at most
// k edits.
package search

import (
	"errors"

	"github.com/birc-gsa-solutions/readmap-go/align"
	"github.com/birc-gsa-solutions/readmap-go/fmindex"
)

// ErrEmptyPattern reports that Search was invoked on the empty string — a
// contract violation (§7), distinct from "no hits".
var ErrEmptyPattern = errors.New("search: empty pattern")

// Hit is one reported occurrence: a concrete text position (read from SA
// at emission time) together with its alignment CIGAR, in text order.
type Hit struct {
	Pos   int32
	Cigar align.Cigar
}

// Searcher is a callable matcher closing over one fmindex.Index (§4.7).
// Multiple Searchers over different references share no state; each may
// be driven concurrently on its own goroutine, since the underlying Index
// is immutable (§5).
type Searcher struct {
	idx *fmindex.Index
}

// New wraps an Index as a callable matcher.
func New(idx *fmindex.Index) *Searcher {
	return &Searcher{idx: idx}
}

// mapPattern maps pattern through the index's alphabet. An unknown symbol
// is reported via ok=false, which callers treat as "no matches possible"
// and translate into an empty hit stream, never an error (§7).
func (s *Searcher) mapPattern(pattern []byte) (p []int32, ok bool) {
	mapped, err := s.idx.Alphabet.Map(pattern)
	if err != nil {
		return nil, false
	}
	return mapped, true
}

// finalizeHit turns a push-order edit buffer (built right-to-left as the
// traversal descends the pattern) into a Hit: the buffer is reversed into
// text order before run-length encoding, per §4.6's "CIGARs are returned
// in text order" contract.
func finalizeHit(idx *fmindex.Index, j int32, editBuf []align.Edit) Hit {
	edits := make([]align.Edit, len(editBuf))
	for i, e := range editBuf {
		edits[len(editBuf)-1-i] = e
	}
	return Hit{Pos: idx.SA[j], Cigar: align.EditsToCigar(edits)}
}
