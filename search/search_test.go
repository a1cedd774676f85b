// Copyright (c) 2025 Nikita Kamenev
// Licensed under the MIT License. See LICENSE file in the project root for details.
package search

import (
	"sort"
	"strings"
	"testing"

	"github.com/birc-gsa-solutions/readmap-go/align"
	"github.com/birc-gsa-solutions/readmap-go/alphabet"
	"github.com/birc-gsa-solutions/readmap-go/fmindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchRejectsEmptyPattern(t *testing.T) {
	s := New(fmindex.Build([]byte("mississippi")))
	_, err := s.Search(nil, 0)
	assert.ErrorIs(t, err, ErrEmptyPattern)

	_, err = s.Iterate(nil, 0)
	assert.ErrorIs(t, err, ErrEmptyPattern)
}

func TestSearchUnknownSymbolIsEmptyNotError(t *testing.T) {
	s := New(fmindex.Build([]byte("mississippi")))
	hits, err := s.Search([]byte("x"), 2)
	require.NoError(t, err)
	assert.Empty(t, hits)

	it, err := s.Iterate([]byte("x"), 2)
	require.NoError(t, err)
	_, ok := it.Next()
	assert.False(t, ok)
}

func TestSearchExactMatchesNaiveScan(t *testing.T) {
	text := "mississippi"
	s := New(fmindex.Build([]byte(text)))
	for _, pattern := range []string{"si", "ppi", "ssi", "pip", "x"} {
		hits, err := s.Search([]byte(pattern), 0)
		require.NoError(t, err)

		var gotPositions []int
		for _, h := range hits {
			gotPositions = append(gotPositions, int(h.Pos))
			assert.Equal(t, len(pattern), h.Cigar.QueryLength(), "exact match CIGAR must consume the whole pattern")
		}
		sort.Ints(gotPositions)
		assert.Equal(t, naivePositions(text, pattern), gotPositions, "pattern %q", pattern)
	}
}

func TestSearchBudgetBoundsEveryHit(t *testing.T) {
	text := "mississippi"
	idx := fmindex.Build([]byte(text))
	mapped := idx.Alphabet.MappedWithSentinel([]byte(text))
	s := New(idx)
	for _, k := range []int{1, 2, 3} {
		hits, err := s.Search([]byte("ssippi"), k)
		require.NoError(t, err)
		require.NotEmpty(t, hits)
		for _, h := range hits {
			alignment := align.ExtractAlignment(textBytesFromMapped(mapped, idx.Alphabet), []byte("ssippi"), int(h.Pos), h.Cigar)
			assert.LessOrEqual(t, align.CountEdits(alignment), k, "hit %+v exceeds budget %d", h, k)
		}
	}
}

func TestIterativeMatchesRecursive(t *testing.T) {
	text := "mississippi"
	s := New(fmindex.Build([]byte(text)))
	for _, tc := range []struct {
		pattern string
		k       int
	}{
		{"si", 0}, {"ppi", 0}, {"ssi", 1}, {"pip", 2}, {"ssippi", 3},
	} {
		want, err := s.Search([]byte(tc.pattern), tc.k)
		require.NoError(t, err)

		it, err := s.Iterate([]byte(tc.pattern), tc.k)
		require.NoError(t, err)
		got := it.All()

		require.Equal(t, len(want), len(got), "pattern %q k=%d", tc.pattern, tc.k)
		for i := range want {
			assert.Equal(t, want[i].Pos, got[i].Pos, "pattern %q k=%d hit %d", tc.pattern, tc.k, i)
			assert.Equal(t, want[i].Cigar.String(), got[i].Cigar.String(), "pattern %q k=%d hit %d", tc.pattern, tc.k, i)
		}
	}
}

func TestSearchCigarsConsumeWholePattern(t *testing.T) {
	s := New(fmindex.Build([]byte("mississippi")))
	hits, err := s.Search([]byte("missisipi"), 2)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	for _, h := range hits {
		assert.Equal(t, len("missisipi"), h.Cigar.QueryLength())
	}
}

// naivePositions returns every index in text where pattern occurs exactly.
func naivePositions(text, pattern string) []int {
	var positions []int
	for i := 0; i+len(pattern) <= len(text); i++ {
		if strings.HasPrefix(text[i:], pattern) {
			positions = append(positions, i)
		}
	}
	return positions
}

// textBytesFromMapped rebuilds the plain byte text from a sentinel-mapped
// sequence, for feeding back into align.ExtractAlignment in tests.
func textBytesFromMapped(mapped []int32, a *alphabet.Alphabet) []byte {
	out := make([]byte, len(mapped)-1)
	for i, code := range mapped[:len(mapped)-1] {
		out[i] = a.Char(code)
	}
	return out
}
