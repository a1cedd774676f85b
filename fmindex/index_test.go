// Copyright (c) 2025 Nikita Kamenev
// Licensed under the MIT License. See LICENSE file in the project root for details.
package fmindex

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCTableAabca(t *testing.T) {
	idx := Build([]byte("aabca"))
	assert.Equal(t, []int32{0, 1, 4, 5}, idx.C)
}

func TestBuildBWTAabca(t *testing.T) {
	index := idx(t)
	_, bwt := saAndBWT([]byte("aabca"), index.Alphabet, index.Sigma)
	assert.Equal(t, []int32{1, 3, 0, 1, 1, 2}, bwt)
}

func TestBuildOTableAabca(t *testing.T) {
	index := idx(t)
	n := index.N
	want := [][]int32{
		{0, 0, 0, 1, 1, 1, 1},
		{0, 1, 1, 1, 2, 3, 3},
		{0, 0, 0, 0, 0, 0, 1},
		{0, 0, 1, 1, 1, 1, 1},
	}
	for a := int32(0); a < index.Sigma; a++ {
		row := make([]int32, n+1)
		for i := int32(0); i <= n; i++ {
			row[i] = index.OAt(a, i)
		}
		assert.Equal(t, want[a], row, "row %d", a)
	}
}

func TestDTableMonotone(t *testing.T) {
	index := Build([]byte("mississippi"))
	p, err := index.Alphabet.Map([]byte("ssippi"))
	require.NoError(t, err)
	d := index.DTable(p)
	for i := 1; i < len(d); i++ {
		assert.LessOrEqual(t, d[i-1], d[i], "D must be monotone non-decreasing")
	}
}

func TestDTableZeroForExactSuffix(t *testing.T) {
	index := Build([]byte("mississippi"))
	p, err := index.Alphabet.Map([]byte("ppi"))
	require.NoError(t, err)
	d := index.DTable(p)
	assert.EqualValues(t, 0, d[len(d)-1], "an existing substring needs zero edits")
}

func TestDAtVirtualSlot(t *testing.T) {
	assert.EqualValues(t, 0, DAt([]int32{3, 4, 5}, -1))
	assert.EqualValues(t, 3, DAt([]int32{3, 4, 5}, 0))
}

func TestCollectionRoundTrip(t *testing.T) {
	c := NewCollection()
	c.Put("chr1", Build([]byte("aabca")))
	c.Put("chr2", Build([]byte("mississippi")))

	var buf bytes.Buffer
	require.NoError(t, c.WriteTo(&buf))

	loaded, err := ReadCollection(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"chr1", "chr2"}, loaded.Names)
	assert.Equal(t, c.Indexes["chr1"].C, loaded.Indexes["chr1"].C)
	assert.Equal(t, c.Indexes["chr1"].SA, loaded.Indexes["chr1"].SA)
	assert.Equal(t, c.Indexes["chr2"].O, loaded.Indexes["chr2"].O)

	mapped, err := loaded.Indexes["chr1"].Alphabet.Map([]byte("ab"))
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2}, mapped)
}

func TestReadCollectionRejectsCorruptShape(t *testing.T) {
	c := NewCollection()
	idx := Build([]byte("aabca"))
	idx.C = idx.C[:len(idx.C)-1] // corrupt: wrong length
	c.Put("chr1", idx)

	var buf bytes.Buffer
	require.NoError(t, c.WriteTo(&buf))

	_, err := ReadCollection(&buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptIndex)
}

func idx(t *testing.T) *Index {
	t.Helper()
	return Build([]byte("aabca"))
}
