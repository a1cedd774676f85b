// Copyright (c) 2025 Nikita Kamenev
// Licensed under the MIT License. See LICENSE file in the project root for details.
package fmindex

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io"

	"github.com/birc-gsa-solutions/readmap-go/alphabet"
)

// ErrCorruptIndex reports that a loaded Index fails its C/O shape
// invariants (§7): a fatal loader-side condition, never produced by the
// search engine itself.
var ErrCorruptIndex = errors.New("fmindex: corrupt index")

// Index is the immutable quintuple (Alphabet, SA, C, O, O') of §4.7,
// bundled per reference sequence. Apart from Alphabet, which carries its
// own GobEncode/GobDecode methods, it stores only primitive slices and
// integers, so it round-trips through encoding/gob (§6.1).
type Index struct {
	Alphabet *alphabet.Alphabet
	SA       []int32
	C        []int32
	O        []int32
	RO       []int32
	N        int32
	Sigma    int32
}

// Build runs the full preprocessing pipeline of §2 over one reference
// text: alphabet construction, SA-IS, BWT, C/O, and — from the reversed
// text, through the same alphabet — the reverse occurrence table O'.
func Build(text []byte) *Index {
	alpha := alphabet.New(text)
	sigma := int32(alpha.Size())
	n := int32(len(text)) + 1

	sa, bwt := saAndBWT(text, alpha, sigma)
	c := cTableOf(bwt, sigma)
	o := oTableOf(bwt, sigma)

	_, revBWT := saAndBWT(reverseBytes(text), alpha, sigma)
	ro := oTableOf(revBWT, sigma)

	return &Index{
		Alphabet: alpha,
		SA:       sa,
		C:        c,
		O:        o,
		RO:       ro,
		N:        n,
		Sigma:    sigma,
	}
}

// OAt looks up O[a][i], the count of symbol a in B[0:i].
func (idx *Index) OAt(a, i int32) int32 {
	return idx.O[int(a)*int(idx.N+1)+int(i)]
}

// ROAt looks up O'[a][i], the reverse occurrence table's equivalent entry.
func (idx *Index) ROAt(a, i int32) int32 {
	return idx.RO[int(a)*int(idx.N+1)+int(i)]
}

// DTable builds the per-pattern lower-bound table D (§4.5) for a pattern
// already mapped through idx.Alphabet. The returned slice has length
// len(p); callers index D[-1] as 0 by bounds-guarding the lookup (§4.5).
func (idx *Index) DTable(p []int32) []int32 {
	d := make([]int32, len(p))
	left, right := int32(0), idx.N
	var minEdits int32
	for i, a := range p {
		left = idx.C[a] + idx.ROAt(a, left)
		right = idx.C[a] + idx.ROAt(a, right)
		if left == right {
			minEdits++
			left, right = 0, idx.N
		}
		d[i] = minEdits
	}
	return d
}

// DAt returns D[i], treating the virtual slot D[-1] as 0 (§4.5, §4.6).
func DAt(d []int32, i int) int32 {
	if i < 0 {
		return 0
	}
	return d[i]
}

// validate checks the C/O shape invariants of §3/§8 after a gob decode.
func (idx *Index) validate() error {
	if idx.Alphabet == nil {
		return fmt.Errorf("%w: missing alphabet", ErrCorruptIndex)
	}
	n, sigma := int(idx.N), int(idx.Sigma)
	if sigma != idx.Alphabet.Size() {
		return fmt.Errorf("%w: sigma %d does not match alphabet size %d", ErrCorruptIndex, sigma, idx.Alphabet.Size())
	}
	if len(idx.SA) != n {
		return fmt.Errorf("%w: SA has length %d, want %d", ErrCorruptIndex, len(idx.SA), n)
	}
	if len(idx.C) != sigma {
		return fmt.Errorf("%w: C has length %d, want %d", ErrCorruptIndex, len(idx.C), sigma)
	}
	if len(idx.O) != sigma*(n+1) {
		return fmt.Errorf("%w: O has length %d, want %d", ErrCorruptIndex, len(idx.O), sigma*(n+1))
	}
	if len(idx.RO) != sigma*(n+1) {
		return fmt.Errorf("%w: O' has length %d, want %d", ErrCorruptIndex, len(idx.RO), sigma*(n+1))
	}
	for a := 1; a < sigma; a++ {
		if idx.C[a] < idx.C[a-1] {
			return fmt.Errorf("%w: C is not monotone at %d", ErrCorruptIndex, a)
		}
	}
	return nil
}

// Collection is the named reference set of §6: an ordered-by-insertion
// mapping from reference name to its packaged Index, as produced by
// `readmap preprocess` and consumed by `readmap align`.
type Collection struct {
	Names   []string
	Indexes map[string]*Index
}

// NewCollection creates an empty Collection ready for Put.
func NewCollection() *Collection {
	return &Collection{Indexes: make(map[string]*Index)}
}

// Put adds or replaces the Index for a reference name, preserving
// first-insertion order in Names.
func (c *Collection) Put(name string, idx *Index) {
	if _, exists := c.Indexes[name]; !exists {
		c.Names = append(c.Names, name)
	}
	c.Indexes[name] = idx
}

// gobCollection is the wire shape: gob does not need Names/Indexes kept in
// sync on decode, so encoding the ordered name list plus a plain slice of
// indexes (rather than the map directly) keeps iteration order stable
// across a save/load round trip.
type gobCollection struct {
	Names   []string
	Indexes []*Index
}

// WriteTo gob-encodes the collection to w (§6.1).
func (c *Collection) WriteTo(w io.Writer) error {
	wire := gobCollection{Names: c.Names, Indexes: make([]*Index, len(c.Names))}
	for i, name := range c.Names {
		wire.Indexes[i] = c.Indexes[name]
	}
	return gob.NewEncoder(w).Encode(wire)
}

// ReadCollection decodes a Collection previously written by WriteTo,
// re-validating every Index's C/O shape invariants.
func ReadCollection(r io.Reader) (*Collection, error) {
	var wire gobCollection
	if err := gob.NewDecoder(r).Decode(&wire); err != nil {
		return nil, fmt.Errorf("fmindex: decode collection: %w", err)
	}
	if len(wire.Names) != len(wire.Indexes) {
		return nil, fmt.Errorf("%w: %d names but %d indexes", ErrCorruptIndex, len(wire.Names), len(wire.Indexes))
	}
	c := NewCollection()
	for i, name := range wire.Names {
		idx := wire.Indexes[i]
		if idx == nil {
			return nil, fmt.Errorf("%w: nil index for %q", ErrCorruptIndex, name)
		}
		if err := idx.validate(); err != nil {
			return nil, fmt.Errorf("fmindex: reference %q: %w", name, err)
		}
		c.Put(name, idx)
	}
	return c, nil
}

// Bytes gob-encodes the collection into a fresh in-memory buffer.
func (c *Collection) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
