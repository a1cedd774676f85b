// Copyright (c) 2025 Nikita Kamenev
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package alphabet maps the symbols of a reference or query text to a
// dense range of small integers, reserving 0 as a sentinel that sorts
// strictly before every real symbol.
package alphabet

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// Sentinel is the reserved value smaller than every mapped symbol.
const Sentinel int32 = 0

// Alphabet is an order-preserving bijection between source bytes and the
// dense integer range 1..Size-1. Size counts the sentinel, so a text over
// an Alphabet of Size sigma uses the symbols 0..sigma-1.
type Alphabet struct {
	toCode [256]int32
	toChar []byte
}

// New builds an Alphabet from the distinct bytes seen in text, assigning
// codes in ascending byte order so that the mapping is order-preserving.
func New(text []byte) *Alphabet {
	var seen [256]bool
	for _, b := range text {
		seen[b] = true
	}
	a := &Alphabet{}
	a.toChar = append(a.toChar, 0) // index 0 reserved for the sentinel
	var code int32 = 1
	for b := 0; b < 256; b++ {
		if !seen[b] {
			continue
		}
		a.toCode[b] = code
		a.toChar = append(a.toChar, byte(b))
		code++
	}
	return a
}

// Size is the number of distinct codes, including the sentinel.
func (a *Alphabet) Size() int {
	return len(a.toChar)
}

// Char returns the source byte for a non-sentinel code.
func (a *Alphabet) Char(code int32) byte {
	return a.toChar[code]
}

// UnknownSymbolError reports a pattern byte absent from the alphabet.
// Callers treat this as "no matches possible" and stop silently; see
// search.Searcher, whose pattern mapping turns it into an empty hit stream.
type UnknownSymbolError struct {
	Symbol byte
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("alphabet: unknown symbol %q", e.Symbol)
}

// Map translates p into this alphabet's codes. It fails with
// *UnknownSymbolError on the first byte of p absent from the alphabet.
func (a *Alphabet) Map(p []byte) ([]int32, error) {
	mapped := make([]int32, len(p))
	for i, b := range p {
		code := a.toCode[b]
		if code == 0 {
			return nil, &UnknownSymbolError{Symbol: b}
		}
		mapped[i] = code
	}
	return mapped, nil
}

// MappedWithSentinel maps text and appends the sentinel, producing the
// length-n+1 integer sequence required by sais.Compute and the BWT.
func (a *Alphabet) MappedWithSentinel(text []byte) []int32 {
	mapped := make([]int32, len(text)+1)
	for i, b := range text {
		mapped[i] = a.toCode[b]
	}
	mapped[len(text)] = Sentinel
	return mapped
}

// WithSentinel is the with-sentinel mapped string constructor of §4.1: it
// builds a fresh Alphabet from text and returns both the mapped,
// sentinel-terminated sequence and the Alphabet that produced it.
func WithSentinel(text []byte) ([]int32, *Alphabet) {
	a := New(text)
	return a.MappedWithSentinel(text), a
}

// gobForm holds the one field needed to reconstruct an Alphabet; toCode
// is derived from toChar on decode rather than stored, since it is a
// fixed-size array gob would otherwise spell out byte by byte.
type gobForm struct {
	ToChar []byte
}

// GobEncode lets Alphabet (whose fields are unexported) round-trip through
// encoding/gob as part of a persisted fmindex.Index (§6.1).
func (a *Alphabet) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(gobForm{ToChar: a.toChar}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode is the inverse of GobEncode.
func (a *Alphabet) GobDecode(data []byte) error {
	var form gobForm
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&form); err != nil {
		return err
	}
	a.toChar = form.ToChar
	for code, b := range form.ToChar {
		if code == 0 {
			continue // index 0 is the sentinel placeholder, not a real byte
		}
		a.toCode[b] = int32(code)
	}
	return nil
}

// MappedSubsequence is the with-sentinel mapped subsequence constructor of
// §4.1: it returns only the integer sequence, for callers (such as the
// sais tests) that don't need the Alphabet itself.
func MappedSubsequence(text []byte) []int32 {
	mapped, _ := WithSentinel(text)
	return mapped
}
