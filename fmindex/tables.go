// Copyright (c) 2025 Nikita Kamenev
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package fmindex builds and persists the Burrows-Wheeler Transform and its
// supporting rank/count tables (C, O, reverse-O, D) over a mapped text.
package fmindex

import (
	"github.com/birc-gsa-solutions/readmap-go/alphabet"
	"github.com/birc-gsa-solutions/readmap-go/sais"
)

// bwtOf returns B[i] = text[(sa[i]-1) mod n], the Burrows-Wheeler Transform
// of the sentinel-terminated mapped text (§4.3).
func bwtOf(text, sa []int32) []int32 {
	n := len(text)
	bwt := make([]int32, n)
	for i, j := range sa {
		if j == 0 {
			bwt[i] = text[n-1]
		} else {
			bwt[i] = text[j-1]
		}
	}
	return bwt
}

// cTableOf builds the cumulative-count table: C[a] is the number of BWT
// symbols strictly less than a.
func cTableOf(bwt []int32, sigma int32) []int32 {
	freq := make([]int32, sigma)
	for _, b := range bwt {
		freq[b]++
	}
	c := make([]int32, sigma)
	for a := int32(1); a < sigma; a++ {
		c[a] = c[a-1] + freq[a-1]
	}
	return c
}

// oTableOf builds the column-major occurrence table: a flat allocation of
// sigma*(n+1) cells, column i holding the count of each symbol in
// bwt[0:i]. Column i is built from column i-1 by adding a unit vector, per
// §4.3 and the column-major layout note of §9.
func oTableOf(bwt []int32, sigma int32) []int32 {
	n := len(bwt)
	stride := n + 1
	o := make([]int32, int(sigma)*stride)
	for i := 0; i < n; i++ {
		for a := int32(0); a < sigma; a++ {
			o[int(a)*stride+i+1] = o[int(a)*stride+i]
		}
		o[int(bwt[i])*stride+i+1]++
	}
	return o
}

// reverseBytes returns a newly allocated, byte-reversed copy of text.
func reverseBytes(text []byte) []byte {
	rev := make([]byte, len(text))
	for i, b := range text {
		rev[len(text)-1-i] = b
	}
	return rev
}

// saAndBWT maps text through alpha (appending the sentinel), computes its
// suffix array via SA-IS, and derives the BWT in one step.
func saAndBWT(text []byte, alpha *alphabet.Alphabet, sigma int32) (sa, bwt []int32) {
	mapped := alpha.MappedWithSentinel(text)
	sa = sais.Compute(mapped, sigma)
	bwt = bwtOf(mapped, sa)
	return sa, bwt
}
