// Copyright (c) 2025 Nikita Kamenev
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package sais builds a suffix array over a sentinel-terminated, densely
// mapped integer sequence using the induced-sorting (SA-IS) algorithm.
package sais

import "github.com/birc-gsa-solutions/readmap-go/alphabet"

// undefined marks a suffix-array slot not yet assigned during induction.
const undefined int32 = -1

// Compute builds the suffix array of text. text must be the output of
// alphabet.Alphabet.MappedWithSentinel: length n, text[n-1] == 0 (the
// sentinel), and 0 nowhere else. asize is the number of distinct codes in
// text, including the sentinel (alphabet.Alphabet.Size()).
//
// On return, sa holds a permutation of 0..n-1 such that the suffix
// text[sa[i]:] is lexicographically less than text[sa[i+1]:] for every i.
func Compute(text []int32, asize int32) []int32 {
	if len(text) == 0 {
		return nil
	}
	sa := make([]int32, len(text))
	isS := make([]bool, len(text))
	saisRec(text, sa, asize, isS)
	return sa
}

// ComputeText is a convenience wrapper for tests and demos: it maps text
// through a fresh Alphabet (appending the sentinel) and returns the
// resulting suffix array.
func ComputeText(text []byte) []int32 {
	mapped, a := alphabet.WithSentinel(text)
	return Compute(mapped, int32(a.Size()))
}

// saisRec implements one level of the induced-sorting recursion. isS is a
// scratch buffer at least len(text) long, shared (never reallocated) across
// the whole recursion: each level only reads and writes its own prefix.
func saisRec(text, sa []int32, asize int32, isS []bool) {
	n := len(text)
	if n == int(asize) {
		// Base case: every symbol is unique, so its value is its rank.
		for i, a := range text {
			sa[a] = int32(i)
		}
		return
	}

	classifySL(text, isS)
	counts := frequency(text, asize)
	bucketLMS(text, sa, asize, counts, isS)
	induceL(text, sa, asize, counts, isS)
	induceS(text, sa, asize, counts, isS)

	redText, lmsPositions, redSize := reduceLMS(text, sa, isS)
	redSA := lmsPositions // aliases sa[:len(redText)]; reused as the output buffer
	saisRec(redText, redSA, redSize, isS[:len(redText)])

	// The recursive call clobbered isS for redText; recompute it for text.
	classifySL(text, isS)
	reverseReduction(text, asize, sa, redText, redSA, counts, isS)
	induceL(text, sa, asize, counts, isS)
	induceS(text, sa, asize, counts, isS)
}

// classifySL labels every position S or L (§4.2 step 1). The sentinel
// (the last position) is always S; earlier positions compare against their
// successor, inheriting its class on a tie.
func classifySL(text []int32, isS []bool) {
	n := len(text)
	isS[n-1] = true
	for i := n - 2; i >= 0; i-- {
		isS[i] = text[i] < text[i+1] || (text[i] == text[i+1] && isS[i+1])
	}
}

// frequency counts occurrences of each symbol 0..asize-1 in text.
func frequency(text []int32, asize int32) []int32 {
	counts := make([]int32, asize)
	for _, a := range text {
		counts[a]++
	}
	return counts
}

// computeBuckets turns symbol counts into bucket-start offsets: bucket[a]
// is the first slot of symbol a's bucket, bucket[asize] the one-past-end
// of the whole array.
func computeBuckets(counts []int32, asize int32) []int32 {
	buckets := make([]int32, asize+1)
	for a := int32(1); a <= asize; a++ {
		buckets[a] = buckets[a-1] + counts[a-1]
	}
	return buckets
}

// bucketLMS places LMS positions (§4.2 step 2) at the tail of each
// character's bucket, scanning the text left to right and filling each
// bucket from its tail toward its head, and marks every other slot
// undefined. Position 0 is never LMS, so the scan starts at 1.
func bucketLMS(text, sa []int32, asize int32, counts []int32, isS []bool) {
	buckets := computeBuckets(counts, asize)
	for i := range sa {
		sa[i] = undefined
	}
	for i := 1; i < len(text); i++ {
		if isS[i] && !isS[i-1] {
			buckets[text[i]+1]--
			sa[buckets[text[i]+1]] = int32(i)
		}
	}
}

// induceL fills in L-type suffixes (§4.2 step 3) by a single left-to-right
// scan, appending each to the head of its bucket.
func induceL(text, sa []int32, asize int32, counts []int32, isS []bool) {
	buckets := computeBuckets(counts, asize)
	for i := 0; i < len(text); i++ {
		if sa[i] == undefined || sa[i] == 0 {
			continue
		}
		j := sa[i] - 1
		if isS[j] {
			continue
		}
		sa[buckets[text[j]]] = j
		buckets[text[j]]++
	}
}

// induceS fills in S-type suffixes (§4.2 step 4) by a single right-to-left
// scan, the mirror of induceL.
func induceS(text, sa []int32, asize int32, counts []int32, isS []bool) {
	buckets := computeBuckets(counts, asize)
	for i := len(text) - 1; i >= 0; i-- {
		if sa[i] == undefined || sa[i] == 0 {
			continue
		}
		j := sa[i] - 1
		if !isS[j] {
			continue
		}
		buckets[text[j]+1]--
		sa[buckets[text[j]+1]] = j
	}
}

// equalLMS reports whether the LMS substrings starting at i and j are
// identical: same length, same characters, and the same S/L pattern at
// every position, as required by §4.2 step 5.
func equalLMS(text []int32, isS []bool, i, j int32) bool {
	if i == j {
		return true
	}
	n := int32(len(text))
	for k := int32(0); ; k++ {
		ik, jk := i+k, j+k
		if ik >= n || jk >= n {
			return false
		}
		iLMS := ik > 0 && isS[ik] && !isS[ik-1]
		jLMS := jk > 0 && isS[jk] && !isS[jk-1]
		if k > 0 && iLMS && jLMS {
			return true
		}
		if iLMS != jLMS || text[ik] != text[jk] {
			return false
		}
	}
}

// reduceLMS names each distinct LMS substring and builds the reduced
// string T_r (§4.2 step 5). sa must already hold the fully L/S-induced
// order; on return sa[:k] holds the LMS positions in that induced order
// (reused by the caller as the recursive call's output buffer) and the
// returned redText aliases sa[k : k+k].
func reduceLMS(text, sa []int32, isS []bool) (redText, lmsPositions []int32, redSize int32) {
	k := 0
	for _, i := range sa {
		if i > 0 && isS[i] && !isS[i-1] {
			sa[k] = i
			k++
		}
	}
	compact, buffer := sa[:k], sa[k:]
	for i := range buffer {
		buffer[i] = undefined
	}

	prev, name := compact[0], int32(0)
	for _, j := range compact {
		if !equalLMS(text, isS, prev, j) {
			name++
		}
		buffer[j/2] = name
		prev = j
	}

	kk := 0
	for _, v := range buffer {
		if v != undefined {
			buffer[kk] = v
			kk++
		}
	}
	return buffer[:k], compact, name + 1
}

// reverseReduction translates the recursively-computed suffix array of the
// reduced string back into LMS positions in the original text, then
// re-derives their bucket placement (§4.2 step 7, first half). offsets is
// scratch space at least len(redSA) long (the caller passes redText's old
// backing array, no longer needed once the recursive call has returned).
func reverseReduction(text []int32, asize int32, sa, offsets, redSA []int32, counts []int32, isS []bool) {
	k := 0
	for i := 0; i < len(text); i++ {
		if i > 0 && isS[i] && !isS[i-1] {
			offsets[k] = int32(i)
			k++
		}
	}
	for i, j := range redSA {
		sa[i] = offsets[j]
	}
	for i := len(redSA); i < len(sa); i++ {
		sa[i] = undefined
	}

	buckets := computeBuckets(counts, asize)
	for i := len(redSA) - 1; i >= 0; i-- {
		j := redSA[i]
		redSA[i] = undefined
		buckets[text[j]+1]--
		sa[buckets[text[j]+1]] = j
	}
}
