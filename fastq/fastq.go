// Copyright (c) 2025 Nikita Kamenev
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package fastq reads query reads from FASTQ files (§4.9).
package fastq

import (
	"bufio"
	"fmt"
	"io"
)

// Record is one read: a name, its called bases, and per-base quality
// scores. Sequence and Quality always have equal length.
type Record struct {
	Name     string
	Sequence []byte
	Quality  []byte
}

// Reader pulls one Record at a time out of a FASTQ stream, for callers
// (such as `readmap align` on a large query file) that don't want to hold
// every read in memory at once.
type Reader struct {
	sc   *bufio.Scanner
	line int
}

// NewReader wraps r for record-at-a-time reading. r may already be a
// github.com/klauspost/pgzip decompressing reader when the caller has
// detected a .gz query file; Reader itself is compression-agnostic.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<24)
	return &Reader{sc: sc}
}

// Next returns the next record, ok=false at clean end of input, or an
// error on malformed input.
func (r *Reader) Next() (Record, bool, error) {
	header, ok, err := r.nextNonEmpty()
	if err != nil {
		return Record{}, false, err
	}
	if !ok {
		return Record{}, false, nil
	}
	if header[0] != '@' {
		return Record{}, false, fmt.Errorf("fastq: line %d: expected '@name', got %q", r.line, header)
	}
	name := string(header[1:])

	seq, ok, err := r.nextNonEmpty()
	if err != nil {
		return Record{}, false, err
	}
	if !ok {
		return Record{}, false, fmt.Errorf("fastq: record %q: missing sequence line", name)
	}
	sequence := append([]byte(nil), seq...)

	plus, ok, err := r.nextNonEmpty()
	if err != nil {
		return Record{}, false, err
	}
	if !ok || plus[0] != '+' {
		return Record{}, false, fmt.Errorf("fastq: record %q: expected '+' separator", name)
	}

	qual, ok, err := r.nextNonEmpty()
	if err != nil {
		return Record{}, false, err
	}
	if !ok {
		return Record{}, false, fmt.Errorf("fastq: record %q: missing quality line", name)
	}
	if len(qual) != len(sequence) {
		return Record{}, false, fmt.Errorf("fastq: record %q: quality length %d does not match sequence length %d", name, len(qual), len(sequence))
	}

	return Record{Name: name, Sequence: sequence, Quality: append([]byte(nil), qual...)}, true, nil
}

// nextNonEmpty returns the next non-blank line, skipping blank lines
// between records, and reports ok=false at end of input.
func (r *Reader) nextNonEmpty() ([]byte, bool, error) {
	for r.sc.Scan() {
		r.line++
		b := r.sc.Bytes()
		if len(b) == 0 {
			continue
		}
		return b, true, nil
	}
	if err := r.sc.Err(); err != nil {
		return nil, false, fmt.Errorf("fastq: %w", err)
	}
	return nil, false, nil
}

// ReadAll buffers every record of r into a slice, for small query files
// where holding them all in memory at once is not a concern.
func ReadAll(r io.Reader) ([]Record, error) {
	reader := NewReader(r)
	var records []Record
	for {
		rec, ok, err := reader.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return records, nil
		}
		records = append(records, rec)
	}
}
