// Copyright (c) 2025 Nikita Kamenev
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package fasta reads reference sequences from FASTA files and builds an
// .fai-style byte-offset index for random access to individual records
// (§4.8).
package fasta

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/rainycape/unidecode"
)

// Record is one named sequence read from a FASTA file.
type Record struct {
	Name     string
	Sequence []byte
}

// ReadAll parses every `>name description` header and its following
// sequence lines out of r, trimming whitespace and rejecting empty
// records. Non-ASCII header names are transliterated with
// github.com/rainycape/unidecode so they are safe to later use as a SAM
// RNAME (SAM §1.4 restricts header names to `[!-)+-<>-~][!-~]*`).
func ReadAll(r io.Reader) ([]Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<24)

	var records []Record
	var cur *Record
	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		if b[0] == '>' {
			if cur != nil {
				records = append(records, *cur)
			}
			name := asciiName(splitHeaderName(b[1:]))
			if name == "" {
				return nil, fmt.Errorf("fasta: line %d: empty record name", line)
			}
			cur = &Record{Name: name}
			continue
		}
		if cur == nil {
			return nil, fmt.Errorf("fasta: line %d: sequence data before any header", line)
		}
		cur.Sequence = append(cur.Sequence, b...)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("fasta: %w", err)
	}
	if cur != nil {
		records = append(records, *cur)
	}
	for _, rec := range records {
		if len(rec.Sequence) == 0 {
			return nil, fmt.Errorf("fasta: record %q has no sequence", rec.Name)
		}
	}
	return records, nil
}

// asciiName transliterates a possibly non-ASCII header token to ASCII,
// passing plain ASCII input through unchanged.
func asciiName(b []byte) string {
	for _, c := range b {
		if c > 127 {
			return unidecode.Unidecode(string(b))
		}
	}
	return string(b)
}
