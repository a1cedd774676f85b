// Copyright (c) 2025 Nikita Kamenev
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package sam renders search hits as plain-text SAM v1 records (§4.10).
// It covers only the column subset the engine can actually populate:
// there is no mate pairing, strand, or binary (BAM/CRAM) encoding, since
// the engine performs single-end forward-strand search only.
package sam

import (
	"bufio"
	"fmt"
	"io"

	"github.com/gedex/inflector"

	"github.com/birc-gsa-solutions/readmap-go/align"
	"github.com/birc-gsa-solutions/readmap-go/fastq"
	"github.com/birc-gsa-solutions/readmap-go/search"
)

// FlagUnmapped is the FLAG value for a read with no hit under the configured
// edit budget. FlagMapped is the FLAG value for every hit this engine reports:
// no strand or mate bits are ever set (§1 Non-goals).
const (
	FlagMapped   = 0
	FlagUnmapped = 4
)

// Record is one rendered SAM alignment line, restricted to the eleven
// mandatory columns of SAM v1 this engine can populate.
type Record struct {
	QNAME string
	FLAG  int
	RNAME string
	POS   int // 1-based leftmost mapping position, 0 if unmapped
	MAPQ  int
	CIGAR align.Cigar
	RNEXT string
	PNEXT int
	TLEN  int
	SEQ   string
	QUAL  string
}

// defaultMAPQ is used for every mapped hit: the engine does not compute a
// mapping-quality estimate, so every reported hit gets the same
// placeholder confidence.
const defaultMAPQ = 0

// FromHit converts one engine hit against reference refName into a mapped
// SAM record. hit.Pos is a 0-based suffix-array position; POS is rendered
// 1-based per SAM §1.4.
func FromHit(read fastq.Record, refName string, hit search.Hit) Record {
	return Record{
		QNAME: read.Name,
		FLAG:  FlagMapped,
		RNAME: refName,
		POS:   int(hit.Pos) + 1,
		MAPQ:  defaultMAPQ,
		CIGAR: hit.Cigar,
		RNEXT: "*",
		PNEXT: 0,
		TLEN:  0,
		SEQ:   string(read.Sequence),
		QUAL:  string(read.Quality),
	}
}

// Unmapped builds the FLAG-4 fallback record for a read with no hit under
// the configured edit budget.
func Unmapped(read fastq.Record) Record {
	return Record{
		QNAME: read.Name,
		FLAG:  FlagUnmapped,
		RNAME: "*",
		POS:   0,
		MAPQ:  0,
		CIGAR: nil,
		RNEXT: "*",
		PNEXT: 0,
		TLEN:  0,
		SEQ:   string(read.Sequence),
		QUAL:  string(read.Quality),
	}
}

// cigarField renders r's CIGAR, using "*" for an absent alignment as
// SAM §1.4 requires.
func (r Record) cigarField() string {
	if len(r.CIGAR) == 0 {
		return "*"
	}
	return r.CIGAR.String()
}

// String renders r as one tab-separated SAM line, without a trailing
// newline.
func (r Record) String() string {
	qual := r.QUAL
	if qual == "" {
		qual = "*"
	}
	return fmt.Sprintf("%s\t%d\t%s\t%d\t%d\t%s\t%s\t%d\t%d\t%s\t%s",
		r.QNAME, r.FLAG, r.RNAME, r.POS, r.MAPQ, r.cigarField(),
		r.RNEXT, r.PNEXT, r.TLEN, r.SEQ, qual)
}

// Write renders each of recs as a SAM line terminated by '\n', in order.
// Errors from w are returned unwrapped: there is nothing useful to add to
// an underlying io.Writer failure.
func Write(w io.Writer, recs ...Record) error {
	bw := bufio.NewWriter(w)
	for _, rec := range recs {
		if _, err := bw.WriteString(rec.String()); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Summarize renders the one-line "N read(s), M occurrence(s)" tally the
// CLI prints to stderr after a run, pluralizing with
// github.com/gedex/inflector instead of a hand-rolled count==1 check.
func Summarize(reads, occurrences int) string {
	readWord := "read"
	if reads != 1 {
		readWord = inflector.Pluralize(readWord)
	}
	occWord := "occurrence"
	if occurrences != 1 {
		occWord = inflector.Pluralize(occWord)
	}
	return fmt.Sprintf("%d %s, %d %s", reads, readWord, occurrences, occWord)
}
