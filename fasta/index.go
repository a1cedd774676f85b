// Copyright (c) 2025 Nikita Kamenev
// Licensed under the MIT License. See LICENSE file in the project root for details.
package fasta

import (
	"bufio"
	"fmt"
	"io"
)

// IndexRecord is one entry of an Index: enough geometry to seek straight to
// any base of a record without rescanning the file, mirroring the .fai
// format's {length, offset, linebases, linewidth} columns.
type IndexRecord struct {
	Length    int64
	Offset    int64
	LineBases int64 // sequence bytes per line, excluding the line terminator
	LineWidth int64 // total bytes per line, including the line terminator
}

// Index maps a record name to its IndexRecord, built once per file by
// BuildIndex so Fetch can make a single seek per request.
type Index map[string]IndexRecord

// BuildIndex walks r once, recording each record's starting byte offset and
// per-line geometry. It is the fasta analog of biogo-hts/fai.NewIndex:
// the first sequence line after a header fixes that record's expected
// LineBases/LineWidth, and every following line before the next header must
// match, except optionally the record's last line which may be shorter.
func BuildIndex(r io.Reader) (Index, error) {
	idx := make(Index)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<24)

	var offset int64
	var name string
	var rec IndexRecord
	var haveRec bool
	var lastLineShort bool

	flush := func() error {
		if !haveRec {
			return nil
		}
		if _, dup := idx[name]; dup {
			return fmt.Errorf("fasta: duplicate record name %q", name)
		}
		idx[name] = rec
		return nil
	}

	for sc.Scan() {
		raw := sc.Bytes()
		lineWidth := int64(len(raw)) + 1 // newline consumed by the scanner
		if len(raw) > 0 && raw[0] == '>' {
			if err := flush(); err != nil {
				return nil, err
			}
			name = asciiName(splitHeaderName(raw[1:]))
			offset += lineWidth
			rec = IndexRecord{Offset: offset}
			haveRec = true
			lastLineShort = false
			continue
		}
		if !haveRec {
			offset += lineWidth
			continue
		}
		if lastLineShort {
			return nil, fmt.Errorf("fasta: record %q has a short line before its last line", name)
		}
		if rec.LineBases == 0 {
			rec.LineBases = int64(len(raw))
			rec.LineWidth = lineWidth
		} else if int64(len(raw)) != rec.LineBases {
			if int64(len(raw)) > rec.LineBases {
				return nil, fmt.Errorf("fasta: record %q: inconsistent line length", name)
			}
			lastLineShort = true
		}
		rec.Length += int64(len(raw))
		offset += lineWidth
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("fasta: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return idx, nil
}

// splitHeaderName returns the first whitespace-delimited token of a header
// line's remainder (everything after '>').
func splitHeaderName(b []byte) []byte {
	for i, c := range b {
		if c == ' ' || c == '\t' {
			return b[:i]
		}
	}
	return b
}

// Fetch reads the full sequence of name out of ra using idx's recorded
// geometry, seeking directly to the record's first base without scanning
// any other record.
func Fetch(ra io.ReaderAt, idx Index, name string) ([]byte, error) {
	rec, ok := idx[name]
	if !ok {
		return nil, fmt.Errorf("fasta: unknown record %q", name)
	}
	out := make([]byte, rec.Length)
	var read int64
	for read < rec.Length {
		lineOff := (read / rec.LineBases) * rec.LineWidth
		colOff := read % rec.LineBases
		want := rec.LineBases - colOff
		if remaining := rec.Length - read; want > remaining {
			want = remaining
		}
		buf := make([]byte, want)
		if _, err := ra.ReadAt(buf, rec.Offset+lineOff+colOff); err != nil && err != io.EOF {
			return nil, fmt.Errorf("fasta: fetch %q: %w", name, err)
		}
		copy(out[read:], buf)
		read += want
	}
	return out, nil
}
