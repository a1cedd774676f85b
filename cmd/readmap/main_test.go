// Copyright (c) 2025 Nikita Kamenev
// Licensed under the MIT License. See LICENSE file in the project root for details.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocessThenAlignEndToEnd(t *testing.T) {
	dir := t.TempDir()

	refPath := filepath.Join(dir, "ref.fasta")
	require.NoError(t, os.WriteFile(refPath, []byte(">chr1\nACGTACGTACGT\n"), 0o644))

	indexPath := filepath.Join(dir, "ref.idx")
	require.NoError(t, runPreprocess(refPath, indexPath, false, false))

	readsPath := filepath.Join(dir, "reads.fastq")
	require.NoError(t, os.WriteFile(readsPath, []byte("@r1\nACGT\n+\nIIII\n@r2\nNNNN\n+\nIIII\n"), 0o644))

	var stdout, stderr bytes.Buffer
	require.NoError(t, runAlign(&stdout, &stderr, indexPath, readsPath, 1))

	lines := strings.Split(strings.TrimRight(stdout.String(), "\n"), "\n")
	require.NotEmpty(t, lines)

	var sawMapped, sawUnmapped bool
	for _, line := range lines {
		cols := strings.Split(line, "\t")
		require.Len(t, cols, 11)
		switch cols[0] {
		case "r1":
			sawMapped = true
			assert.NotEqual(t, "*", cols[2])
		case "r2":
			sawUnmapped = true
			assert.Equal(t, "4", cols[1])
		}
	}
	assert.True(t, sawMapped, "expected r1 to map")
	assert.True(t, sawUnmapped, "expected r2 (unknown bases) to be unmapped")
	assert.Contains(t, stderr.String(), "read")
}

func TestPreprocessXzRoundTrip(t *testing.T) {
	dir := t.TempDir()

	refPath := filepath.Join(dir, "ref.fasta")
	require.NoError(t, os.WriteFile(refPath, []byte(">chr1\nACGTACGT\n"), 0o644))

	indexPath := filepath.Join(dir, "ref.idx.xz")
	require.NoError(t, runPreprocess(refPath, indexPath, true, false))

	readsPath := filepath.Join(dir, "reads.fastq")
	require.NoError(t, os.WriteFile(readsPath, []byte("@r1\nACGT\n+\nIIII\n"), 0o644))

	var stdout, stderr bytes.Buffer
	require.NoError(t, runAlign(&stdout, &stderr, indexPath, readsPath, 0))
	assert.NotEmpty(t, stdout.String())
}

func TestBestHitsReturnsEmptyWhenNoReferenceMatches(t *testing.T) {
	name, hits := bestHits(nil, []byte("ACGT"), 2)
	assert.Empty(t, name)
	assert.Empty(t, hits)
}
