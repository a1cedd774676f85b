// Copyright (c) 2025 Nikita Kamenev
// Licensed under the MIT License. See LICENSE file in the project root for details.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/klauspost/pgzip"
	"github.com/pbnjay/memory"
	"github.com/spf13/cobra"
	"github.com/ulikunitz/xz"
	"golang.org/x/exp/maps"

	"github.com/birc-gsa-solutions/readmap-go/fastq"
	"github.com/birc-gsa-solutions/readmap-go/fmindex"
	"github.com/birc-gsa-solutions/readmap-go/sam"
	"github.com/birc-gsa-solutions/readmap-go/search"
)

// xzMagic is the six-byte signature every xz stream starts with.
var xzMagic = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}

func newAlignCmd() *cobra.Command {
	var maxK int
	cmd := &cobra.Command{
		Use:   "align <index-file> <reads.fastq[.gz]>",
		Short: "Map FASTQ reads against a persisted FM-index collection and write SAM to stdout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlign(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], args[1], maxK)
		},
	}
	cmd.Flags().IntVarP(&maxK, "edits", "k", 1, "maximum number of edits to search for per read")
	return cmd
}

func runAlign(stdout, stderr io.Writer, indexPath, readsPath string, maxK int) error {
	collection, err := loadCollection(indexPath)
	if err != nil {
		return fmt.Errorf("readmap align: %w", err)
	}

	searchers := make(map[string]*search.Searcher, len(collection.Names))
	for _, name := range collection.Names {
		searchers[name] = search.New(collection.Indexes[name])
	}

	readsFile, err := os.Open(readsPath)
	if err != nil {
		return fmt.Errorf("readmap align: %w", err)
	}
	defer readsFile.Close()

	reads, streamed, err := openReads(readsFile, readsPath)
	if err != nil {
		return fmt.Errorf("readmap align: %w", err)
	}
	defer reads.Close()
	if streamed {
		fmt.Fprintln(stderr, "reportPlan: streaming reads record by record")
	} else {
		fmt.Fprintln(stderr, "reportPlan: buffering all reads in memory")
	}

	bw := bufio.NewWriter(stdout)
	defer bw.Flush()

	var total, occurrences int
	processRead := func(read fastq.Record) error {
		total++
		refName, hits := bestHits(searchers, read.Sequence, maxK)
		if len(hits) == 0 {
			return sam.Write(bw, sam.Unmapped(read))
		}
		occurrences += len(hits)
		for _, hit := range hits {
			if err := sam.Write(bw, sam.FromHit(read, refName, hit)); err != nil {
				return err
			}
		}
		return nil
	}

	if streamed {
		reader := fastq.NewReader(reads)
		for {
			read, ok, err := reader.Next()
			if err != nil {
				return fmt.Errorf("readmap align: %w", err)
			}
			if !ok {
				break
			}
			if err := processRead(read); err != nil {
				return fmt.Errorf("readmap align: %w", err)
			}
		}
	} else {
		records, err := fastq.ReadAll(reads)
		if err != nil {
			return fmt.Errorf("readmap align: %w", err)
		}
		for _, read := range records {
			if err := processRead(read); err != nil {
				return fmt.Errorf("readmap align: %w", err)
			}
		}
	}

	fmt.Fprintln(stderr, sam.Summarize(total, occurrences))
	return nil
}

// bestHits searches pattern against every reference with increasing edit
// budgets, starting at 0. At the first budget that yields any hits it
// returns the name and hits of the first reference, in sorted name order,
// that produced them — the lowest-edit hit set, since a larger budget is
// only ever tried once a smaller one comes up empty. Hits that other
// references produced at that same budget are not returned. Each
// budget's per-reference searches run concurrently (§5.1): one goroutine
// per reference, fanned out with a sync.WaitGroup, since every
// search.Searcher is independent and its underlying fmindex.Index is
// immutable. Reference names come from golang.org/x/exp/maps.Keys and are
// sorted before use so the winner is deterministic regardless of the order
// goroutines finish in.
func bestHits(searchers map[string]*search.Searcher, pattern []byte, maxK int) (string, []search.Hit) {
	names := maps.Keys(searchers)
	sort.Strings(names)

	type result struct {
		name string
		hits []search.Hit
		err  error
	}

	for k := 0; k <= maxK; k++ {
		results := make([]result, len(names))
		var wg sync.WaitGroup
		for i, name := range names {
			wg.Add(1)
			go func(i int, name string) {
				defer wg.Done()
				hits, err := searchers[name].Search(pattern, k)
				results[i] = result{name: name, hits: hits, err: err}
			}(i, name)
		}
		wg.Wait()

		for _, r := range results {
			if r.err == nil && len(r.hits) > 0 {
				return r.name, r.hits
			}
		}
	}
	return "", nil
}

// loadCollection reads a persisted fmindex.Collection from path,
// transparently decompressing it if it was written with `-z` (the file
// starts with the xz magic bytes).
func loadCollection(path string) (*fmindex.Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	magic, err := br.Peek(len(xzMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}
	if len(magic) == len(xzMagic) && string(magic) == string(xzMagic) {
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, err
		}
		return fmindex.ReadCollection(xr)
	}
	return fmindex.ReadCollection(br)
}

// openReads opens the FASTQ stream for path, transparently decompressing
// with pgzip when the name ends in .gz, and reports whether runAlign
// should process it record by record instead of buffering every read with
// fastq.ReadAll: files over a quarter of total system memory are streamed.
func openReads(f *os.File, path string) (io.ReadCloser, bool, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, false, err
	}
	threshold := memory.TotalMemory() / 4
	streamed := uint64(info.Size()) > threshold

	if !strings.HasSuffix(path, ".gz") {
		return io.NopCloser(f), streamed, nil
	}
	gr, err := pgzip.NewReader(f)
	if err != nil {
		return nil, false, err
	}
	return gr, streamed, nil
}
