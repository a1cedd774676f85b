// Copyright (c) 2025 Nikita Kamenev
// Licensed under the MIT License. See LICENSE file in the project root for details.
package main

import (
	"fmt"
	"os"

	"github.com/kortschak/utter"
	"github.com/spf13/cobra"
	"github.com/ulikunitz/xz"

	"github.com/birc-gsa-solutions/readmap-go/fasta"
	"github.com/birc-gsa-solutions/readmap-go/fmindex"
)

func newPreprocessCmd() *cobra.Command {
	var (
		outPath string
		xzip    bool
		debug   bool
	)
	cmd := &cobra.Command{
		Use:   "preprocess <reference.fasta>",
		Short: "Build and persist an FM-index collection from a reference FASTA file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreprocess(args[0], outPath, xzip, debug)
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "index file to write (required)")
	cmd.Flags().BoolVarP(&xzip, "xz", "z", false, "xz-compress the persisted collection")
	cmd.Flags().BoolVar(&debug, "debug", false, "dump the built collection's structure to stderr")
	cmd.MarkFlagRequired("output")
	return cmd
}

func runPreprocess(refPath, outPath string, xzip, debug bool) error {
	refFile, err := os.Open(refPath)
	if err != nil {
		return fmt.Errorf("readmap preprocess: %w", err)
	}
	defer refFile.Close()

	records, err := fasta.ReadAll(refFile)
	if err != nil {
		return fmt.Errorf("readmap preprocess: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("readmap preprocess: %s contains no records", refPath)
	}

	collection := fmindex.NewCollection()
	for _, rec := range records {
		collection.Put(rec.Name, fmindex.Build(rec.Sequence))
	}

	if debug {
		utter.Fdump(os.Stderr, collection)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("readmap preprocess: %w", err)
	}
	defer out.Close()

	if !xzip {
		if err := collection.WriteTo(out); err != nil {
			return fmt.Errorf("readmap preprocess: %w", err)
		}
		return nil
	}

	xw, err := xz.NewWriter(out)
	if err != nil {
		return fmt.Errorf("readmap preprocess: %w", err)
	}
	if err := collection.WriteTo(xw); err != nil {
		return fmt.Errorf("readmap preprocess: %w", err)
	}
	if err := xw.Close(); err != nil {
		return fmt.Errorf("readmap preprocess: %w", err)
	}
	return nil
}
