// Copyright (c) 2025 Nikita Kamenev
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Command readmap is the two-mode CLI of §4.11: `preprocess` builds and
// persists an FM-index collection from a reference FASTA file, and
// `align` maps FASTQ reads against a persisted collection and writes SAM.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "readmap",
		Short:         "Approximate read mapping over an FM-index",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newPreprocessCmd(), newAlignCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print readmap's version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "readmap %s (%s)\n", version, commit)
			return nil
		},
	}
}
