package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"divet/internal/analyzer"
)

var findCmd = &cobra.Command{
	Use:   "find <TypeName>",
	Short: "Show every path that requires a given dependency type, marked satisfied or not",
	Long: `For every node requiring <TypeName>, report whether the requirement is
satisfied across every path from its graph's root.`,
	Args: cobra.ExactArgs(1),
	Run:  runFind,
}

func init() {
	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) {
	logger := newLogger()
	typeName := args[0]

	cfg, err := resolveConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	r, err := perform(context.Background(), cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	az := analyzer.New(r.mm, r.results)
	diags := az.FindDependency(r.graphs, typeName)
	printDiagnostics(diags)
}
