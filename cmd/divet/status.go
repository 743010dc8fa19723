package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"divet/internal/analyzer"
	"divet/internal/diagnostic"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cache hit/miss statistics and whether the project currently analyzes clean",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	logger := newLogger()

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

	hits, misses, entries := r.cache.Stats()
	fmt.Printf("project: %s\n", cfg.ProjectRoot)
	fmt.Printf("mode: %s\n", cfg.Mode)
	fmt.Printf("cache: hits=%d misses=%d entries=%d\n", hits, misses, entries)
	fmt.Printf("graphs: %d\n", len(r.graphs))
	fmt.Printf("nodes: %d\n", len(r.results.Nodes))

	az := analyzer.New(r.mm, r.results)
	diags := az.Analyze(r.graphs, false)

	errCount, warnCount := 0, 0
	for _, d := range diags {
		switch d.Severity {
		case diagnostic.SeverityError:
			errCount++
		case diagnostic.SeverityWarning:
			warnCount++
		}
	}
	fmt.Printf("diagnostics: %d error(s), %d warning(s)\n", errCount, warnCount)

	if r.cache.IsCacheOnly() && r.cache.HasMisses() {
		fmt.Println("cache-only: has_misses=true")
		os.Exit(1)
	}
}
