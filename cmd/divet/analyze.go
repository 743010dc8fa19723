package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"divet/internal/analyzer"
)

func runAnalyze(cmd *cobra.Command, args []string) {
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

	az := analyzer.New(r.mm, r.results)
	diags := az.Analyze(r.graphs, flagShowValidPaths)
	printDiagnostics(diags)

	if flagDebugBundle != "" {
		if err := writeDebugBundle(flagDebugBundle, r.results, diags); err != nil {
			logger.Warn("debug bundle write failed", map[string]interface{}{"path": flagDebugBundle, "error": err.Error()})
		}
	}

	cacheOnlyMiss := r.cache.IsCacheOnly() && r.cache.HasMisses()
	exitWithDiagnostics(diags, cacheOnlyMiss)
}
