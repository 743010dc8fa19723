package main

import (
	"github.com/spf13/cobra"

	"divet/internal/version"
)

var (
	flagProject    string
	flagModules    string
	flagAppSource  string
	flagMode       string
	flagCacheOnly  bool
	flagNoCache    bool
	flagDebugBundle string
	flagShowValidPaths bool
)

var rootCmd = &cobra.Command{
	Use:   "divet",
	Short: "divet - dependency-injection graph analyzer",
	Long: `divet statically analyzes a Swift dependency-injection idiom: it builds one
dependency graph per discovered root and reports requirements that go
unsatisfied along some path, without ever instantiating the program.`,
	Version: version.Version,
	Run:     runAnalyze,
}

func init() {
	rootCmd.SetVersionTemplate("divet version {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagProject, "project", ".", "project root directory")
	rootCmd.PersistentFlags().StringVar(&flagModules, "modules", "", "subtree treated as owning modules (default: <project>/Modules)")
	rootCmd.PersistentFlags().StringVar(&flagAppSource, "app-source", "", "additional subtree scanned with root-module attribution")
	rootCmd.PersistentFlags().StringVar(&flagMode, "mode", "", "package-manifest mode: distributed | monorepo")
	rootCmd.PersistentFlags().BoolVar(&flagCacheOnly, "cache-only", false, "fail if any file's cache entry is missing or stale")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "bypass the scan cache entirely")

	rootCmd.Flags().StringVar(&flagDebugBundle, "debug-bundle", "", "write a compressed dump of discovered elements and diagnostics to this .gz path")
	rootCmd.PersistentFlags().BoolVar(&flagShowValidPaths, "show-valid-paths", false, "include satisfying paths alongside failing ones")
}
