package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"divet/internal/manifest"
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "Print the resolved Module Map",
	Long:  "Print every declared module's source path, direct dependencies, and ancestors, for debugging package-manifest reader output independent of running a full scan.",
	Run:   runModules,
}

func init() {
	rootCmd.AddCommand(modulesCmd)
}

func runModules(cmd *cobra.Command, args []string) {
	cfg, err := resolveConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	modulesDir := cfg.ModulesDir
	if !filepath.IsAbs(modulesDir) {
		modulesDir = filepath.Join(cfg.ProjectRoot, modulesDir)
	}

	mm, err := manifest.Read(manifest.Mode(cfg.Mode), cfg.ProjectRoot, modulesDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading package manifest: %v\n", err)
		os.Exit(1)
	}

	names := mm.AllModuleNames()
	if len(names) == 0 {
		fmt.Println("No modules declared.")
		return
	}

	for _, name := range names {
		m, _ := mm.Module(name)
		fmt.Printf("%s\n", name)
		fmt.Printf("  source: %s\n", m.SourcePath)
		if len(m.DirectDeps) > 0 {
			fmt.Printf("  depends on: %s\n", strings.Join(m.DirectDeps, ", "))
		}
		if ancestors := mm.Ancestors(name); len(ancestors) > 0 {
			fmt.Printf("  ancestors: %s\n", strings.Join(ancestors, ", "))
		}
	}
}
