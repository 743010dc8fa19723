package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"divet/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default .divet/config.json in the project root",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing .divet/config.json")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	projectRoot, err := filepath.Abs(flagProject)
	if err != nil {
		return err
	}

	configPath := filepath.Join(projectRoot, ".divet", "config.json")
	if _, statErr := os.Stat(configPath); statErr == nil && !initForce {
		fmt.Println("divet already initialized.")
		fmt.Printf("Configuration at: %s\n", configPath)
		fmt.Println("Run 'divet init --force' to overwrite.")
		return nil
	}

	cfg := config.DefaultConfig()
	cfg.ProjectRoot = projectRoot
	if err := cfg.Save(projectRoot); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Wrote %s\n", configPath)
	return nil
}
