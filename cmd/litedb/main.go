// Package main is the litedb command-line entry point. It uses the cobra
// package for CLI plumbing, the same way the rest of this tool family does.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"litedb/internal/config"
	"litedb/internal/engine"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "litedb",
		Short: "In-memory single-user relational database engine",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a TOML engine configuration file")

	rootCmd.AddCommand(replCmd(&configPath))
	rootCmd.AddCommand(execCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func replCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session reading statements from stdin",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			eng, err := newEngine(*configPath)
			if err != nil {
				return err
			}
			return engine.NewSession(eng, os.Stdout).Run(os.Stdin)
		},
	}
}

func execCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <file>",
		Short: "Run every statement in a file, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			eng, err := newEngine(*configPath)
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %q: %w", args[0], err)
			}
			defer f.Close()
			return engine.NewSession(eng, os.Stdout).RunUntilError(f)
		},
	}
}

func newEngine(configPath string) (*engine.Engine, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return engine.New(cfg), nil
}
