// Package main provides the entry point for the synthetic data HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "synthd",
	Short: "Synthetic Data HTTP API Server",
	Long:  "synthd generates synthetic tabular datasets on demand, with per-job quality, privacy and bias metrics, via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
