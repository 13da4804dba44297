package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "docrank",
	Short: "Offline persona-driven document intelligence",
	Long: `docrank extracts structured outlines from PDF and office documents and,
given a persona and a job-to-be-done, ranks the most relevant sections
across a document set and produces extractive summaries. Everything
runs offline against precomputed lexicons.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
