// Package main provides the entry point for the IntelliHire server and its maintenance commands.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "intellihire",
	Short: "IntelliHire mock interview backend",
	Long:  "IntelliHire stores mock interviews and grades interview transcripts with Gemini.",
	// Usage output is noise for runtime failures
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
