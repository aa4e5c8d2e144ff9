// Package main provides the entry point for the profile resolver gateway.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "profile_resolver",
	Short: "Profile Resolver HTTP Gateway",
	Long:  "Profile Resolver is a stateless HTTP gateway that submits identity-resolution jobs to an external AI task engine and lets clients poll for results, with delegated OAuth PKCE login.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
