package main

import (
	"fmt"
	"os"

	"github.com/genesisforge/genesis/cmd/genesis/commands"
	"github.com/joho/godotenv"
)

// Version information - set during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// API keys and connection overrides come from the environment.
	// A missing .env is fine; the variables may be set directly.
	_ = godotenv.Load()

	// Set version information on root command
	commands.SetVersionInfo(version, commit, date)

	// Execute root command
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
