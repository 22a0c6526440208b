package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "genesis",
	Short: "Genesis - automated product development pipeline",
	Long: `Genesis turns a one-paragraph product idea into a full set of launch
artifacts by running a fixed pipeline of specialised AI agents: a product
owner writes the PRD, a creative director and a solutions architect work
in parallel on the brand guide and the technical architecture, a lead
developer generates the source code, and a growth hacker closes with the
marketing plan.

Every agent execution is timed, token-counted, and logged as a structured
event. Artifacts land in the output directory; project history can
optionally be recorded in Postgres and events published to Redis.`,
	Version: version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}
