package commands

import (
	"fmt"

	"github.com/genesisforge/genesis/internal/scaffold"
	"github.com/spf13/cobra"
)

var (
	forceInit bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new Genesis project",
	Long: `Initialize a new Genesis project with default configuration.

Creates:
  • genesis.yml - Pipeline configuration file
  • .env.example - Template for API keys and connection overrides
  • output/ - Directory where pipeline artifacts are written

Use --force to reinitialize an existing project (WARNING: overwrites existing configuration).`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Force reinitialization (removes existing genesis.yml and .env.example)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	// Check for existing files (unless --force)
	if !forceInit {
		if err := scaffold.CheckExisting(); err != nil {
			return err
		}
	}

	if err := scaffold.Initialize(forceInit); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	scaffold.PrintSuccess()
	return nil
}
