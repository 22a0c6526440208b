package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/genesisforge/genesis/internal/config"
	"github.com/genesisforge/genesis/internal/printer"
	"github.com/genesisforge/genesis/internal/store"
	"github.com/spf13/cobra"
)

var (
	listConfigPath string
	listStatus     string
	listLimit      int
	listJSON       bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded pipeline projects",
	Long: `List pipeline projects recorded in the project database, newest first.

For each project, displays:
  • Project ID
  • Status (pending/running/completed/failed)
  • Age
  • The idea it was started from

Requires a configured database (database.url in genesis.yml or DATABASE_URL).
Use --json for machine-readable JSONL output.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listConfigPath, "config", "c", config.DefaultPath, "Path to configuration file")
	listCmd.Flags().StringVarP(&listStatus, "status", "s", "", "Filter by status (pending, running, completed, failed)")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "Maximum number of projects to show")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSONL format")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadOrDefault(listConfigPath)
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return printer.Error(
			"no project database configured",
			"Listing projects needs Postgres; runs without one are not recorded.",
			[]string{
				"Set database.url in genesis.yml, or export DATABASE_URL",
				"Then run a pipeline:\n  genesis run",
			},
		)
	}

	status := store.ProjectStatus(listStatus)
	if listStatus != "" && !status.IsValid() {
		return printer.Error(
			fmt.Sprintf("unknown status %q", listStatus),
			"Valid statuses are: pending, running, completed, failed.",
			nil,
		)
	}

	projects, err := store.Open(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to the project database: %w", err)
	}
	defer projects.Close()

	found, err := projects.ListProjects(ctx, listLimit, status)
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	if len(found) == 0 {
		if listJSON {
			return nil
		}
		fmt.Println("No projects found.")
		fmt.Println()
		fmt.Println("Run 'genesis run \"your idea\"' to start one.")
		return nil
	}

	if listJSON {
		return store.FormatJSONL(os.Stdout, found)
	}
	store.FormatTable(os.Stdout, found)
	return nil
}
