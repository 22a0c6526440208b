package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/genesisforge/genesis/internal/config"
	"github.com/genesisforge/genesis/internal/events"
	"github.com/genesisforge/genesis/internal/llm"
	"github.com/genesisforge/genesis/internal/printer"
	"github.com/genesisforge/genesis/internal/runner"
	"github.com/genesisforge/genesis/internal/store"
	"github.com/genesisforge/genesis/pkg/pipeline"
	"github.com/spf13/cobra"
)

var (
	runConfigPath string
	runOutputDir  string
)

// defaultIdea keeps `genesis run` usable without arguments for demos and
// smoke tests.
const defaultIdea = `I want to build a productivity app for remote teams that combines
task management with virtual coworking spaces. Users can create
"focus rooms" where team members can work together in real-time,
see each other's progress, and use Pomodoro timers. The app should
have gamification elements and integrate with Slack and Google Calendar.`

var runCmd = &cobra.Command{
	Use:   "run [idea]",
	Short: "Run the full agent pipeline for a product idea",
	Long: `Run the full agent pipeline for a product idea.

The idea is given as a single argument; without one, a built-in demo idea
is used. The pipeline executes five agents in a fixed order, with the
creative director and solutions architect running in parallel, and writes
every produced artifact to the configured output directory.

Requires OPENAI_API_KEY in the environment (or a .env file).

Examples:
  # Run with your own idea
  genesis run "A marketplace for renting camera gear between photographers"

  # Run the built-in demo idea
  genesis run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", config.DefaultPath, "Path to configuration file")
	runCmd.Flags().StringVarP(&runOutputDir, "output", "o", "", "Output directory (overrides configuration)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadOrDefault(runConfigPath)
	if err != nil {
		return printer.Error(
			"invalid configuration",
			err.Error(),
			[]string{"Check the syntax of " + runConfigPath, "Run 'genesis init' to generate a fresh configuration"},
		)
	}
	if runOutputDir != "" {
		cfg.Output.Dir = runOutputDir
	}

	apiKey := cfg.APIKey()
	if apiKey == "" {
		return printer.Error(
			"OPENAI_API_KEY is not set",
			"The pipeline needs an API key for the completion endpoint.",
			[]string{
				"Export it:\n  export OPENAI_API_KEY=sk-...",
				"Or put it in a .env file in the working directory",
			},
		)
	}

	idea := defaultIdea
	if len(args) == 1 {
		idea = strings.TrimSpace(args[0])
	}
	if idea == "" {
		return printer.Error(
			"empty idea",
			"The idea argument must contain a description of the product to build.",
			[]string{"Example:\n  genesis run \"A meal-planning app for busy families\""},
		)
	}

	completer := llm.NewClient(llm.Config{
		BaseURL:     cfg.Completion.BaseURL,
		Model:       cfg.Completion.Model,
		APIKey:      apiKey,
		Temperature: cfg.Completion.Temperature,
		Timeout:     cfg.CompletionTimeout(),
	})

	logger := events.NewLogger(cfg.Instance, cfg.Redis.Addr)
	defer logger.Close()
	if err := logger.Ping(ctx); err != nil {
		printer.Warning("Redis event sink unreachable (%v); events go to stdout only\n", err)
	}

	projects, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer projects.Close()

	printer.Step("Running pipeline (model: %s)\n", cfg.Completion.Model)
	printer.Info("Idea: %s\n", summarizeIdea(idea))

	summary, runErr := runner.New(cfg, completer, projects, logger).Run(ctx, idea)

	// Show per-agent results even when the run failed partway.
	if summary != nil && len(summary.State.Metrics()) > 0 {
		fmt.Println()
		fmt.Print(printer.MetricsTable(summary.State.Metrics()))
		fmt.Println()
	}

	if runErr != nil {
		var execErr *pipeline.AgentExecutionError
		if errors.As(runErr, &execErr) {
			return printer.Error(
				fmt.Sprintf("agent %s failed", execErr.Agent),
				execErr.Err.Error(),
				[]string{
					"Completed artifacts were kept in " + cfg.Output.Dir,
					"Re-run the pipeline to try again:\n  genesis run",
				},
			)
		}
		return printer.Error("pipeline run failed", runErr.Error(), nil)
	}

	printer.Success("Pipeline complete in %s (%d tokens)\n", summary.Duration.Round(100*time.Millisecond), summary.TotalTokens)
	for _, w := range summary.Artifacts {
		printer.Info("  %s\n", w.Path)
	}
	if summary.ProjectID != 0 {
		printer.Info("Recorded as project %d\n", summary.ProjectID)
	}
	return nil
}

// openStore connects to the project store when one is configured.
// A nil *store.Store disables bookkeeping without disabling the run.
func openStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	if cfg.Database.URL == "" {
		return nil, nil
	}
	projects, err := store.Open(ctx, cfg.Database.URL)
	if err != nil {
		return nil, printer.Error(
			"cannot connect to the project database",
			err.Error(),
			[]string{
				"Check DATABASE_URL (or database.url in genesis.yml)",
				"Unset it to run without project history",
			},
		)
	}
	if err := projects.EnsureSchema(ctx); err != nil {
		projects.Close()
		return nil, fmt.Errorf("failed to prepare database schema: %w", err)
	}
	return projects, nil
}

func summarizeIdea(idea string) string {
	flat := strings.Join(strings.Fields(idea), " ")
	if len(flat) > 80 {
		return flat[:77] + "..."
	}
	return flat
}
