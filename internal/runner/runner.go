// Package runner drives one pipeline run end to end: graph execution, artifact
// persistence, project-store bookkeeping, and the run summary.
package runner

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/genesisforge/genesis/internal/artifact"
	"github.com/genesisforge/genesis/internal/config"
	"github.com/genesisforge/genesis/internal/events"
	"github.com/genesisforge/genesis/internal/graph"
	"github.com/genesisforge/genesis/internal/llm"
	"github.com/genesisforge/genesis/internal/store"
	"github.com/genesisforge/genesis/pkg/pipeline"
)

// Summary reports the outcome of one run.
type Summary struct {
	RunID       string
	ProjectID   int64 // 0 when no project store is configured
	State       *pipeline.State
	Artifacts   []artifact.Written
	Duration    time.Duration
	TotalTokens int
}

// Runner wires the workflow graph to its collaborators.
type Runner struct {
	cfg      *config.Config
	pipeline *graph.Pipeline
	projects *store.Store // nil when no database is configured
	logger   *events.Logger
}

// New creates a Runner. projects and logger may be nil.
func New(cfg *config.Config, completer llm.Completer, projects *store.Store, logger *events.Logger, opts ...graph.Option) *Runner {
	return &Runner{
		cfg:      cfg,
		pipeline: graph.New(completer, logger, opts...),
		projects: projects,
		logger:   logger,
	}
}

// Run executes the pipeline once for the given idea.
//
// The graph's first fatal error is returned unchanged so callers can inspect
// it with errors.As. Artifacts are written for every field that completed
// before a failure; none are written for fields whose owning agent did not
// complete. Artifact IO failures never mask a graph error and are surfaced
// only when the graph itself succeeded.
func (r *Runner) Run(ctx context.Context, idea string) (*Summary, error) {
	runID := graph.NewRunID()
	start := time.Now()

	project := r.recordStart(ctx, idea)

	st, runErr := r.pipeline.Run(ctx, runID, idea)

	// Persist whatever completed, regardless of how the run ended.
	written, ioErr := artifact.WriteAll(st, r.cfg.Output.Dir)
	if ioErr != nil {
		log.Printf("[Runner] Artifact persistence problem: %v", ioErr)
	}
	r.recordArtifacts(ctx, project, written)
	r.recordOutcome(ctx, project, runErr)

	summary := &Summary{
		RunID:       runID,
		State:       st,
		Artifacts:   written,
		Duration:    time.Since(start),
		TotalTokens: st.TotalTokens(),
	}
	if project != nil {
		summary.ProjectID = project.ID
	}

	if runErr != nil {
		return summary, runErr
	}
	if ioErr != nil {
		return summary, fmt.Errorf("run succeeded but artifact persistence failed: %w", ioErr)
	}
	return summary, nil
}

// recordStart registers the run in the project store. Store failures are
// logged and ignored: history is a convenience, never a reason to refuse a run.
func (r *Runner) recordStart(ctx context.Context, idea string) *store.Project {
	if r.projects == nil {
		return nil
	}
	project, err := r.projects.CreateProject(ctx, idea)
	if err != nil {
		log.Printf("[Runner] Failed to record project: %v", err)
		return nil
	}
	if err := r.projects.UpdateProjectStatus(ctx, project.ID, store.StatusRunning); err != nil {
		log.Printf("[Runner] Failed to mark project running: %v", err)
	}
	return project
}

func (r *Runner) recordArtifacts(ctx context.Context, project *store.Project, written []artifact.Written) {
	if r.projects == nil || project == nil {
		return
	}
	for _, w := range written {
		if err := r.projects.AddArtifact(ctx, project.ID, string(w.Field), w.Path); err != nil {
			log.Printf("[Runner] Failed to record artifact %s: %v", w.Field, err)
		}
	}
}

func (r *Runner) recordOutcome(ctx context.Context, project *store.Project, runErr error) {
	if r.projects == nil || project == nil {
		return
	}
	status := store.StatusCompleted
	if runErr != nil {
		status = store.StatusFailed
	}
	if err := r.projects.UpdateProjectStatus(ctx, project.ID, status); err != nil {
		log.Printf("[Runner] Failed to record project outcome: %v", err)
	}
}
