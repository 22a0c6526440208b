// Package graph executes the five-agent workflow:
//
//	product_owner -> {creative_director, solutions_architect} -> lead_developer -> growth_hacker
//
// The shape is a fixed diamond, so the executor is an ordered list of stages
// rather than a generic graph engine. Single-agent stages run inline; the
// fan-out stage runs its two agents concurrently and joins them at a barrier
// before the lead developer is admitted. The two fan-out agents read the same
// upstream field and write disjoint fields, so concurrent and sequential
// scheduling are observably equivalent.
package graph

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/genesisforge/genesis/internal/agent"
	"github.com/genesisforge/genesis/internal/events"
	"github.com/genesisforge/genesis/internal/llm"
	"github.com/genesisforge/genesis/pkg/pipeline"
)

// Pipeline executes the workflow. It is stateless across runs; every Run
// allocates a fresh state, so two runs share nothing mutable.
type Pipeline struct {
	completer  llm.Completer
	logger     *events.Logger
	sequential bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSequentialFanOut runs the fan-out stage in declaration order instead of
// concurrently. Observable outcomes are identical; tests use this for
// deterministic scheduling.
func WithSequentialFanOut() Option {
	return func(p *Pipeline) {
		p.sequential = true
	}
}

// New creates a Pipeline. logger may be nil to disable event emission.
func New(completer llm.Completer, logger *events.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		completer: completer,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// stages returns the workflow as ordered execution stages. A stage with more
// than one spec is a fan-out joined by a barrier before the next stage.
func stages() [][]agent.Spec {
	specs := agent.Specs()
	return [][]agent.Spec{
		{specs[0]},           // product_owner
		{specs[1], specs[2]}, // creative_director || solutions_architect
		{specs[3]},           // lead_developer (requires both fan-out outputs)
		{specs[4]},           // growth_hacker
	}
}

// Run executes one pipeline run for the given idea. runID tags the run's
// execution records; pass uuid-like identifiers (see NewRunID).
//
// On failure the partial state is returned alongside the error: fields and
// metrics recorded before the failure are preserved, and the error is the
// first fatal error encountered (a *pipeline.AgentExecutionError or
// *pipeline.PreconditionError), unwrapped and unchanged.
func (p *Pipeline) Run(ctx context.Context, runID, idea string) (*pipeline.State, error) {
	st := pipeline.NewState(idea)
	inv := agent.NewInvoker(p.completer, p.logger, runID)

	start := time.Now()
	p.logger.Event("run_started", map[string]interface{}{
		"run_id":      runID,
		"idea_length": len(idea),
	})

	for _, stage := range stages() {
		if err := p.runStage(ctx, inv, stage, st); err != nil {
			p.logger.Event("run_failed", map[string]interface{}{
				"run_id":      runID,
				"error":       err.Error(),
				"duration_ms": time.Since(start).Milliseconds(),
			})
			return st, err
		}
	}

	p.logger.Event("run_complete", map[string]interface{}{
		"run_id":       runID,
		"duration_ms":  time.Since(start).Milliseconds(),
		"total_tokens": st.TotalTokens(),
		"fields":       len(st.FieldsSet()),
	})
	return st, nil
}

// runStage executes one stage to completion. Fan-out agents always run to the
// barrier even when a sibling fails; the first error in declaration order is
// surfaced once all have finished.
func (p *Pipeline) runStage(ctx context.Context, inv *agent.Invoker, stage []agent.Spec, st *pipeline.State) error {
	if len(stage) == 1 {
		return inv.Invoke(ctx, stage[0], st)
	}

	// Fan-out agents always run to completion even when a sibling fails, so
	// the surviving branch's output and metric are preserved.
	if p.sequential {
		errs := make([]error, len(stage))
		for i, spec := range stage {
			errs[i] = inv.Invoke(ctx, spec, st)
		}
		return firstError(errs)
	}

	log.Printf("[Graph] Fan-out: running %d agents concurrently", len(stage))
	errs := make([]error, len(stage))
	var wg sync.WaitGroup
	for i, spec := range stage {
		wg.Add(1)
		go func(i int, spec agent.Spec) {
			defer wg.Done()
			errs[i] = inv.Invoke(ctx, spec, st)
		}(i, spec)
	}
	wg.Wait() // Barrier: both fan-out agents have completed, successfully or not

	return firstError(errs)
}

// firstError returns the first non-nil error in declaration order.
func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.New().String()
}
