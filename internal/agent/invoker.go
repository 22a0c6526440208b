package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/genesisforge/genesis/internal/events"
	"github.com/genesisforge/genesis/internal/llm"
	"github.com/genesisforge/genesis/pkg/pipeline"
)

// Invoker executes agent specs against the shared state. One Invoker serves a
// whole run; it is safe for the concurrent invocations of the parallel stage.
type Invoker struct {
	completer llm.Completer
	logger    *events.Logger
	runID     string
}

// NewInvoker creates an invoker for one pipeline run. logger may be nil.
func NewInvoker(completer llm.Completer, logger *events.Logger, runID string) *Invoker {
	return &Invoker{
		completer: completer,
		logger:    logger,
		runID:     runID,
	}
}

// Invoke runs one agent: precondition check, one completion call, output
// parsing, field write, and metric/record emission.
//
// A missing precondition returns *pipeline.PreconditionError before any network
// call; no metric is appended because no execution happened. Every started
// invocation appends exactly one metric, success or error, and a failed one
// returns *pipeline.AgentExecutionError carrying the role name and cause.
func (inv *Invoker) Invoke(ctx context.Context, spec Spec, st *pipeline.State) error {
	for _, f := range spec.Requires {
		if !st.Has(f) {
			return &pipeline.PreconditionError{Agent: spec.Name, Field: f}
		}
	}

	log.Printf("[Agent] Starting %s", spec.Name)
	start := time.Now()

	result, err := inv.completer.Complete(ctx, llm.Request{
		System:     spec.System,
		User:       spec.BuildUser(st),
		JSONOutput: spec.Output != OutputMarkdown,
	})

	var payload string
	tokens := 0
	if err == nil {
		tokens = result.TokensUsed
		payload, err = parseOutput(spec.Output, result.Text)
	}
	// Duration covers the call and the response parse.
	duration := time.Since(start)

	if err != nil {
		execErr := &pipeline.AgentExecutionError{Agent: spec.Name, Err: err}
		inv.record(ctx, st, pipeline.Metric{
			Agent:      spec.Name,
			Duration:   duration,
			TokensUsed: tokens,
			Status:     pipeline.StatusError,
			Error:      err.Error(),
			Timestamp:  time.Now().UTC(),
		})
		log.Printf("[Agent] %s failed after %v: %v", spec.Name, duration.Round(time.Millisecond), err)
		return execErr
	}

	if err := st.Set(spec.Produces, payload); err != nil {
		// Write-once violation: a graph bug, surfaced as-is.
		return fmt.Errorf("agent %q output rejected: %w", spec.Name, err)
	}

	inv.record(ctx, st, pipeline.Metric{
		Agent:      spec.Name,
		Duration:   duration,
		TokensUsed: tokens,
		Status:     pipeline.StatusSuccess,
		Timestamp:  time.Now().UTC(),
	})
	log.Printf("[Agent] %s completed in %v (%d tokens)", spec.Name, duration.Round(time.Millisecond), tokens)
	return nil
}

func (inv *Invoker) record(ctx context.Context, st *pipeline.State, m pipeline.Metric) {
	st.AppendMetric(m)
	inv.logger.LogMetric(ctx, inv.runID, m)
}

// parseOutput validates a completion against the expected output shape and
// returns the payload to store.
func parseOutput(kind OutputKind, text string) (string, error) {
	switch kind {
	case OutputMarkdown:
		return text, nil

	case OutputJSON:
		var obj map[string]interface{}
		if err := json.Unmarshal([]byte(text), &obj); err != nil {
			return "", fmt.Errorf("output is not a JSON object: %w", err)
		}
		return text, nil

	case OutputFileMap:
		files, err := pipeline.DecodeSourceCode(text)
		if err != nil {
			return "", err
		}
		if len(files) == 0 {
			return "", fmt.Errorf("output contained no files")
		}
		return text, nil

	default:
		return "", fmt.Errorf("unknown output kind %d", kind)
	}
}
