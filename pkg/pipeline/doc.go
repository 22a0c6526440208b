// Package pipeline provides the shared state model and error taxonomy for the
// Genesis agent pipeline.
//
// # Overview
//
// A State is the central record that flows through one pipeline run. It is created
// once with the user's idea, and each agent writes exactly one output field into it
// as the run progresses. Fields are write-once: a second write of the same field is
// an error, because every field has exactly one owning agent in the workflow graph.
//
// # Fields
//
// Field values are stored as string payloads. Long-form documents (PRD, marketing
// plan) are markdown text; structured outputs (brand guide, architecture) are JSON
// documents; the source code field is a JSON object mapping file paths to file
// contents. Storing payloads uniformly keeps the state model independent of any
// particular agent's output shape.
//
// # Metrics
//
// Every agent invocation appends one Metric to the state when it finishes,
// successfully or not. Metrics are append-only and ordered by completion time.
// AppendMetric is safe to call from the two concurrent agents of the parallel
// stage; field writes in that stage are disjoint by construction.
//
// # Errors
//
// PreconditionError indicates an agent was invoked before its required upstream
// field existed - a graph-ordering bug, never expected in correct operation.
// AgentExecutionError indicates the completion endpoint call failed or returned
// unusable output; it carries the role name and wraps the underlying cause.
// Both are fatal to the run: there is no retry policy.
package pipeline
