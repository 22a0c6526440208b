package pipeline

import (
	"time"
)

// Field identifies one agent-owned output slot in the shared state.
type Field string

const (
	// FieldPRD is the Product Requirements Document produced by the product owner (markdown).
	FieldPRD Field = "prd"

	// FieldBrandGuide is the brand identity document produced by the creative director (JSON).
	FieldBrandGuide Field = "brand_guide"

	// FieldArchitecture is the technical architecture produced by the solutions architect (JSON).
	FieldArchitecture Field = "architecture"

	// FieldSourceCode is the generated code produced by the lead developer
	// (JSON object mapping file paths to file contents).
	FieldSourceCode Field = "source_code"

	// FieldMarketingPlan is the go-to-market strategy produced by the growth hacker (markdown).
	FieldMarketingPlan Field = "marketing_plan"
)

// Fields lists all output fields in graph order. The order is used for stable
// iteration when reporting and persisting artifacts.
var Fields = []Field{
	FieldPRD,
	FieldBrandGuide,
	FieldArchitecture,
	FieldSourceCode,
	FieldMarketingPlan,
}

// IsValid reports whether f is one of the known output fields.
func (f Field) IsValid() bool {
	for _, known := range Fields {
		if f == known {
			return true
		}
	}
	return false
}

// Status is the terminal outcome of one agent invocation.
type Status string

const (
	// StatusSuccess indicates the agent completed and wrote its output field.
	StatusSuccess Status = "success"

	// StatusError indicates the agent failed; its output field was not written.
	StatusError Status = "error"
)

// Metric is one per-agent execution record. One Metric is appended to the state
// for every agent invocation that started, whether it succeeded or failed.
type Metric struct {
	Agent      string        `json:"agent"`           // Role name, e.g. "product_owner"
	Duration   time.Duration `json:"duration"`        // Wall-clock time from call start to parse completion
	TokensUsed int           `json:"tokens_used"`     // From provider usage metadata; 0 when unavailable
	Status     Status        `json:"status"`          // success or error
	Error      string        `json:"error,omitempty"` // Cause description when Status is error
	Timestamp  time.Time     `json:"timestamp"`       // When the invocation finished (UTC)
}
