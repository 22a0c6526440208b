package pipeline

import (
	"encoding/json"
	"fmt"
	"sync"
)

// State is the shared record for one pipeline run. It is created with the user's
// idea, mutated in place by each agent as the run progresses, and discarded when
// the run ends. Two runs never share a State.
//
// All methods are safe for concurrent use; during the parallel stage two agents
// append metrics and write (disjoint) fields at the same time.
type State struct {
	mu      sync.Mutex
	idea    string
	fields  map[Field]string
	metrics []Metric
}

// NewState creates a fresh state with the idea set, all output fields unset, and
// an empty metrics list.
func NewState(idea string) *State {
	return &State{
		idea:   idea,
		fields: make(map[Field]string, len(Fields)),
	}
}

// Idea returns the input text. Immutable after creation.
func (s *State) Idea() string {
	return s.idea
}

// Set writes a field's payload. Each field may be written exactly once; a second
// write returns a *DoubleWriteError. Unknown fields are rejected.
func (s *State) Set(f Field, payload string) error {
	if !f.IsValid() {
		return fmt.Errorf("unknown field %q", f)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.fields[f]; exists {
		return &DoubleWriteError{Field: f}
	}
	s.fields[f] = payload
	return nil
}

// Get returns a field's payload and whether it has been written.
func (s *State) Get(f Field) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, ok := s.fields[f]
	return payload, ok
}

// Has reports whether a field has been written.
func (s *State) Has(f Field) bool {
	_, ok := s.Get(f)
	return ok
}

// FieldsSet returns the fields that have been written, in graph order.
func (s *State) FieldsSet() []Field {
	s.mu.Lock()
	defer s.mu.Unlock()

	var set []Field
	for _, f := range Fields {
		if _, ok := s.fields[f]; ok {
			set = append(set, f)
		}
	}
	return set
}

// AppendMetric records one agent execution. Metrics are append-only.
func (s *State) AppendMetric(m Metric) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics = append(s.metrics, m)
}

// Metrics returns a copy of the execution records appended so far.
func (s *State) Metrics() []Metric {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Metric, len(s.metrics))
	copy(out, s.metrics)
	return out
}

// TotalTokens sums the token counts of all recorded metrics.
func (s *State) TotalTokens() int {
	total := 0
	for _, m := range s.Metrics() {
		total += m.TokensUsed
	}
	return total
}

// DecodeSourceCode parses the source_code payload into a file path -> content map.
// The payload is the JSON object the lead developer produced.
func DecodeSourceCode(payload string) (map[string]string, error) {
	var files map[string]string
	if err := json.Unmarshal([]byte(payload), &files); err != nil {
		return nil, fmt.Errorf("failed to decode source code payload: %w", err)
	}
	return files, nil
}
