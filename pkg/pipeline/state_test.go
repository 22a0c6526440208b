package pipeline

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// TestNewState_Initial tests that a fresh state has only the idea set
func TestNewState_Initial(t *testing.T) {
	s := NewState("A todo list app")

	if s.Idea() != "A todo list app" {
		t.Errorf("expected idea to round-trip, got %q", s.Idea())
	}
	for _, f := range Fields {
		if s.Has(f) {
			t.Errorf("field %q should be unset on a fresh state", f)
		}
	}
	if len(s.Metrics()) != 0 {
		t.Errorf("expected empty metrics, got %d", len(s.Metrics()))
	}
}

// TestState_SetAndGet tests the basic write/read cycle
func TestState_SetAndGet(t *testing.T) {
	s := NewState("idea")

	if err := s.Set(FieldPRD, "# PRD"); err != nil {
		t.Fatalf("unexpected error setting field: %v", err)
	}

	payload, ok := s.Get(FieldPRD)
	if !ok {
		t.Fatal("expected prd to be set")
	}
	if payload != "# PRD" {
		t.Errorf("expected payload to round-trip, got %q", payload)
	}
}

// TestState_DoubleWrite tests that writing a field twice fails
func TestState_DoubleWrite(t *testing.T) {
	s := NewState("idea")

	if err := s.Set(FieldPRD, "first"); err != nil {
		t.Fatalf("first write failed: %v", err)
	}

	err := s.Set(FieldPRD, "second")
	if err == nil {
		t.Fatal("expected double write to fail")
	}

	var dw *DoubleWriteError
	if !errors.As(err, &dw) {
		t.Fatalf("expected *DoubleWriteError, got %T", err)
	}
	if dw.Field != FieldPRD {
		t.Errorf("expected field prd in error, got %q", dw.Field)
	}

	// First write must be preserved
	payload, _ := s.Get(FieldPRD)
	if payload != "first" {
		t.Errorf("double write must not clobber, got %q", payload)
	}
}

// TestState_UnknownField tests that unknown fields are rejected
func TestState_UnknownField(t *testing.T) {
	s := NewState("idea")
	if err := s.Set(Field("mood_board"), "x"); err == nil {
		t.Error("expected unknown field to be rejected")
	}
}

// TestState_FieldsSet tests that set fields are reported in graph order
func TestState_FieldsSet(t *testing.T) {
	s := NewState("idea")

	// Write out of graph order
	if err := s.Set(FieldArchitecture, "{}"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(FieldPRD, "# PRD"); err != nil {
		t.Fatal(err)
	}

	got := s.FieldsSet()
	if len(got) != 2 || got[0] != FieldPRD || got[1] != FieldArchitecture {
		t.Errorf("expected [prd architecture], got %v", got)
	}
}

// TestState_MetricsAppendOnly tests metric accumulation and totals
func TestState_MetricsAppendOnly(t *testing.T) {
	s := NewState("idea")

	s.AppendMetric(Metric{Agent: "product_owner", TokensUsed: 100, Status: StatusSuccess})
	s.AppendMetric(Metric{Agent: "creative_director", TokensUsed: 50, Status: StatusError})

	metrics := s.Metrics()
	if len(metrics) != 2 {
		t.Fatalf("expected 2 metrics, got %d", len(metrics))
	}
	if metrics[0].Agent != "product_owner" || metrics[1].Agent != "creative_director" {
		t.Errorf("metrics out of order: %v", metrics)
	}
	if s.TotalTokens() != 150 {
		t.Errorf("expected 150 total tokens, got %d", s.TotalTokens())
	}

	// Returned slice is a copy; mutating it must not affect the state
	metrics[0].Agent = "mutated"
	if s.Metrics()[0].Agent != "product_owner" {
		t.Error("Metrics() must return a copy")
	}
}

// TestState_ConcurrentAppend tests metric appends from the parallel stage
func TestState_ConcurrentAppend(t *testing.T) {
	s := NewState("idea")

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(agent string, f Field) {
			defer wg.Done()
			if err := s.Set(f, "{}"); err != nil {
				t.Errorf("concurrent set failed: %v", err)
			}
			s.AppendMetric(Metric{Agent: agent, Status: StatusSuccess, Duration: time.Millisecond})
		}([]string{"creative_director", "solutions_architect"}[i], []Field{FieldBrandGuide, FieldArchitecture}[i])
	}
	wg.Wait()

	if len(s.Metrics()) != 2 {
		t.Errorf("expected 2 metrics, got %d", len(s.Metrics()))
	}
	if !s.Has(FieldBrandGuide) || !s.Has(FieldArchitecture) {
		t.Error("expected both parallel fields to be set")
	}
}

// TestState_Isolation tests that two runs share no mutable state
func TestState_Isolation(t *testing.T) {
	a := NewState("idea")
	b := NewState("idea")

	if err := a.Set(FieldPRD, "# PRD A"); err != nil {
		t.Fatal(err)
	}
	a.AppendMetric(Metric{Agent: "product_owner", Status: StatusSuccess})

	if b.Has(FieldPRD) {
		t.Error("state b must not observe writes to state a")
	}
	if len(b.Metrics()) != 0 {
		t.Error("state b must not observe metrics from state a")
	}
}

// TestDecodeSourceCode tests parsing of the lead developer's payload
func TestDecodeSourceCode(t *testing.T) {
	files, err := DecodeSourceCode(`{"src/App.jsx": "import React", "README.md": "# App"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	if files["README.md"] != "# App" {
		t.Errorf("unexpected content: %q", files["README.md"])
	}

	if _, err := DecodeSourceCode("not json"); err == nil {
		t.Error("expected malformed payload to fail")
	}
}
