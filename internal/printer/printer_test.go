package printer

import (
	"strings"
	"testing"
	"time"

	"github.com/genesisforge/genesis/pkg/pipeline"
)

func TestMetricsTable(t *testing.T) {
	metrics := []pipeline.Metric{
		{Agent: "product_owner", Status: pipeline.StatusSuccess, Duration: 1200 * time.Millisecond, TokensUsed: 800},
		{Agent: "creative_director", Status: pipeline.StatusError, Duration: 300 * time.Millisecond, TokensUsed: 0},
	}

	out := MetricsTable(metrics)

	if !strings.Contains(out, "product_owner") {
		t.Errorf("expected agent name in table:\n%s", out)
	}
	if !strings.Contains(out, "success") || !strings.Contains(out, "error") {
		t.Errorf("expected statuses in table:\n%s", out)
	}
	if !strings.Contains(out, "1.2s") {
		t.Errorf("expected rounded duration in table:\n%s", out)
	}
	if !strings.Contains(out, "800") {
		t.Errorf("expected token count in table:\n%s", out)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 { // header + separator + 2 rows
		t.Errorf("expected 4 lines, got %d:\n%s", len(lines), out)
	}
}
