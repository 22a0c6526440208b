package store

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// FormatTable writes projects as a formatted table. Returns how many rows were
// written. Used by the `genesis list` command's default output.
func FormatTable(w io.Writer, projects []*Project) int {
	if len(projects) == 0 {
		fmt.Fprintln(w, "No projects recorded yet")
		return 0
	}

	fmt.Fprintf(w, "%-6s %-10s %-10s %s\n", "ID", "STATUS", "AGE", "IDEA")
	fmt.Fprintf(w, "%-6s %-10s %-10s %s\n", "------", "----------", "----------", strings.Repeat("-", 50))

	for _, p := range projects {
		fmt.Fprintf(w, "%-6d %-10s %-10s %s\n",
			p.ID,
			p.Status,
			formatAge(p.CreatedAt),
			truncateIdea(p.UserIdea),
		)
	}

	noun := "project"
	if len(projects) != 1 {
		noun = "projects"
	}
	fmt.Fprintf(w, "\n%d %s found\n", len(projects), noun)
	return len(projects)
}

// FormatJSONL writes projects as line-delimited JSON for scripting with jq.
func FormatJSONL(w io.Writer, projects []*Project) error {
	for _, p := range projects {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to marshal project: %w", err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			return fmt.Errorf("failed to write JSONL output: %w", err)
		}
	}
	return nil
}

func truncateIdea(idea string) string {
	idea = strings.Join(strings.Fields(idea), " ")
	if len(idea) > 50 {
		return idea[:47] + "..."
	}
	return idea
}

func formatAge(t time.Time) string {
	age := time.Since(t)
	switch {
	case age < time.Minute:
		return fmt.Sprintf("%ds ago", int(age.Seconds()))
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(age.Hours()/24))
	}
}
