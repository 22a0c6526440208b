package store

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectStatus_IsValid(t *testing.T) {
	for _, s := range []ProjectStatus{StatusPending, StatusRunning, StatusCompleted, StatusFailed} {
		assert.True(t, s.IsValid(), "status %s should be valid", s)
	}
	assert.False(t, ProjectStatus("cancelled").IsValid())
	assert.False(t, ProjectStatus("").IsValid())
}

func TestOpen_EmptyURL(t *testing.T) {
	_, err := Open(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

// TestNilStore_NoOps verifies the nil-store contract: every method is safe and
// inert without a configured database.
func TestNilStore_NoOps(t *testing.T) {
	var s *Store
	ctx := context.Background()

	assert.NoError(t, s.EnsureSchema(ctx))

	p, err := s.CreateProject(ctx, "idea")
	assert.NoError(t, err)
	assert.Nil(t, p)

	assert.NoError(t, s.UpdateProjectStatus(ctx, 1, StatusCompleted))
	assert.NoError(t, s.AddArtifact(ctx, 1, "prd", "output/PRD.md"))

	projects, err := s.ListProjects(ctx, 10, "")
	assert.NoError(t, err)
	assert.Nil(t, projects)

	artifacts, err := s.ListArtifacts(ctx, 1)
	assert.NoError(t, err)
	assert.Nil(t, artifacts)

	assert.NoError(t, s.Close())
}

func sampleProjects() []*Project {
	now := time.Now()
	return []*Project{
		{ID: 2, UserIdea: "A productivity app for remote teams with focus rooms and Pomodoro timers", Status: StatusCompleted, CreatedAt: now.Add(-5 * time.Minute), UpdatedAt: now},
		{ID: 1, UserIdea: "A todo list app", Status: StatusFailed, CreatedAt: now.Add(-2 * time.Hour), UpdatedAt: now},
	}
}

func TestFormatTable(t *testing.T) {
	var buf bytes.Buffer
	n := FormatTable(&buf, sampleProjects())
	assert.Equal(t, 2, n)

	out := buf.String()
	assert.Contains(t, out, "completed")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "A todo list app")
	assert.Contains(t, out, "2 projects found")

	// Long ideas are truncated
	assert.NotContains(t, out, "Pomodoro timers")
	assert.Contains(t, out, "...")
}

func TestFormatTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	n := FormatTable(&buf, nil)
	assert.Equal(t, 0, n)
	assert.Contains(t, buf.String(), "No projects")
}

func TestFormatJSONL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatJSONL(&buf, sampleProjects()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var p Project
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &p))
	assert.Equal(t, int64(2), p.ID)
	assert.Equal(t, StatusCompleted, p.Status)
}

func TestTruncateIdea_CollapsesWhitespace(t *testing.T) {
	got := truncateIdea("  line one\n\tline two  ")
	assert.Equal(t, "line one line two", got)
}

func TestFormatAge(t *testing.T) {
	now := time.Now()
	assert.Contains(t, formatAge(now.Add(-30*time.Second)), "s ago")
	assert.Contains(t, formatAge(now.Add(-10*time.Minute)), "m ago")
	assert.Contains(t, formatAge(now.Add(-3*time.Hour)), "h ago")
	assert.Contains(t, formatAge(now.Add(-48*time.Hour)), "d ago")
}
