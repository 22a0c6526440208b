// Package store persists project runs and their artifacts to Postgres.
//
// The store is optional: the pipeline itself never requires it, and a nil
// *Store is valid everywhere (all methods no-op), so callers without a
// configured database never branch.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // Postgres driver
)

// ProjectStatus is the lifecycle state of one recorded pipeline run.
type ProjectStatus string

const (
	StatusPending   ProjectStatus = "pending"
	StatusRunning   ProjectStatus = "running"
	StatusCompleted ProjectStatus = "completed"
	StatusFailed    ProjectStatus = "failed"
)

// IsValid reports whether s is a known project status.
func (s ProjectStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusRunning, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Project is one recorded pipeline run.
type Project struct {
	ID        int64         `json:"id"`
	UserIdea  string        `json:"user_idea"`
	Status    ProjectStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Artifact is one persisted output file (or file tree) of a project.
type Artifact struct {
	ID           int64     `json:"id"`
	ProjectID    int64     `json:"project_id"`
	ArtifactType string    `json:"artifact_type"` // prd, brand_guide, architecture, source_code, marketing_plan
	FilePath     string    `json:"file_path"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store wraps the Postgres connection.
type Store struct {
	db *sql.DB
}

// Open connects to Postgres and verifies connectivity.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is empty")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the connection pool. Safe on a nil store.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// EnsureSchema creates the projects and artifacts tables when absent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if s == nil {
		return nil
	}
	const schema = `
CREATE TABLE IF NOT EXISTS projects (
	id         SERIAL PRIMARY KEY,
	user_idea  TEXT NOT NULL,
	status     VARCHAR(20) NOT NULL DEFAULT 'pending',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS artifacts (
	id            SERIAL PRIMARY KEY,
	project_id    INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	artifact_type VARCHAR(50) NOT NULL,
	file_path     VARCHAR(500) NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// CreateProject records a new run with status pending and returns it.
func (s *Store) CreateProject(ctx context.Context, idea string) (*Project, error) {
	if s == nil {
		return nil, nil
	}
	p := &Project{UserIdea: idea, Status: StatusPending}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO projects (user_idea, status) VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`,
		idea, StatusPending,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return p, nil
}

// UpdateProjectStatus moves a project to a new lifecycle state.
func (s *Store) UpdateProjectStatus(ctx context.Context, projectID int64, status ProjectStatus) error {
	if s == nil {
		return nil
	}
	if !status.IsValid() {
		return fmt.Errorf("invalid project status %q", status)
	}
	result, err := s.db.ExecContext(ctx,
		`UPDATE projects SET status = $1, updated_at = now() WHERE id = $2`,
		status, projectID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project status: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("project %d not found", projectID)
	}
	return nil
}

// AddArtifact records one persisted output file for a project.
func (s *Store) AddArtifact(ctx context.Context, projectID int64, artifactType, filePath string) error {
	if s == nil {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO artifacts (project_id, artifact_type, file_path) VALUES ($1, $2, $3)`,
		projectID, artifactType, filePath,
	)
	if err != nil {
		return fmt.Errorf("failed to record artifact: %w", err)
	}
	return nil
}

// ListProjects returns the most recent projects, newest first, optionally
// filtered by status. limit <= 0 means a default of 50.
func (s *Store) ListProjects(ctx context.Context, limit int, status ProjectStatus) ([]*Project, error) {
	if s == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	if status != "" && !status.IsValid() {
		return nil, fmt.Errorf("invalid project status %q", status)
	}

	query := `SELECT id, user_idea, status, created_at, updated_at FROM projects`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		p := &Project{}
		if err := rows.Scan(&p.ID, &p.UserIdea, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// ListArtifacts returns the artifacts recorded for a project.
func (s *Store) ListArtifacts(ctx context.Context, projectID int64) ([]*Artifact, error) {
	if s == nil {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, artifact_type, file_path, created_at
		 FROM artifacts WHERE project_id = $1 ORDER BY id`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []*Artifact
	for rows.Next() {
		a := &Artifact{}
		if err := rows.Scan(&a.ID, &a.ProjectID, &a.ArtifactType, &a.FilePath, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan artifact row: %w", err)
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, rows.Err()
}
