// Package artifact persists pipeline output fields to disk.
//
// Each produced state field becomes one artifact: long-form documents as
// markdown files, structured outputs as pretty-printed JSON, and the generated
// source code as a file tree. Only fields actually set are written, so a run
// that failed partway leaves artifacts for the agents that completed and
// nothing for the ones that did not.
package artifact

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/genesisforge/genesis/pkg/pipeline"
)

// Names of the on-disk artifacts, per field.
var artifactNames = map[pipeline.Field]string{
	pipeline.FieldPRD:           "PRD.md",
	pipeline.FieldBrandGuide:    "brand_guide.json",
	pipeline.FieldArchitecture:  "architecture.json",
	pipeline.FieldSourceCode:    "source_code",
	pipeline.FieldMarketingPlan: "marketing_plan.md",
}

// Name returns the artifact file (or directory) name for a field.
func Name(f pipeline.Field) string {
	return artifactNames[f]
}

// Written describes one persisted artifact.
type Written struct {
	Field pipeline.Field
	Path  string
}

// WriteAll persists every set field of the state under dir, creating it if
// needed. A failure on one field does not stop the others; all failures are
// joined into the returned error while the successfully written artifacts are
// still reported. This matches the persistence contract: IO errors are fatal
// only to their own artifact, never to the rest of the run's outputs.
func WriteAll(st *pipeline.State, dir string) ([]Written, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []Written
	var errs []error
	for _, f := range st.FieldsSet() {
		payload, _ := st.Get(f)
		path, err := writeField(f, payload, dir)
		if err != nil {
			errs = append(errs, fmt.Errorf("artifact %s: %w", Name(f), err))
			continue
		}
		written = append(written, Written{Field: f, Path: path})
	}
	return written, errors.Join(errs...)
}

func writeField(f pipeline.Field, payload, dir string) (string, error) {
	path := filepath.Join(dir, Name(f))

	switch f {
	case pipeline.FieldSourceCode:
		files, err := pipeline.DecodeSourceCode(payload)
		if err != nil {
			return "", err
		}
		if err := writeTree(path, files); err != nil {
			return "", err
		}
		return path, nil

	case pipeline.FieldBrandGuide, pipeline.FieldArchitecture:
		pretty, err := indentJSON(payload)
		if err != nil {
			return "", err
		}
		return path, os.WriteFile(path, pretty, 0644)

	default:
		return path, os.WriteFile(path, []byte(payload), 0644)
	}
}

// writeTree materializes the generated code files under root. Every path is
// validated against escaping the root: the model chooses the file names, so
// they are untrusted input.
func writeTree(root string, files map[string]string) error {
	for name, content := range files {
		path, err := safeJoin(root, name)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}

// safeJoin joins an untrusted relative path under root, rejecting absolute
// paths and any path that escapes the root.
func safeJoin(root, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty file path")
	}
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("absolute file path %q rejected", name)
	}
	path := filepath.Join(root, filepath.FromSlash(name))
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("file path %q escapes the output directory", name)
	}
	return path, nil
}

func indentJSON(payload string) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(payload), "", "  "); err != nil {
		return nil, fmt.Errorf("invalid JSON payload: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
