// Package testutil provides shared test helpers, including a deterministic fake
// completion endpoint for exercising the pipeline without network calls.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/genesisforge/genesis/internal/llm"
)

// Canned outputs per role, shaped like real completions.
var cannedOutputs = map[string]string{
	"product_owner": "# Product Requirements Document\n\n## Executive Summary\nA focused MVP.\n\n## User Stories\n- As a user, I can sign up.",
	"creative_director": `{
  "brand_name": "Flow",
  "tagline": "Work together, apart",
  "color_palette": {"primary": "#0B7285", "secondary": "#E9ECEF", "accent": "#F59F00", "background": "#FFFFFF", "text": "#212529"},
  "typography": {"heading_font": "Inter", "body_font": "Source Sans Pro"},
  "visual_style": "clean and calm",
  "logo_prompt": "minimalist wave mark",
  "ui_mockup_prompts": ["dashboard", "focus room", "settings"]
}`,
	"solutions_architect": `{
  "tech_stack": {"frontend": ["React"], "backend": ["Node.js", "Express"], "database": "PostgreSQL", "infrastructure": ["Docker"]},
  "architecture_pattern": "monolith",
  "file_structure": {"root/": {"src/": {"components/": ["App.jsx"]}}},
  "key_modules": [{"name": "Rooms", "files": ["rooms.js"], "dependencies": ["socket.io"]}],
  "api_endpoints": [{"method": "POST", "path": "/api/rooms", "description": "Create room"}]
}`,
	"lead_developer": `{
  "src/App.jsx": "import React from 'react';\nexport default function App() { return <div>Flow</div>; }",
  "src/components/Header.jsx": "export const Header = () => <header>Flow</header>;",
  "src/styles/theme.js": "export const theme = { primary: '#0B7285' };",
  "backend/server.js": "const express = require('express');",
  "README.md": "# Flow\n\n## Setup\nnpm install"
}`,
	"growth_hacker": "# Go-To-Market Strategy\n\n## Launch Strategy\nPhase 1: private beta.\n\n## Channels\n1. Content marketing",
}

// RoleOf infers which role a completion request belongs to from its instruction
// template. Each role's system prompt opens with a distinctive title.
func RoleOf(req llm.Request) string {
	switch {
	case strings.Contains(req.System, "Product Owner"):
		return "product_owner"
	case strings.Contains(req.System, "Creative Director"):
		return "creative_director"
	case strings.Contains(req.System, "Solutions Architect"):
		return "solutions_architect"
	case strings.Contains(req.System, "Lead Developer"):
		return "lead_developer"
	case strings.Contains(req.System, "Growth Hacker"):
		return "growth_hacker"
	default:
		return "unknown"
	}
}

// FakeCompleter is a deterministic in-memory completion endpoint. It returns
// canned per-role outputs, records invocation order, and can be scripted to
// fail for chosen roles. Safe for concurrent use.
type FakeCompleter struct {
	mu        sync.Mutex
	roles     []string
	failures  map[string]error
	overrides map[string]string

	// Tokens is the token count reported per call.
	Tokens int

	// Delay is applied before each response to exercise timing capture.
	Delay time.Duration
}

// NewFakeCompleter returns a fake that succeeds for all five roles.
func NewFakeCompleter() *FakeCompleter {
	return &FakeCompleter{
		failures:  make(map[string]error),
		overrides: make(map[string]string),
		Tokens:    100,
	}
}

// FailOn scripts a failure for one role.
func (f *FakeCompleter) FailOn(role string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[role] = err
}

// RespondWith overrides the canned output for one role.
func (f *FakeCompleter) RespondWith(role, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overrides[role] = text
}

// Complete implements llm.Completer.
func (f *FakeCompleter) Complete(ctx context.Context, req llm.Request) (*llm.Result, error) {
	if f.Delay > 0 {
		select {
		case <-time.After(f.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	role := RoleOf(req)

	f.mu.Lock()
	f.roles = append(f.roles, role)
	failure := f.failures[role]
	override, hasOverride := f.overrides[role]
	f.mu.Unlock()

	if failure != nil {
		return nil, failure
	}

	text := cannedOutputs[role]
	if hasOverride {
		text = override
	}
	if text == "" {
		return nil, fmt.Errorf("no canned output for role %q", role)
	}

	return &llm.Result{Text: text, TokensUsed: f.Tokens}, nil
}

// Calls returns how many completions were issued.
func (f *FakeCompleter) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.roles)
}

// Roles returns the roles invoked, in completion order.
func (f *FakeCompleter) Roles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.roles))
	copy(out, f.roles)
	return out
}
