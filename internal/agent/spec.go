// Package agent defines the five pipeline roles and the invocation wrapper that
// turns one role plus the shared state into one completion call.
package agent

import (
	"fmt"
	"strings"

	"github.com/genesisforge/genesis/pkg/pipeline"
)

// Role names, used in metrics, execution records, and error messages.
const (
	RoleProductOwner       = "product_owner"
	RoleCreativeDirector   = "creative_director"
	RoleSolutionsArchitect = "solutions_architect"
	RoleLeadDeveloper      = "lead_developer"
	RoleGrowthHacker       = "growth_hacker"
)

// OutputKind describes the shape an agent's completion must have.
type OutputKind int

const (
	// OutputMarkdown is free-form document text.
	OutputMarkdown OutputKind = iota

	// OutputJSON is a single JSON object.
	OutputJSON

	// OutputFileMap is a JSON object mapping file paths to file contents.
	OutputFileMap
)

// Spec declares one agent role: what it needs from the state, what it produces,
// and the prompt that drives it. Template text is static data; BuildUser is a
// pure function of the state.
type Spec struct {
	Name      string
	Requires  []pipeline.Field // Upstream fields that must be present, checked in order
	Produces  pipeline.Field
	Output    OutputKind
	System    string
	BuildUser func(st *pipeline.State) string
}

// Specs returns the five role specs in graph order: the product owner first, the
// two fan-out roles, then the synchronization and terminal roles.
func Specs() []Spec {
	return []Spec{
		productOwnerSpec(),
		creativeDirectorSpec(),
		solutionsArchitectSpec(),
		leadDeveloperSpec(),
		growthHackerSpec(),
	}
}

func productOwnerSpec() Spec {
	return Spec{
		Name:     RoleProductOwner,
		Requires: nil, // Consumes only the idea
		Produces: pipeline.FieldPRD,
		Output:   OutputMarkdown,
		System:   productOwnerPrompt,
		BuildUser: func(st *pipeline.State) string {
			return fmt.Sprintf("User Idea: %s", st.Idea())
		},
	}
}

func creativeDirectorSpec() Spec {
	return Spec{
		Name:     RoleCreativeDirector,
		Requires: []pipeline.Field{pipeline.FieldPRD},
		Produces: pipeline.FieldBrandGuide,
		Output:   OutputJSON,
		System:   creativeDirectorPrompt,
		BuildUser: func(st *pipeline.State) string {
			prd, _ := st.Get(pipeline.FieldPRD)
			return fmt.Sprintf("User Idea: %s\n\nPRD Summary: %s", st.Idea(), truncate(prd, 500))
		},
	}
}

func solutionsArchitectSpec() Spec {
	return Spec{
		Name:     RoleSolutionsArchitect,
		Requires: []pipeline.Field{pipeline.FieldPRD},
		Produces: pipeline.FieldArchitecture,
		Output:   OutputJSON,
		System:   solutionsArchitectPrompt,
		BuildUser: func(st *pipeline.State) string {
			prd, _ := st.Get(pipeline.FieldPRD)
			return fmt.Sprintf("User Idea: %s\n\nPRD: %s", st.Idea(), truncate(prd, 800))
		},
	}
}

func leadDeveloperSpec() Spec {
	return Spec{
		Name:     RoleLeadDeveloper,
		Requires: []pipeline.Field{pipeline.FieldBrandGuide, pipeline.FieldArchitecture},
		Produces: pipeline.FieldSourceCode,
		Output:   OutputFileMap,
		System:   leadDeveloperPrompt,
		BuildUser: func(st *pipeline.State) string {
			architecture, _ := st.Get(pipeline.FieldArchitecture)
			brand, _ := st.Get(pipeline.FieldBrandGuide)
			return fmt.Sprintf("User Idea: %s\n\nArchitecture:\n%s\n\nBrand Assets:\n%s",
				st.Idea(), architecture, brand)
		},
	}
}

func growthHackerSpec() Spec {
	return Spec{
		Name:     RoleGrowthHacker,
		Requires: []pipeline.Field{pipeline.FieldPRD},
		Produces: pipeline.FieldMarketingPlan,
		Output:   OutputMarkdown,
		System:   growthHackerPrompt,
		BuildUser: func(st *pipeline.State) string {
			prd, _ := st.Get(pipeline.FieldPRD)
			var b strings.Builder
			fmt.Fprintf(&b, "User Idea: %s\n\nProduct Overview:\n%s", st.Idea(), truncate(prd, 500))
			// Prior artifacts give context when present; only the PRD is required
			if brand, ok := st.Get(pipeline.FieldBrandGuide); ok {
				fmt.Fprintf(&b, "\n\nBrand Identity:\n%s", truncate(brand, 500))
			}
			if code, ok := st.Get(pipeline.FieldSourceCode); ok {
				if files, err := pipeline.DecodeSourceCode(code); err == nil {
					fmt.Fprintf(&b, "\n\nProject Files Generated: %d files", len(files))
				}
			}
			return b.String()
		},
	}
}

// truncate shortens a prompt excerpt to at most n bytes, marking the cut.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
