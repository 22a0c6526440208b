package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genesisforge/genesis/internal/agent"
	"github.com/genesisforge/genesis/internal/testutil"
	"github.com/genesisforge/genesis/pkg/pipeline"
)

func TestRun_FullSuccess(t *testing.T) {
	fake := testutil.NewFakeCompleter()
	p := New(fake, nil)

	st, err := p.Run(context.Background(), NewRunID(), "A todo list app")
	require.NoError(t, err)

	// Exactly five success metrics, one per agent
	metrics := st.Metrics()
	require.Len(t, metrics, 5)
	seen := make(map[string]bool)
	for _, m := range metrics {
		assert.Equal(t, pipeline.StatusSuccess, m.Status)
		seen[m.Agent] = true
	}
	assert.Len(t, seen, 5)

	// Exactly five non-empty output fields
	for _, f := range pipeline.Fields {
		payload, ok := st.Get(f)
		assert.True(t, ok, "field %s should be set", f)
		assert.NotEmpty(t, payload)
	}

	// Product owner ran before the fan-out pair, lead developer after it
	roles := fake.Roles()
	require.Len(t, roles, 5)
	assert.Equal(t, agent.RoleProductOwner, roles[0])
	assert.Equal(t, agent.RoleLeadDeveloper, roles[3])
	assert.Equal(t, agent.RoleGrowthHacker, roles[4])
}

func TestRun_ProductOwnerFailureShortCircuits(t *testing.T) {
	fake := testutil.NewFakeCompleter()
	fake.FailOn(agent.RoleProductOwner, errors.New("boom"))
	p := New(fake, nil)

	st, err := p.Run(context.Background(), NewRunID(), "idea")
	require.Error(t, err)

	var execErr *pipeline.AgentExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, agent.RoleProductOwner, execErr.Agent)

	// No other agent was invoked
	assert.Equal(t, 1, fake.Calls())

	// Exactly one metric, with status error
	metrics := st.Metrics()
	require.Len(t, metrics, 1)
	assert.Equal(t, pipeline.StatusError, metrics[0].Status)
	assert.Empty(t, st.FieldsSet())
}

func TestRun_FanOutFailureAbortsBeforeLeadDeveloper(t *testing.T) {
	fake := testutil.NewFakeCompleter()
	fake.FailOn(agent.RoleSolutionsArchitect, errors.New("endpoint 500"))
	p := New(fake, nil)

	st, err := p.Run(context.Background(), NewRunID(), "idea")
	require.Error(t, err)

	var execErr *pipeline.AgentExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, agent.RoleSolutionsArchitect, execErr.Agent)

	// Both fan-out agents reached the barrier; the healthy sibling's output survives
	assert.True(t, st.Has(pipeline.FieldBrandGuide))
	assert.False(t, st.Has(pipeline.FieldArchitecture))

	// Lead developer and growth hacker were never invoked
	for _, role := range fake.Roles() {
		assert.NotEqual(t, agent.RoleLeadDeveloper, role)
		assert.NotEqual(t, agent.RoleGrowthHacker, role)
	}
	assert.False(t, st.Has(pipeline.FieldSourceCode))
	assert.False(t, st.Has(pipeline.FieldMarketingPlan))
}

func TestRun_LeadDeveloperFailurePreservesUpstreamFields(t *testing.T) {
	fake := testutil.NewFakeCompleter()
	fake.FailOn(agent.RoleLeadDeveloper, errors.New("endpoint 500"))
	p := New(fake, nil)

	st, err := p.Run(context.Background(), NewRunID(), "idea")
	require.Error(t, err)

	var execErr *pipeline.AgentExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, agent.RoleLeadDeveloper, execErr.Agent)

	// Upstream fields are set, downstream fields are not
	assert.True(t, st.Has(pipeline.FieldPRD))
	assert.True(t, st.Has(pipeline.FieldBrandGuide))
	assert.True(t, st.Has(pipeline.FieldArchitecture))
	assert.False(t, st.Has(pipeline.FieldSourceCode))
	assert.False(t, st.Has(pipeline.FieldMarketingPlan))

	// One metric per started agent: three successes and one error
	metrics := st.Metrics()
	require.Len(t, metrics, 4)
	statuses := map[pipeline.Status]int{}
	for _, m := range metrics {
		statuses[m.Status]++
	}
	assert.Equal(t, 3, statuses[pipeline.StatusSuccess])
	assert.Equal(t, 1, statuses[pipeline.StatusError])
}

func TestRun_SchedulingOrderIndependence(t *testing.T) {
	concurrent := New(testutil.NewFakeCompleter(), nil)
	sequential := New(testutil.NewFakeCompleter(), nil, WithSequentialFanOut())

	stConcurrent, err := concurrent.Run(context.Background(), NewRunID(), "A todo list app")
	require.NoError(t, err)
	stSequential, err := sequential.Run(context.Background(), NewRunID(), "A todo list app")
	require.NoError(t, err)

	// Field values are identical under both schedulings
	for _, f := range pipeline.Fields {
		a, _ := stConcurrent.Get(f)
		b, _ := stSequential.Get(f)
		assert.Equal(t, a, b, "field %s differs between schedulings", f)
	}
}

func TestRun_Isolation(t *testing.T) {
	p := New(testutil.NewFakeCompleter(), nil)

	first, err := p.Run(context.Background(), NewRunID(), "idea one")
	require.NoError(t, err)
	second, err := p.Run(context.Background(), NewRunID(), "idea two")
	require.NoError(t, err)

	// Two independent state objects with their own idea and metrics
	assert.NotSame(t, first, second)
	assert.Equal(t, "idea one", first.Idea())
	assert.Equal(t, "idea two", second.Idea())
	assert.Len(t, first.Metrics(), 5)
	assert.Len(t, second.Metrics(), 5)
}

func TestNewRunID_Unique(t *testing.T) {
	assert.NotEqual(t, NewRunID(), NewRunID())
}
