package registry

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hypeproof/pkg/agent"
	"hypeproof/pkg/config"
)

// stubAgent is a minimal Agent implementation for registry tests.
type stubAgent struct {
	name  string
	model string
}

func (s *stubAgent) Name() string { return s.name }

func (s *stubAgent) Execute(_ context.Context, _ string, _ map[string]any) agent.Result {
	return agent.Result{Status: agent.StatusSuccess, Output: s.name}
}

func stubFactory(name string) AgentFactory {
	return func(cfg config.AgentConfig) (agent.Agent, error) {
		return &stubAgent{name: name, model: cfg.Model}, nil
	}
}

// stubSkill records the registry it was constructed with.
type stubSkill struct {
	reg *Registry
}

func (s *stubSkill) Name() string { return "stub_skill" }

func (s *stubSkill) Run(_ context.Context, _ string, _ map[string]any) (any, error) {
	return nil, nil
}

func TestGetAgentSingleton(t *testing.T) {
	reg := New()
	require.NoError(t, reg.RegisterAgent("a", stubFactory("a")))

	first, err := reg.GetAgent("a", config.AgentConfig{})
	require.NoError(t, err)
	second, err := reg.GetAgent("a", config.AgentConfig{})
	require.NoError(t, err)

	assert.Same(t, first, second, "consecutive lookups must return the identical instance")
}

func TestGetAgentIgnoresConfigOnCacheHit(t *testing.T) {
	reg := New()
	require.NoError(t, reg.RegisterAgent("a", stubFactory("a")))

	first, err := reg.GetAgent("a", config.AgentConfig{Model: "model-one"})
	require.NoError(t, err)
	second, err := reg.GetAgent("a", config.AgentConfig{Model: "model-two"})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, "model-one", second.(*stubAgent).model, "construction config applies only the first time")
}

func TestRegisterAgentRejectsDuplicates(t *testing.T) {
	reg := New()
	require.NoError(t, reg.RegisterAgent("a", stubFactory("original")))

	err := reg.RegisterAgent("a", stubFactory("imposter"))
	require.ErrorIs(t, err, ErrAlreadyRegistered)

	// First registration remains intact.
	instance, err := reg.GetAgent("a", config.AgentConfig{})
	require.NoError(t, err)
	assert.Equal(t, "original", instance.Name())
}

func TestRegisterAgentRejectsNilFactory(t *testing.T) {
	reg := New()
	err := reg.RegisterAgent("a", nil)
	assert.ErrorIs(t, err, ErrInvalidFactory)
}

func TestGetAgentNotRegistered(t *testing.T) {
	reg := New()
	require.NoError(t, reg.RegisterAgent("known", stubFactory("known")))

	_, err := reg.GetAgent("missing", config.AgentConfig{})
	require.ErrorIs(t, err, ErrNotRegistered)
	assert.Contains(t, err.Error(), "known", "error lists the known names")
}

func TestGetAgentFactoryFailure(t *testing.T) {
	reg := New()
	require.NoError(t, reg.RegisterAgent("broken", func(config.AgentConfig) (agent.Agent, error) {
		return nil, fmt.Errorf("no credentials")
	}))

	_, err := reg.GetAgent("broken", config.AgentConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no credentials")

	// Failed construction must not poison the cache.
	_, err = reg.GetAgent("broken", config.AgentConfig{})
	assert.Error(t, err)
}

func TestClearInstancesKeepsRegistrations(t *testing.T) {
	reg := New()
	require.NoError(t, reg.RegisterAgent("a", stubFactory("a")))

	first, err := reg.GetAgent("a", config.AgentConfig{})
	require.NoError(t, err)

	before := reg.ListAgents()
	reg.ClearInstances()
	assert.Equal(t, before, reg.ListAgents(), "registrations survive a cache clear")

	second, err := reg.GetAgent("a", config.AgentConfig{})
	require.NoError(t, err)
	assert.NotSame(t, first, second, "cleared cache yields a fresh instance")
}

func TestGetSkillConstructsFreshInstances(t *testing.T) {
	reg := New()
	cfg := config.SkillConfig{Name: "stub_skill", Description: "d", Agents: []string{"a"}}
	require.NoError(t, reg.RegisterSkill("stub_skill", cfg, func(r *Registry, _ config.SkillConfig) (Skill, error) {
		return &stubSkill{reg: r}, nil
	}))

	first, err := reg.GetSkill("stub_skill")
	require.NoError(t, err)
	second, err := reg.GetSkill("stub_skill")
	require.NoError(t, err)

	assert.NotSame(t, first, second, "skills are never cached")
	assert.Same(t, reg, first.(*stubSkill).reg, "skill receives the registry for agent resolution")
}

func TestGetSkillNotRegistered(t *testing.T) {
	reg := New()
	_, err := reg.GetSkill("missing")
	assert.ErrorIs(t, err, ErrNotRegistered)
}

func TestRegisterSkillRejectsDuplicates(t *testing.T) {
	reg := New()
	factory := func(r *Registry, _ config.SkillConfig) (Skill, error) { return &stubSkill{reg: r}, nil }
	cfg := config.SkillConfig{Name: "s", Description: "d", Agents: []string{"a"}}

	require.NoError(t, reg.RegisterSkill("s", cfg, factory))
	assert.ErrorIs(t, reg.RegisterSkill("s", cfg, factory), ErrAlreadyRegistered)
}

func TestListAgentsAndSkills(t *testing.T) {
	reg := New()
	require.NoError(t, reg.RegisterAgent("b", stubFactory("b")))
	require.NoError(t, reg.RegisterAgent("a", stubFactory("a")))

	assert.Equal(t, []string{"a", "b"}, reg.ListAgents())
	assert.Empty(t, reg.ListSkills())
}
