// Package registry maps agent and skill names to their factories and
// manages lazily-constructed agent singletons.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"hypeproof/pkg/agent"
	"hypeproof/pkg/config"
	"hypeproof/pkg/logx"
)

// Sentinel errors for registration and lookup faults.
var (
	ErrAlreadyRegistered = errors.New("name already registered")
	ErrNotRegistered     = errors.New("name not registered")
	ErrInvalidFactory    = errors.New("factory must not be nil")
)

// AgentFactory constructs one agent instance from its configuration.
// Called at most once per name until ClearInstances.
type AgentFactory func(cfg config.AgentConfig) (agent.Agent, error)

// Skill is a composition of agents resolved through the registry. The
// contract is deliberately thin; concrete skills define their own result
// shapes.
type Skill interface {
	Name() string
	Run(ctx context.Context, task string, taskContext map[string]any) (any, error)
}

// SkillFactory constructs a skill with the registry injected so the skill
// can resolve agents by name. Called on every GetSkill.
type SkillFactory func(reg *Registry, cfg config.SkillConfig) (Skill, error)

// Registry is an explicit instance store passed by reference to whatever
// needs agent resolution. Registration tables are append-only; the agent
// instance cache holds at most one live instance per name.
type Registry struct {
	mu           sync.Mutex
	agentClasses map[string]AgentFactory
	skillClasses map[string]SkillFactory
	skillConfigs map[string]config.SkillConfig
	instances    map[string]agent.Agent
	logger       *logx.Logger
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		agentClasses: make(map[string]AgentFactory),
		skillClasses: make(map[string]SkillFactory),
		skillConfigs: make(map[string]config.SkillConfig),
		instances:    make(map[string]agent.Agent),
		logger:       logx.NewLogger("registry"),
	}
}

// RegisterAgent records an agent factory under name. The first
// registration wins; re-registering an existing name fails and leaves the
// original intact.
func (r *Registry) RegisterAgent(name string, factory AgentFactory) error {
	if factory == nil {
		return fmt.Errorf("agent %q: %w", name, ErrInvalidFactory)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.agentClasses[name]; exists {
		return fmt.Errorf("agent %q: %w", name, ErrAlreadyRegistered)
	}
	r.agentClasses[name] = factory

	r.logger.Event(logx.LevelInfo, "agent_registered", logx.Fields{
		"agent": name,
	})
	return nil
}

// RegisterSkill records a skill factory under name, with the
// configuration handed to the factory on each construction. Same
// first-registration-wins discipline as agents, separate table.
func (r *Registry) RegisterSkill(name string, cfg config.SkillConfig, factory SkillFactory) error {
	if factory == nil {
		return fmt.Errorf("skill %q: %w", name, ErrInvalidFactory)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.skillClasses[name]; exists {
		return fmt.Errorf("skill %q: %w", name, ErrAlreadyRegistered)
	}
	r.skillClasses[name] = factory
	r.skillConfigs[name] = cfg

	r.logger.Event(logx.LevelInfo, "skill_registered", logx.Fields{
		"skill": name,
	})
	return nil
}

// GetAgent returns the instance cached under name, constructing it on
// first request. cfg applies only to that first construction; on a cache
// hit it is ignored, which is the documented singleton semantics rather
// than a bug. At most one live instance exists per name until
// ClearInstances.
func (r *Registry) GetAgent(name string, cfg config.AgentConfig) (agent.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if instance, exists := r.instances[name]; exists {
		return instance, nil
	}

	factory, exists := r.agentClasses[name]
	if !exists {
		return nil, fmt.Errorf("agent %q (known: %v): %w", name, r.lockedAgentNames(), ErrNotRegistered)
	}

	instance, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("constructing agent %q: %w", name, err)
	}
	r.instances[name] = instance

	r.logger.Event(logx.LevelInfo, "agent_instantiated", logx.Fields{
		"agent": name,
		"model": cfg.Model,
	})
	return instance, nil
}

// GetSkill constructs a new instance of the named skill. Skills are never
// cached; each call yields a fresh instance with this registry injected.
func (r *Registry) GetSkill(name string) (Skill, error) {
	r.mu.Lock()
	factory, exists := r.skillClasses[name]
	cfg := r.skillConfigs[name]
	r.mu.Unlock()

	if !exists {
		return nil, fmt.Errorf("skill %q: %w", name, ErrNotRegistered)
	}
	skill, err := factory(r, cfg)
	if err != nil {
		return nil, fmt.Errorf("constructing skill %q: %w", name, err)
	}
	return skill, nil
}

// ListAgents returns the registered agent names, sorted for stable output.
func (r *Registry) ListAgents() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lockedAgentNames()
}

// ListSkills returns the registered skill names, sorted for stable output.
func (r *Registry) ListSkills() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.skillClasses))
	for name := range r.skillClasses {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClearInstances drops all cached agent instances. Registration tables
// are retained, so subsequent GetAgent calls construct fresh instances.
func (r *Registry) ClearInstances() {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := len(r.instances)
	r.instances = make(map[string]agent.Agent)

	r.logger.Event(logx.LevelInfo, "instances_cleared", logx.Fields{
		"count": count,
	})
}

// lockedAgentNames returns sorted agent names. Caller holds r.mu.
func (r *Registry) lockedAgentNames() []string {
	names := make([]string, 0, len(r.agentClasses))
	for name := range r.agentClasses {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
