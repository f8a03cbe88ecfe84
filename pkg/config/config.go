// Package config provides YAML configuration loading and secret
// management for agents and skills.
package config

import (
	"fmt"
	"time"
)

// Defaults applied when a config record leaves a field unset.
const (
	DefaultMaxRetries       = 3
	DefaultTimeoutSeconds   = 300
	DefaultModel            = "claude-sonnet-4-20250514"
	DefaultQualityThreshold = 0.8
)

// AgentConfig describes one agent as declared in agents.yaml.
type AgentConfig struct {
	Name       string   `yaml:"name"`
	Role       string   `yaml:"role"`
	Tools      []string `yaml:"tools"`
	MaxRetries int      `yaml:"max_retries"`
	Timeout    int      `yaml:"timeout"` // seconds
	Model      string   `yaml:"model"`
}

// TimeoutDuration returns the configured timeout as a duration.
func (c *AgentConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// applyDefaults fills unset fields in place.
func (c *AgentConfig) applyDefaults() {
	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeoutSeconds
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
}

// Validate checks the agent configuration.
func (c *AgentConfig) Validate() error {
	if c.Name == "" {
		return &ConfigurationError{Reason: "agent name is required"}
	}
	if c.Role == "" {
		return &ConfigurationError{Reason: fmt.Sprintf("agent %q: role is required", c.Name)}
	}
	if c.MaxRetries < 0 {
		return &ConfigurationError{Reason: fmt.Sprintf("agent %q: max_retries must be non-negative", c.Name)}
	}
	if c.Timeout < 0 {
		return &ConfigurationError{Reason: fmt.Sprintf("agent %q: timeout must be non-negative", c.Name)}
	}
	return nil
}

// SkillConfig describes one skill as declared in skills.yaml.
type SkillConfig struct {
	Name             string   `yaml:"name"`
	Description      string   `yaml:"description"`
	Agents           []string `yaml:"agents"`
	Parallel         bool     `yaml:"parallel"`
	QualityThreshold float64  `yaml:"quality_threshold"`
}

func (c *SkillConfig) applyDefaults() {
	if c.QualityThreshold == 0 {
		c.QualityThreshold = DefaultQualityThreshold
	}
}

// Validate checks the skill configuration.
func (c *SkillConfig) Validate() error {
	if c.Name == "" {
		return &ConfigurationError{Reason: "skill name is required"}
	}
	if c.Description == "" {
		return &ConfigurationError{Reason: fmt.Sprintf("skill %q: description is required", c.Name)}
	}
	if len(c.Agents) == 0 {
		return &ConfigurationError{Reason: fmt.Sprintf("skill %q: at least one agent is required", c.Name)}
	}
	if c.QualityThreshold < 0 || c.QualityThreshold > 1 {
		return &ConfigurationError{Reason: fmt.Sprintf("skill %q: quality_threshold must be in [0, 1]", c.Name)}
	}
	return nil
}

// ConfigurationError reports a missing or malformed configuration input.
// Surfaced to the process entry point, never recovered mid-execution.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Kind returns the fault kind name.
func (*ConfigurationError) Kind() string { return "ConfigurationError" }
