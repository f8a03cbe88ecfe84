package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"hypeproof/pkg/logx"
)

// Config file names the loader knows about.
const (
	AgentsFile   = "agents.yaml"
	SkillsFile   = "skills.yaml"
	SettingsFile = "settings.yaml"
)

// Loader reads and validates YAML configuration files from one directory.
type Loader struct {
	dir    string
	logger *logx.Logger
}

// NewLoader creates a loader rooted at dir. Fails when the directory does
// not exist.
func NewLoader(dir string) (*Loader, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("configuration directory not found: %s", dir), Err: err}
	}
	if !info.IsDir() {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("not a directory: %s", dir)}
	}
	return &Loader{
		dir:    dir,
		logger: logx.NewLogger("config"),
	}, nil
}

// LoadYAML reads one YAML file into a generic map.
func (l *Loader) LoadYAML(filename string) (map[string]any, error) {
	path := filepath.Join(l.dir, filename)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("configuration file not found: %s", path), Err: err}
	}

	var parsed map[string]any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("invalid YAML in %s", filename), Err: err}
	}

	keys := make([]string, 0, len(parsed))
	for k := range parsed {
		keys = append(keys, k)
	}
	l.logger.Event(logx.LevelInfo, "configuration_loaded", logx.Fields{
		"filename": filename,
		"keys":     fmt.Sprintf("%v", keys),
	})

	if parsed == nil {
		parsed = map[string]any{}
	}
	return parsed, nil
}

// LoadAgents reads agents.yaml and returns validated AgentConfig records
// keyed by agent name.
func (l *Loader) LoadAgents() (map[string]AgentConfig, error) {
	path := filepath.Join(l.dir, AgentsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("configuration file not found: %s", path), Err: err}
	}

	var doc struct {
		Agents map[string]AgentConfig `yaml:"agents"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("invalid YAML in %s", AgentsFile), Err: err}
	}
	if doc.Agents == nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("%s must contain 'agents' key", AgentsFile)}
	}

	agents := make(map[string]AgentConfig, len(doc.Agents))
	names := make([]string, 0, len(doc.Agents))
	for name, cfg := range doc.Agents {
		if cfg.Name == "" {
			cfg.Name = name
		}
		cfg.applyDefaults()
		if err := cfg.Validate(); err != nil {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("invalid configuration for agent %q", name), Err: err}
		}
		agents[name] = cfg
		names = append(names, name)
	}

	l.logger.Event(logx.LevelInfo, "agents_configuration_loaded", logx.Fields{
		"agent_count": len(agents),
		"agents":      fmt.Sprintf("%v", names),
	})
	return agents, nil
}

// LoadSkills reads skills.yaml and returns validated SkillConfig records
// keyed by skill name.
func (l *Loader) LoadSkills() (map[string]SkillConfig, error) {
	path := filepath.Join(l.dir, SkillsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("configuration file not found: %s", path), Err: err}
	}

	var doc struct {
		Skills map[string]SkillConfig `yaml:"skills"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("invalid YAML in %s", SkillsFile), Err: err}
	}
	if doc.Skills == nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("%s must contain 'skills' key", SkillsFile)}
	}

	skills := make(map[string]SkillConfig, len(doc.Skills))
	names := make([]string, 0, len(doc.Skills))
	for name, cfg := range doc.Skills {
		if cfg.Name == "" {
			cfg.Name = name
		}
		cfg.applyDefaults()
		if err := cfg.Validate(); err != nil {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("invalid configuration for skill %q", name), Err: err}
		}
		skills[name] = cfg
		names = append(names, name)
	}

	l.logger.Event(logx.LevelInfo, "skills_configuration_loaded", logx.Fields{
		"skill_count": len(skills),
		"skills":      fmt.Sprintf("%v", names),
	})
	return skills, nil
}

// LoadSettings reads the general settings file.
func (l *Loader) LoadSettings() (map[string]any, error) {
	return l.LoadYAML(SettingsFile)
}
