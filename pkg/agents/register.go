package agents

import (
	"context"
	"fmt"

	"hypeproof/pkg/agent"
	"hypeproof/pkg/config"
	"hypeproof/pkg/registry"
)

// ContentPipelineSkillName is the registry key for the default skill.
const ContentPipelineSkillName = "content_pipeline"

// RegisterDefaults registers the built-in agents and the content
// pipeline skill. Each factory consumes the AgentConfig handed to the
// registry's first GetAgent call for that name; the recorder, when
// non-nil, is attached to every constructed agent.
func RegisterDefaults(reg *registry.Registry, recorder agent.MetricsRecorder) error {
	register := func(name string, construct func(opts ...agent.Option) (agent.Agent, error)) error {
		return reg.RegisterAgent(name, func(cfg config.AgentConfig) (agent.Agent, error) {
			opts := []agent.Option{}
			if cfg.Model != "" {
				opts = append(opts, agent.WithModel(cfg.Model))
			}
			if cfg.MaxRetries > 0 {
				opts = append(opts, agent.WithMaxRetries(cfg.MaxRetries))
			}
			if recorder != nil {
				opts = append(opts, agent.WithMetrics(recorder))
			}
			return construct(opts...)
		})
	}

	if err := register(ResearchAgentName, func(opts ...agent.Option) (agent.Agent, error) {
		return NewResearchAgent(opts...)
	}); err != nil {
		return err
	}
	if err := register(AnalysisAgentName, func(opts ...agent.Option) (agent.Agent, error) {
		return NewAnalysisAgent(opts...)
	}); err != nil {
		return err
	}
	if err := register(WritingAgentName, func(opts ...agent.Option) (agent.Agent, error) {
		return NewWritingAgent(opts...)
	}); err != nil {
		return err
	}

	pipelineCfg := config.SkillConfig{
		Name:        ContentPipelineSkillName,
		Description: "research a topic, analyze the findings, and write it up",
		Agents:      []string{ResearchAgentName, AnalysisAgentName, WritingAgentName},
	}
	return reg.RegisterSkill(ContentPipelineSkillName, pipelineCfg, NewContentPipeline)
}

// ContentPipeline chains the three built-in agents: research feeds
// analysis, analysis feeds writing. A new pipeline is constructed per
// GetSkill call with the registry injected for agent resolution.
type ContentPipeline struct {
	reg *registry.Registry
	cfg config.SkillConfig
}

// NewContentPipeline constructs the pipeline skill.
func NewContentPipeline(reg *registry.Registry, cfg config.SkillConfig) (registry.Skill, error) {
	if reg == nil {
		return nil, fmt.Errorf("content pipeline requires a registry")
	}
	return &ContentPipeline{reg: reg, cfg: cfg}, nil
}

// Name returns the skill identity.
func (s *ContentPipeline) Name() string { return ContentPipelineSkillName }

// Run executes the pipeline stages in order. A non-success Result at any
// stage stops the pipeline and surfaces the stage's error message.
func (s *ContentPipeline) Run(ctx context.Context, task string, taskContext map[string]any) (any, error) {
	research, err := s.runStage(ctx, ResearchAgentName, task, taskContext)
	if err != nil {
		return nil, err
	}

	analysisCtx := map[string]any{"research_data": research}
	analysis, err := s.runStage(ctx, AnalysisAgentName, task, analysisCtx)
	if err != nil {
		return nil, err
	}

	writingCtx := map[string]any{"analysis_data": analysis}
	if taskContext != nil {
		for _, key := range []string{"tone", "audience", "format"} {
			if v, ok := taskContext[key]; ok {
				writingCtx[key] = v
			}
		}
	}
	content, err := s.runStage(ctx, WritingAgentName, task, writingCtx)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"research": research,
		"analysis": analysis,
		"content":  content,
	}, nil
}

func (s *ContentPipeline) runStage(ctx context.Context, agentName, task string, taskContext map[string]any) (any, error) {
	instance, err := s.reg.GetAgent(agentName, config.AgentConfig{})
	if err != nil {
		return nil, err
	}

	result := instance.Execute(ctx, task, taskContext)
	if result.Status != agent.StatusSuccess {
		return nil, fmt.Errorf("stage %s failed: %s", agentName, result.ErrorMessage)
	}
	return result.Output, nil
}
