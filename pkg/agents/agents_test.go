package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hypeproof/pkg/agent"
	"hypeproof/pkg/agent/llm"
	"hypeproof/pkg/agent/llmerrors"
	"hypeproof/pkg/config"
	"hypeproof/pkg/registry"
)

const researchReply = `**Key Findings**:
- Finding one about the topic
- Finding two with more detail

**Sources**:
- https://example.com/paper - primary study

**Confidence Level**: high

**Additional Research**:
- Deeper benchmark comparisons
`

func TestResearchAgentExecute(t *testing.T) {
	mock := llm.NewMockClient([]llm.Response{{
		Result: researchReply,
		Usage:  &llm.Usage{InputTokens: 50, OutputTokens: 150, TotalTokens: 200},
	}}, nil)

	a, err := NewResearchAgent(agent.WithClient(mock))
	require.NoError(t, err)
	assert.Equal(t, ResearchAgentName, a.Name())
	assert.Equal(t, []string{"Read", "WebSearch", "WebFetch"}, a.Tools())

	result := a.Execute(context.Background(), "quantum error correction", nil)
	require.Equal(t, agent.StatusSuccess, result.Status)

	output, ok := result.Output.(map[string]any)
	require.True(t, ok)

	findings, ok := output["findings"].([]string)
	require.True(t, ok)
	assert.Len(t, findings, 2)
	assert.Equal(t, "Finding one about the topic", findings[0])

	sources, ok := output["sources"].([]string)
	require.True(t, ok)
	assert.Len(t, sources, 1)

	assert.Equal(t, researchReply, output["raw_response"])

	require.NotNil(t, result.TokenUsage)
	assert.Equal(t, 200, result.TokenUsage.TotalTokens)

	queries := mock.Queries()
	require.Len(t, queries, 1)
	assert.Contains(t, queries[0], "quantum error correction")
}

func TestResearchAgentClientFailureYieldsErrorResult(t *testing.T) {
	mock := llm.NewMockClient(nil, []error{
		llmerrors.NewError(llmerrors.ErrorTypeRateLimit, "rate limit exceeded"),
	})

	a, err := NewResearchAgent(agent.WithClient(mock))
	require.NoError(t, err)

	result := a.Execute(context.Background(), "topic", nil)
	assert.Equal(t, agent.StatusError, result.Status)
	assert.Contains(t, result.ErrorMessage, "RateLimitError")
	assert.Contains(t, result.ErrorMessage, "rate limit exceeded")
}

func TestAnalysisAgentIncludesResearchData(t *testing.T) {
	mock := llm.NewMockClient([]llm.Response{{
		Result: "**Key Themes**:\n- adoption is accelerating\n\nPattern: steady growth. Insight: costs fall. Recommendation: invest.",
	}}, nil)

	a, err := NewAnalysisAgent(agent.WithClient(mock))
	require.NoError(t, err)

	result := a.Execute(context.Background(), "analyze adoption", map[string]any{
		"research_data": "survey results from 2025",
	})
	require.Equal(t, agent.StatusSuccess, result.Status)

	queries := mock.Queries()
	require.Len(t, queries, 1)
	assert.Contains(t, queries[0], "survey results from 2025")

	output, ok := result.Output.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"adoption is accelerating"}, output["themes"])
	assert.NotEmpty(t, output["patterns"])
	assert.NotEmpty(t, output["insights"])
	assert.NotEmpty(t, output["recommendations"])
}

func TestWritingAgentDefaultsAndSections(t *testing.T) {
	content := `## Introduction
Welcome to the deep dive.

## Main Content
The body of the piece goes here.

## Conclusion
Key takeaways close it out.`

	mock := llm.NewMockClient([]llm.Response{{Result: content}}, nil)

	a, err := NewWritingAgent(agent.WithClient(mock))
	require.NoError(t, err)

	result := a.Execute(context.Background(), "write about Go", nil)
	require.Equal(t, agent.StatusSuccess, result.Status)

	output, ok := result.Output.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "article", output["format"])

	sections, ok := output["sections"].(map[string]string)
	require.True(t, ok)
	assert.Contains(t, sections, "introduction")
	assert.Contains(t, sections, "main_content")
	assert.Contains(t, sections, "conclusion")
	assert.Equal(t, "Welcome to the deep dive.", sections["introduction"])

	metadata, ok := output["metadata"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "professional", metadata["tone"])
	assert.Equal(t, "technical", metadata["audience"])
	assert.Greater(t, metadata["word_count"], 0)
}

func TestWritingAgentHonorsContextOverrides(t *testing.T) {
	mock := llm.NewMockClient([]llm.Response{{Result: "script text"}}, nil)

	a, err := NewWritingAgent(agent.WithClient(mock))
	require.NoError(t, err)

	result := a.Execute(context.Background(), "podcast on AI", map[string]any{
		"tone":     "casual",
		"audience": "general",
		"format":   "podcast_script",
	})
	require.Equal(t, agent.StatusSuccess, result.Status)

	queries := mock.Queries()
	require.Len(t, queries, 1)
	assert.Contains(t, queries[0], "Format: podcast_script")
	assert.Contains(t, queries[0], "Tone: casual")
	assert.Contains(t, queries[0], "conversational, natural speech patterns")
}

func TestReadingAndSpeakingTime(t *testing.T) {
	assert.Equal(t, 1, ReadingTime(50))
	assert.Equal(t, 2, ReadingTime(400))
	assert.Equal(t, 1, SpeakingTime(0))
	assert.Equal(t, 10, SpeakingTime(1500))
}

func TestRegisterDefaults(t *testing.T) {
	reg := registry.New()
	require.NoError(t, RegisterDefaults(reg, nil))

	assert.Equal(t, []string{AnalysisAgentName, ResearchAgentName, WritingAgentName}, reg.ListAgents())
	assert.Equal(t, []string{ContentPipelineSkillName}, reg.ListSkills())

	// Registering twice must fail on the duplicate names.
	assert.Error(t, RegisterDefaults(reg, nil))
}

func TestRegisterDefaultsAppliesRetryBudget(t *testing.T) {
	reg := registry.New()
	require.NoError(t, RegisterDefaults(reg, nil))

	instance, err := reg.GetAgent(ResearchAgentName, config.AgentConfig{Model: "ollama:llama3", MaxRetries: 5})
	require.NoError(t, err)

	research, ok := instance.(*ResearchAgent)
	require.True(t, ok)
	assert.Equal(t, 5, research.MaxRetries())
	assert.Equal(t, "ollama:llama3", research.Model())
}

func TestContentPipelineRequiresRegistry(t *testing.T) {
	_, err := NewContentPipeline(nil, config.SkillConfig{})
	assert.Error(t, err)
}

func TestContentPipelineName(t *testing.T) {
	skill, err := NewContentPipeline(registry.New(), config.SkillConfig{})
	require.NoError(t, err)
	assert.Equal(t, ContentPipelineSkillName, skill.Name())
}
