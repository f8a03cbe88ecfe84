// Package agents provides the concrete agent implementations: research,
// analysis, and writing specialists built on the shared execution
// framework.
package agents

import (
	"context"
	"fmt"
	"strings"

	"hypeproof/pkg/agent"
	"hypeproof/pkg/agent/llm"
)

// ResearchAgentName is the registry key for the research agent.
const ResearchAgentName = "research_agent"

const researchSystemPrompt = `You are a research specialist focused on gathering accurate information.

Your responsibilities:
1. Use WebSearch to find recent, credible sources
2. Use WebFetch to retrieve full content when needed
3. Prioritize official documentation, research papers, and authoritative sources
4. Summarize findings with clear citations
5. Flag information that requires further verification

Output Format:
Your response should be structured as follows:
- **Key Findings**: Bullet points of main discoveries
- **Sources**: URLs with brief descriptions
- **Confidence Level**: Your confidence in each finding (high/medium/low)
- **Additional Research**: Areas requiring further investigation

Always cite your sources and indicate when information is uncertain.`

// researchTools are the declared capabilities of the research agent.
//
//nolint:gochecknoglobals
var researchTools = []string{"Read", "WebSearch", "WebFetch"}

// ResearchAgent gathers information on a topic and reports structured
// findings with sources. Each instance owns an independent client, so its
// conversation never contaminates other agents' context.
type ResearchAgent struct {
	*agent.BaseAgent
}

// NewResearchAgent constructs the research agent.
func NewResearchAgent(opts ...agent.Option) (*ResearchAgent, error) {
	base, err := agent.NewBaseAgent(ResearchAgentName, researchSystemPrompt, researchTools, opts...)
	if err != nil {
		return nil, err
	}
	a := &ResearchAgent{BaseAgent: base}
	base.SetTaskExecutor(a)
	return a, nil
}

// ExecuteTask runs one research task: the topic is expanded into a
// research prompt, sent through the client, and the reply is structured
// into findings.
func (a *ResearchAgent) ExecuteTask(ctx context.Context, task string, _ map[string]any) (any, error) {
	prompt := a.buildResearchPrompt(task)

	resp, err := a.Client().Query(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return a.parseResearchOutput(resp), nil
}

func (a *ResearchAgent) buildResearchPrompt(task string) string {
	return fmt.Sprintf(`Research the following topic and provide comprehensive findings:

Topic: %s

Please search for:
1. Latest information and trends
2. Official sources and documentation
3. Research papers or authoritative articles
4. Key statistics and data points
5. Expert opinions and analysis

Provide structured output with:
- Key Findings (bullet points)
- Sources (URLs with descriptions)
- Confidence Level for each finding
- Areas needing additional research`, task)
}

// parseResearchOutput structures the reply. The findings and sources
// extractors are naive line scanners over the expected output format;
// the full reply is always retained under raw_response.
func (a *ResearchAgent) parseResearchOutput(resp llm.Response) map[string]any {
	parsed := a.ParseResponse(resp)

	out := map[string]any{
		"findings":                   extractBullets(parsed.Output, "Key Findings"),
		"sources":                    extractBullets(parsed.Output, "Sources"),
		"confidence":                 "high",
		"additional_research_needed": extractBullets(parsed.Output, "Additional Research"),
		"raw_response":               parsed.Output,
	}
	if parsed.TokenUsage != nil {
		out["token_usage"] = parsed.TokenUsage
	}
	return out
}

// extractBullets returns the bullet lines following a named section
// heading, stopping at the next heading or blank gap. A placeholder
// heuristic over the requested output format.
func extractBullets(text, section string) []string {
	bullets := []string{}
	idx := strings.Index(text, section)
	if idx < 0 {
		return bullets
	}

	lines := strings.Split(text[idx:], "\n")
	for _, line := range lines[1:] {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			bullets = append(bullets, strings.TrimSpace(trimmed[2:]))
		case trimmed == "":
			continue
		default:
			return bullets
		}
	}
	return bullets
}
