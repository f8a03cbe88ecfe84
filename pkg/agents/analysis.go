package agents

import (
	"context"
	"fmt"
	"strings"

	"hypeproof/pkg/agent"
	"hypeproof/pkg/agent/llm"
)

// AnalysisAgentName is the registry key for the analysis agent.
const AnalysisAgentName = "analysis_agent"

const analysisSystemPrompt = `You are an analysis specialist focused on synthesizing research findings into actionable insights.

Your responsibilities:
1. Extract key themes and patterns from research data
2. Identify trends and correlations in findings
3. Generate structured analysis reports with clear sections
4. Provide data-driven insights with supporting evidence
5. Prioritize findings by relevance and impact

Output Format:
Your response should be structured as follows:
- **Key Themes**: Main themes identified (3-5 themes)
- **Patterns**: Patterns and trends discovered with evidence
- **Insights**: Data-driven insights with supporting data
- **Summary**: Concise analysis summary (2-3 sentences)
- **Recommendations**: Actionable recommendations based on analysis

Always support insights with evidence and indicate confidence levels.`

//nolint:gochecknoglobals
var analysisTools = []string{"Read", "Grep"}

// AnalysisAgent synthesizes research data into themes, patterns,
// insights, and recommendations.
type AnalysisAgent struct {
	*agent.BaseAgent
}

// NewAnalysisAgent constructs the analysis agent.
func NewAnalysisAgent(opts ...agent.Option) (*AnalysisAgent, error) {
	base, err := agent.NewBaseAgent(AnalysisAgentName, analysisSystemPrompt, analysisTools, opts...)
	if err != nil {
		return nil, err
	}
	a := &AnalysisAgent{BaseAgent: base}
	base.SetTaskExecutor(a)
	return a, nil
}

// ExecuteTask runs one analysis task. Research data is read from the
// task context under "research_data" when present.
func (a *AnalysisAgent) ExecuteTask(ctx context.Context, task string, taskContext map[string]any) (any, error) {
	var researchData any
	if taskContext != nil {
		researchData = taskContext["research_data"]
	}

	prompt := a.buildAnalysisPrompt(task, researchData)

	resp, err := a.Client().Query(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return a.parseAnalysisResponse(resp), nil
}

func (a *AnalysisAgent) buildAnalysisPrompt(task string, researchData any) string {
	parts := []string{
		"Analyze the following and provide comprehensive insights:",
		"",
		fmt.Sprintf("Analysis Request: %s", task),
	}

	if researchData != nil {
		parts = append(parts,
			"",
			"Research Data to Analyze:",
			fmt.Sprintf("%v", researchData),
		)
	}

	parts = append(parts,
		"",
		"Please provide:",
		"1. Key Themes (3-5 main themes)",
		"2. Patterns (trends and correlations with evidence)",
		"3. Insights (data-driven with supporting data)",
		"4. Summary (concise 2-3 sentence overview)",
		"5. Recommendations (actionable next steps)",
		"",
		"For each finding, indicate confidence level (high/medium/low).",
	)

	return strings.Join(parts, "\n")
}

// parseAnalysisResponse structures the reply. The extractors below are
// placeholder heuristics gated on substring checks; they carry no real
// parsing algorithm and exist as pluggable post-processors.
func (a *AnalysisAgent) parseAnalysisResponse(resp llm.Response) map[string]any {
	parsed := a.ParseResponse(resp)

	out := map[string]any{
		"themes":          extractThemes(parsed.Output),
		"patterns":        identifyPatterns(parsed.Output),
		"insights":        extractInsights(parsed.Output),
		"summary":         extractSummary(parsed.Output),
		"recommendations": extractRecommendations(parsed.Output),
		"raw_response":    parsed.Output,
	}
	if parsed.TokenUsage != nil {
		out["token_usage"] = parsed.TokenUsage
	}
	return out
}

func extractThemes(text string) []string {
	if themes := extractBullets(text, "Key Themes"); len(themes) > 0 {
		return themes
	}
	if strings.Contains(text, "Key Themes") {
		return []string{"Theme extraction pending"}
	}
	return []string{}
}

func identifyPatterns(text string) []map[string]any {
	patterns := []map[string]any{}
	if strings.Contains(text, "Pattern") {
		patterns = append(patterns, map[string]any{
			"pattern":    "Pattern analysis pending",
			"evidence":   []string{},
			"confidence": "medium",
		})
	}
	return patterns
}

func extractInsights(text string) []map[string]any {
	insights := []map[string]any{}
	if strings.Contains(text, "Insight") {
		insights = append(insights, map[string]any{
			"insight":         "Insight extraction pending",
			"supporting_data": []string{},
			"confidence":      "medium",
		})
	}
	return insights
}

func extractSummary(text string) string {
	if text == "" {
		return ""
	}
	return "Summary extraction pending"
}

func extractRecommendations(text string) []string {
	recommendations := []string{}
	if strings.Contains(text, "Recommendation") {
		recommendations = append(recommendations, "Recommendation extraction pending")
	}
	return recommendations
}
