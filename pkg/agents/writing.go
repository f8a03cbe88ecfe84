package agents

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"hypeproof/pkg/agent"
	"hypeproof/pkg/agent/llm"
)

// WritingAgentName is the registry key for the writing agent.
const WritingAgentName = "writing_agent"

const writingSystemPrompt = `You are a professional content writer and storyteller specializing in creating engaging, well-structured content.

Your responsibilities:
1. Create compelling narratives from research and analysis data
2. Adapt tone and style based on target audience (technical, general, executive)
3. Structure content with clear introduction, body, and conclusion
4. Use engaging language that maintains reader/listener interest
5. Format content appropriately for the target medium (podcast, article, docs)

Content Formats:
- **Podcast Scripts**: Conversational tone, natural speech patterns, clear host cues
- **Technical Articles**: Professional tone, clear explanations, code examples where relevant
- **Documentation**: Clear, concise, structured with headings and examples

Quality Standards:
- Clear narrative arc with engaging introduction
- Well-organized sections with logical flow
- Appropriate technical depth for target audience
- Engaging language that maintains interest
- Professional polish with attention to detail

Output Structure:
Your response should include:
- **Introduction**: Engaging hook and context setting
- **Main Content**: Well-organized body with clear sections
- **Conclusion**: Strong closing with key takeaways
- **Metadata**: Word count, tone, target audience

Always maintain professional quality while adapting to the specific format and audience needs.`

//nolint:gochecknoglobals
var writingTools = []string{"Write", "Edit"}

// Reading/speaking rate assumptions for time estimates.
const (
	readingWordsPerMinute  = 200
	speakingWordsPerMinute = 150
)

// headingPattern matches a markdown heading or bold section label line.
//
//nolint:gochecknoglobals // Compiled once, read-only.
var headingPattern = regexp.MustCompile(`^(?:\*\*|##\s*)([A-Z][^:\n*]+)(?:\*\*)?:?\s*$`)

// WritingAgent turns analysis data into finished content: podcast
// scripts, articles, or documentation.
type WritingAgent struct {
	*agent.BaseAgent
}

// NewWritingAgent constructs the writing agent.
func NewWritingAgent(opts ...agent.Option) (*WritingAgent, error) {
	base, err := agent.NewBaseAgent(WritingAgentName, writingSystemPrompt, writingTools, opts...)
	if err != nil {
		return nil, err
	}
	a := &WritingAgent{BaseAgent: base}
	base.SetTaskExecutor(a)
	return a, nil
}

// ExecuteTask runs one writing task. The task context may carry
// analysis_data, tone, audience, and format; unset values default to a
// professional technical article.
func (a *WritingAgent) ExecuteTask(ctx context.Context, task string, taskContext map[string]any) (any, error) {
	var analysisData any
	tone := "professional"
	audience := "technical"
	contentFormat := "article"

	if taskContext != nil {
		analysisData = taskContext["analysis_data"]
		if v, ok := taskContext["tone"].(string); ok && v != "" {
			tone = v
		}
		if v, ok := taskContext["audience"].(string); ok && v != "" {
			audience = v
		}
		if v, ok := taskContext["format"].(string); ok && v != "" {
			contentFormat = v
		}
	}

	prompt := a.buildWritingPrompt(task, analysisData, tone, audience, contentFormat)

	resp, err := a.Client().Query(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return a.parseWritingResponse(resp, contentFormat, tone, audience), nil
}

func (a *WritingAgent) buildWritingPrompt(task string, analysisData any, tone, audience, contentFormat string) string {
	parts := []string{
		"Create engaging content based on the following requirements:",
		"",
		fmt.Sprintf("Task: %s", task),
		fmt.Sprintf("Format: %s", contentFormat),
		fmt.Sprintf("Tone: %s", tone),
		fmt.Sprintf("Target Audience: %s", audience),
	}

	if analysisData != nil {
		parts = append(parts,
			"",
			"Source Material (Analysis Data):",
			fmt.Sprintf("%v", analysisData),
		)
	}

	if instructions := formatInstructions(contentFormat); instructions != "" {
		parts = append(parts, "", "Format-Specific Requirements:", instructions)
	}

	parts = append(parts,
		"",
		"Content Requirements:",
		"1. Create a compelling introduction that hooks the reader/listener",
		"2. Organize content into clear, logical sections",
		"3. Maintain consistent tone throughout",
		fmt.Sprintf("4. Adjust technical depth for %s audience", audience),
		"5. Include a strong conclusion with key takeaways",
		"6. Ensure content is engaging and maintains interest",
		"",
		"Please structure your response with clear sections:",
		"- Introduction",
		"- Main Content (organized into subsections)",
		"- Conclusion",
	)

	return strings.Join(parts, "\n")
}

func formatInstructions(contentFormat string) string {
	switch contentFormat {
	case "podcast_script":
		return `- Use conversational, natural speech patterns
- Include host cues and transitions in [brackets]
- Break complex ideas into digestible segments
- Use rhetorical questions to engage listeners
- Include clear section transitions
- Aim for 1500-2000 words (10-15 minutes spoken)`
	case "article":
		return `- Use professional but engaging tone
- Include clear headings and subheadings
- Use bullet points for key takeaways
- Include relevant examples or case studies
- Aim for 1200-1800 words
- Use active voice and clear language`
	case "documentation":
		return `- Use clear, concise language
- Include step-by-step instructions where applicable
- Use numbered lists for procedures
- Include examples for complex concepts
- Use consistent formatting
- Aim for clarity over creativity`
	default:
		return ""
	}
}

func (a *WritingAgent) parseWritingResponse(resp llm.Response, contentFormat, tone, audience string) map[string]any {
	parsed := a.ParseResponse(resp)
	content := parsed.Output

	sections := extractSections(content)
	sectionNames := make([]string, 0, len(sections))
	for name := range sections {
		sectionNames = append(sectionNames, name)
	}
	sort.Strings(sectionNames)

	out := map[string]any{
		"status":  "success",
		"content": content,
		"format":  contentFormat,
		"metadata": map[string]any{
			"word_count": len(strings.Fields(content)),
			"tone":       tone,
			"audience":   audience,
			"sections":   sectionNames,
		},
		"sections":     sections,
		"raw_response": content,
	}
	if parsed.TokenUsage != nil {
		out["token_usage"] = parsed.TokenUsage
	}
	return out
}

// extractSections splits content on markdown headings or bold labels.
// When no headings are found, the content is divided into thirds as
// introduction, main content, and conclusion.
func extractSections(content string) map[string]string {
	sections := make(map[string]string)

	var current string
	var body []string
	flush := func() {
		if current != "" {
			sections[current] = strings.TrimSpace(strings.Join(body, "\n"))
		}
		body = nil
	}
	for _, line := range strings.Split(content, "\n") {
		if match := headingPattern.FindStringSubmatch(strings.TrimSpace(line)); match != nil {
			flush()
			current = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(match[1]), " ", "_"))
			continue
		}
		body = append(body, line)
	}
	flush()

	if len(sections) == 0 {
		blocks := strings.Split(content, "\n\n")
		third := len(blocks) / 3
		sections = map[string]string{
			"introduction": strings.Join(blocks[:third], "\n\n"),
			"main_content": strings.Join(blocks[third:third*2], "\n\n"),
			"conclusion":   strings.Join(blocks[third*2:], "\n\n"),
		}
	}

	return sections
}

// ReadingTime estimates reading time in minutes, never below one.
func ReadingTime(wordCount int) int {
	return estimateMinutes(wordCount, readingWordsPerMinute)
}

// SpeakingTime estimates podcast speaking time in minutes, never below one.
func SpeakingTime(wordCount int) int {
	return estimateMinutes(wordCount, speakingWordsPerMinute)
}

func estimateMinutes(wordCount, wordsPerMinute int) int {
	minutes := (wordCount + wordsPerMinute/2) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
