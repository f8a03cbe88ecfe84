package logx

import "regexp"

// Credential-shaped substrings that must never reach a log sink.
//
//nolint:gochecknoglobals // Compiled once, read-only after init.
var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`sk-ant-[a-zA-Z0-9-]+`),       // Anthropic API keys
	regexp.MustCompile(`sk-[a-zA-Z0-9]{20,}`),        // OpenAI-style API keys
	regexp.MustCompile(`Bearer [a-zA-Z0-9_\-\.]+`),   // Bearer tokens
	regexp.MustCompile(`"api_key"\s*:\s*"[^"]+"`),    // JSON api_key fields
	regexp.MustCompile(`api_key=\S+`),                // key=value api_key fields
}

const redacted = "[REDACTED]"

// ScrubSecrets redacts credential-shaped substrings from every string
// field. Non-string values pass through untouched.
func ScrubSecrets(fields Fields) Fields {
	for key, value := range fields {
		s, ok := value.(string)
		if !ok {
			continue
		}
		for _, pattern := range secretPatterns {
			s = pattern.ReplaceAllString(s, redacted)
		}
		fields[key] = s
	}
	return fields
}
