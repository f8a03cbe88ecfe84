// Package logx provides structured event logging for agent executions.
// Events are named records with key-value fields; every field passes
// through a processor pipeline (secret scrubbing by default) before it is
// rendered.
package logx

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Fields holds the key-value payload of a structured event.
type Fields map[string]any

// Processor transforms event fields before emission. Processors must not
// assume exclusive ownership of the map they receive; they return the map
// to use (which may be the same one).
type Processor func(Fields) Fields

// LogEntry is a captured log record, kept in the in-memory buffer.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	AgentID   string `json:"agent_id"`
	Level     string `json:"level"`
	Event     string `json:"event"`
	Message   string `json:"message"`
}

// InMemoryLogBuffer stores recent log entries for inspection (tests, UIs).
type InMemoryLogBuffer struct {
	entries []LogEntry
	mutex   sync.RWMutex
	maxSize int
}

//nolint:gochecknoglobals // Shared buffer mirrors process-wide log stream.
var logBuffer = &InMemoryLogBuffer{
	entries: make([]LogEntry, 0),
	maxSize: 1000,
}

// AddLogEntry appends an entry, dropping the oldest past capacity.
func (b *InMemoryLogBuffer) AddLogEntry(entry *LogEntry) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.entries = append(b.entries, *entry)
	if len(b.entries) > b.maxSize {
		b.entries = b.entries[len(b.entries)-b.maxSize:]
	}
}

// GetLogEntries returns a copy of the buffered entries, optionally
// filtered by event name.
func (b *InMemoryLogBuffer) GetLogEntries(event string) []LogEntry {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	filtered := make([]LogEntry, 0, len(b.entries))
	for i := range b.entries {
		if event != "" && b.entries[i].Event != event {
			continue
		}
		filtered = append(filtered, b.entries[i])
	}
	return filtered
}

// RecentEntries returns buffered entries for the given event name
// ("" matches all).
func RecentEntries(event string) []LogEntry {
	return logBuffer.GetLogEntries(event)
}

// ResetBuffer clears the shared log buffer. Test helper.
func ResetBuffer() {
	logBuffer.mutex.Lock()
	defer logBuffer.mutex.Unlock()
	logBuffer.entries = logBuffer.entries[:0]
}

// Logger emits structured events scoped to one agent id.
type Logger struct {
	agentID    string
	logger     *log.Logger
	processors []Processor
}

// NewLogger creates a logger for the given agent id with the default
// scrubbing pipeline attached.
func NewLogger(agentID string) *Logger {
	return &Logger{
		agentID:    agentID,
		logger:     log.New(os.Stderr, "", 0), // stderr keeps stdout clean for CLI output
		processors: []Processor{ScrubSecrets},
	}
}

// WithProcessors returns a logger that runs the given processors after the
// existing pipeline.
func (l *Logger) WithProcessors(procs ...Processor) *Logger {
	return &Logger{
		agentID:    l.agentID,
		logger:     l.logger,
		processors: append(append([]Processor{}, l.processors...), procs...),
	}
}

// WithAgentID returns a logger bound to a different agent id, sharing the
// output sink and pipeline.
func (l *Logger) WithAgentID(agentID string) *Logger {
	return &Logger{
		agentID:    agentID,
		logger:     l.logger,
		processors: l.processors,
	}
}

func (l *Logger) GetAgentID() string {
	return l.agentID
}

// Event emits one structured event. Field order in the rendered line is
// deterministic (sorted by key) so log lines are diffable.
func (l *Logger) Event(level Level, event string, fields Fields) {
	if level == LevelDebug && !debugEnabled() {
		return
	}

	processed := Fields{}
	for k, v := range fields {
		processed[k] = v
	}
	for _, proc := range l.processors {
		processed = proc(processed)
	}

	keys := make([]string, 0, len(processed))
	for k := range processed {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(event)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, processed[k])
	}
	message := sb.String()

	timestamp := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
	l.logger.Printf("[%s] [%s] %s: %s", timestamp, l.agentID, level, message)

	logBuffer.AddLogEntry(&LogEntry{
		Timestamp: timestamp,
		AgentID:   l.agentID,
		Level:     string(level),
		Event:     event,
		Message:   message,
	})
}

//nolint:gochecknoglobals // Env-derived switch, read once.
var (
	debugOnce sync.Once
	debugOn   bool
)

func debugEnabled() bool {
	debugOnce.Do(func() {
		debug := os.Getenv("DEBUG")
		debugOn = debug == "1" || strings.EqualFold(debug, "true")
	})
	return debugOn
}
