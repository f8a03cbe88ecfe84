// Command research executes the research agent against a free-text topic
// and prints the structured findings.
//
// Usage:
//
//	research [flags] <topic>
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/term"

	"hypeproof/pkg/agent"
	"hypeproof/pkg/agents"
	"hypeproof/pkg/config"
	"hypeproof/pkg/logx"
	"hypeproof/pkg/metrics"
	"hypeproof/pkg/registry"
)

func main() {
	var configDir string
	var model string
	var metricsAddr string
	var prometheusURL string
	var showUsage bool
	var showHelp bool

	flag.StringVar(&configDir, "config", "", "Configuration directory containing agents.yaml (optional)")
	flag.StringVar(&model, "model", "", "Model override (e.g. claude-sonnet-4-20250514, gpt-4o, ollama:llama3)")
	flag.StringVar(&metricsAddr, "metrics", "", "Serve Prometheus metrics on this address while running (e.g. :9091)")
	flag.StringVar(&prometheusURL, "prometheus-url", "http://localhost:9090", "Prometheus server for -usage queries")
	flag.BoolVar(&showUsage, "usage", false, "Print aggregated token and cost usage from Prometheus and exit")
	flag.BoolVar(&showHelp, "help", false, "Show help")
	flag.Usage = printUsage
	flag.Parse()

	if showHelp {
		printUsage()
		return
	}
	if showUsage {
		if err := printAgentUsage(prometheusURL); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}
	topic := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if topic == "" {
		fmt.Fprintln(os.Stderr, "Error: research topic is required")
		os.Exit(1)
	}

	if err := run(configDir, model, metricsAddr, topic); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configDir, model, metricsAddr, topic string) error {
	logger := logx.NewLogger("research_command")

	agentCfg, err := resolveAgentConfig(configDir, model)
	if err != nil {
		return err
	}

	if err := loadSecrets(); err != nil {
		return err
	}

	var recorder agent.MetricsRecorder = metrics.NewInternalRecorder()
	if metricsAddr != "" {
		recorder = metrics.NewPrometheusRecorder()
		serveMetrics(metricsAddr, logger)
	}

	reg := registry.New()
	if err := agents.RegisterDefaults(reg, recorder); err != nil {
		return err
	}

	instance, err := reg.GetAgent(agents.ResearchAgentName, agentCfg)
	if err != nil {
		return err
	}

	logger.Event(logx.LevelInfo, "research_command_started", logx.Fields{
		"topic": topic,
		"model": agentCfg.Model,
	})

	ctx, cancel := context.WithTimeout(context.Background(), agentCfg.TimeoutDuration())
	defer cancel()

	result := instance.Execute(ctx, topic, nil)

	logger.Event(logx.LevelInfo, "research_command_completed", logx.Fields{
		"topic":          topic,
		"status":         string(result.Status),
		"execution_time": result.ExecutionTime.Seconds(),
	})

	printResult(topic, result)
	if result.Status != agent.StatusSuccess {
		return fmt.Errorf("research failed: %s", result.ErrorMessage)
	}
	return nil
}

// resolveAgentConfig loads the research agent's config from the config
// directory when one is given, falling back to defaults otherwise. A
// -model flag overrides either source.
func resolveAgentConfig(configDir, model string) (config.AgentConfig, error) {
	cfg := config.AgentConfig{
		Name:       agents.ResearchAgentName,
		Role:       "research",
		MaxRetries: config.DefaultMaxRetries,
		Timeout:    config.DefaultTimeoutSeconds,
		Model:      config.DefaultModel,
	}

	if configDir != "" {
		loader, err := config.NewLoader(configDir)
		if err != nil {
			return cfg, err
		}
		loaded, err := loader.LoadAgents()
		if err != nil {
			return cfg, err
		}
		if fromFile, ok := loaded[agents.ResearchAgentName]; ok {
			cfg = fromFile
		}
	}

	if model != "" {
		cfg.Model = model
	}
	return cfg, nil
}

// loadSecrets decrypts the project secrets file into memory when one
// exists and stdin is a terminal to prompt on. Without a secrets file,
// credentials resolve from the environment.
func loadSecrets() error {
	projectDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}
	if !config.SecretsFileExists(projectDir) {
		return nil
	}
	if !term.IsTerminal(int(syscall.Stdin)) {
		return nil
	}

	fmt.Fprint(os.Stderr, "Secrets password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	secrets, err := config.DecryptSecretsFile(projectDir, string(password))
	if err != nil {
		return err
	}
	config.SetDecryptedSecrets(secrets)
	return nil
}

// serveMetrics exposes the default Prometheus registry on addr for the
// lifetime of the process, so long runs can be scraped.
func serveMetrics(addr string, logger *logx.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	logger.Event(logx.LevelInfo, "metrics_server_started", logx.Fields{"addr": addr})
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Event(logx.LevelWarn, "metrics_server_stopped", logx.Fields{"error": err.Error()})
		}
	}()
}

// printAgentUsage queries a Prometheus server for the research agent's
// accumulated token and cost counters and prints them per model.
func printAgentUsage(prometheusURL string) error {
	svc, err := metrics.NewQueryService(prometheusURL)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	usage, err := svc.GetAgentUsage(ctx, agents.ResearchAgentName)
	if err != nil {
		return err
	}
	byModel, err := svc.GetAgentUsageByModel(ctx, agents.ResearchAgentName)
	if err != nil {
		return err
	}

	fmt.Printf("Usage for %s\n", usage.Agent)
	fmt.Printf("  Tokens: %d (input: %d, output: %d)\n", usage.TotalTokens, usage.InputTokens, usage.OutputTokens)
	fmt.Printf("  Cost:   $%.4f\n", usage.TotalCost)
	for name, m := range byModel {
		fmt.Printf("  %s: %d tokens, $%.4f\n", name, m.TotalTokens, m.TotalCost)
	}
	return nil
}

func printResult(topic string, result agent.Result) {
	divider := strings.Repeat("=", 80)
	fmt.Printf("\n%s\nResearch Results: %s\n%s\n\n", divider, topic, divider)

	if result.Status != agent.StatusSuccess {
		fmt.Printf("Error: %s\n", result.ErrorMessage)
		return
	}

	if m, ok := result.Output.(map[string]any); ok {
		if raw, ok := m["raw_response"].(string); ok && raw != "" {
			fmt.Println(raw)
		} else {
			fmt.Printf("%v\n", result.Output)
		}
	} else {
		fmt.Printf("%v\n", result.Output)
	}

	fmt.Printf("\nExecution time: %.2fs\n", result.ExecutionTime.Seconds())
	if result.TokenUsage != nil {
		fmt.Printf("Tokens used: %d (input: %d, output: %d)\n",
			result.TokenUsage.TotalTokens,
			result.TokenUsage.InputTokens,
			result.TokenUsage.OutputTokens)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: research [flags] <topic>

Executes the research agent against a free-text topic and prints the
structured findings.

Flags:
  -config <dir>         Configuration directory containing agents.yaml
  -model <name>         Model override (claude-*, gpt-*, gemini-*, ollama:*)
  -metrics <addr>       Serve Prometheus metrics on this address while running
  -usage                Print aggregated usage from Prometheus and exit
  -prometheus-url <url> Prometheus server for -usage (default http://localhost:9090)
  -help                 Show this help

Example:
  research "Latest AI trends in 2025"
  research -model ollama:llama3 "Latest AI trends in 2025"
  research -metrics :9091 "Latest AI trends in 2025"
  research -usage -prometheus-url http://localhost:9090
`)
}
