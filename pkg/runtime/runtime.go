// Package runtime wires the configured providers, the ledger and the tool
// registry into a ready-to-run audit agent.
package runtime

import (
	"fmt"
	"log/slog"

	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/agent"
	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/config"
	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/embedders"
	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/ingest"
	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/ledger"
	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/llms"
	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/observability"
	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/tools"
	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/vector"
)

// Runtime owns every long-lived component of the audit agent process.
type Runtime struct {
	config   *config.Config
	llm      llms.LLMProvider
	embedder embedders.EmbedderProvider
	store    vector.Provider
	table    *ledger.Table
	registry *tools.ToolRegistry
	agent    *agent.Agent
	indexer  *ingest.Indexer
}

// New assembles a Runtime from validated configuration. Tool registration
// order is fixed: policy_retriever, email_search, ledger_analysis. The
// reasoning prompt lists tools in this order.
func New(cfg *config.Config) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	if cfg.Metrics.Enabled {
		metricsCfg := observability.MetricsConfig{Enabled: true, Port: cfg.Metrics.Port}
		if _, err := observability.InitMetrics(metricsCfg); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
		go observability.ServeMetrics(metricsCfg)
	}

	llm, err := llms.NewLLMRegistry().CreateLLMFromConfig("default", &cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}

	embedder, err := embedders.NewEmbedderRegistry().CreateEmbedderFromConfig("default", &cfg.Embedder)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	store, err := vector.NewProviderFromConfig(&cfg.Vector)
	if err != nil {
		return nil, fmt.Errorf("failed to create vector store: %w", err)
	}

	table, err := ledger.LoadFromFile(cfg.Ledger.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ledger: %w", err)
	}
	slog.Info("Ledger loaded", "path", cfg.Ledger.Path, "transactions", table.Len())

	registry := tools.NewToolRegistry()
	if err := registerTools(registry, cfg, embedder, store, table); err != nil {
		return nil, err
	}

	return &Runtime{
		config:   cfg,
		llm:      llm,
		embedder: embedder,
		store:    store,
		table:    table,
		registry: registry,
		agent:    agent.New(llm, registry, cfg.Agent.MaxIterations),
		indexer:  ingest.NewIndexer(embedder, store),
	}, nil
}

func registerTools(registry *tools.ToolRegistry, cfg *config.Config,
	embedder embedders.EmbedderProvider, store vector.Provider, table *ledger.Table) error {

	complianceCfg, ok := cfg.Corpora[config.DefaultComplianceCollection]
	if !ok {
		return fmt.Errorf("missing corpus config for %q", config.DefaultComplianceCollection)
	}
	emailsCfg, ok := cfg.Corpora[config.DefaultEmailsCollection]
	if !ok {
		return fmt.Errorf("missing corpus config for %q", config.DefaultEmailsCollection)
	}

	toRegister := []tools.Tool{
		tools.NewPolicyRetrieverTool(config.DefaultComplianceCollection, complianceCfg.TopK, embedder, store),
		tools.NewEmailSearchTool(config.DefaultEmailsCollection, emailsCfg.TopK, embedder, store),
		tools.NewLedgerAnalysisTool(table),
	}
	for _, tool := range toRegister {
		if err := registry.RegisterTool(tool); err != nil {
			return fmt.Errorf("failed to register tool %s: %w", tool.GetName(), err)
		}
	}
	return nil
}

func (r *Runtime) Agent() *agent.Agent {
	return r.agent
}

func (r *Runtime) Indexer() *ingest.Indexer {
	return r.indexer
}

func (r *Runtime) Tools() *tools.ToolRegistry {
	return r.registry
}

func (r *Runtime) Ledger() *ledger.Table {
	return r.table
}

func (r *Runtime) Config() *config.Config {
	return r.config
}

// Close releases every provider. The first error wins but all providers are
// still closed.
func (r *Runtime) Close() error {
	var firstErr error

	for _, closer := range []struct {
		name  string
		close func() error
	}{
		{"llm", r.llm.Close},
		{"embedder", r.embedder.Close},
		{"vector store", r.store.Close},
	} {
		if err := closer.close(); err != nil {
			slog.Warn("Failed to close component", "component", closer.name, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to close %s: %w", closer.name, err)
			}
		}
	}
	return firstErr
}
