package config

// Config is the root configuration for the audit agent process.
type Config struct {
	LLM      LLMProviderConfig        `yaml:"llm"`
	Embedder EmbedderProviderConfig   `yaml:"embedder"`
	Vector   VectorStoreConfig        `yaml:"vector"`
	Ledger   LedgerConfig             `yaml:"ledger"`
	Corpora  map[string]*CorpusConfig `yaml:"corpora"`
	Agent    AgentConfig              `yaml:"agent"`
	Metrics  MetricsConfig            `yaml:"metrics"`
}

// LLMProviderConfig configures the text-generation service.
type LLMProviderConfig struct {
	Type        string  `yaml:"type"`        // "gemini" or "ollama"
	Model       string  `yaml:"model"`
	Host        string  `yaml:"host"`
	APIKey      string  `yaml:"api_key"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	Timeout     int     `yaml:"timeout"` // seconds
}

// EmbedderProviderConfig configures the embedding service used for both
// ingestion and query-time retrieval. The same embedder must be used for
// both or similarity scores are meaningless.
type EmbedderProviderConfig struct {
	Type       string `yaml:"type"` // "ollama" or "openai"
	Model      string `yaml:"model"`
	Host       string `yaml:"host"`
	APIKey     string `yaml:"api_key"`
	Dimension  int    `yaml:"dimension"`
	Timeout    int    `yaml:"timeout"` // seconds
	MaxRetries int    `yaml:"max_retries"`
}

// VectorStoreConfig configures the vector index provider.
type VectorStoreConfig struct {
	Type        string `yaml:"type"` // "chromem" or "qdrant"
	PersistPath string `yaml:"persist_path,omitempty"`
	Compress    bool   `yaml:"compress,omitempty"`
	Host        string `yaml:"host,omitempty"`
	Port        int    `yaml:"port,omitempty"`
	APIKey      string `yaml:"api_key,omitempty"`
	UseTLS      bool   `yaml:"use_tls,omitempty"`
}

// LedgerConfig locates the transaction ledger file (CSV or XLSX).
type LedgerConfig struct {
	Path string `yaml:"path"`
}

// CorpusConfig describes one ingestable text corpus and its retrieval
// parameters. The key in Config.Corpora is the collection name.
type CorpusConfig struct {
	Path         string   `yaml:"path"`
	ChunkSize    int      `yaml:"chunk_size"`
	ChunkOverlap int      `yaml:"chunk_overlap"`
	Separators   []string `yaml:"separators,omitempty"`
	TopK         int      `yaml:"top_k"`
}

// AgentConfig configures the reasoning loop.
type AgentConfig struct {
	MaxIterations int `yaml:"max_iterations"`
}

// MetricsConfig configures the optional Prometheus metrics endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}
